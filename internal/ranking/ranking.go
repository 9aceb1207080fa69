// Package ranking orders pluggable components by priority for one session.
package ranking

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/timtebeek/maven-resolver/session"
)

// Component is a pluggable component that can be ranked. Its name keys
// session priority overrides and disable lists.
type Component interface {
	Name() string
	Priority() float64
}

// Ranked pairs a component with its effective state for one session.
type Ranked[T Component] struct {
	Component T
	// Priority is the effective priority, the session override if one is
	// configured, the declared priority otherwise.
	Priority float64
	// Disabled marks components on the session's disable list.
	Disabled bool
}

// Ranking is an immutable ordering of components for one session.
type Ranking[T Component] struct {
	all     []*Ranked[T]
	enabled []*Ranked[T]
}

// Rank orders components by effective priority, highest first. Components
// with equal effective priority keep their registration order, so ranking
// the same inputs is deterministic.
func Rank[T Component](sess *session.Session, components []T) *Ranking[T] {
	all := make([]*Ranked[T], 0, len(components))
	for _, component := range components {
		priority := component.Priority()
		if override, ok := sess.PriorityOverride(component.Name()); ok {
			priority = override
		}
		all = append(all, &Ranked[T]{
			Component: component,
			Priority:  priority,
			Disabled:  sess.Disabled(component.Name()),
		})
	}
	slices.SortStableFunc(all, func(a, b *Ranked[T]) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	enabled := make([]*Ranked[T], 0, len(all))
	for _, ranked := range all {
		if !ranked.Disabled {
			enabled = append(enabled, ranked)
		}
	}
	return &Ranking[T]{all: all, enabled: enabled}
}

// Empty reports whether no components were registered at all. A ranking
// whose components are all disabled is not empty.
func (r *Ranking[T]) Empty() bool {
	return len(r.all) == 0
}

// Enabled returns the enabled components in rank order.
func (r *Ranking[T]) Enabled() []*Ranked[T] {
	return r.enabled
}

// String renders every component with its name, effective priority and
// disabled state on a single line for diagnostics.
func (r *Ranking[T]) String() string {
	var rendered strings.Builder
	for i, ranked := range r.all {
		if i > 0 {
			rendered.WriteString(", ")
		}
		fmt.Fprintf(&rendered, "%s (priority=%v", ranked.Component.Name(), ranked.Priority)
		if ranked.Disabled {
			rendered.WriteString(", disabled")
		}
		rendered.WriteString(")")
	}
	return rendered.String()
}
