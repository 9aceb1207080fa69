// Package session carries the per-resolution configuration that parameterizes
// connector selection, transports and filtering.
package session

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"sigs.k8s.io/yaml"
)

const (
	// KeyPriorityPrefix prefixes per-component priority overrides. The
	// property "resolver.priority.<name>" holds a numeric priority that
	// replaces the declared priority of the component with that name.
	KeyPriorityPrefix = "resolver.priority."

	// KeyDisabled holds a comma separated list of component names that are
	// disabled for the session.
	KeyDisabled = "resolver.disabled"
)

// PriorityKey returns the property key holding the priority override for the
// named component.
func PriorityKey(name string) string {
	return KeyPriorityPrefix + name
}

// Session is an immutable bag of configuration properties. A Session is safe
// for concurrent use; all mutation happens through options at construction.
type Session struct {
	properties map[string]string
}

// Option configures a Session created by New.
type Option func(*Session)

// WithProperty sets a single configuration property.
func WithProperty(key, value string) Option {
	return func(s *Session) {
		s.properties[key] = value
	}
}

// WithProperties sets all given configuration properties.
func WithProperties(properties map[string]string) Option {
	return func(s *Session) {
		maps.Copy(s.properties, properties)
	}
}

// New creates a Session from the given options.
func New(opts ...Option) *Session {
	s := &Session{properties: map[string]string{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromYAML creates a Session from a YAML document holding a flat mapping of
// property keys to values.
func FromYAML(data []byte, opts ...Option) (*Session, error) {
	var properties map[string]string
	if err := yaml.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session properties: %w", err)
	}
	return New(append([]Option{WithProperties(properties)}, opts...)...), nil
}

// Properties returns a copy of all configuration properties.
func (s *Session) Properties() map[string]string {
	return maps.Clone(s.properties)
}

// String returns the property under key, or def if unset.
func (s *Session) String(key, def string) string {
	if value, ok := s.properties[key]; ok {
		return value
	}
	return def
}

// Bool returns the property under key parsed as a boolean, or def if unset
// or unparseable.
func (s *Session) Bool(key string, def bool) bool {
	value, ok := s.properties[key]
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

// Int returns the property under key parsed as an integer, or def if unset
// or unparseable.
func (s *Session) Int(key string, def int) int {
	value, ok := s.properties[key]
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

// Float returns the property under key parsed as a float, or def if unset or
// unparseable.
func (s *Session) Float(key string, def float64) float64 {
	value, ok := s.properties[key]
	if !ok {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

// Duration returns the property under key parsed as a [time.Duration], or
// def if unset or unparseable.
func (s *Session) Duration(key string, def time.Duration) time.Duration {
	value, ok := s.properties[key]
	if !ok {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

// Strings returns the property under key split on commas with surrounding
// whitespace trimmed. Unset or empty properties yield nil.
func (s *Session) Strings(key string) []string {
	value, ok := s.properties[key]
	if !ok || value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// PriorityOverride returns the priority override configured for the named
// component, if any.
func (s *Session) PriorityOverride(name string) (float64, bool) {
	value, ok := s.properties[PriorityKey(name)]
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// Disabled reports whether the named component appears on the session's
// disable list.
func (s *Session) Disabled(name string) bool {
	for _, disabled := range s.Strings(KeyDisabled) {
		if disabled == name {
			return true
		}
	}
	return false
}
