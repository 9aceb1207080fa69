// Package filter decides which artifacts and metadata may be served from
// which remote repositories, and enforces those decisions around connectors.
package filter

import (
	"fmt"

	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/transport"
)

// Filter gives per-item verdicts on whether content may be served from a
// remote repository. Implementations must be safe for concurrent use.
type Filter interface {
	// AcceptArtifact decides whether the artifact may be served from the
	// repository.
	AcceptArtifact(repo *repository.Remote, artifact transport.Artifact) Result
	// AcceptMetadata decides whether the metadata may be served from the
	// repository.
	AcceptMetadata(repo *repository.Remote, metadata transport.Metadata) Result
}

// Result is a single filter verdict.
type Result struct {
	Accepted bool
	// Reasoning explains the verdict for diagnostics.
	Reasoning string
}

// Accept returns an accepting Result with the given reasoning.
func Accept(reasoning string) Result {
	return Result{Accepted: true, Reasoning: reasoning}
}

// Deny returns a denying Result with the given reasoning.
func Deny(reasoning string) Result {
	return Result{Accepted: false, Reasoning: reasoning}
}

// ExclusionError is the per-item failure recorded on transfers denied by a
// filter. It never fails a whole batch.
type ExclusionError struct {
	// Item holds the rendered coordinates of the denied item.
	Item string
	// Repository holds the rendered repository the item was denied for.
	Repository string
	// Reasoning is the filter's explanation for the denial.
	Reasoning string
}

func (e *ExclusionError) Error() string {
	return fmt.Sprintf("%s in %s excluded by filter: %s", e.Item, e.Repository, e.Reasoning)
}
