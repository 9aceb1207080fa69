package provider

import (
	"fmt"
	"slices"

	"github.com/timtebeek/maven-resolver/repository"
)

// BlockedRepositoryError is returned when resolution is attempted against a
// blocked repository. No connector factory is ever invoked for it.
type BlockedRepositoryError struct {
	// Repository is the blocked repository.
	Repository *repository.Remote
}

func (e *BlockedRepositoryError) Error() string {
	if len(e.Repository.MirroredRepositories) > 0 {
		return "Blocked mirror for repositories: " + repository.Describe(e.Repository.MirroredRepositories)
	}
	return "Blocked repository: " + e.Repository.String()
}

// NoConnectorError is returned when no registered connector factory could
// provide a connector for a repository.
type NoConnectorError struct {
	// Repository is the repository no connector could be obtained for.
	Repository *repository.Remote
	// Listing renders every registered factory with its effective priority
	// and disabled state. Empty when no factories are registered at all.
	Listing string

	errs []error
}

func (e *NoConnectorError) Error() string {
	if e.Listing == "" {
		return "No connector factories available"
	}
	return fmt.Sprintf("Cannot access %s with type %s using the available connector factories: %s",
		e.Repository.URL, e.Repository.EffectiveContentType(), e.Listing)
}

// Unwrap returns the single underlying candidate failure if exactly one was
// recorded. With zero or several failures there is no single cause; use
// Failures for the full record.
func (e *NoConnectorError) Unwrap() error {
	if len(e.errs) == 1 {
		return e.errs[0]
	}
	return nil
}

// Failures returns all recorded candidate failures in the order the
// candidates were tried.
func (e *NoConnectorError) Failures() []error {
	return slices.Clone(e.errs)
}

// NoTransporterError is returned when no registered transporter factory
// could provide a transporter for a repository.
type NoTransporterError struct {
	// Repository is the repository no transporter could be obtained for.
	Repository *repository.Remote
	// Listing renders every registered factory with its effective priority
	// and disabled state. Empty when no factories are registered at all.
	Listing string

	errs []error
}

func (e *NoTransporterError) Error() string {
	if e.Listing == "" {
		return "No transporter factories available"
	}
	return fmt.Sprintf("Cannot access %s using the available transporter factories: %s",
		e.Repository.URL, e.Listing)
}

// Unwrap returns the single underlying candidate failure if exactly one was
// recorded. With zero or several failures there is no single cause; use
// Failures for the full record.
func (e *NoTransporterError) Unwrap() error {
	if len(e.errs) == 1 {
		return e.errs[0]
	}
	return nil
}

// Failures returns all recorded candidate failures in the order the
// candidates were tried.
func (e *NoTransporterError) Failures() []error {
	return slices.Clone(e.errs)
}
