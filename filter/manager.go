package filter

import (
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
)

// Manager resolves the filter that applies to a session.
type Manager interface {
	// FilterFor returns the filter for the session, or nil when no
	// filtering applies.
	FilterFor(sess *session.Session) Filter
}

// Source contributes a filter for sessions that enable it.
type Source interface {
	// FilterFor returns this source's filter for the session, or nil when
	// the source is not enabled for it.
	FilterFor(sess *session.Session) Filter
}

// NewManager returns a Manager aggregating the given sources. The filter for
// a session is the conjunction of all participating source filters; the
// first denial wins and supplies the reasoning. Sessions for which no source
// participates get no filter.
func NewManager(sources ...Source) *DefaultManager {
	return &DefaultManager{sources: sources}
}

// DefaultManager aggregates filter sources. See NewManager.
type DefaultManager struct {
	sources []Source
}

var _ Manager = (*DefaultManager)(nil)

func (m *DefaultManager) FilterFor(sess *session.Session) Filter {
	var participants []Filter
	for _, source := range m.sources {
		if f := source.FilterFor(sess); f != nil {
			participants = append(participants, f)
		}
	}
	switch len(participants) {
	case 0:
		return nil
	case 1:
		return participants[0]
	default:
		return conjunction(participants)
	}
}

type conjunction []Filter

var _ Filter = (conjunction)(nil)

func (c conjunction) AcceptArtifact(repo *repository.Remote, artifact transport.Artifact) Result {
	for _, f := range c {
		if result := f.AcceptArtifact(repo, artifact); !result.Accepted {
			return result
		}
	}
	return Accept("accepted by all filters")
}

func (c conjunction) AcceptMetadata(repo *repository.Remote, metadata transport.Metadata) Result {
	for _, f := range c {
		if result := f.AcceptMetadata(repo, metadata); !result.Accepted {
			return result
		}
	}
	return Accept("accepted by all filters")
}
