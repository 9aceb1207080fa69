package filter

import (
	"context"

	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/transport"
)

// NewConnector wraps delegate so that every download is checked against f
// before it reaches the repository. Denied items fail individually with an
// ExclusionError carrying the filter's reasoning; accepted items pass
// through untouched, independent of the verdicts on their batch peers.
// Uploads are not subject to filtering and always reach the delegate.
func NewConnector(repo *repository.Remote, delegate transport.Connector, f Filter) *Connector {
	return &Connector{
		repository: repo,
		delegate:   delegate,
		filter:     f,
	}
}

// Connector enforces a Filter around a delegate connector.
type Connector struct {
	repository *repository.Remote
	delegate   transport.Connector
	filter     Filter
}

var _ transport.Connector = (*Connector)(nil)

func (c *Connector) Get(ctx context.Context, artifacts []*transport.ArtifactDownload, metadata []*transport.MetadataDownload) error {
	acceptedArtifacts := make([]*transport.ArtifactDownload, 0, len(artifacts))
	for _, download := range artifacts {
		result := c.filter.AcceptArtifact(c.repository, download.Artifact)
		if result.Accepted {
			acceptedArtifacts = append(acceptedArtifacts, download)
			continue
		}
		download.Err = &ExclusionError{
			Item:       download.Artifact.String(),
			Repository: c.repository.String(),
			Reasoning:  result.Reasoning,
		}
	}

	acceptedMetadata := make([]*transport.MetadataDownload, 0, len(metadata))
	for _, download := range metadata {
		result := c.filter.AcceptMetadata(c.repository, download.Metadata)
		if result.Accepted {
			acceptedMetadata = append(acceptedMetadata, download)
			continue
		}
		download.Err = &ExclusionError{
			Item:       download.Metadata.String(),
			Repository: c.repository.String(),
			Reasoning:  result.Reasoning,
		}
	}

	if len(acceptedArtifacts) == 0 && len(acceptedMetadata) == 0 {
		return nil
	}
	return c.delegate.Get(ctx, acceptedArtifacts, acceptedMetadata)
}

func (c *Connector) Put(ctx context.Context, artifacts []*transport.ArtifactUpload, metadata []*transport.MetadataUpload) error {
	return c.delegate.Put(ctx, artifacts, metadata)
}

// Close always closes the delegate, filtering never detaches disposal.
func (c *Connector) Close() error {
	return c.delegate.Close()
}
