package filter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timtebeek/maven-resolver/filter"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/transport"
)

// recordingConnector remembers which transfer items actually reached it.
type recordingConnector struct {
	gotArtifacts []string
	gotMetadata  []string
	putArtifacts []string
	closed       bool
}

var _ transport.Connector = (*recordingConnector)(nil)

func (c *recordingConnector) Get(_ context.Context, artifacts []*transport.ArtifactDownload, metadata []*transport.MetadataDownload) error {
	for _, download := range artifacts {
		c.gotArtifacts = append(c.gotArtifacts, download.Artifact.ArtifactID)
	}
	for _, download := range metadata {
		c.gotMetadata = append(c.gotMetadata, download.Metadata.ArtifactID)
	}
	return nil
}

func (c *recordingConnector) Put(_ context.Context, artifacts []*transport.ArtifactUpload, metadata []*transport.MetadataUpload) error {
	for _, upload := range artifacts {
		c.putArtifacts = append(c.putArtifacts, upload.Artifact.ArtifactID)
	}
	return nil
}

func (c *recordingConnector) Close() error {
	c.closed = true
	return nil
}

// denyList denies artifacts whose artifact ID is on the list.
type denyList []string

var _ filter.Filter = (denyList)(nil)

func (d denyList) AcceptArtifact(_ *repository.Remote, artifact transport.Artifact) filter.Result {
	for _, denied := range d {
		if artifact.ArtifactID == denied {
			return filter.Deny("artifact is on the deny list")
		}
	}
	return filter.Accept("artifact is not on the deny list")
}

func (d denyList) AcceptMetadata(_ *repository.Remote, metadata transport.Metadata) filter.Result {
	for _, denied := range d {
		if metadata.ArtifactID == denied {
			return filter.Deny("metadata is on the deny list")
		}
	}
	return filter.Accept("metadata is not on the deny list")
}

func download(artifactID string) *transport.ArtifactDownload {
	return &transport.ArtifactDownload{
		Artifact: transport.Artifact{GroupID: "com.example", ArtifactID: artifactID, Version: "1.0"},
	}
}

func repo() *repository.Remote {
	return &repository.Remote{ID: "central", URL: "https://repo.example.com"}
}

func TestConnector_AcceptAllIsInvisible(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	delegate := &recordingConnector{}
	decorated := filter.NewConnector(repo(), delegate, denyList{})

	downloads := []*transport.ArtifactDownload{download("a"), download("b")}
	metadata := []*transport.MetadataDownload{
		{Metadata: transport.Metadata{GroupID: "com.example", ArtifactID: "a", Kind: "maven-metadata.xml"}},
	}
	r.NoError(decorated.Get(ctx, downloads, metadata))

	assert.Equal(t, []string{"a", "b"}, delegate.gotArtifacts)
	assert.Equal(t, []string{"a"}, delegate.gotMetadata)
	for _, d := range downloads {
		assert.NoError(t, d.Err)
	}

	uploads := []*transport.ArtifactUpload{
		{Artifact: transport.Artifact{GroupID: "com.example", ArtifactID: "a", Version: "1.0"}},
	}
	r.NoError(decorated.Put(ctx, uploads, nil))
	assert.Equal(t, []string{"a"}, delegate.putArtifacts)
	assert.NoError(t, uploads[0].Err)
}

func TestConnector_DeniedItemsFailIndividually(t *testing.T) {
	r := require.New(t)

	delegate := &recordingConnector{}
	decorated := filter.NewConnector(repo(), delegate, denyList{"a"})

	a, b, d := download("a"), download("b"), download("d")
	r.NoError(decorated.Get(t.Context(), []*transport.ArtifactDownload{a, b, d}, nil))

	var exclusion *filter.ExclusionError
	r.ErrorAs(a.Err, &exclusion)
	assert.Equal(t, "artifact is on the deny list", exclusion.Reasoning)
	assert.Contains(t, a.Err.Error(), "excluded by filter")

	assert.NoError(t, b.Err)
	assert.NoError(t, d.Err)
	assert.Equal(t, []string{"b", "d"}, delegate.gotArtifacts,
		"denied items must not reach the delegate, accepted ones must")
}

func TestConnector_AllItemsDeniedSkipsDelegate(t *testing.T) {
	r := require.New(t)

	delegate := &recordingConnector{}
	decorated := filter.NewConnector(repo(), delegate, denyList{"a"})

	a := download("a")
	r.NoError(decorated.Get(t.Context(), []*transport.ArtifactDownload{a}, nil))

	assert.Error(t, a.Err)
	assert.Empty(t, delegate.gotArtifacts)
	assert.Empty(t, delegate.gotMetadata)
}

func TestConnector_UploadsAreNotFiltered(t *testing.T) {
	r := require.New(t)

	delegate := &recordingConnector{}
	decorated := filter.NewConnector(repo(), delegate, denyList{"a"})

	uploads := []*transport.ArtifactUpload{
		{Artifact: transport.Artifact{GroupID: "com.example", ArtifactID: "a", Version: "1.0"}},
	}
	r.NoError(decorated.Put(t.Context(), uploads, nil))

	assert.Equal(t, []string{"a"}, delegate.putArtifacts)
	assert.NoError(t, uploads[0].Err)
}

func TestConnector_CloseAlwaysReachesDelegate(t *testing.T) {
	delegate := &recordingConnector{}
	decorated := filter.NewConnector(repo(), delegate, denyList{"a"})

	require.NoError(t, decorated.Close())
	assert.True(t, delegate.closed)
}
