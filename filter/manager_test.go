package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timtebeek/maven-resolver/filter"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
)

// staticSource contributes a fixed filter, or nothing when inactive.
type staticSource struct {
	filter filter.Filter
}

func (s staticSource) FilterFor(*session.Session) filter.Filter {
	return s.filter
}

func artifact(artifactID string) transport.Artifact {
	return transport.Artifact{GroupID: "com.example", ArtifactID: artifactID, Version: "1.0"}
}

func TestManager_NoParticipatingSourceMeansNoFilter(t *testing.T) {
	sess := session.New()

	assert.Nil(t, filter.NewManager().FilterFor(sess))
	assert.Nil(t, filter.NewManager(staticSource{}, staticSource{}).FilterFor(sess))
}

func TestManager_SingleSourcePassesItsFilterThrough(t *testing.T) {
	deny := denyList{"a"}

	f := filter.NewManager(staticSource{filter: deny}, staticSource{}).FilterFor(session.New())
	require.NotNil(t, f)

	assert.False(t, f.AcceptArtifact(repo(), artifact("a")).Accepted)
	assert.True(t, f.AcceptArtifact(repo(), artifact("b")).Accepted)
}

func TestManager_ConjunctionFirstDenialWins(t *testing.T) {
	f := filter.NewManager(
		staticSource{filter: denyList{"a"}},
		staticSource{filter: denyList{"b"}},
	).FilterFor(session.New())
	require.NotNil(t, f)

	denied := f.AcceptArtifact(repo(), artifact("a"))
	assert.False(t, denied.Accepted)
	assert.Equal(t, "artifact is on the deny list", denied.Reasoning)

	alsoDenied := f.AcceptArtifact(repo(), artifact("b"))
	assert.False(t, alsoDenied.Accepted)

	accepted := f.AcceptArtifact(repo(), artifact("c"))
	assert.True(t, accepted.Accepted)

	acceptedMetadata := f.AcceptMetadata(repo(), transport.Metadata{ArtifactID: "c", Kind: "maven-metadata.xml"})
	assert.True(t, acceptedMetadata.Accepted)
}
