package transport

import (
	"strings"
)

// Artifact identifies a single artifact by its coordinates.
type Artifact struct {
	GroupID    string
	ArtifactID string
	Version    string
	// Classifier distinguishes artifacts built from the same sources, such
	// as "sources" or "javadoc". Usually empty.
	Classifier string
	// Extension is the file extension of the artifact, such as "jar" or
	// "pom". Empty means "jar".
	Extension string
}

// DefaultExtension is assumed for artifacts that do not declare one.
const DefaultExtension = "jar"

// EffectiveExtension returns the declared extension, or DefaultExtension if
// none is set.
func (a Artifact) EffectiveExtension() string {
	if a.Extension == "" {
		return DefaultExtension
	}
	return a.Extension
}

// String renders the artifact coordinates as
// groupId:artifactId:extension[:classifier]:version.
func (a Artifact) String() string {
	parts := []string{a.GroupID, a.ArtifactID, a.EffectiveExtension()}
	if a.Classifier != "" {
		parts = append(parts, a.Classifier)
	}
	parts = append(parts, a.Version)
	return strings.Join(parts, ":")
}

// Metadata identifies repository metadata at group, artifact or version
// level. Empty coordinate fields widen the scope, all empty addresses
// repository root metadata.
type Metadata struct {
	GroupID    string
	ArtifactID string
	Version    string
	// Kind is the file name of the metadata, such as "maven-metadata.xml".
	Kind string
}

// String renders the metadata coordinates and kind.
func (m Metadata) String() string {
	coordinates := make([]string, 0, 3)
	for _, part := range []string{m.GroupID, m.ArtifactID, m.Version} {
		if part != "" {
			coordinates = append(coordinates, part)
		}
	}
	if len(coordinates) == 0 {
		return m.Kind
	}
	return strings.Join(coordinates, ":") + "/" + m.Kind
}
