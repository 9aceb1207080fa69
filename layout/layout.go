// Package layout maps artifacts and metadata to their standard repository
// paths.
package layout

import (
	"strings"

	"github.com/timtebeek/maven-resolver/transport"
)

// ArtifactPath returns the repository-relative path of an artifact:
// the group segments, artifact id and version as directories, followed by
// "artifactId-version[-classifier].extension".
func ArtifactPath(a transport.Artifact) string {
	var path strings.Builder
	path.WriteString(strings.ReplaceAll(a.GroupID, ".", "/"))
	path.WriteString("/")
	path.WriteString(a.ArtifactID)
	path.WriteString("/")
	path.WriteString(a.Version)
	path.WriteString("/")
	path.WriteString(a.ArtifactID)
	path.WriteString("-")
	path.WriteString(a.Version)
	if a.Classifier != "" {
		path.WriteString("-")
		path.WriteString(a.Classifier)
	}
	path.WriteString(".")
	path.WriteString(a.EffectiveExtension())
	return path.String()
}

// MetadataPath returns the repository-relative path of metadata. Coordinate
// fields narrow the path from repository root down to version level; an
// empty field ends the directory part.
func MetadataPath(m transport.Metadata) string {
	var path strings.Builder
	if m.GroupID != "" {
		path.WriteString(strings.ReplaceAll(m.GroupID, ".", "/"))
		path.WriteString("/")
		if m.ArtifactID != "" {
			path.WriteString(m.ArtifactID)
			path.WriteString("/")
			if m.Version != "" {
				path.WriteString(m.Version)
				path.WriteString("/")
			}
		}
	}
	path.WriteString(m.Kind)
	return path.String()
}
