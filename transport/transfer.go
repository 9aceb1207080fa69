package transport

import (
	"github.com/timtebeek/maven-resolver/blob"
)

// ArtifactDownload describes one artifact to retrieve from a repository.
type ArtifactDownload struct {
	Artifact Artifact
	// Target receives the artifact content.
	Target blob.WriteableBlob
	// Err records the outcome of this item after the batch call returns.
	// Nil means the download succeeded.
	Err error
}

// ArtifactUpload describes one artifact to store in a repository.
type ArtifactUpload struct {
	Artifact Artifact
	// Source provides the artifact content.
	Source blob.ReadOnlyBlob
	// Err records the outcome of this item after the batch call returns.
	// Nil means the upload succeeded.
	Err error
}

// MetadataDownload describes one piece of metadata to retrieve from a
// repository.
type MetadataDownload struct {
	Metadata Metadata
	// Target receives the metadata content.
	Target blob.WriteableBlob
	// Err records the outcome of this item after the batch call returns.
	// Nil means the download succeeded.
	Err error
}

// MetadataUpload describes one piece of metadata to store in a repository.
type MetadataUpload struct {
	Metadata Metadata
	// Source provides the metadata content.
	Source blob.ReadOnlyBlob
	// Err records the outcome of this item after the batch call returns.
	// Nil means the upload succeeded.
	Err error
}
