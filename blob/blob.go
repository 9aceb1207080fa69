package blob

import (
	"io"
)

// Blob is a Binary Large Object that can be interacted with for both
// reading and writing. It is the unit of content moved by transporters
// and connectors.
type Blob interface {
	ReadOnlyBlob
	WriteableBlob
}

// ReadOnlyBlob is a Binary Large Object that can be read.
type ReadOnlyBlob interface {
	// ReadCloser returns a reader to incrementally access byte stream content.
	// It is the caller's responsibility to close the reader.
	//
	// ReadCloser MUST be safe for concurrent use, serializing access as necessary.
	// ReadCloser MUST be able to be called multiple times, with each invocation
	// returning a new reader that starts from the beginning of the blob.
	ReadCloser() (io.ReadCloser, error)
}

// WriteableBlob is a Binary Large Object that can be written to.
type WriteableBlob interface {
	// WriteCloser returns a writer to incrementally write byte stream content.
	// It is the caller's responsibility to close the writer.
	//
	// WriteCloser MUST be safe for concurrent use, serializing access as necessary.
	WriteCloser() (io.WriteCloser, error)
}

// SizeUnknown is returned by SizeAware implementations that cannot
// determine their size.
const SizeUnknown int64 = -1

// SizeAware is implemented by blobs that know their size in bytes.
type SizeAware interface {
	// Size returns the blob size in bytes if known.
	// If the size is unknown, it MUST return SizeUnknown.
	Size() (size int64)
}

// DigestAware is implemented by blobs that can report a digest of their
// content.
type DigestAware interface {
	// Digest returns the blob digest if known.
	Digest() (digest string, known bool)
}

// MediaTypeAware is implemented by blobs that carry a media type.
// Transporters use it to set content types on uploads without sniffing.
type MediaTypeAware interface {
	// MediaType returns the media type of the blob if known.
	MediaType() (mediaType string, known bool)
}
