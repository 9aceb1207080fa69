package transport

import (
	"context"
	"errors"

	"github.com/timtebeek/maven-resolver/blob"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
)

// ErrRepositoryNotSupported is returned by connector factories that cannot
// serve a given repository, for example because no transport can reach its
// URL or its content type is foreign to the factory. It is supposed to be
// joined with a factory specific error describing what exactly was not
// supported.
var ErrRepositoryNotSupported = errors.New("repository not supported")

// ErrSchemeNotSupported is returned by transporter factories when the
// repository URL scheme is not one they implement. It is supposed to be
// joined with a transporter specific error naming the scheme.
var ErrSchemeNotSupported = errors.New("repository URL scheme not supported")

// ErrResourceNotFound is returned by transporters when the addressed
// resource does not exist in the repository. It is supposed to be joined
// with the original transport specific error.
var ErrResourceNotFound = errors.New("resource not found")

// Connector transfers artifacts and metadata to and from exactly one remote
// repository.
//
// Batch calls report per-item outcomes through the Err field of each
// transfer item; the returned error is reserved for failures that affect the
// batch as a whole. Items of one batch are independent, the failure of one
// never prevents the others from being attempted.
type Connector interface {
	// Get retrieves the given artifacts and metadata from the repository.
	Get(ctx context.Context, artifacts []*ArtifactDownload, metadata []*MetadataDownload) error
	// Put stores the given artifacts and metadata in the repository.
	Put(ctx context.Context, artifacts []*ArtifactUpload, metadata []*MetadataUpload) error
	// Close releases any resources held by the connector. A closed
	// connector must not be used for further transfers.
	Close() error
}

// ConnectorFactory constructs connectors for remote repositories.
type ConnectorFactory interface {
	// Name identifies the factory in priority overrides, disable lists and
	// diagnostics. Names must be unique within one provider.
	Name() string
	// Priority ranks the factory among its peers. Factories with higher
	// priority are tried first.
	Priority() float64
	// NewConnector constructs a connector for the given repository. A
	// factory that cannot serve the repository returns an error matching
	// ErrRepositoryNotSupported. Construction is expected to be fast and
	// local; callers impose deadlines through ctx if they need them.
	NewConnector(ctx context.Context, sess *session.Session, repo *repository.Remote) (Connector, error)
}

// Transporter moves single resources between a repository and blobs.
// Resources are addressed by their repository-relative path.
type Transporter interface {
	// Peek checks that the resource at path exists without transferring
	// its content. A missing resource yields an error matching
	// ErrResourceNotFound.
	Peek(ctx context.Context, path string) error
	// Get retrieves the resource at path. A missing resource yields an
	// error matching ErrResourceNotFound.
	Get(ctx context.Context, path string) (blob.ReadOnlyBlob, error)
	// Put stores source as the resource at path.
	Put(ctx context.Context, path string, source blob.ReadOnlyBlob) error
	// Close releases any resources held by the transporter.
	Close() error
}

// TransporterFactory constructs transporters for remote repositories.
type TransporterFactory interface {
	// Name identifies the factory in priority overrides, disable lists and
	// diagnostics. Names must be unique within one provider.
	Name() string
	// Priority ranks the factory among its peers. Factories with higher
	// priority are tried first.
	Priority() float64
	// NewTransporter constructs a transporter for the given repository. A
	// factory that cannot serve the repository URL scheme returns an error
	// matching ErrSchemeNotSupported.
	NewTransporter(ctx context.Context, sess *session.Session, repo *repository.Remote) (Transporter, error)
}
