// Package basic provides the standard connector implementation. It moves
// transfer batches over a single transporter obtained from a transporter
// provider, lays items out in standard repository paths, and verifies
// downloads against their remote checksum companions.
package basic

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/timtebeek/maven-resolver/internal/log"
	"github.com/timtebeek/maven-resolver/provider"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
)

const (
	// KeyThreads configures how many transfers of one batch run in
	// parallel. Defaults to the number of CPUs.
	KeyThreads = "resolver.basic.threads"

	// KeyChecksumPolicy configures what happens when a downloaded resource
	// cannot be verified against its remote checksum companion. One of
	// PolicyFail, PolicyWarn, PolicyIgnore. Defaults to PolicyWarn.
	KeyChecksumPolicy = "resolver.checksums"

	// PolicyFail fails the download on missing or mismatching checksums.
	PolicyFail = "fail"
	// PolicyWarn logs a warning and accepts the download.
	PolicyWarn = "warn"
	// PolicyIgnore skips verification entirely.
	PolicyIgnore = "ignore"
)

// DefaultPriority is the declared priority of the factory.
const DefaultPriority = 0

var base = log.Realm("basic")

// NewFactory returns the basic connector factory drawing transporters from
// the given provider.
func NewFactory(transporters *provider.TransporterProvider, opts ...FactoryOption) *Factory {
	f := &Factory{
		transporters: transporters,
		priority:     DefaultPriority,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithPriority overrides the declared priority of the factory.
func WithPriority(priority float64) FactoryOption {
	return func(f *Factory) {
		f.priority = priority
	}
}

// Factory creates basic connectors.
type Factory struct {
	transporters *provider.TransporterProvider
	priority     float64
}

var _ transport.ConnectorFactory = (*Factory)(nil)

func (f *Factory) Name() string {
	return "basic"
}

func (f *Factory) Priority() float64 {
	return f.priority
}

// NewConnector obtains a transporter for the repository and wraps it in a
// connector. Repositories with a foreign content layout and repositories no
// transporter factory can reach are declined as not supported; transporter
// construction faults pass through unchanged.
func (f *Factory) NewConnector(ctx context.Context, sess *session.Session, repo *repository.Remote) (transport.Connector, error) {
	if contentType := repo.EffectiveContentType(); contentType != repository.DefaultContentType {
		return nil, errors.Join(
			fmt.Errorf("basic connector cannot serve content type %q of %s", contentType, repo),
			transport.ErrRepositoryNotSupported,
		)
	}

	transporter, err := f.transporters.NewTransporter(ctx, sess, repo)
	if err != nil {
		var exhausted *provider.NoTransporterError
		if errors.As(err, &exhausted) {
			return nil, errors.Join(
				fmt.Errorf("basic connector has no transport for %s", repo),
				err,
				transport.ErrRepositoryNotSupported,
			)
		}
		return nil, err
	}

	return &Connector{
		repository:     repo,
		transporter:    transporter,
		threads:        max(sess.Int(KeyThreads, runtime.NumCPU()), 1),
		checksumPolicy: sess.String(KeyChecksumPolicy, PolicyWarn),
	}, nil
}
