package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/timtebeek/maven-resolver/internal/log"
	"github.com/timtebeek/maven-resolver/internal/ranking"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
)

// TransporterProviderOption configures a TransporterProvider.
type TransporterProviderOption func(*TransporterProvider)

// WithTransporterFactories registers transporter factories in the given
// order. Registration order is the tie breaker between factories of equal
// effective priority.
func WithTransporterFactories(factories ...transport.TransporterFactory) TransporterProviderOption {
	return func(p *TransporterProvider) {
		p.factories = append(p.factories, factories...)
	}
}

// NewTransporterProvider creates a TransporterProvider from the given
// options. The registered factory set is fixed afterwards; registering two
// factories with the same name is an error.
func NewTransporterProvider(opts ...TransporterProviderOption) (*TransporterProvider, error) {
	p := &TransporterProvider{}
	for _, opt := range opts {
		opt(p)
	}
	seen := make(map[string]struct{}, len(p.factories))
	for _, factory := range p.factories {
		if _, ok := seen[factory.Name()]; ok {
			return nil, fmt.Errorf("transporter factory %q registered twice", factory.Name())
		}
		seen[factory.Name()] = struct{}{}
	}
	p.factories = slices.Clone(p.factories)
	return p, nil
}

// TransporterProvider obtains transporters for remote repositories from a
// fixed set of transporter factories. It is safe for concurrent use.
type TransporterProvider struct {
	factories []transport.TransporterFactory
}

// NewTransporter obtains a transporter for the given repository. The enabled
// factories are tried in ranking order until one provides a transporter;
// factories declining with transport.ErrSchemeNotSupported are skipped, any
// other factory error is returned unchanged and ends the attempt. When all
// candidates decline, a NoTransporterError describes the full ranking.
func (p *TransporterProvider) NewTransporter(ctx context.Context, sess *session.Session, repo *repository.Remote) (transport.Transporter, error) {
	ranked := ranking.Rank(sess, p.factories)

	var errs []error
	for _, candidate := range ranked.Enabled() {
		transporter, err := candidate.Component.NewTransporter(ctx, sess, repo)
		if err != nil {
			if errors.Is(err, transport.ErrSchemeNotSupported) {
				base.DebugContext(ctx, "transporter factory could not serve repository",
					slog.String("factory", candidate.Component.Name()),
					log.RepositoryLogAttr(repo),
					slog.String("error", err.Error()),
				)
				errs = append(errs, err)
				continue
			}
			return nil, err
		}

		traceSelection(ctx, "using transporter", candidate.Component.Name(), candidate.Priority, repo)

		return transporter, nil
	}

	return nil, &NoTransporterError{
		Repository: repo,
		Listing:    ranked.String(),
		errs:       errs,
	}
}
