package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	slogcontext "github.com/veqryn/slog-context"

	"github.com/timtebeek/maven-resolver/filter"
	"github.com/timtebeek/maven-resolver/internal/log"
	"github.com/timtebeek/maven-resolver/internal/ranking"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
)

var base = log.Realm("provider")

// ConnectorProviderOption configures a ConnectorProvider.
type ConnectorProviderOption func(*ConnectorProvider)

// WithConnectorFactories registers connector factories in the given order.
// Registration order is the tie breaker between factories of equal
// effective priority.
func WithConnectorFactories(factories ...transport.ConnectorFactory) ConnectorProviderOption {
	return func(p *ConnectorProvider) {
		p.factories = append(p.factories, factories...)
	}
}

// WithFilterManager sets the manager consulted for a session's remote
// repository filter. Without one, connectors are never decorated.
func WithFilterManager(manager filter.Manager) ConnectorProviderOption {
	return func(p *ConnectorProvider) {
		p.filters = manager
	}
}

// NewConnectorProvider creates a ConnectorProvider from the given options.
// The registered factory set is fixed afterwards; registering two factories
// with the same name is an error.
func NewConnectorProvider(opts ...ConnectorProviderOption) (*ConnectorProvider, error) {
	p := &ConnectorProvider{}
	for _, opt := range opts {
		opt(p)
	}
	seen := make(map[string]struct{}, len(p.factories))
	for _, factory := range p.factories {
		if _, ok := seen[factory.Name()]; ok {
			return nil, fmt.Errorf("connector factory %q registered twice", factory.Name())
		}
		seen[factory.Name()] = struct{}{}
	}
	p.factories = slices.Clone(p.factories)
	return p, nil
}

// ConnectorProvider obtains connectors for remote repositories from a fixed
// set of connector factories. It is safe for concurrent use.
type ConnectorProvider struct {
	factories []transport.ConnectorFactory
	filters   filter.Manager
}

// NewConnector obtains a connector for the given repository.
//
// Blocked repositories fail with a BlockedRepositoryError before any factory
// is consulted. Otherwise the enabled factories are tried in ranking order
// until one provides a connector; factories declining with
// transport.ErrRepositoryNotSupported are skipped, any other factory error
// is returned unchanged and ends the attempt. When all candidates decline,
// a NoConnectorError describes the full ranking.
//
// If the session has a remote repository filter, the returned connector
// enforces it.
func (p *ConnectorProvider) NewConnector(ctx context.Context, sess *session.Session, repo *repository.Remote) (connector transport.Connector, err error) {
	done := log.Operation(ctx, base, "select connector", log.RepositoryLogAttr(repo))
	defer func() { done(err) }()

	if repo.Blocked {
		return nil, &BlockedRepositoryError{Repository: repo}
	}

	var sessionFilter filter.Filter
	if p.filters != nil {
		sessionFilter = p.filters.FilterFor(sess)
	}

	ranked := ranking.Rank(sess, p.factories)

	var errs []error
	for _, candidate := range ranked.Enabled() {
		connector, err := candidate.Component.NewConnector(ctx, sess, repo)
		if err != nil {
			if errors.Is(err, transport.ErrRepositoryNotSupported) {
				base.DebugContext(ctx, "connector factory could not serve repository",
					slog.String("factory", candidate.Component.Name()),
					log.RepositoryLogAttr(repo),
					slog.String("error", err.Error()),
				)
				errs = append(errs, err)
				continue
			}
			return nil, err
		}

		traceSelection(ctx, "using connector", candidate.Component.Name(), candidate.Priority, repo)

		if sessionFilter != nil {
			return filter.NewConnector(repo, connector, sessionFilter), nil
		}
		return connector, nil
	}

	return nil, &NoConnectorError{
		Repository: repo,
		Listing:    ranked.String(),
		errs:       errs,
	}
}

// traceSelection emits the debug line describing a successful selection. All
// renderings are total and credentials appear redacted, the trace can never
// fail or alter the selection result.
func traceSelection(ctx context.Context, message, name string, priority float64, repo *repository.Remote) {
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs := []any{
		slog.String("factory", name),
		slog.Float64("priority", priority),
		slog.String("url", repo.URL),
	}
	if repo.Authentication != nil {
		attrs = append(attrs, slog.String("authentication", repo.Authentication.String()))
	}
	if proxy := repo.Proxy; proxy != nil {
		attrs = append(attrs, slog.String("proxy", proxy.String()))
		if proxy.Authentication != nil {
			attrs = append(attrs, slog.String("proxyAuthentication", proxy.Authentication.String()))
		}
	}
	slogcontext.Log(ctx, slog.LevelDebug, message, attrs...)
}
