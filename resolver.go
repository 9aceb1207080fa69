package resolver

import (
	"fmt"

	"github.com/timtebeek/maven-resolver/connector/basic"
	"github.com/timtebeek/maven-resolver/filter"
	"github.com/timtebeek/maven-resolver/filter/patterns"
	"github.com/timtebeek/maven-resolver/filter/prefixes"
	"github.com/timtebeek/maven-resolver/provider"
	"github.com/timtebeek/maven-resolver/transport"
	"github.com/timtebeek/maven-resolver/transport/file"
	"github.com/timtebeek/maven-resolver/transport/http"
)

// Option adds components on top of the standard stack assembled by
// NewConnectorProvider.
type Option func(*options)

type options struct {
	connectorFactories   []transport.ConnectorFactory
	transporterFactories []transport.TransporterFactory
	filterSources        []filter.Source
}

// WithConnectorFactories registers additional connector factories next to
// the basic one.
func WithConnectorFactories(factories ...transport.ConnectorFactory) Option {
	return func(o *options) {
		o.connectorFactories = append(o.connectorFactories, factories...)
	}
}

// WithTransporterFactories registers additional transporter factories next
// to the file and HTTP ones.
func WithTransporterFactories(factories ...transport.TransporterFactory) Option {
	return func(o *options) {
		o.transporterFactories = append(o.transporterFactories, factories...)
	}
}

// WithFilterSources registers additional filter sources next to the prefix
// and pattern ones.
func WithFilterSources(sources ...filter.Source) Option {
	return func(o *options) {
		o.filterSources = append(o.filterSources, sources...)
	}
}

// NewConnectorProvider assembles a connector provider with the standard
// stack: the basic connector over file and HTTP transporters, and remote
// repository filtering from prefix files and coordinate patterns.
func NewConnectorProvider(opts ...Option) (*provider.ConnectorProvider, error) {
	o := &options{
		transporterFactories: []transport.TransporterFactory{
			file.NewFactory(),
			http.NewFactory(),
		},
		filterSources: []filter.Source{
			prefixes.NewSource(),
			patterns.NewSource(),
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	transporters, err := provider.NewTransporterProvider(
		provider.WithTransporterFactories(o.transporterFactories...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble transporter provider: %w", err)
	}

	connectorFactories := append(
		[]transport.ConnectorFactory{basic.NewFactory(transporters)},
		o.connectorFactories...,
	)
	return provider.NewConnectorProvider(
		provider.WithConnectorFactories(connectorFactories...),
		provider.WithFilterManager(filter.NewManager(o.filterSources...)),
	)
}
