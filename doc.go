// Package resolver wires the repository transport stack together with its
// standard components.
//
// The stack has three layers. At the top, a [provider.ConnectorProvider]
// selects a connector for each (session, repository) pair from the
// registered connector factories, honoring per-session priorities, disabled
// factories, repository blocking and remote repository filtering. In the
// middle, the basic connector moves transfer batches concurrently and
// verifies checksums. At the bottom, transporters speak the actual
// protocols, file:// against directories or tar archives and http(s)://
// against remote servers.
//
// NewConnectorProvider assembles all of that with the standard factories and
// filter sources preregistered, so that
//
//	connectorProvider, err := resolver.NewConnectorProvider()
//
// is a working production setup. Options add custom factories and filter
// sources on top. Components stay individually usable for callers that want
// to assemble their own stack.
package resolver
