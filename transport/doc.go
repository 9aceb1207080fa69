// Package transport defines the service provider interface between artifact
// resolution and the wire.
//
// Two layers of contracts live here. A [Connector] moves batches of artifact
// and metadata transfers for exactly one remote repository and reports
// per-item outcomes on the transfer items themselves. A [Transporter] is the
// layer below, moving one resource at a time between a repository root and
// blobs, addressed by repository-relative paths.
//
// Implementations are discovered through explicit registration of their
// factories. A [ConnectorFactory] that cannot serve a given repository
// declines it with an error matching [ErrRepositoryNotSupported]; a
// [TransporterFactory] declines unsupported URL schemes with
// [ErrSchemeNotSupported]. Declining is an expected, recoverable answer that
// lets selection move on to the next candidate. Any other construction error
// is a fault and aborts selection.
package transport
