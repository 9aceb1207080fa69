// Package provider selects working transport implementations for remote
// repositories.
//
// The [ConnectorProvider] is the entry point of artifact transfers. Given a
// session and a remote repository it picks the first connector factory that
// can actually serve the repository and returns that factory's connector,
// wrapped with remote repository filtering when the session has a filter
// configured.
//
// Selection works on a ranking of the registered factories. Every factory
// declares a priority; sessions may override priorities per factory name and
// may disable factories entirely. Candidates are tried from the highest
// effective priority downwards. A factory that declines the repository with
// [transport.ErrRepositoryNotSupported] is skipped and the next candidate is
// tried; any other construction error aborts selection immediately and is
// returned to the caller as is.
//
// Failures are precise. A blocked repository fails with
// [BlockedRepositoryError] before any factory is invoked. When every
// candidate declined, the returned [NoConnectorError] renders the complete
// factory ranking so a reader of the message can see which factories were
// considered, with which priorities, and which were disabled. When exactly
// one candidate recorded a failure, that failure is the error's unwrapped
// cause; with several failures no single cause is singled out, they stay
// available through [NoConnectorError.Failures].
//
// The [TransporterProvider] applies the same selection to transporter
// factories, keyed by the repository URL scheme. It backs the basic
// connector but can be used on its own.
//
// Providers are immutable once constructed. The factory set is fixed at
// construction time, so resolution calls take no locks and can run
// concurrently.
package provider
