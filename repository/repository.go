// Package repository holds the description of remote repositories that
// connectors transfer artifacts to and from.
package repository

import (
	"fmt"
	"strings"
)

// Remote describes a repository reachable over some transport. A Remote is
// treated as immutable once handed to a provider; callers that need a
// variant should build a new value.
type Remote struct {
	// ID identifies the repository in configuration and diagnostics.
	ID string
	// URL locates the repository root. The URL scheme decides which
	// transporters can serve the repository.
	URL string
	// ContentType names the repository content layout. Connector factories
	// may decline repositories whose content type they cannot serve. Empty
	// means DefaultContentType.
	ContentType string
	// Blocked marks a repository that must never be contacted. Resolution
	// against a blocked repository fails before any factory is invoked.
	Blocked bool
	// MirroredRepositories lists the repositories this repository mirrors,
	// if it acts as a mirror. Used for diagnostics only.
	MirroredRepositories []*Remote
	// Authentication holds credentials for the repository, if any.
	Authentication *Authentication
	// Proxy routes repository traffic through a proxy, if set.
	Proxy *Proxy
}

// DefaultContentType is assumed for repositories that do not declare one.
const DefaultContentType = "default"

// EffectiveContentType returns the declared content type, or
// DefaultContentType if none is set.
func (r *Remote) EffectiveContentType() string {
	if r.ContentType == "" {
		return DefaultContentType
	}
	return r.ContentType
}

// String renders the repository as "id (url)". Credentials never appear in
// the rendering.
func (r *Remote) String() string {
	return fmt.Sprintf("%s (%s)", r.ID, r.URL)
}

// Describe renders a list of repositories the way String renders a single
// one, for use in diagnostics about mirrors.
func Describe(repositories []*Remote) string {
	rendered := make([]string, 0, len(repositories))
	for _, repository := range repositories {
		rendered = append(rendered, repository.String())
	}
	return "[" + strings.Join(rendered, ", ") + "]"
}

// Authentication carries basic credentials for a repository or proxy.
type Authentication struct {
	Username string
	Password string
}

// String renders the authentication with the secret redacted.
func (a *Authentication) String() string {
	return fmt.Sprintf("username=%s, password=***", a.Username)
}

// Proxy describes a proxy server that repository traffic is routed through.
type Proxy struct {
	// Type is the proxy protocol, usually "http" or "https". Empty means
	// "http".
	Type string
	Host string
	Port int
	// Authentication holds credentials for the proxy itself, if any.
	Authentication *Authentication
}

// URL renders the proxy address as a URL string.
func (p *Proxy) URL() string {
	scheme := p.Type
	if scheme == "" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, p.Host, p.Port)
}

// String renders the proxy as "host:port" for diagnostics.
func (p *Proxy) String() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}
