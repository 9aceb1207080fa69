// Package http provides a transporter for http:// and https:// repositories.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/timtebeek/maven-resolver/blob"
	"github.com/timtebeek/maven-resolver/blob/inmemory"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
)

const (
	// KeyConnectTimeout configures how long establishing a connection may
	// take, as a duration string.
	KeyConnectTimeout = "resolver.http.connectTimeout"
	// KeyRequestTimeout configures how long a whole request may take, as a
	// duration string.
	KeyRequestTimeout = "resolver.http.requestTimeout"

	DefaultConnectTimeout = 30 * time.Second
	DefaultRequestTimeout = 30 * time.Minute
)

// DefaultPriority is the declared priority of the factory.
const DefaultPriority = 5

const userAgent = "maven-resolver-go"

// NewFactory returns a transporter factory serving http:// and https://
// repositories.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{priority: DefaultPriority}
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

// Factory creates HTTP transporters.
type Factory struct {
	priority float64
}

var _ transport.TransporterFactory = (*Factory)(nil)

func (f *Factory) Name() string {
	return "http"
}

func (f *Factory) Priority() float64 {
	return f.priority
}

func (f *Factory) NewTransporter(_ context.Context, sess *session.Session, repo *repository.Remote) (transport.Transporter, error) {
	parsed, err := url.Parse(repo.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid repository URL %q: %w", repo.URL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("http transport cannot serve scheme %q: %w", parsed.Scheme, transport.ErrSchemeNotSupported)
	}

	dialer := &net.Dialer{Timeout: sess.Duration(KeyConnectTimeout, DefaultConnectTimeout)}
	roundTripper := &http.Transport{
		DialContext:       dialer.DialContext,
		ForceAttemptHTTP2: true,
	}
	if repo.Proxy != nil {
		proxyURL, err := url.Parse(repo.Proxy.URL())
		if err != nil {
			return nil, fmt.Errorf("invalid proxy address %q: %w", repo.Proxy.URL(), err)
		}
		if auth := repo.Proxy.Authentication; auth != nil {
			proxyURL.User = url.UserPassword(auth.Username, auth.Password)
		}
		roundTripper.Proxy = http.ProxyURL(proxyURL)
	}

	return &Transporter{
		baseURL: repo.URL,
		auth:    repo.Authentication,
		client: &http.Client{
			Transport: roundTripper,
			Timeout:   sess.Duration(KeyRequestTimeout, DefaultRequestTimeout),
		},
		transport: roundTripper,
	}, nil
}

// Transporter serves resources below an HTTP repository root.
type Transporter struct {
	baseURL   string
	auth      *repository.Authentication
	client    *http.Client
	transport *http.Transport
}

var _ transport.Transporter = (*Transporter)(nil)

func (t *Transporter) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	requestURL, err := url.JoinPath(t.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve resource URL for %q: %w", path, err)
	}
	request, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request for %q: %w", method, path, err)
	}
	request.Header.Set("User-Agent", userAgent)
	if t.auth != nil {
		request.SetBasicAuth(t.auth.Username, t.auth.Password)
	}
	return request, nil
}

func (t *Transporter) Peek(ctx context.Context, path string) error {
	request, err := t.newRequest(ctx, http.MethodHead, path, nil)
	if err != nil {
		return err
	}
	response, err := t.client.Do(request)
	if err != nil {
		return fmt.Errorf("failed to check resource at %q: %w", path, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()
	return t.checkStatus(response, path)
}

func (t *Transporter) Get(ctx context.Context, path string) (blob.ReadOnlyBlob, error) {
	request, err := t.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	response, err := t.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource at %q: %w", path, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()
	if err := t.checkStatus(response, path); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource at %q: %w", path, err)
	}
	opts := []inmemory.Option{inmemory.WithSize(int64(len(data)))}
	if contentType := response.Header.Get("Content-Type"); contentType != "" {
		opts = append(opts, inmemory.WithMediaType(contentType))
	}
	return inmemory.New(bytes.NewReader(data), opts...), nil
}

func (t *Transporter) Put(ctx context.Context, path string, source blob.ReadOnlyBlob) error {
	reader, err := source.ReadCloser()
	if err != nil {
		return fmt.Errorf("failed to open source for %q: %w", path, err)
	}
	defer func() {
		_ = reader.Close()
	}()
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read source for %q: %w", path, err)
	}

	request, err := t.newRequest(ctx, http.MethodPut, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", contentTypeOf(source, data))

	response, err := t.client.Do(request)
	if err != nil {
		return fmt.Errorf("failed to put resource at %q: %w", path, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()
	return t.checkStatus(response, path)
}

func (t *Transporter) Close() error {
	t.transport.CloseIdleConnections()
	return nil
}

func (t *Transporter) checkStatus(response *http.Response, path string) error {
	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		return nil
	case response.StatusCode == http.StatusNotFound:
		return fmt.Errorf("no resource at %q: %w", path, transport.ErrResourceNotFound)
	default:
		return fmt.Errorf("unexpected status %q for resource at %q", response.Status, path)
	}
}

// contentTypeOf returns the media type declared by the source blob, falling
// back to content sniffing.
func contentTypeOf(source blob.ReadOnlyBlob, data []byte) string {
	if aware, ok := source.(blob.MediaTypeAware); ok {
		if mediaType, known := aware.MediaType(); known {
			return mediaType
		}
	}
	return mimetype.Detect(data).String()
}
