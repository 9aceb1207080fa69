// Package memory provides a map backed transporter. It is mainly used as a
// lightweight stand-in for real transports in tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/timtebeek/maven-resolver/blob"
	"github.com/timtebeek/maven-resolver/blob/inmemory"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
)

// Scheme is the repository URL scheme served by this transporter.
const Scheme = "memory"

// NewStore returns an empty in-memory resource tree.
func NewStore() *Store {
	return &Store{resources: map[string][]byte{}}
}

// Store is an in-memory resource tree shared by all transporters of one
// factory. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	resources map[string][]byte
}

// Put stores data under the given repository-relative path.
func (s *Store) Put(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[path] = bytes.Clone(data)
}

// Get returns the data stored under the given path.
func (s *Store) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.resources[path]
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

// Len returns the number of stored resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.resources)
}

// NewFactory returns a transporter factory serving memory:// repositories
// from the given store.
func NewFactory(store *Store, opts ...FactoryOption) *Factory {
	f := &Factory{store: store}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithPriority sets the factory priority. The default is zero.
func WithPriority(priority float64) FactoryOption {
	return func(f *Factory) {
		f.priority = priority
	}
}

// Factory creates memory transporters.
type Factory struct {
	store    *Store
	priority float64
}

var _ transport.TransporterFactory = (*Factory)(nil)

func (f *Factory) Name() string {
	return "memory"
}

func (f *Factory) Priority() float64 {
	return f.priority
}

func (f *Factory) NewTransporter(_ context.Context, _ *session.Session, repo *repository.Remote) (transport.Transporter, error) {
	parsed, err := url.Parse(repo.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid repository URL %q: %w", repo.URL, err)
	}
	if parsed.Scheme != Scheme {
		return nil, fmt.Errorf("memory transport cannot serve scheme %q: %w", parsed.Scheme, transport.ErrSchemeNotSupported)
	}
	return &Transporter{store: f.store}, nil
}

// Transporter serves resources from a Store.
type Transporter struct {
	store *Store
}

var _ transport.Transporter = (*Transporter)(nil)

func (t *Transporter) Peek(_ context.Context, path string) error {
	if _, ok := t.store.Get(path); !ok {
		return fmt.Errorf("no resource at %q: %w", path, transport.ErrResourceNotFound)
	}
	return nil
}

func (t *Transporter) Get(_ context.Context, path string) (blob.ReadOnlyBlob, error) {
	data, ok := t.store.Get(path)
	if !ok {
		return nil, fmt.Errorf("no resource at %q: %w", path, transport.ErrResourceNotFound)
	}
	return inmemory.New(bytes.NewReader(data), inmemory.WithSize(int64(len(data)))), nil
}

func (t *Transporter) Put(_ context.Context, path string, source blob.ReadOnlyBlob) error {
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
	t.store.Put(path, data)
	return nil
}

func (t *Transporter) Close() error {
	return nil
}
