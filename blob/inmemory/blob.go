package inmemory

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/opencontainers/go-digest"

	"github.com/timtebeek/maven-resolver/blob"
)

// New wraps a given [io.Reader] so it can be used as a [blob.ReadOnlyBlob].
// The reader is consumed at most once, on first access; the data is kept in
// memory so the blob supports repeated independent reads along with size and
// digest reporting. Use WithSize, WithDigest or WithMediaType when this
// information is known in advance.
func New(r io.Reader, opts ...Option) *Blob {
	b := &Blob{
		source:    r,
		size:      blob.SizeUnknown,
		mediaType: "application/octet-stream",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Option configures a Blob created by New.
type Option func(*Blob)

// WithSize sets the expected size of the blob in advance. Loading reads at
// most this many bytes from the source.
func WithSize(size int64) Option {
	return func(b *Blob) {
		b.size = size
	}
}

// WithDigest sets the expected digest of the blob in advance. Loading fails
// if the data read from the source does not match it.
func WithDigest(dig digest.Digest) Option {
	return func(b *Blob) {
		b.digest = dig
	}
}

// WithMediaType sets the media type reported by the blob.
func WithMediaType(mediaType string) Option {
	return func(b *Blob) {
		b.mediaType = mediaType
	}
}

// Blob is a read-only blob that reads from an [io.Reader] once via load and
// keeps the data in memory.
type Blob struct {
	mu   sync.RWMutex
	data []byte

	size      int64
	digest    digest.Digest
	mediaType string

	source io.Reader
	loaded bool
	err    error
}

var (
	_ blob.ReadOnlyBlob   = (*Blob)(nil)
	_ blob.SizeAware      = (*Blob)(nil)
	_ blob.DigestAware    = (*Blob)(nil)
	_ blob.MediaTypeAware = (*Blob)(nil)
)

// ReadCloser returns a new reader over the in-memory data, loading it from
// the source on first call.
func (b *Blob) ReadCloser() (io.ReadCloser, error) {
	if err := b.load(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// load reads the data from the source reader and stores it in memory,
// calculating digest and size along the way. A failed load is sticky, the
// source cannot be read again.
func (b *Blob) load() (err error) {
	b.mu.RLock()
	if b.loaded {
		b.mu.RUnlock()
		return b.err
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer func() {
		b.loaded = true
		b.err = err
		b.mu.Unlock()
	}()
	if b.loaded {
		return b.err
	}

	var data bytes.Buffer

	digester := digest.Canonical.Digester()
	source := io.TeeReader(b.source, digester.Hash())

	if b.size > 0 {
		_, err = io.CopyN(&data, source, b.size)
	} else {
		_, err = io.Copy(&data, source)
		b.size = int64(data.Len())
	}
	if err != nil {
		return err
	}

	if loaded := digester.Digest(); b.digest == "" {
		b.digest = loaded
	} else if b.digest != loaded {
		return fmt.Errorf("data with pre-set digest %q differed from loaded digest %q", b.digest, loaded)
	}

	b.data = data.Bytes()

	return nil
}

func (b *Blob) Size() int64 {
	if b.load() != nil {
		return blob.SizeUnknown
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

func (b *Blob) Digest() (string, bool) {
	if b.load() != nil {
		return "", false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.digest.String(), true
}

func (b *Blob) MediaType() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mediaType, b.mediaType != ""
}
