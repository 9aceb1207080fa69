package inmemory

import (
	"bytes"
	"io"
	"sync"

	"github.com/opencontainers/go-digest"

	"github.com/timtebeek/maven-resolver/blob"
)

// NewBuffer returns an empty writable in-memory blob. It is primarily used
// as a transfer target where content should not touch the filesystem.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Buffer is a writable in-memory blob. Writes append, reads see the data
// written so far.
type Buffer struct {
	mu   sync.RWMutex
	data []byte
}

var (
	_ blob.Blob        = (*Buffer)(nil)
	_ blob.SizeAware   = (*Buffer)(nil)
	_ blob.DigestAware = (*Buffer)(nil)
)

func (b *Buffer) ReadCloser() (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

func (b *Buffer) WriteCloser() (io.WriteCloser, error) {
	return &bufferWriter{buffer: b}, nil
}

func (b *Buffer) Size() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int64(len(b.data))
}

func (b *Buffer) Digest() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return digest.FromBytes(b.data).String(), true
}

// Bytes returns a copy of the data written so far.
func (b *Buffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return bytes.Clone(b.data)
}

type bufferWriter struct {
	buffer *Buffer
	closed bool
}

func (w *bufferWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	w.buffer.mu.Lock()
	defer w.buffer.mu.Unlock()
	w.buffer.data = append(w.buffer.data, p...)
	return len(p), nil
}

func (w *bufferWriter) Close() error {
	w.closed = true
	return nil
}
