// Package filesystem provides blobs backed by files, either directly on the
// operating system or inside any [fs.FS].
package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/timtebeek/maven-resolver/blob"
)

// New returns a blob backed by the file at path on the operating system
// filesystem. The file does not need to exist until it is read or written.
func New(path string) *Blob {
	return &Blob{path: filepath.Clean(path)}
}

// NewFS returns a read-only blob backed by the file at path inside fsys.
// Writing to it fails.
func NewFS(fsys fs.FS, path string) *Blob {
	return &Blob{fsys: fsys, path: path}
}

// Blob is a file-backed blob. All meta operations delegate to the
// underlying filesystem.
type Blob struct {
	// fsys is set for read-only blobs rooted in an fs.FS. When nil, path
	// addresses the operating system filesystem and the blob is writable.
	fsys fs.FS
	path string
}

var (
	_ blob.Blob        = (*Blob)(nil)
	_ blob.SizeAware   = (*Blob)(nil)
	_ blob.DigestAware = (*Blob)(nil)
)

// Path returns the path the blob is backed by.
func (b *Blob) Path() string {
	return b.path
}

func (b *Blob) ReadCloser() (io.ReadCloser, error) {
	if b.fsys != nil {
		file, err := b.fsys.Open(b.path)
		if err != nil {
			return nil, fmt.Errorf("unable to open file %q: %w", b.path, err)
		}
		return file, nil
	}
	file, err := os.Open(b.path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file %q: %w", b.path, err)
	}
	return file, nil
}

// WriteCloser opens the backing file for writing, truncating previous
// content. Parent directories are created as needed.
func (b *Blob) WriteCloser() (io.WriteCloser, error) {
	if b.fsys != nil {
		return nil, fmt.Errorf("file %q is read only", b.path)
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create parent directories for %q: %w", b.path, err)
	}
	file, err := os.OpenFile(b.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open file %q for writing: %w", b.path, err)
	}
	return file, nil
}

func (b *Blob) Size() int64 {
	var (
		fi  fs.FileInfo
		err error
	)
	if b.fsys != nil {
		fi, err = fs.Stat(b.fsys, b.path)
	} else {
		fi, err = os.Stat(b.path)
	}
	if err != nil {
		return blob.SizeUnknown
	}
	return fi.Size()
}

func (b *Blob) Digest() (string, bool) {
	data, err := b.ReadCloser()
	if err != nil {
		return "", false
	}
	defer func() {
		_ = data.Close()
	}()
	d, err := digest.FromReader(data)
	if err != nil {
		return "", false
	}
	return d.String(), true
}
