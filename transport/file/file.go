// Package file provides a transporter for file:// repositories. A repository
// root that is a directory serves reads and writes; a root that is a regular
// file is treated as a tar archive of the repository and serves reads only.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/nlepage/go-tarfs"

	"github.com/timtebeek/maven-resolver/blob"
	"github.com/timtebeek/maven-resolver/blob/filesystem"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
)

// Scheme is the repository URL scheme served by this transporter.
const Scheme = "file"

// DefaultPriority is the declared priority of the factory.
const DefaultPriority = 10

// NewFactory returns a transporter factory serving file:// repositories.
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

// Factory creates file transporters.
type Factory struct {
	priority float64
}

var _ transport.TransporterFactory = (*Factory)(nil)

func (f *Factory) Name() string {
	return "file"
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
		return nil, fmt.Errorf("file transport cannot serve scheme %q: %w", parsed.Scheme, transport.ErrSchemeNotSupported)
	}

	root := filepath.FromSlash(parsed.Path)
	if root == "" {
		return nil, fmt.Errorf("repository URL %q has no path", repo.URL)
	}

	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// A missing root is served as an empty directory repository that
		// comes into existence on the first put.
		return &Transporter{root: root}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to inspect repository root %q: %w", root, err)
	case info.IsDir():
		return &Transporter{root: root}, nil
	}

	archive, err := os.Open(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository archive %q: %w", root, err)
	}
	tfs, err := tarfs.New(archive)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to read repository archive %q: %w", root, err),
			archive.Close(),
		)
	}
	return &Transporter{root: root, archive: tfs, close: archive.Close}, nil
}

// Transporter serves resources below a filesystem root.
type Transporter struct {
	root string
	// archive is set for tar backed repositories. Such repositories are
	// read only.
	archive fs.FS
	close   func() error
}

var _ transport.Transporter = (*Transporter)(nil)

func (t *Transporter) Peek(_ context.Context, path string) error {
	if !fs.ValidPath(path) {
		return fmt.Errorf("invalid resource path %q", path)
	}
	var err error
	if t.archive != nil {
		_, err = fs.Stat(t.archive, path)
	} else {
		_, err = os.Stat(filepath.Join(t.root, filepath.FromSlash(path)))
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("no resource at %q: %w", path, transport.ErrResourceNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to inspect resource at %q: %w", path, err)
	}
	return nil
}

func (t *Transporter) Get(ctx context.Context, path string) (blob.ReadOnlyBlob, error) {
	if err := t.Peek(ctx, path); err != nil {
		return nil, err
	}
	if t.archive != nil {
		return filesystem.NewFS(t.archive, path), nil
	}
	return filesystem.New(filepath.Join(t.root, filepath.FromSlash(path))), nil
}

func (t *Transporter) Put(_ context.Context, path string, source blob.ReadOnlyBlob) error {
	if t.archive != nil {
		return fmt.Errorf("repository archive %q is read only", t.root)
	}
	if !fs.ValidPath(path) {
		return fmt.Errorf("invalid resource path %q", path)
	}

	reader, err := source.ReadCloser()
	if err != nil {
		return fmt.Errorf("failed to open source for %q: %w", path, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	target := filesystem.New(filepath.Join(t.root, filepath.FromSlash(path)))
	writer, err := target.WriteCloser()
	if err != nil {
		return err
	}
	if _, err := io.Copy(writer, reader); err != nil {
		return errors.Join(
			fmt.Errorf("failed to write resource at %q: %w", path, err),
			writer.Close(),
		)
	}
	return writer.Close()
}

func (t *Transporter) Close() error {
	if t.close != nil {
		return t.close()
	}
	return nil
}
