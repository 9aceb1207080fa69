package file_test

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timtebeek/maven-resolver/blob/inmemory"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
	"github.com/timtebeek/maven-resolver/transport/file"
)

func TestFactory_DeclinesForeignScheme(t *testing.T) {
	r := require.New(t)
	factory := file.NewFactory()

	repo := &repository.Remote{ID: "central", URL: "https://repo.maven.apache.org/maven2"}
	_, err := factory.NewTransporter(t.Context(), session.New(), repo)
	r.ErrorIs(err, transport.ErrSchemeNotSupported)
}

func TestFactory_Priority(t *testing.T) {
	r := require.New(t)
	r.Equal(float64(file.DefaultPriority), file.NewFactory().Priority())
	r.Equal(float64(99), file.NewFactory(file.WithPriority(99)).Priority())
}

func TestTransporter_DirectoryRoundtrip(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()
	root := t.TempDir()

	transporter, err := file.NewFactory().
		NewTransporter(ctx, session.New(), &repository.Remote{ID: "local", URL: "file://" + root})
	r.NoError(err)
	t.Cleanup(func() {
		r.NoError(transporter.Close())
	})

	path := "com/example/app/1.0/app-1.0.jar"
	r.ErrorIs(transporter.Peek(ctx, path), transport.ErrResourceNotFound)

	r.NoError(transporter.Put(ctx, path, inmemory.New(strings.NewReader("jar bytes"))))
	r.NoError(transporter.Peek(ctx, path))

	got, err := transporter.Get(ctx, path)
	r.NoError(err)
	reader, err := got.ReadCloser()
	r.NoError(err)
	data, err := io.ReadAll(reader)
	r.NoError(err)
	r.NoError(reader.Close())
	r.Equal("jar bytes", string(data))

	// the resource landed below the repository root
	onDisk, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	r.NoError(err)
	r.Equal("jar bytes", string(onDisk))
}

func TestTransporter_MissingRootBecomesEmptyRepository(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()
	root := filepath.Join(t.TempDir(), "not-yet-created")

	transporter, err := file.NewFactory().
		NewTransporter(ctx, session.New(), &repository.Remote{ID: "local", URL: "file://" + root})
	r.NoError(err)

	r.ErrorIs(transporter.Peek(ctx, "anything"), transport.ErrResourceNotFound)

	r.NoError(transporter.Put(ctx, "first.txt", inmemory.New(strings.NewReader("content"))))
	r.NoError(transporter.Peek(ctx, "first.txt"))
}

func TestTransporter_RejectsInvalidPaths(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	transporter, err := file.NewFactory().
		NewTransporter(ctx, session.New(), &repository.Remote{ID: "local", URL: "file://" + t.TempDir()})
	r.NoError(err)

	r.ErrorContains(transporter.Peek(ctx, "../escape"), "invalid resource path")
	r.ErrorContains(transporter.Put(ctx, "/absolute", inmemory.New(strings.NewReader(""))), "invalid resource path")
}

func TestTransporter_TarArchive(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()
	archive := filepath.Join(t.TempDir(), "repository.tar")
	writeTarRepository(t, archive, map[string]string{
		"com/example/app/1.0/app-1.0.pom": "<project/>",
	})

	transporter, err := file.NewFactory().
		NewTransporter(ctx, session.New(), &repository.Remote{ID: "archived", URL: "file://" + archive})
	r.NoError(err)
	t.Cleanup(func() {
		r.NoError(transporter.Close())
	})

	r.NoError(transporter.Peek(ctx, "com/example/app/1.0/app-1.0.pom"))
	r.ErrorIs(transporter.Peek(ctx, "com/example/app/1.0/app-1.0.jar"), transport.ErrResourceNotFound)

	got, err := transporter.Get(ctx, "com/example/app/1.0/app-1.0.pom")
	r.NoError(err)
	reader, err := got.ReadCloser()
	r.NoError(err)
	data, err := io.ReadAll(reader)
	r.NoError(err)
	r.NoError(reader.Close())
	r.Equal("<project/>", string(data))

	err = transporter.Put(ctx, "new.txt", inmemory.New(strings.NewReader("denied")))
	r.Error(err)
	r.ErrorContains(err, "is read only")
}

func TestFactory_BrokenArchive(t *testing.T) {
	r := require.New(t)
	path := filepath.Join(t.TempDir(), "broken.tar")
	r.NoError(os.WriteFile(path, []byte("this is not a tar archive"), 0o644))

	_, err := file.NewFactory().
		NewTransporter(t.Context(), session.New(), &repository.Remote{ID: "broken", URL: "file://" + path})
	r.Error(err)
	r.ErrorContains(err, "failed to read repository archive")
}

func writeTarRepository(t *testing.T, path string, files map[string]string) {
	t.Helper()
	r := require.New(t)

	out, err := os.Create(path)
	r.NoError(err)
	w := tar.NewWriter(out)
	for name, content := range files {
		r.NoError(w.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}))
		_, err = w.Write([]byte(content))
		r.NoError(err)
	}
	r.NoError(w.Close())
	r.NoError(out.Close())
}
