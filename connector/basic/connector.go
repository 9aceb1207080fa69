package basic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/timtebeek/maven-resolver/blob"
	"github.com/timtebeek/maven-resolver/blob/inmemory"
	"github.com/timtebeek/maven-resolver/internal/log"
	"github.com/timtebeek/maven-resolver/layout"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/transport"
)

// ErrClosed is returned by transfer calls on a closed connector.
var ErrClosed = errors.New("connector is closed")

// checksumExtension is appended to a resource path to address its checksum
// companion.
const checksumExtension = ".sha256"

// Connector moves transfer batches over a single transporter. Batch items
// run concurrently up to the configured thread limit; each item records its
// own outcome.
type Connector struct {
	repository     *repository.Remote
	transporter    transport.Transporter
	threads        int
	checksumPolicy string
	closed         atomic.Bool
}

var _ transport.Connector = (*Connector)(nil)

func (c *Connector) Get(ctx context.Context, artifacts []*transport.ArtifactDownload, metadata []*transport.MetadataDownload) error {
	if c.closed.Load() {
		return ErrClosed
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.threads)
	for _, download := range artifacts {
		group.Go(func() error {
			download.Err = c.get(ctx, layout.ArtifactPath(download.Artifact), download.Target, download.Artifact.String())
			return nil
		})
	}
	for _, download := range metadata {
		group.Go(func() error {
			download.Err = c.get(ctx, layout.MetadataPath(download.Metadata), download.Target, download.Metadata.String())
			return nil
		})
	}
	return group.Wait()
}

func (c *Connector) Put(ctx context.Context, artifacts []*transport.ArtifactUpload, metadata []*transport.MetadataUpload) error {
	if c.closed.Load() {
		return ErrClosed
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.threads)
	for _, upload := range artifacts {
		group.Go(func() error {
			upload.Err = c.put(ctx, layout.ArtifactPath(upload.Artifact), upload.Source, upload.Artifact.String())
			return nil
		})
	}
	for _, upload := range metadata {
		group.Go(func() error {
			upload.Err = c.put(ctx, layout.MetadataPath(upload.Metadata), upload.Source, upload.Metadata.String())
			return nil
		})
	}
	return group.Wait()
}

// Close closes the underlying transporter. Further transfer calls fail with
// ErrClosed.
func (c *Connector) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.transporter.Close()
}

func (c *Connector) get(ctx context.Context, path string, target blob.WriteableBlob, item string) (err error) {
	done := log.Operation(ctx, base, "download",
		slog.String("item", item),
		slog.String("path", path),
		log.RepositoryLogAttr(c.repository),
	)
	defer func() { done(err) }()

	source, err := c.transporter.Get(ctx, path)
	if err != nil {
		return err
	}
	actual, err := copyAndDigest(source, target)
	if err != nil {
		return fmt.Errorf("failed to store %q: %w", path, err)
	}
	return c.verify(ctx, path, actual)
}

func (c *Connector) put(ctx context.Context, path string, source blob.ReadOnlyBlob, item string) (err error) {
	done := log.Operation(ctx, base, "upload",
		slog.String("item", item),
		slog.String("path", path),
		log.RepositoryLogAttr(c.repository),
	)
	defer func() { done(err) }()

	if err := c.transporter.Put(ctx, path, source); err != nil {
		return err
	}

	dig, err := digestOf(source)
	if err != nil {
		return fmt.Errorf("failed to digest %q for its checksum: %w", path, err)
	}
	checksum := inmemory.New(strings.NewReader(dig.Encoded()), inmemory.WithMediaType("text/plain"))
	if err := c.transporter.Put(ctx, path+checksumExtension, checksum); err != nil {
		return fmt.Errorf("failed to store checksum for %q: %w", path, err)
	}
	return nil
}

// verify compares the digest of downloaded content against the remote
// checksum companion, honoring the session checksum policy.
func (c *Connector) verify(ctx context.Context, path string, actual digest.Digest) error {
	if c.checksumPolicy == PolicyIgnore {
		return nil
	}

	expected, err := c.remoteChecksum(ctx, path)
	if err == nil && expected == actual.Encoded() {
		return nil
	}
	if err == nil {
		err = fmt.Errorf("checksum mismatch for %q: remote %s, actual %s", path, expected, actual.Encoded())
	} else {
		err = fmt.Errorf("failed to verify %q: %w", path, err)
	}

	if c.checksumPolicy == PolicyWarn {
		base.WarnContext(ctx, "accepting unverified download", slog.String("path", path), slog.String("error", err.Error()))
		return nil
	}
	return err
}

func (c *Connector) remoteChecksum(ctx context.Context, path string) (string, error) {
	source, err := c.transporter.Get(ctx, path+checksumExtension)
	if err != nil {
		return "", err
	}
	reader, err := source.ReadCloser()
	if err != nil {
		return "", err
	}
	defer func() {
		_ = reader.Close()
	}()
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	// Checksum files hold the hex digest, possibly followed by a file name.
	checksum, _, _ := strings.Cut(strings.TrimSpace(string(content)), " ")
	return checksum, nil
}

// copyAndDigest streams source into target and returns the canonical digest
// of the copied content.
func copyAndDigest(source blob.ReadOnlyBlob, target blob.WriteableBlob) (digest.Digest, error) {
	reader, err := source.ReadCloser()
	if err != nil {
		return "", err
	}
	defer func() {
		_ = reader.Close()
	}()
	writer, err := target.WriteCloser()
	if err != nil {
		return "", err
	}

	digester := digest.Canonical.Digester()
	if _, err := io.Copy(writer, io.TeeReader(reader, digester.Hash())); err != nil {
		return "", errors.Join(err, writer.Close())
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	return digester.Digest(), nil
}

// digestOf returns the canonical digest of a blob, using the digest the blob
// already knows when possible.
func digestOf(source blob.ReadOnlyBlob) (digest.Digest, error) {
	if aware, ok := source.(blob.DigestAware); ok {
		if known, ok := aware.Digest(); ok {
			if parsed, err := digest.Parse(known); err == nil && parsed.Algorithm() == digest.Canonical {
				return parsed, nil
			}
		}
	}
	reader, err := source.ReadCloser()
	if err != nil {
		return "", err
	}
	defer func() {
		_ = reader.Close()
	}()
	return digest.Canonical.FromReader(reader)
}
