// Package prefixes provides a filter source that limits which repository
// paths may be served from which remote repository, based on per-repository
// prefix files.
//
// For a repository with ID "central" the source reads "prefixes-central.txt"
// from the configured base directory. The file lists one allowed path prefix
// per line; empty lines and lines starting with '#' are skipped. Items whose
// repository path starts with none of the prefixes are denied. Repositories
// without a prefix file are not restricted.
package prefixes

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/timtebeek/maven-resolver/filter"
	"github.com/timtebeek/maven-resolver/internal/log"
	"github.com/timtebeek/maven-resolver/layout"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
)

const (
	// KeyEnabled turns the source on for a session.
	KeyEnabled = "resolver.filter.prefixes"
	// KeyBaseDir holds the directory the per-repository prefix files are
	// read from. The source stays inactive without it.
	KeyBaseDir = "resolver.filter.prefixes.dir"
)

var base = log.Realm("filter")

// NewSource returns the prefix filter source.
func NewSource() *Source {
	return &Source{}
}

// Source contributes prefix filters to sessions that enable them.
type Source struct{}

var _ filter.Source = (*Source)(nil)

func (s *Source) FilterFor(sess *session.Session) filter.Filter {
	if !sess.Bool(KeyEnabled, false) {
		return nil
	}
	dir := sess.String(KeyBaseDir, "")
	if dir == "" {
		base.Debug("prefix filtering enabled without a base directory, staying inactive")
		return nil
	}
	return &prefixFilter{
		dir:    dir,
		loaded: map[string][]string{},
	}
}

// prefixFilter answers verdicts from the prefix files of one base directory.
// Prefix files are loaded lazily, once per repository.
type prefixFilter struct {
	dir string

	mu     sync.Mutex
	loaded map[string][]string
}

var _ filter.Filter = (*prefixFilter)(nil)

func (f *prefixFilter) AcceptArtifact(repo *repository.Remote, artifact transport.Artifact) filter.Result {
	return f.accept(repo, layout.ArtifactPath(artifact))
}

func (f *prefixFilter) AcceptMetadata(repo *repository.Remote, metadata transport.Metadata) filter.Result {
	return f.accept(repo, layout.MetadataPath(metadata))
}

func (f *prefixFilter) accept(repo *repository.Remote, path string) filter.Result {
	prefixes, err := f.prefixesFor(repo)
	if err != nil {
		// An unreadable prefix file must not widen what the repository
		// serves, so the verdict fails closed.
		return filter.Deny(fmt.Sprintf("prefixes for %s unavailable: %s", repo.ID, err))
	}
	if prefixes == nil {
		return filter.Accept(fmt.Sprintf("no prefixes file for %s", repo.ID))
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return filter.Accept(fmt.Sprintf("prefix %q of %s allows %s", prefix, repo.ID, path))
		}
	}
	return filter.Deny(fmt.Sprintf("%s is not among the prefixes of %s", path, repo.ID))
}

func (f *prefixFilter) prefixesFor(repo *repository.Remote) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if prefixes, ok := f.loaded[repo.ID]; ok {
		return prefixes, nil
	}

	path := filepath.Join(f.dir, "prefixes-"+repo.ID+".txt")
	prefixes, err := readPrefixes(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		prefixes = nil
	case err != nil:
		return nil, err
	default:
		base.Debug("loaded repository prefixes",
			slog.String("file", path),
			slog.Int("count", len(prefixes)),
		)
	}
	f.loaded[repo.ID] = prefixes
	return prefixes, nil
}

func readPrefixes(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	prefixes := []string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prefixes = append(prefixes, strings.TrimPrefix(line, "/"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prefixes from %q: %w", path, err)
	}
	return prefixes, nil
}
