// Package patterns provides a filter source that limits which artifacts may
// be served from which remote repository, based on glob patterns over
// "group:artifact" coordinates.
//
// The source reads a YAML document mapping repository IDs to their allowed
// coordinate patterns:
//
//	repositories:
//	  central:
//	    - "org.apache.*:*"
//	    - "commons-io:commons-io"
//
// Patterns use glob syntax with ':' as the separator, so a '*' never crosses
// from the group into the artifact part. Artifacts matching none of their
// repository's patterns are denied; repositories absent from the document
// are not restricted. Metadata is not subject to coordinate patterns.
package patterns

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gobwas/glob"
	"sigs.k8s.io/yaml"

	"github.com/timtebeek/maven-resolver/filter"
	"github.com/timtebeek/maven-resolver/internal/log"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
)

const (
	// KeyEnabled turns the source on for a session.
	KeyEnabled = "resolver.filter.patterns"
	// KeyConfig holds the path of the pattern document. The source stays
	// inactive without it.
	KeyConfig = "resolver.filter.patterns.config"
)

var base = log.Realm("filter")

// Config is the on-disk pattern document.
type Config struct {
	// Repositories maps repository IDs to the coordinate patterns allowed
	// from them.
	Repositories map[string][]string `json:"repositories"`
}

// LoadConfig reads and parses a pattern document.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern document %q: %w", path, err)
	}
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse pattern document %q: %w", path, err)
	}
	return config, nil
}

// NewSource returns the pattern filter source.
func NewSource() *Source {
	return &Source{}
}

// Source contributes pattern filters to sessions that enable them.
type Source struct{}

var _ filter.Source = (*Source)(nil)

func (s *Source) FilterFor(sess *session.Session) filter.Filter {
	if !sess.Bool(KeyEnabled, false) {
		return nil
	}
	path := sess.String(KeyConfig, "")
	if path == "" {
		base.Debug("pattern filtering enabled without a document, staying inactive")
		return nil
	}

	config, err := LoadConfig(path)
	if err == nil {
		var f *patternFilter
		if f, err = compile(config); err == nil {
			return f
		}
	}

	// A broken pattern document must not widen what repositories serve, so
	// all verdicts fail closed until it is repaired.
	base.Error("pattern document unusable", slog.String("path", path), slog.String("error", err.Error()))
	return &brokenConfig{path: path, err: err}
}

func compile(config *Config) (*patternFilter, error) {
	compiled := make(map[string][]compiledPattern, len(config.Repositories))
	for repositoryID, patterns := range config.Repositories {
		for _, pattern := range patterns {
			matcher, err := glob.Compile(pattern, ':')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q for repository %q: %w", pattern, repositoryID, err)
			}
			compiled[repositoryID] = append(compiled[repositoryID], compiledPattern{
				source:  pattern,
				matcher: matcher,
			})
		}
	}
	return &patternFilter{byRepository: compiled}, nil
}

type compiledPattern struct {
	source  string
	matcher glob.Glob
}

// patternFilter answers verdicts from one compiled pattern document.
type patternFilter struct {
	byRepository map[string][]compiledPattern
}

var _ filter.Filter = (*patternFilter)(nil)

func (f *patternFilter) AcceptArtifact(repo *repository.Remote, artifact transport.Artifact) filter.Result {
	patterns, ok := f.byRepository[repo.ID]
	if !ok {
		return filter.Accept(fmt.Sprintf("no patterns configured for %s", repo.ID))
	}
	coordinates := artifact.GroupID + ":" + artifact.ArtifactID
	for _, pattern := range patterns {
		if pattern.matcher.Match(coordinates) {
			return filter.Accept(fmt.Sprintf("pattern %q of %s allows %s", pattern.source, repo.ID, coordinates))
		}
	}
	return filter.Deny(fmt.Sprintf("%s matches no pattern of %s", coordinates, repo.ID))
}

func (f *patternFilter) AcceptMetadata(*repository.Remote, transport.Metadata) filter.Result {
	return filter.Accept("metadata is not subject to coordinate patterns")
}

// brokenConfig denies everything while the pattern document cannot be used.
type brokenConfig struct {
	path string
	err  error
}

var _ filter.Filter = (*brokenConfig)(nil)

func (b *brokenConfig) AcceptArtifact(*repository.Remote, transport.Artifact) filter.Result {
	return filter.Deny(fmt.Sprintf("pattern document %q unusable: %s", b.path, b.err))
}

func (b *brokenConfig) AcceptMetadata(*repository.Remote, transport.Metadata) filter.Result {
	return filter.Deny(fmt.Sprintf("pattern document %q unusable: %s", b.path, b.err))
}
