package resolver_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/require"

	resolver "github.com/timtebeek/maven-resolver"
	"github.com/timtebeek/maven-resolver/blob/inmemory"
	"github.com/timtebeek/maven-resolver/connector/basic"
	"github.com/timtebeek/maven-resolver/filter"
	"github.com/timtebeek/maven-resolver/filter/patterns"
	"github.com/timtebeek/maven-resolver/provider"
	"github.com/timtebeek/maven-resolver/repository"
	"github.com/timtebeek/maven-resolver/session"
	"github.com/timtebeek/maven-resolver/transport"
	"github.com/timtebeek/maven-resolver/transport/memory"
)

// seedRepository writes an artifact and its checksum companion into an
// on-disk repository layout.
func seedRepository(t *testing.T, root, path, content string) {
	t.Helper()
	r := require.New(t)
	target := filepath.Join(root, filepath.FromSlash(path))
	r.NoError(os.MkdirAll(filepath.Dir(target), 0o755))
	r.NoError(os.WriteFile(target, []byte(content), 0o644))
	r.NoError(os.WriteFile(target+".sha256", []byte(digest.FromString(content).Encoded()), 0o644))
}

func TestNewConnectorProvider_DownloadFromFileRepository(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	root := t.TempDir()
	seedRepository(t, root, "com/example/app/1.0/app-1.0.jar", "jar bytes")

	connectors, err := resolver.NewConnectorProvider()
	r.NoError(err)

	sess := session.New(session.WithProperty(basic.KeyChecksumPolicy, basic.PolicyFail))
	repo := &repository.Remote{ID: "local", URL: "file://" + root}
	connector, err := connectors.NewConnector(ctx, sess, repo)
	r.NoError(err)
	t.Cleanup(func() {
		r.NoError(connector.Close())
	})

	target := inmemory.NewBuffer()
	download := &transport.ArtifactDownload{
		Artifact: transport.Artifact{GroupID: "com.example", ArtifactID: "app", Version: "1.0", Extension: "jar"},
		Target:   target,
	}
	r.NoError(connector.Get(ctx, []*transport.ArtifactDownload{download}, nil))
	r.NoError(download.Err)
	r.Equal("jar bytes", string(target.Bytes()))
}

func TestNewConnectorProvider_UploadToFileRepository(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()
	root := t.TempDir()

	connectors, err := resolver.NewConnectorProvider()
	r.NoError(err)

	repo := &repository.Remote{ID: "local", URL: "file://" + root}
	connector, err := connectors.NewConnector(ctx, session.New(), repo)
	r.NoError(err)
	t.Cleanup(func() {
		r.NoError(connector.Close())
	})

	upload := &transport.ArtifactUpload{
		Artifact: transport.Artifact{GroupID: "com.example", ArtifactID: "app", Version: "1.0", Extension: "pom"},
		Source:   inmemory.New(strings.NewReader("<project/>")),
	}
	r.NoError(connector.Put(ctx, []*transport.ArtifactUpload{upload}, nil))
	r.NoError(upload.Err)

	deployed := filepath.Join(root, "com", "example", "app", "1.0", "app-1.0.pom")
	content, err := os.ReadFile(deployed)
	r.NoError(err)
	r.Equal("<project/>", string(content))

	checksum, err := os.ReadFile(deployed + ".sha256")
	r.NoError(err)
	r.Equal(digest.FromString("<project/>").Encoded(), string(checksum))
}

func TestNewConnectorProvider_BlockedRepository(t *testing.T) {
	r := require.New(t)

	connectors, err := resolver.NewConnectorProvider()
	r.NoError(err)

	repo := &repository.Remote{ID: "banned", URL: "https://banned.example.com", Blocked: true}
	_, err = connectors.NewConnector(t.Context(), session.New(), repo)

	var blocked *provider.BlockedRepositoryError
	r.ErrorAs(err, &blocked)
	r.EqualError(err, "Blocked repository: banned (https://banned.example.com)")
}

func TestNewConnectorProvider_UnknownScheme(t *testing.T) {
	r := require.New(t)

	connectors, err := resolver.NewConnectorProvider()
	r.NoError(err)

	repo := &repository.Remote{ID: "legacy", URL: "svn://legacy.example.com/repo"}
	_, err = connectors.NewConnector(t.Context(), session.New(), repo)

	var exhausted *provider.NoConnectorError
	r.ErrorAs(err, &exhausted)
	r.EqualError(err, "Cannot access svn://legacy.example.com/repo with type default "+
		"using the available connector factories: basic (priority=0)")
}

func TestNewConnectorProvider_PatternFilter(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	root := t.TempDir()
	seedRepository(t, root, "com/example/app/1.0/app-1.0.jar", "jar bytes")
	seedRepository(t, root, "org/elsewhere/lib/2.0/lib-2.0.jar", "lib bytes")

	document := filepath.Join(t.TempDir(), "patterns.yaml")
	r.NoError(os.WriteFile(document, []byte("repositories:\n  local:\n    - \"com.example:*\"\n"), 0o644))

	connectors, err := resolver.NewConnectorProvider()
	r.NoError(err)

	sess := session.New(
		session.WithProperty(patterns.KeyEnabled, "true"),
		session.WithProperty(patterns.KeyConfig, document),
		session.WithProperty(basic.KeyChecksumPolicy, basic.PolicyIgnore),
	)
	repo := &repository.Remote{ID: "local", URL: "file://" + root}
	connector, err := connectors.NewConnector(ctx, sess, repo)
	r.NoError(err)
	t.Cleanup(func() {
		r.NoError(connector.Close())
	})

	allowed := &transport.ArtifactDownload{
		Artifact: transport.Artifact{GroupID: "com.example", ArtifactID: "app", Version: "1.0", Extension: "jar"},
		Target:   inmemory.NewBuffer(),
	}
	denied := &transport.ArtifactDownload{
		Artifact: transport.Artifact{GroupID: "org.elsewhere", ArtifactID: "lib", Version: "2.0", Extension: "jar"},
		Target:   inmemory.NewBuffer(),
	}
	r.NoError(connector.Get(ctx, []*transport.ArtifactDownload{allowed, denied}, nil))

	r.NoError(allowed.Err)
	var exclusion *filter.ExclusionError
	r.ErrorAs(denied.Err, &exclusion)
	r.Contains(exclusion.Reasoning, "matches no pattern of local")
}

func TestNewConnectorProvider_AdditionalTransporterFactories(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	store := memory.NewStore()
	store.Put("com/example/app/1.0/app-1.0.jar", []byte("jar bytes"))

	connectors, err := resolver.NewConnectorProvider(
		resolver.WithTransporterFactories(memory.NewFactory(store)),
	)
	r.NoError(err)

	sess := session.New(session.WithProperty(basic.KeyChecksumPolicy, basic.PolicyIgnore))
	repo := &repository.Remote{ID: "in-memory", URL: "memory://in-memory"}
	connector, err := connectors.NewConnector(ctx, sess, repo)
	r.NoError(err)
	t.Cleanup(func() {
		r.NoError(connector.Close())
	})

	target := inmemory.NewBuffer()
	download := &transport.ArtifactDownload{
		Artifact: transport.Artifact{GroupID: "com.example", ArtifactID: "app", Version: "1.0", Extension: "jar"},
		Target:   target,
	}
	r.NoError(connector.Get(ctx, []*transport.ArtifactDownload{download}, nil))
	r.NoError(download.Err)
	r.Equal("jar bytes", string(target.Bytes()))
}

func TestNewConnectorProvider_RejectsDuplicateFactories(t *testing.T) {
	r := require.New(t)

	transporters, err := provider.NewTransporterProvider()
	r.NoError(err)

	_, err = resolver.NewConnectorProvider(
		resolver.WithConnectorFactories(basic.NewFactory(transporters)),
	)
	r.ErrorContains(err, `connector factory "basic" registered twice`)
}

func ExampleNewConnectorProvider() {
	connectors, err := resolver.NewConnectorProvider()
	if err != nil {
		panic(err)
	}

	repo := &repository.Remote{ID: "blocked", URL: "https://blocked.example.com", Blocked: true}
	_, err = connectors.NewConnector(context.Background(), session.New(), repo)
	fmt.Println(err)
	// Output: Blocked repository: blocked (https://blocked.example.com)
}
