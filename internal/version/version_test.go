package version_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/ludo-technologies/distclust/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShort(t *testing.T) {
	assert.NotEmpty(t, version.Short())
}

func TestInfo(t *testing.T) {
	info := version.Info()
	lines := strings.Split(info, "\n")
	require.Len(t, lines, 5)

	for i, prefix := range []string{"distclust ", "Commit:", "Built:", "Go:", "OS/Arch:"} {
		assert.True(t, strings.HasPrefix(lines[i], prefix), "line %d: %q", i, lines[i])
	}
	assert.Contains(t, info, runtime.Version())
	assert.Contains(t, info, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestGetPrefersLdflags(t *testing.T) {
	oldVersion, oldCommit := version.Version, version.Commit
	t.Cleanup(func() {
		version.Version, version.Commit = oldVersion, oldCommit
	})

	version.Version = "v1.2.3"
	version.Commit = "abc123"

	info := version.Get()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.Equal(t, "v1.2.3", version.Short())
}
