package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDefaultConfigTOML(t *testing.T) {
	content, err := GenerateDefaultConfigTOML(0)
	require.NoError(t, err)
	assert.Contains(t, content, `method = "single"`)
	assert.Contains(t, content, "# cutoff = ")
	assert.Contains(t, content, "early_stop = true")
	assert.Contains(t, content, "DISTCLUST_")

	content, err = GenerateDefaultConfigTOML(1)
	require.NoError(t, err)
	assert.Contains(t, content, "\ncutoff = 1.0\n")
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".distclust.toml")

	require.NoError(t, WriteDefaultConfig(path, 0.03, false))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.03, cfg.Clustering.Cutoff)
	assert.Equal(t, "single", cfg.Clustering.Method)
	assert.False(t, *cfg.Output.ShowMerges)

	err = WriteDefaultConfig(path, 0.1, false)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "already exists"))

	require.NoError(t, WriteDefaultConfig(path, 0.1, true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cutoff = 0.1")
}

func TestTomlFloat(t *testing.T) {
	assert.Equal(t, "", tomlFloat(0))
	assert.Equal(t, "", tomlFloat(-1))
	assert.Equal(t, "2.0", tomlFloat(2))
	assert.Equal(t, "0.035", tomlFloat(0.035))
}
