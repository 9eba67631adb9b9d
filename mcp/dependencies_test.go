package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// NewTestDependencies creates dependencies with a no-op logger for tests
func NewTestDependencies(configPath string) *Dependencies {
	return NewDependencies(configPath, zap.NewNop())
}

func TestNewDependencies(t *testing.T) {
	deps := NewDependencies("custom.toml", nil)

	assert.Equal(t, "custom.toml", deps.ConfigPath())
	assert.NotNil(t, deps.Logger())
}

func TestDependencies_BuildClusterUseCase(t *testing.T) {
	deps := NewTestDependencies("")

	uc, err := deps.BuildClusterUseCase()
	require.NoError(t, err)
	assert.NotNil(t, uc)
}

func TestNewHandlerSet_NilDependencies(t *testing.T) {
	h := NewHandlerSet(nil)

	require.NotNil(t, h.deps)
	assert.Empty(t, h.deps.ConfigPath())
}

func TestRequestFromArgs(t *testing.T) {
	t.Run("content with all options", func(t *testing.T) {
		req, err := requestFromArgs(map[string]interface{}{
			"content":        "a b 0.1\n",
			"method":         "Complete",
			"cutoff":         0.5,
			"strict":         true,
			"early_stop":     false,
			"sorted":         true,
			"include_merges": true,
		})
		require.NoError(t, err)

		assert.NotNil(t, req.Input)
		assert.Equal(t, "content", req.InputName)
		assert.Equal(t, "complete", string(req.Method))
		assert.Equal(t, 0.5, req.Cutoff)
		require.NotNil(t, req.Strict)
		assert.True(t, *req.Strict)
		require.NotNil(t, req.EarlyStop)
		assert.False(t, *req.EarlyStop)
		require.NotNil(t, req.Sort)
		assert.True(t, *req.Sort)
		assert.True(t, req.ShowMerges)
	})

	t.Run("path leaves optional fields unset", func(t *testing.T) {
		req, err := requestFromArgs(map[string]interface{}{"path": "runs/*.dist"})
		require.NoError(t, err)

		assert.Equal(t, []string{"runs/*.dist"}, req.Paths)
		assert.Nil(t, req.Input)
		assert.Empty(t, req.Method)
		assert.Zero(t, req.Cutoff)
		assert.Nil(t, req.Strict)
		assert.Nil(t, req.Sort)
		assert.False(t, req.ShowMerges)
	})

	errorCases := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"no input", map[string]interface{}{"cutoff": 0.1}, "path or content parameter is required"},
		{"both inputs", map[string]interface{}{"path": "x", "content": "y"}, "only one of path or content"},
		{"stdin path", map[string]interface{}{"path": "-"}, "path must name a file or glob"},
		{"string cutoff", map[string]interface{}{"content": "", "cutoff": "0.1"}, "cutoff must be a number"},
		{"zero cutoff", map[string]interface{}{"content": "", "cutoff": 0.0}, "cutoff must be greater than 0"},
		{"numeric method", map[string]interface{}{"content": "", "method": 1.0}, "method must be a string"},
		{"string bool", map[string]interface{}{"content": "", "strict": "yes"}, "strict must be a boolean"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := requestFromArgs(tc.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
