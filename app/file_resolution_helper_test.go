package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/ludo-technologies/distclust/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolveInputs_ExpandsPaths(t *testing.T) {
	resolver := new(mockInputResolver)
	resolver.On("Resolve", []string{"runs/*.dist", "-"}).
		Return([]string{"runs/a.dist", "runs/b.dist", "-"}, nil)

	sources, err := ResolveInputs(resolver, domain.ClusterRequest{Paths: []string{"runs/*.dist", "-"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"runs/a.dist", "runs/b.dist", "-"}, sources)
	resolver.AssertExpectations(t)
}

func TestResolveInputs_InlineInput(t *testing.T) {
	resolver := new(mockInputResolver)

	sources, err := ResolveInputs(resolver, domain.ClusterRequest{
		Input: strings.NewReader("a b 0.1\n"),
		Paths: []string{"ignored.dist"},
	})

	require.NoError(t, err)
	assert.Nil(t, sources)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything)
}

func TestResolveInputs_NilResolver(t *testing.T) {
	sources, err := ResolveInputs(nil, domain.ClusterRequest{Paths: []string{"a.dist"}})

	require.NoError(t, err)
	assert.Nil(t, sources)
}

func TestResolveInputs_PreservesErrorCode(t *testing.T) {
	resolver := new(mockInputResolver)
	resolver.On("Resolve", []string{"missing.dist"}).
		Return(nil, domain.NewFileNotFoundError("missing.dist", errors.New("no such file")))

	_, err := ResolveInputs(resolver, domain.ClusterRequest{Paths: []string{"missing.dist"}})

	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeFileNotFound, domain.ErrorCode(err))
}

func TestKeepCode(t *testing.T) {
	wrap := func(err error) error {
		return domain.NewAnalysisError("wrapped", err)
	}

	t.Run("plain error is wrapped", func(t *testing.T) {
		err := keepCode(errors.New("boom"), wrap)
		assert.Equal(t, domain.ErrCodeAnalysisError, domain.ErrorCode(err))
	})

	t.Run("domain error is kept", func(t *testing.T) {
		original := domain.NewConfigError("bad config", nil)
		err := keepCode(original, wrap)
		assert.Equal(t, original, err)
	})
}
