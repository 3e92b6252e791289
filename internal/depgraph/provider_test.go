package depgraph

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProviderInitialLoad(t *testing.T) {
	path := writeGraphFile(t, "auth:\n  depends_on: []\n")

	provider, err := NewProvider(path)
	require.NoError(t, err)
	require.True(t, provider.Snapshot().Has("auth"))
}

func TestProviderMissingFileStartsEmpty(t *testing.T) {
	provider, err := NewProvider("does/not/exist.yaml")
	require.NoError(t, err)
	require.Equal(t, 0, provider.Snapshot().Len())
}

func TestProviderReloadSwapsSnapshot(t *testing.T) {
	path := writeGraphFile(t, "auth:\n  depends_on: []\n")

	provider, err := NewProvider(path)
	require.NoError(t, err)
	before := provider.Snapshot()

	require.NoError(t, os.WriteFile(path, []byte("auth:\n  depends_on: []\napi:\n  depends_on: [auth]\n"), 0o644))
	require.NoError(t, provider.Reload())

	after := provider.Snapshot()
	require.NotSame(t, before, after)
	require.True(t, after.Has("api"))
	// The old snapshot is untouched; in-flight assessments keep a
	// consistent view.
	require.False(t, before.Has("api"))
}

func TestProviderReloadFailureKeepsSnapshot(t *testing.T) {
	path := writeGraphFile(t, "auth:\n  depends_on: []\n")

	provider, err := NewProvider(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("- broken\n"), 0o644))
	require.Error(t, provider.Reload())
	require.True(t, provider.Snapshot().Has("auth"))
}

func TestStaticProvider(t *testing.T) {
	snap := NewSnapshot(map[string][]string{"auth": {}})
	provider := NewStaticProvider(snap)
	require.Same(t, snap, provider.Snapshot())
}
