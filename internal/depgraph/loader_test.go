package depgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeGraphFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dependencies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeGraphFile(t, `
auth:
  depends_on: []
api:
  depends_on: [auth]
gateway:
  depends_on:
    - api
`)

	snap, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, snap.Len())
	require.Equal(t, []string{"api"}, snap.Propagate([]string{"auth", "gateway"}))
}

func TestLoadFileMissing(t *testing.T) {
	snap, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, 0, snap.Len())
	require.Empty(t, snap.Known())
}

func TestLoadFileEmpty(t *testing.T) {
	path := writeGraphFile(t, "")
	snap, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 0, snap.Len())
}

func TestLoadFileMalformed(t *testing.T) {
	path := writeGraphFile(t, "- just\n- a\n- list\n")
	_, err := LoadFile(path)
	require.Error(t, err)
}
