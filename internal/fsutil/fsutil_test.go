package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "data.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0600))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	leftovers, err := filepath.Glob(filepath.Join(dir, "a", "b", "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	t.Run("TargetIsDirectory", func(t *testing.T) {
		target := filepath.Join(dir, "occupied")
		require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0755))

		assert.Error(t, WriteFileAtomic(target, []byte("x"), 0644))

		leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, leftovers, "temporary file removed after a failed rename")
	})
}
