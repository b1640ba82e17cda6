package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	t.Run("round-trips a document", func(t *testing.T) {
		snap, err := NewSnapshot(t.TempDir())
		require.NoError(t, err)

		in := map[string]int{"a": 1, "b": 2}
		require.NoError(t, snap.Save("counts", in))

		out := make(map[string]int)
		found, err := snap.Load("counts", &out)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, in, out)
	})

	t.Run("missing file reports not found", func(t *testing.T) {
		snap, err := NewSnapshot(t.TempDir())
		require.NoError(t, err)

		out := make(map[string]int)
		found, err := snap.Load("nope", &out)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, out)
	})

	t.Run("malformed file degrades to not found", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{truncated"), 0o644))

		snap, err := NewSnapshot(dir)
		require.NoError(t, err)

		out := make(map[string]int)
		found, err := snap.Load("bad", &out)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("save leaves no temporary file behind", func(t *testing.T) {
		dir := t.TempDir()
		snap, err := NewSnapshot(dir)
		require.NoError(t, err)

		require.NoError(t, snap.Save("doc", map[string]string{"k": "v"}))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "doc.json", entries[0].Name())
	})

	t.Run("save overwrites prior content atomically", func(t *testing.T) {
		snap, err := NewSnapshot(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, snap.Save("doc", map[string]string{"v": "one"}))
		require.NoError(t, snap.Save("doc", map[string]string{"v": "two"}))

		out := make(map[string]string)
		found, err := snap.Load("doc", &out)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "two", out["v"])
	})
}
