package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakupStore(t *testing.T) {
	newStore := func(t *testing.T) *BreakupStore {
		t.Helper()
		snap, err := NewSnapshot(t.TempDir())
		require.NoError(t, err)
		return NewBreakupStore(snap)
	}

	t.Run("counts start at zero", func(t *testing.T) {
		s := newStore(t)
		assert.Equal(t, 0, s.CountFor("2024-06-01", "u1"))
	})

	t.Run("increment is monotonic within a day", func(t *testing.T) {
		s := newStore(t)
		assert.Equal(t, 1, s.Increment("2024-06-01", "u1"))
		assert.Equal(t, 2, s.Increment("2024-06-01", "u1"))
		assert.Equal(t, 2, s.CountFor("2024-06-01", "u1"))
	})

	t.Run("retain only prunes other days", func(t *testing.T) {
		s := newStore(t)
		s.Increment("2024-05-31", "u1")
		s.Increment("2024-06-01", "u1")

		assert.Equal(t, 1, s.RetainOnly("2024-06-01"))
		assert.Equal(t, 0, s.CountFor("2024-05-31", "u1"))
		assert.Equal(t, 1, s.CountFor("2024-06-01", "u1"))

		// Second invocation is a no-op.
		assert.Equal(t, 0, s.RetainOnly("2024-06-01"))
	})
}
