package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mlindgren/blindboard/internal/game"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	s := game.NewSession(game.Config{MemorizeSeconds: 1})
	require.NoError(t, m.Save(ctx, s))

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Same(t, s, got)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	s := game.NewSession(game.Config{MemorizeSeconds: 1})
	require.NoError(t, m.Save(ctx, s))
	require.NoError(t, m.Delete(ctx, s.ID))

	_, err := m.Get(ctx, s.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// deleting a missing session is a no-op
	require.NoError(t, m.Delete(ctx, "nope"))
}
