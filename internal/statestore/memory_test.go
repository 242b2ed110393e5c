package statestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTripAndExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(0)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	id, err := store.Save(ctx, sample)
	require.NoError(t, err)

	got, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	now = now.Add(DefaultTTL - time.Second)
	_, err = store.Load(ctx, id)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSweepsExpiredOnSave(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := store.Save(ctx, sample)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = store.Save(ctx, sample)
	require.NoError(t, err)

	assert.Len(t, store.entries, 1)
}

func TestMemoryStoreIDsAreUnique(t *testing.T) {
	store := NewMemoryStore(0)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := store.Save(context.Background(), sample)
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
