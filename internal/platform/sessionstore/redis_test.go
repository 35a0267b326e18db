package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := Connect(context.Background(), mr.Addr(), "", 0, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestBeginFirstWriteWins(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got, created, err := store.Begin(ctx, "c1", "0xwallet", first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, first.UnixMilli(), got.UnixMilli())

	// A later Begin observes the original instant.
	later := first.Add(5 * time.Minute)
	got, created, err = store.Begin(ctx, "c1", "0xwallet", later)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.UnixMilli(), got.UnixMilli())

	// Other pairs are independent.
	got, created, err = store.Begin(ctx, "c1", "0xother", later)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, later.UnixMilli(), got.UnixMilli())
}

func TestBeginAfterRetentionExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, created, err := store.Begin(ctx, "c1", "0xwallet", first)
	require.NoError(t, err)
	require.True(t, created)

	// Once retention has passed, the pair starts fresh rather than erroring
	// on the vanished key.
	mr.FastForward(2 * time.Hour)
	later := first.Add(2 * time.Hour)
	got, created, err := store.Begin(ctx, "c1", "0xwallet", later)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, later.UnixMilli(), got.UnixMilli())
}

func TestGetWithoutSession(t *testing.T) {
	store, _ := newTestStore(t)

	_, found, err := store.Get(context.Background(), "c1", "0xnobody")
	require.NoError(t, err)
	assert.False(t, found)
}
