package kvstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpsocial/sessionkit/pkg/kvstore"
)

func newBoltStore(t *testing.T) *kvstore.Bolt {
	t.Helper()

	store, err := kvstore.NewBolt(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestBolt_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newBoltStore(t)

	require.NoError(t, store.Set(ctx, "a", []byte("1")))

	value, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), value)

	require.NoError(t, store.Remove(ctx, "a"))

	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestBolt_ListKeys(t *testing.T) {
	ctx := context.Background()
	store := newBoltStore(t)

	require.NoError(t, store.Set(ctx, "b", []byte("2")))
	require.NoError(t, store.Set(ctx, "a", []byte("1")))

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	// bbolt iterates in byte order
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestBolt_RemoveAllAndClear(t *testing.T) {
	ctx := context.Background()
	store := newBoltStore(t)

	require.NoError(t, store.Set(ctx, "a", []byte("1")))
	require.NoError(t, store.Set(ctx, "b", []byte("2")))

	require.NoError(t, store.RemoveAll(ctx, []string{"a", "missing"}))

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)

	require.NoError(t, store.Clear(ctx))

	keys, err = store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestBolt_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := kvstore.NewBolt(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "a", []byte("1")))
	require.NoError(t, store.Close())

	reopened, err := kvstore.NewBolt(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), value)
}
