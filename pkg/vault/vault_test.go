package vault_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpsocial/sessionkit/pkg/kvstore"
	"github.com/chirpsocial/sessionkit/pkg/vault"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestVault(t *testing.T, store kvstore.Store) *vault.Vault {
	t.Helper()

	v, err := vault.New(store, testKey)
	require.NoError(t, err)
	return v
}

func TestVault_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, kvstore.NewMemory())

	cred, err := v.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, cred)

	require.NoError(t, v.Save(ctx, "u1", "p1"))

	cred, err = v.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "u1", cred.Identifier)
	assert.Equal(t, "p1", cred.Secret)
	assert.WithinDuration(t, time.Now(), cred.SavedAt, time.Minute)

	require.NoError(t, v.Clear(ctx))

	cred, err = v.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, cred)

	// Clearing an empty slot stays successful
	assert.NoError(t, v.Clear(ctx))
}

func TestVault_SaveOverwritesSlot(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, kvstore.NewMemory())

	require.NoError(t, v.Save(ctx, "u1", "p1"))
	require.NoError(t, v.Save(ctx, "u2", "p2"))

	cred, err := v.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "u2", cred.Identifier)
	assert.Equal(t, "p2", cred.Secret)
}

func TestVault_SecretEncryptedAtRest(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	v := newTestVault(t, store)

	require.NoError(t, v.Save(ctx, "u1", "hunter2"))

	raw, err := store.Get(ctx, "auth.saved_credential")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")
	assert.NotContains(t, string(raw), "u1")
}

func TestVault_UndecryptableSlotDropped(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	v := newTestVault(t, store)

	require.NoError(t, store.Set(ctx, "auth.saved_credential", []byte("garbage")))

	cred, err := v.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, cred)

	// The broken slot was removed, not left to fail again
	_, err = store.Get(ctx, "auth.saved_credential")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestVault_SessionTokenSlot(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, kvstore.NewMemory())

	token, err := v.LoadSessionToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, v.HasSessionEvidence(ctx))

	require.NoError(t, v.SaveSessionToken(ctx, "tok-1"))

	token, err = v.LoadSessionToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.True(t, v.HasSessionEvidence(ctx))

	require.NoError(t, v.ClearSessionToken(ctx))
	assert.False(t, v.HasSessionEvidence(ctx))
}

func TestVault_CredentialCountsAsEvidence(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, kvstore.NewMemory())

	require.NoError(t, v.Save(ctx, "u1", "p1"))
	assert.True(t, v.HasSessionEvidence(ctx))
}

func TestVault_LastActiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t, kvstore.NewMemory())

	loaded, err := v.LoadLastActive(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.IsZero())

	mark := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, v.SaveLastActive(ctx, mark))

	loaded, err = v.LoadLastActive(ctx)
	require.NoError(t, err)
	assert.True(t, mark.Equal(loaded))
}

func TestVault_RejectsShortKey(t *testing.T) {
	_, err := vault.New(kvstore.NewMemory(), []byte("short"))
	assert.ErrorIs(t, err, vault.ErrInvalidKey)
}

// faultyStore scripts device-store failure modes for the recovery ladder.
type faultyStore struct {
	mu sync.Mutex

	inner       *kvstore.Memory
	failing     bool // all ops return a corruption error while set
	clearFixes  bool // Clear repairs the store
	clearBroken bool // Clear itself fails
	listFixes   bool // ListKeys/RemoveAll path repairs the store
	ops         int
}

func (f *faultyStore) fail() error {
	return kvstore.ErrCorrupted
}

func (f *faultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops++
	if f.failing {
		return nil, f.fail()
	}
	return f.inner.Get(ctx, key)
}

func (f *faultyStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops++
	if f.failing {
		return f.fail()
	}
	return f.inner.Set(ctx, key, value)
}

func (f *faultyStore) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops++
	if f.failing {
		return f.fail()
	}
	return f.inner.Remove(ctx, key)
}

func (f *faultyStore) RemoveAll(ctx context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops++
	if f.failing {
		if f.listFixes {
			f.failing = false
			return nil
		}
		return f.fail()
	}
	return f.inner.RemoveAll(ctx, keys)
}

func (f *faultyStore) ListKeys(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops++
	if f.failing && !f.listFixes {
		return nil, f.fail()
	}
	return f.inner.ListKeys(ctx)
}

func (f *faultyStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops++
	if f.clearBroken {
		return f.fail()
	}
	if f.clearFixes {
		f.failing = false
	}
	return f.inner.Clear(ctx)
}

func (f *faultyStore) opCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ops
}

func TestVault_RecoversViaFullClear(t *testing.T) {
	ctx := context.Background()
	store := &faultyStore{inner: kvstore.NewMemory(), failing: true, clearFixes: true}
	v := newTestVault(t, store)

	// First op hits corruption, the ladder's full clear repairs the store,
	// and the op retry succeeds.
	require.NoError(t, v.Save(ctx, "u1", "p1"))
	assert.False(t, v.Bypassed())

	cred, err := v.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "u1", cred.Identifier)
}

func TestVault_RecoversViaSelectiveClear(t *testing.T) {
	ctx := context.Background()
	store := &faultyStore{inner: kvstore.NewMemory(), failing: true, clearBroken: true, listFixes: true}
	v := newTestVault(t, store)

	require.NoError(t, v.Save(ctx, "u1", "p1"))
	assert.False(t, v.Bypassed())
}

func TestVault_BypassesUnrecoverableStore(t *testing.T) {
	ctx := context.Background()
	store := &faultyStore{inner: kvstore.NewMemory(), failing: true, clearBroken: true}
	v := newTestVault(t, store)

	// Every ladder rung fails, so the vault flips to bypass and the
	// operation still reports success.
	require.NoError(t, v.Save(ctx, "u1", "p1"))
	assert.True(t, v.Bypassed())

	opsAfterBypass := store.opCount()

	// All further operations no-op without touching the broken store.
	require.NoError(t, v.Save(ctx, "u2", "p2"))

	cred, err := v.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, cred)

	require.NoError(t, v.Clear(ctx))

	token, err := v.LoadSessionToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	assert.Equal(t, opsAfterBypass, store.opCount())
	assert.True(t, v.Bypassed())
}
