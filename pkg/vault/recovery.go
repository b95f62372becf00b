package vault

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/chirpsocial/sessionkit/pkg/kvstore"
)

// guard runs op against the store-health policy. Bypassed stores
// short-circuit to success. A corruption-signature failure engages the
// recovery ladder once per process, then retries op a single time; if the
// store still misbehaves after a recovery that claimed health, the vault
// flips to bypass instead of flapping.
func (v *Vault) guard(ctx context.Context, op func() error) error {
	if v.bypassed.Load() {
		return nil
	}

	err := op()
	if err == nil || errors.Is(err, kvstore.ErrNotFound) {
		return err
	}
	if !kvstore.IsCorruption(err) {
		return err
	}

	v.log.WarnContext(ctx, "vault: store corruption detected, attempting recovery", "error", err)
	v.recoverOnce.Do(func() { v.recover(ctx) })

	if v.bypassed.Load() {
		return nil
	}

	retryErr := op()
	if retryErr == nil || errors.Is(retryErr, kvstore.ErrNotFound) {
		return retryErr
	}

	v.log.ErrorContext(ctx, "vault: store still failing after recovery, bypassing", "error", retryErr)
	v.bypassed.Store(true)
	return nil
}

// recover executes the degrade-gracefully ladder: full clear with probe,
// selective clear with probe, then bypass.
func (v *Vault) recover(ctx context.Context) {
	if v.clearAll(ctx) == nil && v.probe(ctx) == nil {
		v.log.InfoContext(ctx, "vault: store recovered via full clear")
		return
	}

	if v.clearNonEssential(ctx) == nil && v.probe(ctx) == nil {
		v.log.InfoContext(ctx, "vault: store recovered via selective clear")
		return
	}

	v.log.ErrorContext(ctx, "vault: store unrecoverable, bypassing for process lifetime")
	v.bypassed.Store(true)
}

// clearAll wipes the store, preferring a backend-native clear.
func (v *Vault) clearAll(ctx context.Context) error {
	if clearer, ok := v.store.(kvstore.Clearer); ok {
		return clearer.Clear(ctx)
	}

	keys, err := v.store.ListKeys(ctx)
	if err != nil {
		return err
	}
	return v.store.RemoveAll(ctx, keys)
}

// clearNonEssential removes every key except the session-token keys.
func (v *Vault) clearNonEssential(ctx context.Context) error {
	keys, err := v.store.ListKeys(ctx)
	if err != nil {
		return err
	}

	nonEssential := make([]string, 0, len(keys))
	for _, key := range keys {
		if !strings.HasPrefix(key, essentialPrefix) {
			nonEssential = append(nonEssential, key)
		}
	}
	return v.store.RemoveAll(ctx, nonEssential)
}

// probe verifies the store can complete a write/read/delete round trip.
func (v *Vault) probe(ctx context.Context) error {
	sentinel := []byte("ok")

	if err := v.store.Set(ctx, probeKey, sentinel); err != nil {
		return err
	}

	value, err := v.store.Get(ctx, probeKey)
	if err != nil {
		return err
	}
	if !bytes.Equal(value, sentinel) {
		return ErrCorrupted
	}

	return v.store.Remove(ctx, probeKey)
}
