package vault

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chirpsocial/sessionkit/pkg/kvstore"
)

// Store keys. Everything under essentialPrefix survives the selective
// recovery step.
const (
	credentialKey   = "auth.saved_credential"
	sessionTokenKey = "auth.session.token"
	lastActiveKey   = "auth.session.last_active"
	probeKey        = "auth.health_probe"

	essentialPrefix = "auth.session"
)

// SavedCredential is the single persisted credential pair used by
// auto-login.
type SavedCredential struct {
	Identifier string    `json:"identifier"`
	Secret     string    `json:"secret"`
	SavedAt    time.Time `json:"saved_at"`
}

// Vault wraps the device store with single-slot credential persistence,
// at-rest encryption and the store-health guard.
type Vault struct {
	store kvstore.Store
	key   []byte
	log   *slog.Logger
	now   func() time.Time

	recoverOnce sync.Once
	bypassed    atomic.Bool
}

// Option configures the Vault.
type Option func(*Vault)

// WithLogger sets the logger used for degradation events.
func WithLogger(log *slog.Logger) Option {
	return func(v *Vault) {
		if log != nil {
			v.log = log
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(v *Vault) {
		if now != nil {
			v.now = now
		}
	}
}

// New creates a Vault over store. appKey must be KeySize bytes; it is
// stretched into the sealing key via HKDF.
func New(store kvstore.Store, appKey []byte, opts ...Option) (*Vault, error) {
	key, err := deriveKey(appKey)
	if err != nil {
		return nil, err
	}

	v := &Vault{
		store: store,
		key:   key,
		log:   slog.Default(),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Save persists the credential pair, overwriting any existing slot.
func (v *Vault) Save(ctx context.Context, identifier, secret string) error {
	cred := SavedCredential{
		Identifier: identifier,
		Secret:     secret,
		SavedAt:    v.now(),
	}

	plaintext, err := json.Marshal(cred)
	if err != nil {
		return err
	}

	sealed, err := seal(v.key, plaintext)
	if err != nil {
		return err
	}

	return v.guard(ctx, func() error {
		return v.store.Set(ctx, credentialKey, sealed)
	})
}

// Load returns the saved credential, or nil if nothing is saved. A slot
// that cannot be decrypted is treated as absent and dropped.
func (v *Vault) Load(ctx context.Context) (*SavedCredential, error) {
	var sealed []byte
	err := v.guard(ctx, func() error {
		data, err := v.store.Get(ctx, credentialKey)
		if err != nil {
			return err
		}
		sealed = data
		return nil
	})
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if sealed == nil {
		// Guard short-circuited to success on a bypassed store.
		return nil, nil
	}

	plaintext, err := open(v.key, sealed)
	if err != nil {
		v.log.WarnContext(ctx, "vault: dropping undecryptable credential slot", "error", err)
		_ = v.guard(ctx, func() error {
			return v.store.Remove(ctx, credentialKey)
		})
		return nil, nil
	}

	var cred SavedCredential
	if err := json.Unmarshal(plaintext, &cred); err != nil {
		v.log.WarnContext(ctx, "vault: dropping unreadable credential slot", "error", err)
		_ = v.guard(ctx, func() error {
			return v.store.Remove(ctx, credentialKey)
		})
		return nil, nil
	}

	return &cred, nil
}

// Clear removes the saved credential. Idempotent: clearing an empty slot
// succeeds.
func (v *Vault) Clear(ctx context.Context) error {
	return v.guard(ctx, func() error {
		return v.store.Remove(ctx, credentialKey)
	})
}

// SaveSessionToken persists session-token evidence under an essential key
// that the selective recovery step preserves.
func (v *Vault) SaveSessionToken(ctx context.Context, token string) error {
	sealed, err := seal(v.key, []byte(token))
	if err != nil {
		return err
	}

	return v.guard(ctx, func() error {
		return v.store.Set(ctx, sessionTokenKey, sealed)
	})
}

// LoadSessionToken returns the persisted session token, or "" if none.
func (v *Vault) LoadSessionToken(ctx context.Context) (string, error) {
	var sealed []byte
	err := v.guard(ctx, func() error {
		data, err := v.store.Get(ctx, sessionTokenKey)
		if err != nil {
			return err
		}
		sealed = data
		return nil
	})
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if sealed == nil {
		return "", nil
	}

	token, err := open(v.key, sealed)
	if err != nil {
		v.log.WarnContext(ctx, "vault: dropping undecryptable session token", "error", err)
		_ = v.guard(ctx, func() error {
			return v.store.Remove(ctx, sessionTokenKey)
		})
		return "", nil
	}

	return string(token), nil
}

// ClearSessionToken removes the session-token evidence.
func (v *Vault) ClearSessionToken(ctx context.Context) error {
	return v.guard(ctx, func() error {
		return v.store.Remove(ctx, sessionTokenKey)
	})
}

// SaveLastActive persists the last-activity timestamp. Not a secret, so it
// is stored as a plain unix timestamp. Callers throttle this upstream.
func (v *Vault) SaveLastActive(ctx context.Context, t time.Time) error {
	return v.guard(ctx, func() error {
		return v.store.Set(ctx, lastActiveKey, []byte(strconv.FormatInt(t.Unix(), 10)))
	})
}

// LoadLastActive returns the persisted last-activity timestamp, or the zero
// time if none was recorded.
func (v *Vault) LoadLastActive(ctx context.Context) (time.Time, error) {
	var raw []byte
	err := v.guard(ctx, func() error {
		data, err := v.store.Get(ctx, lastActiveKey)
		if err != nil {
			return err
		}
		raw = data
		return nil
	})
	if errors.Is(err, kvstore.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if raw == nil {
		return time.Time{}, nil
	}

	unix, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, nil
	}
	return time.Unix(unix, 0), nil
}

// HasSessionEvidence reports whether any persisted session evidence exists,
// independent of whether it still verifies upstream.
func (v *Vault) HasSessionEvidence(ctx context.Context) bool {
	token, err := v.LoadSessionToken(ctx)
	if err == nil && token != "" {
		return true
	}

	cred, err := v.Load(ctx)
	return err == nil && cred != nil
}

// Bypassed reports whether the health guard has written the store off for
// this process.
func (v *Vault) Bypassed() bool {
	return v.bypassed.Load()
}
