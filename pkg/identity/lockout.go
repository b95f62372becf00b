package identity

import (
	"sync"
	"time"
)

// LockoutConfig defines the failed-attempt policy.
type LockoutConfig struct {
	// MaxAttempts is the number of consecutive failures before a lock
	MaxAttempts int `env:"SESSIONKIT_LOCKOUT_MAX_ATTEMPTS" envDefault:"5"`

	// LockDuration is how long an identifier stays locked
	LockDuration time.Duration `env:"SESSIONKIT_LOCKOUT_DURATION" envDefault:"15m"`

	// AttemptWindow resets the failure counter after this much quiet time
	AttemptWindow time.Duration `env:"SESSIONKIT_LOCKOUT_WINDOW" envDefault:"30m"`
}

// DefaultLockoutConfig returns the default lockout policy.
func DefaultLockoutConfig() LockoutConfig {
	return LockoutConfig{
		MaxAttempts:   5,
		LockDuration:  15 * time.Minute,
		AttemptWindow: 30 * time.Minute,
	}
}

type lockoutEntry struct {
	failures    int
	lastFailure time.Time
	lockedUntil time.Time
}

// Lockout tracks consecutive sign-in failures per identifier and locks an
// identifier out after too many. Evaluated before the provider is called,
// so a locked account never reaches the network.
type Lockout struct {
	mu      sync.Mutex
	config  LockoutConfig
	entries map[string]*lockoutEntry
	now     func() time.Time
}

// NewLockout creates a Lockout with the given policy.
func NewLockout(config LockoutConfig) *Lockout {
	return &Lockout{
		config:  config,
		entries: make(map[string]*lockoutEntry),
		now:     time.Now,
	}
}

// Check returns a *LockedError if identifier is currently locked, nil
// otherwise.
func (l *Lockout) Check(identifier string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[identifier]
	if !ok {
		return nil
	}

	now := l.now()
	if now.Before(entry.lockedUntil) {
		return &LockedError{Remaining: entry.lockedUntil.Sub(now)}
	}

	// Stale counters decay after a quiet window
	if l.config.AttemptWindow > 0 && now.Sub(entry.lastFailure) > l.config.AttemptWindow {
		delete(l.entries, identifier)
	}

	return nil
}

// RecordFailure bumps the failure counter for identifier, locking it once
// the configured threshold is reached.
func (l *Lockout) RecordFailure(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[identifier]
	if !ok || (l.config.AttemptWindow > 0 && now.Sub(entry.lastFailure) > l.config.AttemptWindow) {
		entry = &lockoutEntry{}
		l.entries[identifier] = entry
	}

	entry.failures++
	entry.lastFailure = now

	if entry.failures >= l.config.MaxAttempts {
		entry.lockedUntil = now.Add(l.config.LockDuration)
		entry.failures = 0
	}
}

// RecordSuccess clears any failure bookkeeping for identifier.
func (l *Lockout) RecordSuccess(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, identifier)
}
