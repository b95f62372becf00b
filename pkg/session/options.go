package session

import (
	"log/slog"
	"time"

	"github.com/chirpsocial/sessionkit/pkg/identity"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithConfig sets the session policy.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithLogger sets the logger for background-path degradation events.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithProfileStore sets the remote profile store used to gate the
// default-profile fallback for freshly observed identities.
func WithProfileStore(profiles identity.ProfileStore) Option {
	return func(m *Manager) {
		m.profiles = profiles
	}
}

// WithProfileProvisioner sets the hook that provisions profile data after
// a successful sign-up.
func WithProfileProvisioner(provisioner ProfileProvisioner) Option {
	return func(m *Manager) {
		m.provisioner = provisioner
	}
}

// WithLockout overrides the account-lockout policy.
func WithLockout(lockout *identity.Lockout) Option {
	return func(m *Manager) {
		if lockout != nil {
			m.lockout = lockout
		}
	}
}
