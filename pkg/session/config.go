package session

import "time"

// Config holds the session policy. Loaded once at startup and never
// mutated by session events.
type Config struct {
	// InactivityTimeout expires a session after this much user silence
	InactivityTimeout time.Duration `env:"SESSIONKIT_INACTIVITY_TIMEOUT" envDefault:"30m"`

	// BackgroundTimeout expires a session kept in the background this long
	BackgroundTimeout time.Duration `env:"SESSIONKIT_BACKGROUND_TIMEOUT" envDefault:"5m"`

	// MaxSessionDuration is the hard ceiling on session length
	MaxSessionDuration time.Duration `env:"SESSIONKIT_MAX_SESSION_DURATION" envDefault:"720h"`

	// AutoExpiryEnabled gates expiry enforcement. When false the timer
	// still tracks timestamps for observability but never signs out.
	AutoExpiryEnabled bool `env:"SESSIONKIT_AUTO_EXPIRY" envDefault:"true"`

	// ResolveTimeout bounds the startup resolution race
	ResolveTimeout time.Duration `env:"SESSIONKIT_RESOLVE_TIMEOUT" envDefault:"10s"`

	// AutoLoginDelay is how long the auto-login fallback waits for the
	// provider's own restore before attempting the vault path
	AutoLoginDelay time.Duration `env:"SESSIONKIT_AUTOLOGIN_DELAY" envDefault:"2s"`

	// ExpiryCheckInterval is how often the expiry formula is evaluated
	ExpiryCheckInterval time.Duration `env:"SESSIONKIT_EXPIRY_CHECK_INTERVAL" envDefault:"30s"`

	// ActivityPersistThreshold coalesces activity-timestamp writes to the
	// store; the in-memory timer reset is never throttled
	ActivityPersistThreshold time.Duration `env:"SESSIONKIT_ACTIVITY_PERSIST_THRESHOLD" envDefault:"1m"`
}

// DefaultConfig returns the default session policy.
func DefaultConfig() Config {
	return Config{
		InactivityTimeout:        30 * time.Minute,
		BackgroundTimeout:        5 * time.Minute,
		MaxSessionDuration:       30 * 24 * time.Hour,
		AutoExpiryEnabled:        true,
		ResolveTimeout:           10 * time.Second,
		AutoLoginDelay:           2 * time.Second,
		ExpiryCheckInterval:      30 * time.Second,
		ActivityPersistThreshold: time.Minute,
	}
}
