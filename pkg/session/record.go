package session

import (
	"time"

	"github.com/google/uuid"
)

// Record tracks one live session's activity timestamps. Owned exclusively
// by the Manager; LastActiveAt never precedes SessionStartAt, and
// BackgroundAt is set only while the app is backgrounded.
type Record struct {
	ID             uuid.UUID `json:"id"`
	SessionStartAt time.Time `json:"session_start_at"`
	LastActiveAt   time.Time `json:"last_active_at"`
	BackgroundAt   time.Time `json:"background_at,omitzero"`
	IsActive       bool      `json:"is_active"`
}

// newRecord starts a fresh session record at now.
func newRecord(now time.Time) *Record {
	return &Record{
		ID:             uuid.New(),
		SessionStartAt: now,
		LastActiveAt:   now,
		IsActive:       true,
	}
}

// touch records activity at now, clamped so LastActiveAt never moves
// before SessionStartAt.
func (r *Record) touch(now time.Time) {
	if now.Before(r.SessionStartAt) {
		now = r.SessionStartAt
	}
	r.LastActiveAt = now
}

// expired evaluates the expiry formula against the policy at now. A zero
// duration disables the corresponding limit.
func (r *Record) expired(cfg Config, now time.Time) bool {
	if cfg.MaxSessionDuration > 0 && now.Sub(r.SessionStartAt) > cfg.MaxSessionDuration {
		return true
	}
	if cfg.InactivityTimeout > 0 && now.Sub(r.LastActiveAt) > cfg.InactivityTimeout {
		return true
	}
	if cfg.BackgroundTimeout > 0 && !r.BackgroundAt.IsZero() && now.Sub(r.BackgroundAt) > cfg.BackgroundTimeout {
		return true
	}
	return false
}

// clone returns a copy safe to hand to callers.
func (r *Record) clone() *Record {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}
