package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLockout(cfg LockoutConfig) (*Lockout, *time.Time) {
	l := NewLockout(cfg)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLockout_LocksAfterMaxAttempts(t *testing.T) {
	l, _ := newTestLockout(LockoutConfig{
		MaxAttempts:   3,
		LockDuration:  15 * time.Minute,
		AttemptWindow: 30 * time.Minute,
	})

	require.NoError(t, l.Check("u1"))
	l.RecordFailure("u1")
	l.RecordFailure("u1")
	require.NoError(t, l.Check("u1"))

	l.RecordFailure("u1")

	err := l.Check("u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAccountLocked)

	var locked *LockedError
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, 15*time.Minute, locked.Remaining)
}

func TestLockout_UnlocksAfterDuration(t *testing.T) {
	l, now := newTestLockout(LockoutConfig{
		MaxAttempts:   1,
		LockDuration:  10 * time.Minute,
		AttemptWindow: time.Hour,
	})

	l.RecordFailure("u1")
	require.ErrorIs(t, l.Check("u1"), ErrAccountLocked)

	*now = now.Add(10*time.Minute + time.Second)
	assert.NoError(t, l.Check("u1"))
}

func TestLockout_RemainingShrinks(t *testing.T) {
	l, now := newTestLockout(LockoutConfig{
		MaxAttempts:   1,
		LockDuration:  10 * time.Minute,
		AttemptWindow: time.Hour,
	})

	l.RecordFailure("u1")

	*now = now.Add(4 * time.Minute)
	var locked *LockedError
	require.True(t, errors.As(l.Check("u1"), &locked))
	assert.Equal(t, 6*time.Minute, locked.Remaining)
}

func TestLockout_SuccessClearsCounter(t *testing.T) {
	l, _ := newTestLockout(LockoutConfig{
		MaxAttempts:   2,
		LockDuration:  10 * time.Minute,
		AttemptWindow: time.Hour,
	})

	l.RecordFailure("u1")
	l.RecordSuccess("u1")
	l.RecordFailure("u1")

	assert.NoError(t, l.Check("u1"))
}

func TestLockout_QuietWindowResetsCounter(t *testing.T) {
	l, now := newTestLockout(LockoutConfig{
		MaxAttempts:   2,
		LockDuration:  10 * time.Minute,
		AttemptWindow: 30 * time.Minute,
	})

	l.RecordFailure("u1")

	*now = now.Add(31 * time.Minute)
	l.RecordFailure("u1")

	// The stale failure decayed, so only one failure counts.
	assert.NoError(t, l.Check("u1"))
}

func TestLockout_IdentifiersIndependent(t *testing.T) {
	l, _ := newTestLockout(LockoutConfig{
		MaxAttempts:   1,
		LockDuration:  10 * time.Minute,
		AttemptWindow: time.Hour,
	})

	l.RecordFailure("u1")

	assert.ErrorIs(t, l.Check("u1"), ErrAccountLocked)
	assert.NoError(t, l.Check("u2"))
}
