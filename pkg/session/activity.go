package session

import (
	"context"
	"time"
)

// UpdateActivity records a user interaction. Cheap enough for every touch:
// the in-memory timestamp always resets, while persistence of the
// timestamp is coalesced to at most one write per
// ActivityPersistThreshold.
func (m *Manager) UpdateActivity() {
	m.mu.Lock()
	if m.record == nil {
		m.mu.Unlock()
		return
	}

	now := m.now()
	m.record.touch(now)

	persist := now.Sub(m.lastPersist) >= m.config.ActivityPersistThreshold
	if persist {
		m.lastPersist = now
	}
	m.mu.Unlock()

	if persist {
		go func() {
			if err := m.vault.SaveLastActive(context.Background(), now); err != nil {
				m.log.Debug("session: persisting activity failed", "error", err)
			}
		}()
	}
}

// OnBackground marks the app as backgrounded and arms the background
// timeout. Arming cancels any prior background timer first, so the timer
// never fires twice for one background period.
func (m *Manager) OnBackground() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.record == nil {
		return
	}

	m.record.BackgroundAt = m.now()
	m.record.IsActive = false

	m.stopBackgroundTimerLocked()
	if m.config.AutoExpiryEnabled && m.config.BackgroundTimeout > 0 {
		m.bgTimer = time.AfterFunc(m.config.BackgroundTimeout, m.checkExpiry)
	}
}

// OnForeground clears the background mark. A session that overstayed the
// background timeout expires immediately; otherwise it counts as activity.
func (m *Manager) OnForeground() {
	m.mu.Lock()

	if m.record == nil {
		m.mu.Unlock()
		return
	}

	m.stopBackgroundTimerLocked()

	now := m.now()
	overstayed := m.config.AutoExpiryEnabled &&
		m.config.BackgroundTimeout > 0 &&
		!m.record.BackgroundAt.IsZero() &&
		now.Sub(m.record.BackgroundAt) > m.config.BackgroundTimeout

	if overstayed {
		m.mu.Unlock()
		m.expire()
		return
	}

	m.record.BackgroundAt = time.Time{}
	m.record.IsActive = true
	m.record.touch(now)
	m.mu.Unlock()
}

// expiryLoop periodically evaluates the expiry formula while a session is
// live. Runs until Close.
func (m *Manager) expiryLoop() {
	ticker := time.NewTicker(m.config.ExpiryCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.checkExpiry()
		}
	}
}

// checkExpiry expires the session when the policy says so. With
// AutoExpiryEnabled=false the timestamps keep updating for observability
// but no sequence of events ever triggers a sign-out.
func (m *Manager) checkExpiry() {
	m.mu.Lock()
	expired := m.config.AutoExpiryEnabled &&
		m.state.Active() &&
		m.record != nil &&
		m.record.expired(m.config, m.now())
	m.mu.Unlock()

	if expired {
		m.expire()
	}
}

// expire signs the session out through the same path interactive callers
// use, preserving the single writer for identity and record. Runs without
// any UI context.
func (m *Manager) expire() {
	m.mu.Lock()
	if !m.state.Active() {
		m.mu.Unlock()
		return
	}
	m.log.Info("session: expiry policy triggered, signing out")
	m.mu.Unlock()

	if err := m.SignOut(context.Background()); err != nil {
		m.log.Warn("session: expiry sign-out failed remotely", "error", err)
	}
}

// stopBackgroundTimerLocked cancels a pending background timeout. Caller
// holds m.mu.
func (m *Manager) stopBackgroundTimerLocked() {
	if m.bgTimer != nil {
		m.bgTimer.Stop()
		m.bgTimer = nil
	}
}
