package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chirpsocial/sessionkit/pkg/identity"
)

// runResolutionRace arms the two fallback paths of the startup race: the
// auto-login attempt after a short grace period, and the bounded timeout
// that settles the machine as Unauthenticated if nothing else resolved it.
// The provider subscription is the third competitor and needs no timer.
// Cancelled as soon as any path wins.
func (m *Manager) runResolutionRace(ctx context.Context) {
	autoLogin := time.NewTimer(m.config.AutoLoginDelay)
	defer autoLogin.Stop()
	timeout := time.NewTimer(m.config.ResolveTimeout)
	defer timeout.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-autoLogin.C:
			if m.resolved.Load() {
				continue
			}
			go m.tryAutoLogin(ctx)

		case <-timeout.C:
			if m.tryResolve(resolution{to: StateUnauthenticated, ident: identity.None()}) {
				m.log.Info("session: restoration window elapsed, settling unauthenticated")
			}
			return
		}
	}
}

// resolution is the outcome a race competitor proposes: a terminal state
// plus the snapshot fields that must land with it.
type resolution struct {
	to           State
	ident        identity.Identity
	withRecord   bool
	hasLocal     bool
	needsProfile bool
}

// tryResolve attempts to win the resolution race with the given outcome.
// Exactly one caller wins; the rest get false and must discard their
// result. Record and snapshot flags are applied under the same lock as
// the transition, so no observer sees a half-restored session.
func (m *Manager) tryResolve(r resolution) bool {
	if !m.resolved.CompareAndSwap(false, true) {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.raceCancel != nil {
		m.raceCancel()
	}

	if m.state != StateUnknown {
		// An interactive operation settled the machine before the race
		// bookkeeping caught up; its state wins.
		return false
	}

	if r.withRecord {
		m.record = newRecord(m.now())
		m.lastPersist = m.now()
	}
	if r.hasLocal {
		m.hasLocal = true
	}
	m.needsProfile = r.needsProfile
	m.apply(r.to, r.ident)
	return true
}

// onProviderChange handles identity events from the provider subscription.
// This is the normal restoration path at startup and the remote sign-out
// signal afterwards.
func (m *Manager) onProviderChange(ident identity.Identity) {
	if m.closed.Load() {
		return
	}

	if ident.IsNone() {
		// Before resolution a none event proves nothing: the vault path
		// may still restore a session, so the race continues.
		if !m.resolved.Load() {
			return
		}

		m.mu.Lock()
		if m.state.Active() {
			m.log.Info("session: provider reported remote sign-out")
			m.teardownLocked(context.Background())
		}
		m.mu.Unlock()
		return
	}

	if !m.resolved.Load() {
		m.restoreFromProvider(ident)
		return
	}

	// Provider refreshed an identity we already hold (display name, photo
	// and similar); adopt the new snapshot without a transition.
	m.mu.Lock()
	if m.state.Active() && m.ident.Kind == ident.Kind {
		m.ident = ident
	}
	m.mu.Unlock()
}

// restoreFromProvider resolves the race with a provider-restored identity,
// gating the default-profile fallback on the way in.
func (m *Manager) restoreFromProvider(ident identity.Identity) {
	ctx := context.Background()

	needsProfile := false
	if ident.IsRegistered() && m.profiles != nil {
		profile, err := m.profiles.Get(ctx, ident.ID)
		if err != nil {
			m.log.WarnContext(ctx, "session: profile lookup failed", "error", err)
		} else if profile == nil {
			needsProfile = true
		}
	}

	to := StateAuthenticated
	if ident.IsGuest() {
		to = StateGuest
	}

	if !m.tryResolve(resolution{
		to:           to,
		ident:        ident,
		withRecord:   true,
		hasLocal:     true,
		needsProfile: needsProfile,
	}) {
		return
	}

	if err := m.vault.SaveSessionToken(ctx, uuid.NewString()); err != nil {
		m.log.WarnContext(ctx, "session: saving session evidence failed", "error", err)
	}

	if ident.IsRegistered() {
		go m.resolvePrivileges(ident)
	}
}
