package session

import (
	"context"

	"github.com/chirpsocial/sessionkit/pkg/identity"
)

// Privileges returns the last resolved privilege claims. Guests and the
// None identity always carry zero privileges.
func (m *Manager) Privileges() identity.PrivilegeClaims {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.privileges
}

// RefreshPrivileges forces a claims-token refresh and re-resolves the
// privilege claims. Failures degrade to the last-known claims: a claims
// check must never block the core session flow.
func (m *Manager) RefreshPrivileges(ctx context.Context) identity.PrivilegeClaims {
	m.mu.Lock()
	ident := m.ident
	last := m.privileges
	m.mu.Unlock()

	if !ident.IsRegistered() {
		return identity.NoPrivileges()
	}

	token, err := m.provider.RefreshClaimsToken(ctx)
	if err != nil {
		m.log.WarnContext(ctx, "session: claims refresh failed, keeping last known", "error", err)
		return last
	}

	claims, err := identity.ParseClaimsToken(token)
	if err != nil {
		m.log.WarnContext(ctx, "session: claims parse failed, keeping last known", "error", err)
		return last
	}

	m.mu.Lock()
	// The actor may have changed while the refresh was in flight; stale
	// claims must not attach to a different identity.
	if m.ident.IsRegistered() && m.ident.ID == ident.ID {
		m.privileges = claims
	}
	m.mu.Unlock()

	return claims
}

// resolvePrivileges resolves claims for a freshly signed-in identity on a
// best-effort basis. Background path: logs and degrades, never surfaces.
func (m *Manager) resolvePrivileges(ident identity.Identity) {
	if !ident.IsRegistered() {
		return
	}

	ctx := context.Background()
	token, err := m.provider.ClaimsToken(ctx)
	if err != nil {
		m.log.DebugContext(ctx, "session: claims token unavailable", "error", err)
		return
	}

	claims, err := identity.ParseClaimsToken(token)
	if err != nil {
		m.log.DebugContext(ctx, "session: claims token unreadable", "error", err)
		return
	}

	m.mu.Lock()
	if m.ident.IsRegistered() && m.ident.ID == ident.ID {
		m.privileges = claims
	}
	m.mu.Unlock()
}
