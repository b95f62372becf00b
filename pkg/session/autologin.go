package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/chirpsocial/sessionkit/pkg/identity"
)

// tryAutoLogin is the fallback restoration path: when the provider has not
// restored an identity on its own, attempt a sign-in with the credential
// saved in the vault. Guarded to a single attempt per process; repeated
// calls are no-ops. Never surfaces errors: on failure the user simply
// signs in manually.
func (m *Manager) tryAutoLogin(ctx context.Context) {
	m.autoOnce.Do(func() { m.autoLogin(ctx) })
}

func (m *Manager) autoLogin(ctx context.Context) {
	if m.resolved.Load() {
		return
	}

	// A real identity already current at the provider means the
	// subscription path is about to win; stand down.
	if current, err := m.provider.CurrentIdentity(ctx); err == nil && !current.IsNone() {
		return
	}

	cred, err := m.vault.Load(ctx)
	if err != nil {
		m.log.DebugContext(ctx, "session: auto-login vault read failed", "error", err)
		return
	}
	if cred == nil {
		return
	}

	ident, err := m.provider.SignIn(ctx, cred.Identifier, cred.Secret)
	if err != nil {
		// A credential the provider rejects is doomed; clear it so a
		// future attempt does not repeat a dead call.
		if errors.Is(err, identity.ErrInvalidCredentials) {
			if clearErr := m.vault.Clear(ctx); clearErr != nil {
				m.log.DebugContext(ctx, "session: clearing rejected credential failed", "error", clearErr)
			}
		}
		m.log.DebugContext(ctx, "session: auto-login failed", "error", err)
		return
	}

	if !m.tryResolve(resolution{to: StateAuthenticated, ident: ident, withRecord: true, hasLocal: true}) {
		return
	}

	m.log.InfoContext(ctx, "session: restored via auto-login")
	if err := m.vault.SaveSessionToken(ctx, uuid.NewString()); err != nil {
		m.log.WarnContext(ctx, "session: saving session evidence failed", "error", err)
	}

	go m.resolvePrivileges(ident)
}
