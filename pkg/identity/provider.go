package identity

import "context"

// SignUpParams carries the fields needed to provision a new account.
type SignUpParams struct {
	Identifier  string
	Secret      string
	DisplayName string
	Handle      string
}

// Provider is the session layer's view of the remote identity service.
// Implementations are expected to perform their own transport retries;
// every call is treated as atomic success or failure. Calls may block for
// network-bound periods, so all take a context.
type Provider interface {
	// SignIn authenticates with the given credential and returns the
	// resulting identity.
	SignIn(ctx context.Context, identifier, secret string) (Identity, error)

	// SignUp provisions a new account and returns the resulting identity.
	SignUp(ctx context.Context, params SignUpParams) (Identity, error)

	// SignOut invalidates the remote session.
	SignOut(ctx context.Context) error

	// CurrentIdentity returns the provider's current identity snapshot,
	// or the None identity if nobody is signed in.
	CurrentIdentity(ctx context.Context) (Identity, error)

	// SubscribeChanges registers cb to be invoked whenever the provider's
	// identity changes (including the initial restore after process start).
	// The returned function cancels the subscription; it must be safe to
	// call exactly once.
	SubscribeChanges(cb func(Identity)) (unsubscribe func())

	// ClaimsToken returns the current identity's claims token.
	ClaimsToken(ctx context.Context) (string, error)

	// RefreshClaimsToken forces a new claims token to be minted and
	// returns it.
	RefreshClaimsToken(ctx context.Context) (string, error)

	// DeleteAccount permanently removes the current account upstream.
	DeleteAccount(ctx context.Context) error
}

// Profile is the minimal projection of the remote profile document the
// session layer cares about.
type Profile struct {
	ID          string
	DisplayName string
	Handle      string
}

// ProfileStore is the remote key-value-by-id profile service. Only used to
// decide whether a freshly observed identity already has a complete
// profile.
type ProfileStore interface {
	// Get returns the profile for id, or nil if none exists.
	Get(ctx context.Context, id string) (*Profile, error)
}
