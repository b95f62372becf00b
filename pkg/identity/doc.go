// Package identity defines who the current actor is and the contract the
// session layer consumes from the remote identity provider.
//
// An Identity is one of three variants: a registered user, a locally
// generated guest, or nobody. The Provider interface is the session layer's
// only view of the remote service: sign-in/sign-up/sign-out, the current
// identity snapshot, a change subscription, and a claims token for
// privilege resolution. The package also carries the shared error taxonomy
// for interactive auth operations and the account-lockout bookkeeping that
// runs before any credential ever reaches the network.
package identity
