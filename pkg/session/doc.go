// Package session owns the client's authentication lifecycle: who the
// current actor is, how that identity is restored across process restarts,
// and when a session expires.
//
// A Manager is the single writer for the current Identity and the
// SessionRecord. It starts in the Unknown state and races three async paths
// to resolve out of it: the identity provider's own restore subscription,
// an auto-login attempt from the credential vault, and a bounded timeout.
// Whichever resolves first wins; late arrivals are discarded. Once any path
// sets a non-Unknown state the manager is ready, and ready never reverts.
//
//	            ┌──────────────┐
//	            │   Unknown    │
//	            └──────┬───────┘
//	   provider / auto-login / timeout
//	            ┌──────┴───────┐
//	            ▼              ▼
//	┌───────────────┐   ┌─────────────────┐
//	│ Authenticated │   │ Unauthenticated │◄─── sign-out, expiry
//	│     Guest     │──►│                 │───► sign-in, sign-up, guest
//	└───────────────┘   └─────────────────┘
//
// After resolution the activity timer enforces the expiry policy
// (inactivity, background and max-duration limits) by calling SignOut
// through the same path interactive callers use, preserving the single
// writer.
//
// # Usage
//
//	manager := session.New(provider, credVault,
//	    session.WithConfig(cfg),
//	    session.WithProfileStore(profiles),
//	)
//	if err := manager.Start(ctx); err != nil { ... }
//	defer manager.Close()
//
//	unsub := manager.OnIdentityChange(func(c session.Change) {
//	    // re-render on actor changes
//	})
//	defer unsub()
//
// Interactive operations (SignIn, SignUp, SignInAsGuest, SignOut,
// DeleteAccount) surface typed errors from the identity package.
// Best-effort paths (auto-login, activity persistence, claims refresh)
// log and degrade instead: their failure never blocks the interactive
// paths.
package session
