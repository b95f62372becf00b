// Package vault persists the single saved credential and the session-token
// evidence that auto-login and session restoration depend on, wrapped
// around an unreliable device store.
//
// The vault is a single slot: saving a credential overwrites any prior one.
// Credentials are encrypted at rest with AES-256-GCM under an HKDF-derived
// key, so a lifted store file does not leak the secret.
//
// # Store-health guard
//
// Device stores break: fresh simulators, interrupted writes, full disks.
// The first operation that hits a corruption-signature error triggers a
// one-shot recovery ladder:
//
//  1. Full store clear followed by a liveness probe (write/read/delete a
//     sentinel key).
//  2. Selective removal of known non-essential keys, preserving session
//     token keys, followed by the same probe.
//  3. A process-wide bypass flag: every later vault operation no-ops
//     successfully without touching the broken store.
//
// The flag is monotonic: once bypassed the vault never flips back within
// the process, so the rest of the system degrades to a signed-out state
// instead of flapping. None of this surfaces to callers: a broken store
// must never block the interactive sign-in paths.
package vault
