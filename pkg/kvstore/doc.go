// Package kvstore abstracts the device-local key-value store that the
// credential vault and session layer persist into. The store is assumed
// unreliable: fresh installs, simulators and low-disk devices produce
// transient or permanent failures, so the package classifies errors into
// "not found", "unavailable" and "corrupted" so callers can pick a recovery
// strategy instead of guessing from error strings.
//
// Three backends ship out of the box:
//
//   - Memory: concurrent in-memory map, the default and the test double.
//   - Bolt: file-backed store on bbolt, the real device store.
//   - Redis: shared store for dev/simulator fleets where device state
//     must survive reinstalls.
//
// Any datastore satisfying the Store interface can be plugged in.
//
// # Usage
//
//	store, err := kvstore.NewBolt(filepath.Join(dataDir, "session.db"))
//	if err != nil { ... }
//	defer store.Close()
//
//	if err := store.Set(ctx, "saved_credential", payload); err != nil {
//	    if kvstore.IsCorruption(err) {
//	        // hand off to the vault's recovery ladder
//	    }
//	}
package kvstore
