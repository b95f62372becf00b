package session

// State is the session lifecycle state.
type State string

const (
	// StateUnknown is the initial state before the resolution race settles
	StateUnknown State = "unknown"
	// StateAuthenticated means a registered user is signed in
	StateAuthenticated State = "authenticated"
	// StateGuest means a guest actor is active
	StateGuest State = "guest"
	// StateUnauthenticated means nobody is signed in
	StateUnauthenticated State = "unauthenticated"
)

// transitions is the legal state graph. Unknown is the only initial state;
// Unauthenticated is a steady state a fresh session can always return to.
var transitions = map[State][]State{
	StateUnknown:         {StateAuthenticated, StateGuest, StateUnauthenticated},
	StateAuthenticated:   {StateUnauthenticated},
	StateGuest:           {StateUnauthenticated},
	StateUnauthenticated: {StateAuthenticated, StateGuest},
}

// canTransition reports whether from → to is a legal transition. Self
// transitions are treated as no-ops, not errors.
func canTransition(from, to State) bool {
	if from == to {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Active reports whether the state carries a live session.
func (s State) Active() bool {
	return s == StateAuthenticated || s == StateGuest
}
