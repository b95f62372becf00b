package session

import "errors"

var (
	// ErrNotStarted indicates an operation before Start
	ErrNotStarted = errors.New("session.not_started")

	// ErrAlreadyStarted indicates a second Start call
	ErrAlreadyStarted = errors.New("session.already_started")

	// ErrClosed indicates an operation on a closed manager
	ErrClosed = errors.New("session.closed")

	// ErrNoActiveSession indicates an operation that needs a live session
	ErrNoActiveSession = errors.New("session.no_active_session")

	// ErrSignInInProgress indicates a concurrent interactive sign-in
	ErrSignInInProgress = errors.New("session.sign_in_in_progress")
)
