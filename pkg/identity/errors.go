package identity

import (
	"errors"
	"fmt"
	"time"
)

// Interactive auth errors surfaced to callers
var (
	ErrInvalidCredentials  = errors.New("identity.invalid_credentials")
	ErrIdentifierInUse     = errors.New("identity.identifier_in_use")
	ErrWeakSecret          = errors.New("identity.weak_secret")
	ErrProviderUnavailable = errors.New("identity.provider_unavailable")
	ErrAccountLocked       = errors.New("identity.account_locked")
)

// Claims errors
var (
	ErrNoClaimsToken = errors.New("identity.no_claims_token")
	ErrInvalidClaims = errors.New("identity.invalid_claims")
)

// LockedError reports an account lockout with the remaining lock time.
// It matches ErrAccountLocked under errors.Is.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %s", e.Remaining.Round(time.Second))
}

func (e *LockedError) Is(target error) bool {
	return target == ErrAccountLocked
}
