package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// PrivilegeClaims is a projection of the claims token, not a source of
// truth. Level is nil when the token carries no level claim.
type PrivilegeClaims struct {
	IsAdmin bool `json:"is_admin"`
	Level   *int `json:"level,omitempty"`
}

// NoPrivileges returns the zero-privilege claims used for guests and the
// None identity.
func NoPrivileges() PrivilegeClaims {
	return PrivilegeClaims{}
}

// ParseClaimsToken extracts privilege claims from a provider-minted claims
// token. The token is parsed without signature verification: the client has
// no verification key, and the token came over the provider's own
// authenticated channel. Servers re-verify on their side.
func ParseClaimsToken(token string) (PrivilegeClaims, error) {
	if token == "" {
		return PrivilegeClaims{}, ErrNoClaimsToken
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return PrivilegeClaims{}, errors.Join(ErrInvalidClaims, err)
	}

	var result PrivilegeClaims
	if admin, ok := claims["admin"].(bool); ok {
		result.IsAdmin = admin
	}
	if level, ok := claims["level"].(float64); ok {
		lvl := int(level)
		result.Level = &lvl
	}

	return result, nil
}
