package service

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token verification failure classes. All of them are terminal for the current
// request; the delivery layer collapses them into a single generic rejection so
// callers cannot tell which check failed.
var (
	// ErrTokenMalformed is returned when the token string is not a parseable JWT.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenSignature is returned when the signature does not match the signing key.
	ErrTokenSignature = errors.New("token signature is invalid")
	// ErrTokenExpired is returned when the token's expiry is not in the future.
	ErrTokenExpired = errors.New("token is expired")
)

// Claims defines the payload carried by an issued token: the account it was
// issued for plus the registered expiry claim.
type Claims struct {
	Subject uuid.UUID
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and verifying bearer tokens.
// Tokens are stateless: validity is purely a function of the signature and the
// expiry, with no server-side lookup or revocation.
type TokenService interface {
	// Issue creates a signed token for the given account ID with the
	// service-wide TTL.
	Issue(subject uuid.UUID) (string, error)

	// Verify checks signature and expiry atomically and returns the decoded
	// claims, or one of ErrTokenMalformed, ErrTokenSignature, ErrTokenExpired.
	Verify(tokenString string) (*Claims, error)
}
