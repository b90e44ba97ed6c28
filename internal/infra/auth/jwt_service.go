// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"passport/config"
	"passport/internal/domain/service"
)

// accessTokenTTL is the service-wide lifetime of issued tokens. Statelessness
// means there is no revocation; the short TTL is the mitigation.
const accessTokenTTL = time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService is the constructor for jwtService.
// The signing key is injected once from config and immutable afterwards.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Access),
		ttl:    accessTokenTTL,
	}, nil
}

// Issue creates a signed HS256 token carrying the subject and expiry claims.
func (s *jwtService) Issue(subject uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}

// Verify decodes the token and checks signature and expiry atomically.
// Failures are classified so the caller can log the precise cause while
// exposing only a generic rejection.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	var registered jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(tokenString, &registered, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		return nil, classifyTokenError(err)
	}

	subject, err := uuid.Parse(registered.Subject)
	if err != nil {
		return nil, service.ErrTokenMalformed
	}

	return &service.Claims{
		Subject:          subject,
		RegisteredClaims: registered,
	}, nil
}

// classifyTokenError maps jwt/v5 parse errors onto the domain's token failure classes.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return service.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return service.ErrTokenSignature
	default:
		return service.ErrTokenMalformed
	}
}
