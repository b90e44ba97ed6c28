package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/delivery/http/response"
	"passport/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware authenticates requests from a Bearer access token.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// Authenticate validates the Authorization header and puts the token subject
// on the context for handlers. Verification failures are logged with their
// specific cause but answered with the same generic 401, so a caller cannot
// distinguish a bad signature from an expired token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "AUTH_HEADER_MISSING", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return response.Unauthorized(c, "INVALID_AUTH_SCHEME", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.Verify(tokenString)
		if err != nil {
			m.logger.Warn("Token verification failed",
				slog.String("request_id", deliverycontext.GetRequestID(c)),
				slog.Any("error", err),
			)

			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		// Handlers read the subject back through deliverycontext.GetAccountID.
		deliverycontext.SetAccountID(c, claims.Subject)

		return next(c)
	}
}
