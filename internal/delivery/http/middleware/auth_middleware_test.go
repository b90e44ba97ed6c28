package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/service"
	mockService "passport/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAuthenticated(t *testing.T, tokenSvc service.TokenService, authHeader string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/accounts/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		subject uuid.UUID
		reached bool
	)

	m := NewAuthMiddleware(tokenSvc, slog.Default())
	handler := m.Authenticate(func(c echo.Context) error {
		subject, reached = deliverycontext.GetAccountID(c)

		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))

	return rec, subject, reached
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	t.Run("missing header is rejected", func(t *testing.T) {
		t.Parallel()

		tokenSvc := mockService.NewMockTokenService(t)

		rec, _, reached := runAuthenticated(t, tokenSvc, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
		tokenSvc.AssertNotCalled(t, "Verify", "")
	})

	t.Run("non-bearer scheme is rejected without verification", func(t *testing.T) {
		t.Parallel()

		tokenSvc := mockService.NewMockTokenService(t)

		rec, _, reached := runAuthenticated(t, tokenSvc, "Basic dXNlcjpwYXNz")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("empty bearer token is rejected", func(t *testing.T) {
		t.Parallel()

		tokenSvc := mockService.NewMockTokenService(t)

		rec, _, reached := runAuthenticated(t, tokenSvc, "Bearer ")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("verification failures all answer the same 401", func(t *testing.T) {
		t.Parallel()

		for _, verifyErr := range []error{
			service.ErrTokenMalformed,
			service.ErrTokenSignature,
			service.ErrTokenExpired,
		} {
			tokenSvc := mockService.NewMockTokenService(t)
			tokenSvc.EXPECT().Verify("bad.token").Return(nil, verifyErr)

			rec, _, reached := runAuthenticated(t, tokenSvc, "Bearer bad.token")

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, reached)
			assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
		}
	})

	t.Run("valid token puts the subject on the context", func(t *testing.T) {
		t.Parallel()

		want := uuid.New()
		tokenSvc := mockService.NewMockTokenService(t)
		tokenSvc.EXPECT().Verify("good.token").Return(&service.Claims{Subject: want}, nil)

		rec, subject, reached := runAuthenticated(t, tokenSvc, "Bearer good.token")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
		assert.Equal(t, want, subject)
	})
}
