package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/delivery/http/validator"
	domainerrors "passport/internal/domain/errors"
	mockUsecase "passport/internal/mocks/usecase"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newHandlerContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func sampleView() *usecase.AccountView {
	return &usecase.AccountView{
		ID:        uuid.New(),
		Username:  "whiskers",
		FirstName: "Mei",
		LastName:  "Lin",
		Email:     "mei.lin@example.com",
		CreatedAt: time.Now().UTC(),
	}
}

func TestAccountHandler_Register(t *testing.T) {
	t.Parallel()

	t.Run("returns 201 with the created account", func(t *testing.T) {
		t.Parallel()

		uc := mockUsecase.NewMockAccountUsecase(t)
		view := sampleView()
		uc.EXPECT().
			Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
			Return(&usecase.RegisterOutput{Account: view}, nil)

		c, rec := newHandlerContext(t, http.MethodPost, "/auth/register",
			`{"username":"whiskers","password":"secret","first_name":"Mei","last_name":"Lin","email":"mei.lin@example.com"}`)

		h := NewAccountHandler(uc, slog.Default())
		require.NoError(t, h.Register(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), view.Username)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("rejects payload missing required fields", func(t *testing.T) {
		t.Parallel()

		uc := mockUsecase.NewMockAccountUsecase(t)

		c, _ := newHandlerContext(t, http.MethodPost, "/auth/register",
			`{"username":"whiskers"}`)

		h := NewAccountHandler(uc, slog.Default())
		err := h.Register(c)

		require.Error(t, err)
		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
		uc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		t.Parallel()

		uc := mockUsecase.NewMockAccountUsecase(t)

		c, _ := newHandlerContext(t, http.MethodPost, "/auth/register",
			`{"username":"whiskers","password":"secret","first_name":"Mei","last_name":"Lin","email":"not-an-email"}`)

		h := NewAccountHandler(uc, slog.Default())
		err := h.Register(c)

		require.Error(t, err)
		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
	})

	t.Run("propagates conflicts to the error handler", func(t *testing.T) {
		t.Parallel()

		uc := mockUsecase.NewMockAccountUsecase(t)
		uc.EXPECT().
			Register(mock.Anything, mock.Anything).
			Return(nil, domainerrors.ErrUsernameTaken.WrapMessage("username already exists"))

		c, _ := newHandlerContext(t, http.MethodPost, "/auth/register",
			`{"username":"whiskers","password":"secret","first_name":"Mei","last_name":"Lin","email":"mei.lin@example.com"}`)

		h := NewAccountHandler(uc, slog.Default())
		err := h.Register(c)

		require.Error(t, err)
		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusConflict, appErr.HTTPCode())
	})
}

func TestAccountHandler_Login(t *testing.T) {
	t.Parallel()

	t.Run("returns the token and the account", func(t *testing.T) {
		t.Parallel()

		uc := mockUsecase.NewMockAccountUsecase(t)
		view := sampleView()
		uc.EXPECT().
			Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
			Return(&usecase.LoginOutput{Token: "signed.jwt.token", Account: view}, nil)

		c, rec := newHandlerContext(t, http.MethodPost, "/auth/login",
			`{"username":"whiskers","password":"secret"}`)

		h := NewAccountHandler(uc, slog.Default())
		require.NoError(t, h.Login(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "signed.jwt.token")
	})

	t.Run("propagates invalid credentials", func(t *testing.T) {
		t.Parallel()

		uc := mockUsecase.NewMockAccountUsecase(t)
		uc.EXPECT().
			Login(mock.Anything, mock.Anything).
			Return(nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed"))

		c, _ := newHandlerContext(t, http.MethodPost, "/auth/login",
			`{"username":"whiskers","password":"wrong"}`)

		h := NewAccountHandler(uc, slog.Default())
		err := h.Login(c)

		require.Error(t, err)
		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode())
	})
}

func TestAccountHandler_GetProfile(t *testing.T) {
	t.Parallel()

	t.Run("reads the subject set by the auth middleware", func(t *testing.T) {
		t.Parallel()

		uc := mockUsecase.NewMockAccountUsecase(t)
		view := sampleView()
		uc.EXPECT().GetProfile(mock.Anything, view.ID).Return(view, nil)

		c, rec := newHandlerContext(t, http.MethodGet, "/accounts/me", "")
		deliverycontext.SetAccountID(c, view.ID)

		h := NewAccountHandler(uc, slog.Default())
		require.NoError(t, h.GetProfile(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), view.ID.String())
	})

	t.Run("answers 401 when the middleware did not run", func(t *testing.T) {
		t.Parallel()

		uc := mockUsecase.NewMockAccountUsecase(t)

		c, rec := newHandlerContext(t, http.MethodGet, "/accounts/me", "")

		h := NewAccountHandler(uc, slog.Default())
		require.NoError(t, h.GetProfile(c))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		uc.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
	})
}

func TestAccountHandler_ListAccounts(t *testing.T) {
	t.Parallel()

	t.Run("returns every account", func(t *testing.T) {
		t.Parallel()

		uc := mockUsecase.NewMockAccountUsecase(t)
		views := []*usecase.AccountView{sampleView(), sampleView()}
		uc.EXPECT().ListAccounts(mock.Anything).Return(views, nil)

		c, rec := newHandlerContext(t, http.MethodGet, "/accounts", "")

		h := NewAccountHandler(uc, slog.Default())
		require.NoError(t, h.ListAccounts(c))

		assert.Equal(t, http.StatusOK, rec.Code)

		var envelope struct {
			Data []json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Len(t, envelope.Data, 2)
	})

	t.Run("returns an empty list without error", func(t *testing.T) {
		t.Parallel()

		uc := mockUsecase.NewMockAccountUsecase(t)
		uc.EXPECT().ListAccounts(mock.Anything).Return([]*usecase.AccountView{}, nil)

		c, rec := newHandlerContext(t, http.MethodGet, "/accounts", "")

		h := NewAccountHandler(uc, slog.Default())
		require.NoError(t, h.ListAccounts(c))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
