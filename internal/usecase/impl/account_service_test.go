package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	mockRepo "passport/internal/mocks/repository"
	mockService "passport/internal/mocks/service"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accountServiceFixture struct {
	service      usecase.AccountUsecase
	txManager    *mockRepo.MockTransactionManager
	repoFactory  *mockRepo.MockRepositoryFactory
	accountRepo  *mockRepo.MockAccountRepository
	hasher       *mockService.MockPasswordHasher
	tokenService *mockService.MockTokenService
}

func createTestAccountService(t *testing.T) *accountServiceFixture {
	t.Helper()

	txManager := mockRepo.NewMockTransactionManager(t)
	repoFactory := mockRepo.NewMockRepositoryFactory(t)
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockService.NewMockPasswordHasher(t)
	tokenService := mockService.NewMockTokenService(t)

	service := NewAccountService(AccountServiceParams{
		TxManager:    txManager,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       slog.Default(),
	})

	return &accountServiceFixture{
		service:      service,
		txManager:    txManager,
		repoFactory:  repoFactory,
		accountRepo:  accountRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

// expectTransaction makes the mocked transaction manager run the given
// function against the mocked repository factory, as a real commit path would.
func (f *accountServiceFixture) expectTransaction() {
	f.repoFactory.EXPECT().AccountRepo().Return(f.accountRepo).Maybe()
	f.txManager.EXPECT().
		Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(f.repoFactory)
		})
}

func validRegisterInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Username:  "whiskers",
		Password:  "correct horse battery staple",
		FirstName: "Mei",
		LastName:  "Lin",
		Email:     "mei.lin@example.com",
	}
}

func TestAccountService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates account with hashed password", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)
		input := validRegisterInput()

		f.hasher.EXPECT().Hash(input.Password).Return("$2a$10$hash", nil)
		f.expectTransaction()

		var created *entity.Account
		f.accountRepo.EXPECT().
			Create(mock.Anything, mock.AnythingOfType("*entity.Account")).
			Run(func(_ context.Context, account *entity.Account) {
				created = account
			}).
			Return(nil)

		output, err := f.service.Register(context.Background(), input)

		require.NoError(t, err)
		require.NotNil(t, output)
		require.NotNil(t, created)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "$2a$10$hash", created.PasswordHash)
		assert.Equal(t, input.Username, created.Username)
		assert.Equal(t, created.ID, output.Account.ID)
		assert.Equal(t, input.Email, output.Account.Email)
	})

	t.Run("returns conflict when username is taken", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)
		input := validRegisterInput()

		f.hasher.EXPECT().Hash(input.Password).Return("$2a$10$hash", nil)
		f.expectTransaction()
		f.accountRepo.EXPECT().
			Create(mock.Anything, mock.Anything).
			Return(domainerrors.ErrUsernameTaken.WrapMessage("username already exists"))

		output, err := f.service.Register(context.Background(), input)

		require.Error(t, err)
		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrUsernameTaken))
	})

	t.Run("fails fast when hashing fails", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)
		input := validRegisterInput()

		f.hasher.EXPECT().Hash(input.Password).Return("", errors.New("cost out of range"))

		output, err := f.service.Register(context.Background(), input)

		require.Error(t, err)
		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
		f.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("propagates pool unavailability", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)
		input := validRegisterInput()

		f.hasher.EXPECT().Hash(input.Password).Return("$2a$10$hash", nil)
		f.txManager.EXPECT().
			Execute(mock.Anything, mock.Anything).
			Return(domainerrors.ErrDatabaseUnavailable)

		output, err := f.service.Register(context.Background(), input)

		require.Error(t, err)
		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrDatabaseUnavailable))
	})
}

func TestAccountService_Login(t *testing.T) {
	t.Parallel()

	account := &entity.Account{
		ID:           uuid.New(),
		Username:     "whiskers",
		PasswordHash: "$2a$10$hash",
		FirstName:    "Mei",
		LastName:     "Lin",
		Email:        "mei.lin@example.com",
		CreatedAt:    time.Now().UTC(),
	}

	t.Run("issues token for valid credentials", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)

		f.expectTransaction()
		f.accountRepo.EXPECT().
			FindAllByUsername(mock.Anything, account.Username).
			Return([]*entity.Account{account}, nil)
		f.hasher.EXPECT().Check("secret", account.PasswordHash).Return(true)
		f.tokenService.EXPECT().Issue(account.ID).Return("signed.jwt.token", nil)

		output, err := f.service.Login(context.Background(), &usecase.LoginInput{
			Username: account.Username,
			Password: "secret",
		})

		require.NoError(t, err)
		require.NotNil(t, output)
		assert.Equal(t, "signed.jwt.token", output.Token)
		assert.Equal(t, account.ID, output.Account.ID)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)

		f.expectTransaction()
		f.accountRepo.EXPECT().
			FindAllByUsername(mock.Anything, account.Username).
			Return([]*entity.Account{account}, nil)
		f.hasher.EXPECT().Check("wrong", account.PasswordHash).Return(false)

		output, err := f.service.Login(context.Background(), &usecase.LoginInput{
			Username: account.Username,
			Password: "wrong",
		})

		require.Error(t, err)
		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		f.tokenService.AssertNotCalled(t, "Issue", mock.Anything)
	})

	t.Run("rejects unknown username with the same error", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)

		f.expectTransaction()
		f.accountRepo.EXPECT().
			FindAllByUsername(mock.Anything, "nobody").
			Return([]*entity.Account{}, nil)

		output, err := f.service.Login(context.Background(), &usecase.LoginInput{
			Username: "nobody",
			Password: "secret",
		})

		require.Error(t, err)
		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		f.hasher.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	})

	t.Run("refuses to pick between duplicate username rows", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)

		other := *account
		other.ID = uuid.New()

		f.expectTransaction()
		f.accountRepo.EXPECT().
			FindAllByUsername(mock.Anything, account.Username).
			Return([]*entity.Account{account, &other}, nil)

		output, err := f.service.Login(context.Background(), &usecase.LoginInput{
			Username: account.Username,
			Password: "secret",
		})

		require.Error(t, err)
		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrInternalError))
		assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("wraps token issuance failure as internal", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)

		f.expectTransaction()
		f.accountRepo.EXPECT().
			FindAllByUsername(mock.Anything, account.Username).
			Return([]*entity.Account{account}, nil)
		f.hasher.EXPECT().Check("secret", account.PasswordHash).Return(true)
		f.tokenService.EXPECT().Issue(account.ID).Return("", errors.New("empty key"))

		output, err := f.service.Login(context.Background(), &usecase.LoginInput{
			Username: account.Username,
			Password: "secret",
		})

		require.Error(t, err)
		assert.Nil(t, output)
		assert.True(t, errors.Is(err, domainerrors.ErrInternalError))
	})
}

func TestAccountService_GetProfile(t *testing.T) {
	t.Parallel()

	t.Run("returns the account for a known subject", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)

		account := &entity.Account{
			ID:        uuid.New(),
			Username:  "whiskers",
			Email:     "mei.lin@example.com",
			CreatedAt: time.Now().UTC(),
		}

		f.expectTransaction()
		f.accountRepo.EXPECT().
			FindByID(mock.Anything, account.ID).
			Return(account, nil)

		view, err := f.service.GetProfile(context.Background(), account.ID)

		require.NoError(t, err)
		require.NotNil(t, view)
		assert.Equal(t, account.ID, view.ID)
		assert.Equal(t, account.Username, view.Username)
	})

	t.Run("maps a missing row to not found", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)
		subject := uuid.New()

		f.expectTransaction()
		f.accountRepo.EXPECT().
			FindByID(mock.Anything, subject).
			Return(nil, repository.ErrAccountNotFound)

		view, err := f.service.GetProfile(context.Background(), subject)

		require.Error(t, err)
		assert.Nil(t, view)
		assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
	})
}

func TestAccountService_ListAccounts(t *testing.T) {
	t.Parallel()

	t.Run("preserves repository ordering", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)

		newer := &entity.Account{ID: uuid.New(), Username: "newer", CreatedAt: time.Now().UTC()}
		older := &entity.Account{ID: uuid.New(), Username: "older", CreatedAt: time.Now().UTC().Add(-time.Hour)}

		f.expectTransaction()
		f.accountRepo.EXPECT().
			ListAll(mock.Anything).
			Return([]*entity.Account{newer, older}, nil)

		views, err := f.service.ListAccounts(context.Background())

		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, newer.ID, views[0].ID)
		assert.Equal(t, older.ID, views[1].ID)
	})

	t.Run("returns an empty slice when there are no accounts", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)

		f.expectTransaction()
		f.accountRepo.EXPECT().
			ListAll(mock.Anything).
			Return([]*entity.Account{}, nil)

		views, err := f.service.ListAccounts(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
	})

	t.Run("wraps repository failures", func(t *testing.T) {
		t.Parallel()

		f := createTestAccountService(t)

		f.expectTransaction()
		f.accountRepo.EXPECT().
			ListAll(mock.Anything).
			Return(nil, errors.New("relation does not exist"))

		views, err := f.service.ListAccounts(context.Background())

		require.Error(t, err)
		assert.Nil(t, views)
	})
}
