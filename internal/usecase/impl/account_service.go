// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:    params.TxManager,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account registration process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	// Hash outside the transaction (bcrypt is CPU-bound) so the pooled
	// connection is not held for the duration of the key derivation.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	newAccount := &entity.Account{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		CreatedAt:    time.Now().UTC(),
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		if err := accountRepo.Create(ctx, newAccount); err != nil {
			return errors.Wrap(err, "failed to create account during registration")
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrUsernameTaken) {
			srv.log(ctx).Warn("Registration conflict", slog.String("username", input.Username))

			return nil, err
		}
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute account registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", newAccount.ID))

	return &usecase.RegisterOutput{Account: usecase.NewAccountView(newAccount)}, nil
}

// Login orchestrates the login process. Unknown usernames and wrong passwords
// produce the same outcome so the caller cannot enumerate registered names.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	account, err := srv.loadLoginAccount(ctx, input.Username)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username), slog.Any("error", err))

		return nil, err
	}

	// Check password outside the transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	token, err := srv.tokenService.Issue(account.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInternalError, "failed to issue token during login")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{
		Token:   token,
		Account: usecase.NewAccountView(account),
	}, nil
}

// loadLoginAccount fetches the single account matching the username inside a
// short transaction. The unique constraint should make more than one match
// impossible; if it ever happens, no row is picked and the failure surfaces as
// an internal error rather than a guess.
func (srv *accountService) loadLoginAccount(ctx context.Context, username string) (*entity.Account, error) {
	var account *entity.Account

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		matches, err := accountRepo.FindAllByUsername(ctx, username)
		if err != nil {
			return errors.Wrap(err, "failed to find accounts by username")
		}

		switch len(matches) {
		case 0:
			return errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		case 1:
			account = matches[0]

			return nil
		default:
			srv.log(ctx).Error("Username uniqueness invariant violated", slog.String("username", username), slog.Int("matches", len(matches)))

			return errors.Wrap(domainerrors.ErrInternalError, "duplicate username rows")
		}
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to execute login transaction")
	}

	return account, nil
}

// GetProfile retrieves the account identified by an authenticated token subject.
func (srv *accountService) GetProfile(ctx context.Context, subject uuid.UUID) (*usecase.AccountView, error) {
	srv.log(ctx).Debug("Getting account profile", slog.Any("accountID", subject))

	var account *entity.Account

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		found, err := accountRepo.FindByID(ctx, subject)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return errors.Wrap(domainerrors.ErrAccountNotFound, "account not found")
			}

			return errors.Wrap(err, "failed to find account")
		}
		account = found

		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return nil, err
		}
		srv.log(ctx).Error("Failed to execute profile transaction", slog.Any("accountID", subject), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to get account profile")
	}

	return usecase.NewAccountView(account), nil
}

// ListAccounts returns all accounts ordered newest-first.
func (srv *accountService) ListAccounts(ctx context.Context) ([]*usecase.AccountView, error) {
	srv.log(ctx).Debug("Listing accounts")

	var accounts []*entity.Account

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		found, err := accountRepo.ListAll(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list accounts")
		}
		accounts = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute list transaction", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list accounts")
	}

	views := make([]*usecase.AccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, usecase.NewAccountView(account))
	}

	return views, nil
}
