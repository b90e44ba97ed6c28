// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"passport/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// AccountView is the serializable projection of an account. It deliberately
// has no password hash field, so the hash cannot leak through any response.
type AccountView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccountView maps a domain account onto its public projection.
func NewAccountView(account *entity.Account) *AccountView {
	if account == nil {
		return nil
	}

	return &AccountView{
		ID:        account.ID,
		Username:  account.Username,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
	}
}

// RegisterOutput returns the newly created account's public view.
type RegisterOutput struct {
	Account *AccountView `json:"account"`
}

// LoginOutput returns the issued token together with the account's public view.
type LoginOutput struct {
	Token   string       `json:"token"`
	Account *AccountView `json:"account"`
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	GetProfile(ctx context.Context, subject uuid.UUID) (*AccountView, error)
	ListAccounts(ctx context.Context) ([]*AccountView, error)
}
