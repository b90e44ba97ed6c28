// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"passport/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// Create persists a new account entity to the storage.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindAllByUsername retrieves every account matching the given username.
	// The username column is unique, so more than one row signals a broken
	// invariant; the caller decides how to treat that, not the repository.
	FindAllByUsername(ctx context.Context, username string) ([]*entity.Account, error)

	// ListAll retrieves all accounts ordered by creation time, newest first.
	ListAll(ctx context.Context) ([]*entity.Account, error)
}
