// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/errors"

	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db *gorm.DB
}

// gormRepositoryFactory implements the domain's RepositoryFactory interface.
// It holds a specific GORM transaction object and uses it to create repository
// instances that are bound to that single transaction, and therefore to the
// single pooled connection the transaction leased.
type gormRepositoryFactory struct {
	tx *gorm.DB // In GORM, a transaction object is also a *gorm.DB
}

// AccountRepo creates a new account repository instance bound to the transaction.
func (f *gormRepositoryFactory) AccountRepo() repository.AccountRepository {
	return NewAccountRepository(f.tx)
}

// NewTransactionManager is the constructor for gormTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Execute runs the given function within a single database transaction.
// The leased connection is returned to the pool on every exit path: commit,
// business error, commit failure, or panic.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	// Begin a new transaction. This is the pool lease acquisition point and may
	// block until a connection frees up or the context deadline fires.
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		if isPoolUnavailable(tx.Error) {
			return errors.Wrap(domainerrors.ErrDatabaseUnavailable, tx.Error.Error())
		}

		return errors.Wrap(domainerrors.ErrTransactionFailed.WithDetails(tx.Error.Error()), "failed to begin transaction")
	}

	// This defer block ensures that if a panic occurs within the callback function,
	// the transaction is always rolled back. This is a critical safety measure.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			// Re-panic to allow Fx or other middleware to handle the panic.
			panic(r)
		}
	}()

	// Create a repository factory that is bound to this specific transaction.
	factory := &gormRepositoryFactory{tx: tx}

	// Execute the application logic (the use case's core work)
	err := fn(factory)
	if err != nil {
		// If the business logic returns an error, roll back the transaction.
		if rbErr := tx.Rollback().Error; rbErr != nil {
			// Log the rollback error, but return the original, more meaningful business error.
			return errors.Wrapf(err, "transaction rollback failed: %v (original error follows)", rbErr)
		}

		return err // Return the original business error.
	}

	// If the business logic completes without error, commit the transaction.
	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(domainerrors.ErrTransactionFailed.WithDetails(err.Error()), "failed to commit transaction")
	}

	return nil
}

// isPoolUnavailable reports whether an error from Begin means the pool could
// not hand out a connection, as opposed to the statement itself failing.
func isPoolUnavailable(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrConnDone)
}
