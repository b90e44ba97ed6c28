// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity in the system, representing a registered user.
// The ID is generated once at registration and never changes; Username is
// case-sensitive and unique across all accounts.
type Account struct {
	ID           uuid.UUID // The unique identifier for the account, generated at creation.
	Username     string    // The unique login name chosen at registration.
	PasswordHash string    // The bcrypt hash of the password. Never serialized to any external view.
	FirstName    string    // The account holder's first name.
	LastName     string    // The account holder's last name.
	Email        string    // The account holder's contact email.
	CreatedAt    time.Time // Timestamp of when this account was created. Set once, never mutated.
}
