package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. IDs are UUIDv4 values generated by
// the application at registration time; both id and username carry unique
// constraints.
type AccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Username     string    `gorm:"type:varchar(100);unique;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	FirstName    string    `gorm:"type:varchar(100)"`
	LastName     string    `gorm:"type:varchar(100)"`
	Email        string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
