package models

import (
	"time"

	"github.com/google/uuid"
)

// Table names for the two account kinds
const (
	CustomersTable = "customers"
	StaffTable     = "staff"
)

// AccountModel is stored in either the customers or the staff table.
// Indexes are created by Migrate because both tables share this struct.
type AccountModel struct {
	ID                         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirstName                  string     `gorm:"type:varchar(50)"`
	MiddleName                 string     `gorm:"type:varchar(50)"`
	LastName                   string     `gorm:"type:varchar(50)"`
	PhoneNumber                string     `gorm:"type:varchar(20)"`
	Username                   string     `gorm:"type:varchar(50)"`
	Email                      string     `gorm:"type:varchar(255);not null"`
	PasswordHashed             string     `gorm:"type:varchar(255);not null"`
	IsVerified                 bool       `gorm:"default:false;not null"`
	VerificationToken          *string    `gorm:"type:varchar(64)"`
	VerificationTokenExpiresAt *time.Time `gorm:"type:timestamptz"`
	ResetPasswordToken         *string    `gorm:"type:varchar(64)"`
	ResetPasswordExpiresAt     *time.Time `gorm:"type:timestamptz"`
	CreatedAt                  time.Time  `gorm:"not null"`
	UpdatedAt                  time.Time  `gorm:"not null"`
}
