package account

import (
	"strings"
	"time"
)

// Kind separates the two account collections. Emails are unique per kind only.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindStaff    Kind = "staff"
)

func (k Kind) Valid() bool {
	return k == KindCustomer || k == KindStaff
}

// Account is either a customer who books appointments or a staff member
// who manages them.
type Account struct {
	ID   string
	Kind Kind

	// Customer profile
	FirstName   string
	MiddleName  string
	LastName    string
	PhoneNumber string

	// Staff profile
	Username string

	Email          string
	PasswordHashed string
	IsVerified     bool

	VerificationToken          string
	VerificationTokenExpiresAt *time.Time
	ResetPasswordToken         string
	ResetPasswordExpiresAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is the name used in emails and calendar titles.
func (a *Account) DisplayName() string {
	if a.Kind == KindStaff {
		return a.Username
	}
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// SetVerificationToken replaces any outstanding verification token.
func (a *Account) SetVerificationToken(token string, expiresAt time.Time) {
	a.VerificationToken = token
	a.VerificationTokenExpiresAt = &expiresAt
}

func (a *Account) ClearVerificationToken() {
	a.VerificationToken = ""
	a.VerificationTokenExpiresAt = nil
}

func (a *Account) SetResetToken(token string, expiresAt time.Time) {
	a.ResetPasswordToken = token
	a.ResetPasswordExpiresAt = &expiresAt
}

func (a *Account) ClearResetToken() {
	a.ResetPasswordToken = ""
	a.ResetPasswordExpiresAt = nil
}

// Summary is the owner projection attached to bookings.
type Summary struct {
	ID          string
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
}

func (a *Account) Summary() *Summary {
	return &Summary{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		PhoneNumber: a.PhoneNumber,
		Email:       a.Email,
	}
}
