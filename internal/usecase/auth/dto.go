package auth

import (
	"time"

	"dog-grooming-booking/internal/domain/account"
)

type RegisterRequest struct {
	// Customer profile
	FirstName   string `json:"first_name" validate:"omitempty,min=2,max=50"`
	MiddleName  string `json:"middle_name" validate:"omitempty,min=2,max=50"`
	LastName    string `json:"last_name" validate:"omitempty,min=2,max=50"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,ph_phone"`

	// Staff profile
	Username string `json:"username" validate:"omitempty,min=2,max=50"`

	Email    string `json:"email" validate:"required,strict_email,max=50"`
	Password string `json:"password" validate:"required,min=8,max=50"`
}

// customerProfile and staffProfile hold the fields each kind must supply.
type customerProfile struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

type staffProfile struct {
	Username string `json:"username" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,strict_email,max=50"`
	Password string `json:"password" validate:"required,min=8,max=50"`
}

type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,strict_email,max=50"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=50"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,min=8,max=50"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=50"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=2,max=50"`
	MiddleName  *string `json:"middle_name" validate:"omitempty,max=50"`
	LastName    *string `json:"last_name" validate:"omitempty,min=2,max=50"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,ph_phone"`
	Username    *string `json:"username" validate:"omitempty,min=2,max=50"`
}

type AccountResponse struct {
	ID          string       `json:"id"`
	Kind        account.Kind `json:"kind"`
	FirstName   string       `json:"first_name,omitempty"`
	MiddleName  string       `json:"middle_name,omitempty"`
	LastName    string       `json:"last_name,omitempty"`
	PhoneNumber string       `json:"phone_number,omitempty"`
	Username    string       `json:"username,omitempty"`
	Email       string       `json:"email"`
	IsVerified  bool         `json:"is_verified"`
	CreatedAt   time.Time    `json:"created_at"`
}

// RegisterResult carries the verification token back to the caller. It is
// never serialized.
type RegisterResult struct {
	Account           *AccountResponse
	VerificationToken string
}

type LoginResult struct {
	Account   *AccountResponse
	Token     string
	ExpiresAt time.Time
}

func ToAccountResponse(a *account.Account) *AccountResponse {
	if a == nil {
		return nil
	}
	return &AccountResponse{
		ID:          a.ID,
		Kind:        a.Kind,
		FirstName:   a.FirstName,
		MiddleName:  a.MiddleName,
		LastName:    a.LastName,
		PhoneNumber: a.PhoneNumber,
		Username:    a.Username,
		Email:       a.Email,
		IsVerified:  a.IsVerified,
		CreatedAt:   a.CreatedAt,
	}
}
