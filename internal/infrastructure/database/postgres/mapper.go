package postgres

import (
	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
)

func toAccountModel(a *account.Account) *models.AccountModel {
	m := &models.AccountModel{
		FirstName:                  a.FirstName,
		MiddleName:                 a.MiddleName,
		LastName:                   a.LastName,
		PhoneNumber:                a.PhoneNumber,
		Username:                   a.Username,
		Email:                      a.Email,
		PasswordHashed:             a.PasswordHashed,
		IsVerified:                 a.IsVerified,
		VerificationToken:          nullableString(a.VerificationToken),
		VerificationTokenExpiresAt: a.VerificationTokenExpiresAt,
		ResetPasswordToken:         nullableString(a.ResetPasswordToken),
		ResetPasswordExpiresAt:     a.ResetPasswordExpiresAt,
		CreatedAt:                  a.CreatedAt,
		UpdatedAt:                  a.UpdatedAt,
	}
	if id, err := uuid.Parse(a.ID); err == nil {
		m.ID = id
	}
	return m
}

func toAccountEntity(m *models.AccountModel, kind account.Kind) *account.Account {
	a := &account.Account{
		ID:                         m.ID.String(),
		Kind:                       kind,
		FirstName:                  m.FirstName,
		MiddleName:                 m.MiddleName,
		LastName:                   m.LastName,
		PhoneNumber:                m.PhoneNumber,
		Username:                   m.Username,
		Email:                      m.Email,
		PasswordHashed:             m.PasswordHashed,
		IsVerified:                 m.IsVerified,
		VerificationTokenExpiresAt: m.VerificationTokenExpiresAt,
		ResetPasswordExpiresAt:     m.ResetPasswordExpiresAt,
		CreatedAt:                  m.CreatedAt,
		UpdatedAt:                  m.UpdatedAt,
	}
	if m.VerificationToken != nil {
		a.VerificationToken = *m.VerificationToken
	}
	if m.ResetPasswordToken != nil {
		a.ResetPasswordToken = *m.ResetPasswordToken
	}
	return a
}

func toBookingModel(b *booking.Booking) *models.BookingModel {
	m := &models.BookingModel{
		DogCategory: b.DogCategory,
		Service:     b.Service,
		Price:       b.Price,
		Schedule:    b.Schedule,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if id, err := uuid.Parse(b.ID); err == nil {
		m.ID = id
	}
	if owner, err := uuid.Parse(b.OwnerID); err == nil {
		m.OwnerID = owner
	}
	return m
}

func toBookingEntity(m *models.BookingModel) *booking.Booking {
	return &booking.Booking{
		ID:          m.ID.String(),
		OwnerID:     m.OwnerID.String(),
		DogCategory: m.DogCategory,
		Service:     m.Service,
		Price:       m.Price,
		Schedule:    m.Schedule,
		Status:      booking.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
