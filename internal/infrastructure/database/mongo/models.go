package mongo

import (
	"time"

	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/internal/domain/booking"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type accountDocument struct {
	ID                         primitive.ObjectID `bson:"_id,omitempty"`
	FirstName                  string             `bson:"first_name,omitempty"`
	MiddleName                 string             `bson:"middle_name,omitempty"`
	LastName                   string             `bson:"last_name,omitempty"`
	PhoneNumber                string             `bson:"phone_number,omitempty"`
	Username                   string             `bson:"username,omitempty"`
	Email                      string             `bson:"email"`
	PasswordHashed             string             `bson:"password_hashed"`
	IsVerified                 bool               `bson:"is_verified"`
	VerificationToken          string             `bson:"verification_token,omitempty"`
	VerificationTokenExpiresAt *time.Time         `bson:"verification_token_expires_at,omitempty"`
	ResetPasswordToken         string             `bson:"reset_password_token,omitempty"`
	ResetPasswordExpiresAt     *time.Time         `bson:"reset_password_expires_at,omitempty"`
	CreatedAt                  time.Time          `bson:"created_at"`
	UpdatedAt                  time.Time          `bson:"updated_at"`
}

func newAccountDocument(a *account.Account) *accountDocument {
	doc := &accountDocument{
		FirstName:                  a.FirstName,
		MiddleName:                 a.MiddleName,
		LastName:                   a.LastName,
		PhoneNumber:                a.PhoneNumber,
		Username:                   a.Username,
		Email:                      a.Email,
		PasswordHashed:             a.PasswordHashed,
		IsVerified:                 a.IsVerified,
		VerificationToken:          a.VerificationToken,
		VerificationTokenExpiresAt: a.VerificationTokenExpiresAt,
		ResetPasswordToken:         a.ResetPasswordToken,
		ResetPasswordExpiresAt:     a.ResetPasswordExpiresAt,
		CreatedAt:                  a.CreatedAt,
		UpdatedAt:                  a.UpdatedAt,
	}
	if id, ok := objectID(a.ID); ok {
		doc.ID = id
	}
	return doc
}

func (d *accountDocument) toEntity(kind account.Kind) *account.Account {
	return &account.Account{
		ID:                         d.ID.Hex(),
		Kind:                       kind,
		FirstName:                  d.FirstName,
		MiddleName:                 d.MiddleName,
		LastName:                   d.LastName,
		PhoneNumber:                d.PhoneNumber,
		Username:                   d.Username,
		Email:                      d.Email,
		PasswordHashed:             d.PasswordHashed,
		IsVerified:                 d.IsVerified,
		VerificationToken:          d.VerificationToken,
		VerificationTokenExpiresAt: utcPtr(d.VerificationTokenExpiresAt),
		ResetPasswordToken:         d.ResetPasswordToken,
		ResetPasswordExpiresAt:     utcPtr(d.ResetPasswordExpiresAt),
		CreatedAt:                  d.CreatedAt.UTC(),
		UpdatedAt:                  d.UpdatedAt.UTC(),
	}
}

type bookingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id"`
	DogCategory string             `bson:"dog_category"`
	Service     string             `bson:"service"`
	Price       float64            `bson:"price"`
	Schedule    time.Time          `bson:"schedule"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *bookingDocument) toEntity() *booking.Booking {
	return &booking.Booking{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID.Hex(),
		DogCategory: d.DogCategory,
		Service:     d.Service,
		Price:       d.Price,
		Schedule:    d.Schedule.UTC(),
		Status:      booking.Status(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// objectID parses a hex id. Ids that are not ObjectIDs cannot match any document.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
