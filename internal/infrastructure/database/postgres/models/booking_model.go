package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingModel represents the database model for Bookings
type BookingModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_owner_schedule,priority:1;index:idx_bookings_owner_status,priority:1"`
	DogCategory string    `gorm:"type:varchar(50);not null"`
	Service     string    `gorm:"type:varchar(100);not null"`
	Price       float64   `gorm:"type:decimal(10,2);not null"`
	Schedule    time.Time `gorm:"type:timestamptz;not null;index:idx_bookings_owner_schedule,priority:2;index:idx_bookings_status_schedule,priority:2"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index:idx_bookings_owner_status,priority:2;index:idx_bookings_status_schedule,priority:1"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (BookingModel) TableName() string {
	return "bookings"
}
