package booking

//go:generate mockgen -destination=../../mocks/mock_booking.go -package=mocks dog-grooming-booking/internal/domain/booking EventPublisher,OwnerLocker

import (
	"context"
	"time"
)

// Repository defines the storage operations for bookings
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	// UpdateStatus moves a booking from one status to another only if it is
	// still in from. Otherwise it returns ErrStatusChanged.
	UpdateStatus(ctx context.Context, id string, from, to Status, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerID string, statuses []Status) (int64, error)
	// ExistsInWindow reports whether the owner has any booking scheduled in [from, to].
	ExistsInWindow(ctx context.Context, ownerID string, from, to time.Time) (bool, error)
	List(ctx context.Context, filter *Filter) ([]*Booking, int64, error)
}

// Sort keys understood by List
const (
	SortByCreatedAt = "created_at"
	SortBySchedule  = "schedule"
)

// Filter represents filtering options for listing bookings
type Filter struct {
	OwnerID  *string
	Statuses []Status

	// Schedule range, from inclusive and to exclusive
	ScheduleFrom *time.Time
	ScheduleTo   *time.Time

	// Pagination. PageSize 0 returns every match.
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Offset is the number of rows skipped for the requested page.
func (f *Filter) Offset() int {
	if f.Page <= 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Descending reports whether results are ordered newest first. It is the default.
func (f *Filter) Descending() bool {
	return f.SortOrder != "asc"
}

// OwnerLocker serializes booking creation per owner.
type OwnerLocker interface {
	// Acquire returns ErrLockNotAcquired when the lock stays held past ctx or the provider's wait budget.
	Acquire(ctx context.Context, ownerID string) (release func(), err error)
}

// EventPublisher delivers booking lifecycle events to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
