package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *DB
}

func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	ownerID, err := uuid.Parse(b.OwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", b.OwnerID, err)
	}

	b.ID = uuid.NewString()
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}

	dbModel := toBookingModel(b)
	dbModel.OwnerID = ownerID
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, booking.ErrBookingNotFound
	}

	var dbModel models.BookingModel
	err = r.db.DB.WithContext(ctx).
		Where("id = ?", bookingID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, booking.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return toBookingEntity(&dbModel), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to booking.Status, updatedAt time.Time) error {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return booking.ErrBookingNotFound
	}

	result := r.db.DB.WithContext(ctx).
		Model(&models.BookingModel{}).
		Where("id = ? AND status = ?", bookingID, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": updatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return booking.ErrStatusChanged
	}

	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return booking.ErrBookingNotFound
	}

	result := r.db.DB.WithContext(ctx).
		Where("id = ?", bookingID).
		Delete(&models.BookingModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return booking.ErrBookingNotFound
	}

	return nil
}

func (r *BookingRepository) CountByOwner(ctx context.Context, ownerID string, statuses []booking.Status) (int64, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return 0, nil
	}

	var count int64
	db := r.db.DB.WithContext(ctx).Model(&models.BookingModel{}).Where("owner_id = ?", owner)
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statusStrings(statuses))
	}
	if err := db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

func (r *BookingRepository) ExistsInWindow(ctx context.Context, ownerID string, from, to time.Time) (bool, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return false, nil
	}

	var exists bool
	err = r.db.DB.WithContext(ctx).Raw(`
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE owner_id = ? AND schedule BETWEEN ? AND ?
		)
	`, owner, from, to).Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("failed to check schedule window: %w", err)
	}

	return exists, nil
}

func (r *BookingRepository) List(ctx context.Context, filter *booking.Filter) ([]*booking.Booking, int64, error) {
	if filter == nil {
		filter = &booking.Filter{}
	}

	var dbModels []models.BookingModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.BookingModel{})

	// Apply filters
	if filter.OwnerID != nil {
		owner, err := uuid.Parse(*filter.OwnerID)
		if err != nil {
			return []*booking.Booking{}, 0, nil
		}
		db = db.Where("owner_id = ?", owner)
	}
	if len(filter.Statuses) > 0 {
		db = db.Where("status IN ?", statusStrings(filter.Statuses))
	}
	if filter.ScheduleFrom != nil {
		db = db.Where("schedule >= ?", *filter.ScheduleFrom)
	}
	if filter.ScheduleTo != nil {
		db = db.Where("schedule < ?", *filter.ScheduleTo)
	}

	// Count total
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	// Apply sorting
	sortBy := "created_at"
	if filter.SortBy == booking.SortBySchedule {
		sortBy = "schedule"
	}
	sortOrder := "ASC"
	if filter.Descending() {
		sortOrder = "DESC"
	}
	db = db.Order(fmt.Sprintf("%s %s, id %s", sortBy, sortOrder, sortOrder))

	// Apply pagination
	if filter.PageSize > 0 {
		db = db.Limit(filter.PageSize).Offset(filter.Offset())
	}

	if err := db.Find(&dbModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*booking.Booking, len(dbModels))
	for i := range dbModels {
		bookings[i] = toBookingEntity(&dbModels[i])
	}

	return bookings, total, nil
}

func statusStrings(statuses []booking.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
