package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"dog-grooming-booking/internal/domain/booking"

	"github.com/google/uuid"
)

// BookingRepository keeps bookings in memory
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*booking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[string]*booking.Booking)}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}

	stored := *b
	stored.Owner = nil
	r.bookings[b.ID] = &stored
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	c := *b
	return &c, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to booking.Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if b.Status != from {
		return booking.ErrStatusChanged
	}
	b.Status = to
	b.UpdatedAt = updatedAt
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return booking.ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *BookingRepository) CountByOwner(ctx context.Context, ownerID string, statuses []booking.Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, b := range r.bookings {
		if b.OwnerID == ownerID && hasStatus(statuses, b.Status) {
			count++
		}
	}
	return count, nil
}

func (r *BookingRepository) ExistsInWindow(ctx context.Context, ownerID string, from, to time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.OwnerID == ownerID && !b.Schedule.Before(from) && !b.Schedule.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *BookingRepository) List(ctx context.Context, filter *booking.Filter) ([]*booking.Booking, int64, error) {
	if filter == nil {
		filter = &booking.Filter{}
	}

	r.mu.RLock()
	matched := make([]*booking.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if filter.OwnerID != nil && b.OwnerID != *filter.OwnerID {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, b.Status) {
			continue
		}
		if filter.ScheduleFrom != nil && b.Schedule.Before(*filter.ScheduleFrom) {
			continue
		}
		if filter.ScheduleTo != nil && !b.Schedule.Before(*filter.ScheduleTo) {
			continue
		}
		c := *b
		matched = append(matched, &c)
	}
	r.mu.RUnlock()

	key := func(b *booking.Booking) time.Time { return b.CreatedAt }
	if filter.SortBy == booking.SortBySchedule {
		key = func(b *booking.Booking) time.Time { return b.Schedule }
	}
	desc := filter.Descending()
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return key(matched[i]).After(key(matched[j]))
		}
		return key(matched[i]).Before(key(matched[j]))
	})

	total := int64(len(matched))
	if filter.PageSize <= 0 {
		return matched, total, nil
	}

	start := filter.Offset()
	if start >= len(matched) {
		return []*booking.Booking{}, total, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func hasStatus(statuses []booking.Status, s booking.Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
