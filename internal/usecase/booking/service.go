package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"dog-grooming-booking/internal/booking/lifecycle"
	"dog-grooming-booking/internal/domain/account"
	domainBooking "dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/internal/logger"
	"dog-grooming-booking/internal/metrics"
	appErrors "dog-grooming-booking/pkg/errors"
	"dog-grooming-booking/pkg/utils"

	"go.uber.org/zap"
)

// Notifier tells owners about changes to their bookings. Implementations must not block.
type Notifier interface {
	BookingStatusChanged(owner *account.Summary, b *domainBooking.Booking, previous domainBooking.Status)
}

// Service implements the booking lifecycle
type Service struct {
	bookingRepo  domainBooking.Repository
	customerRepo account.Repository
	locker       domainBooking.OwnerLocker
	events       domainBooking.EventPublisher
	notifier     Notifier
	metrics      *metrics.Metrics
	now          func() time.Time

	publishing sync.WaitGroup
}

const publishTimeout = 10 * time.Second

// NewService creates a new booking service
func NewService(
	bookingRepo domainBooking.Repository,
	customerRepo account.Repository,
	locker domainBooking.OwnerLocker,
	events domainBooking.EventPublisher,
	notifier Notifier,
	m *metrics.Metrics,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		locker:       locker,
		events:       events,
		notifier:     notifier,
		metrics:      m,
		now:          time.Now,
	}
}

// Create books an appointment for ownerID. The owner lock is held from the
// quota check through the insert so concurrent requests cannot both pass.
func (s *Service) Create(ctx context.Context, ownerID string, req *CreateBookingRequest) (*BookingResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	owner, err := s.customerRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, appErrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}
	if !owner.IsVerified {
		return nil, appErrors.ErrNotVerified
	}

	now := s.now()
	schedule := req.Schedule.UTC()

	// Lead time
	if schedule.Before(now.Add(domainBooking.LeadTime)) {
		s.declined(ownerID, "lead_time")
		return nil, appErrors.ErrInvalidSchedule
	}

	b := &domainBooking.Booking{
		OwnerID:     ownerID,
		DogCategory: utils.SanitizeString(req.DogCategory),
		Service:     utils.SanitizeString(req.Service),
		Price:       req.Price,
		Schedule:    schedule,
		Status:      domainBooking.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.insertLocked(ctx, b); err != nil {
		return nil, err
	}
	b.Owner = owner.Summary()

	s.metrics.BookingCreated()
	s.publish(domainBooking.NewEvent(domainBooking.EventCreated, b, now))

	logger.Info("Booking created",
		zap.String("booking_id", b.ID),
		zap.String("owner_id", ownerID),
		zap.Time("schedule", b.Schedule),
		zap.String("event", "booking_created"),
	)

	return ToBookingResponse(b), nil
}

// insertLocked runs the quota and conflict checks and the insert while
// holding the owner lock.
func (s *Service) insertLocked(ctx context.Context, b *domainBooking.Booking) error {
	ownerID := b.OwnerID
	schedule := b.Schedule

	release, err := s.locker.Acquire(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domainBooking.ErrLockNotAcquired) {
			s.declined(ownerID, "busy")
			return appErrors.ErrBookingBusy
		}
		return fmt.Errorf("failed to lock owner: %w", err)
	}
	defer release()

	// Quota
	active, err := s.bookingRepo.CountByOwner(ctx, ownerID, domainBooking.ActiveStatuses)
	if err != nil {
		return fmt.Errorf("failed to count active bookings: %w", err)
	}
	if active >= domainBooking.Quota {
		s.declined(ownerID, "quota")
		return appErrors.ErrQuotaExceeded
	}

	// Conflict window
	conflict, err := s.bookingRepo.ExistsInWindow(ctx, ownerID,
		schedule.Add(-domainBooking.ConflictWindow),
		schedule.Add(domainBooking.ConflictWindow),
	)
	if err != nil {
		return fmt.Errorf("failed to check schedule conflicts: %w", err)
	}
	if conflict {
		s.declined(ownerID, "conflict")
		return appErrors.ErrScheduleConflict
	}

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// FindAll returns every booking, newest created first.
func (s *Service) FindAll(ctx context.Context) ([]*BookingResponse, error) {
	bookings, _, err := s.bookingRepo.List(ctx, &domainBooking.Filter{
		SortBy:    domainBooking.SortByCreatedAt,
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	if err := s.attachOwners(ctx, bookings); err != nil {
		return nil, err
	}
	return ToBookingResponses(bookings), nil
}

// Schedules projects confirmed bookings onto the staff calendar.
func (s *Service) Schedules(ctx context.Context) ([]*CalendarEventResponse, error) {
	bookings, _, err := s.bookingRepo.List(ctx, &domainBooking.Filter{
		Statuses:  []domainBooking.Status{domainBooking.StatusConfirmed},
		SortBy:    domainBooking.SortByCreatedAt,
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed bookings: %w", err)
	}

	if err := s.attachOwners(ctx, bookings); err != nil {
		return nil, err
	}

	events := make([]*CalendarEventResponse, 0, len(bookings))
	for _, b := range bookings {
		events = append(events, ToCalendarEvent(b))
	}
	return events, nil
}

// Paginate pages through all bookings by schedule, latest first.
func (s *Service) Paginate(ctx context.Context, req *PaginateRequest) (*PaginatedBookingsResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid pagination parameters", err)
	}

	bookings, total, err := s.bookingRepo.List(ctx, &domainBooking.Filter{
		Page:      req.Page,
		PageSize:  req.Limit,
		SortBy:    domainBooking.SortBySchedule,
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to paginate bookings: %w", err)
	}

	if err := s.attachOwners(ctx, bookings); err != nil {
		return nil, err
	}

	return &PaginatedBookingsResponse{
		Bookings:      ToBookingResponses(bookings),
		TotalBookings: total,
		TotalPages:    int(math.Ceil(float64(total) / float64(req.Limit))),
		CurrentPage:   req.Page,
	}, nil
}

func (s *Service) FindBooking(ctx context.Context, id string) (*BookingResponse, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.attachOwners(ctx, []*domainBooking.Booking{b}); err != nil {
		return nil, err
	}
	return ToBookingResponse(b), nil
}

// FindOwnedBooking is FindBooking for a customer. Bookings of other owners
// are reported as not found.
func (s *Service) FindOwnedBooking(ctx context.Context, ownerID, id string) (*BookingResponse, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, appErrors.ErrBookingNotFound
	}

	if err := s.attachOwners(ctx, []*domainBooking.Booking{b}); err != nil {
		return nil, err
	}
	return ToBookingResponse(b), nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*BookingResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := lifecycle.ValidateStatusTransition(b.Status, req.Status); err != nil {
		return nil, err
	}

	previous := b.Status
	now := s.now()
	if err := s.bookingRepo.UpdateStatus(ctx, id, previous, req.Status, now); err != nil {
		switch {
		case errors.Is(err, domainBooking.ErrBookingNotFound):
			return nil, appErrors.ErrBookingNotFound
		case errors.Is(err, domainBooking.ErrStatusChanged):
			return nil, s.staleTransition(ctx, id, req.Status)
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	b.Status = req.Status
	b.UpdatedAt = now

	if err := s.attachOwners(ctx, []*domainBooking.Booking{b}); err != nil {
		return nil, err
	}

	s.metrics.StatusChanged(string(previous), string(b.Status))

	evt := domainBooking.NewEvent(domainBooking.EventStatusChanged, b, now)
	evt.PreviousStatus = previous
	s.publish(evt)

	if s.notifier != nil && b.Owner != nil {
		s.notifier.BookingStatusChanged(b.Owner, b, previous)
	}

	logger.Info("Booking status updated",
		zap.String("booking_id", b.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(b.Status)),
		zap.String("event", "booking_status_changed"),
	)

	return ToBookingResponse(b), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domainBooking.ErrBookingNotFound) {
			return appErrors.ErrBookingNotFound
		}
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.publish(domainBooking.NewEvent(domainBooking.EventDeleted, &domainBooking.Booking{ID: id}, s.now()))

	logger.Info("Booking deleted",
		zap.String("booking_id", id),
		zap.String("event", "booking_deleted"),
	)
	return nil
}

// OwnerBookings lists a customer's own bookings, newest created first.
func (s *Service) OwnerBookings(ctx context.Context, ownerID string) ([]*BookingResponse, error) {
	bookings, _, err := s.bookingRepo.List(ctx, &domainBooking.Filter{
		OwnerID:   &ownerID,
		SortBy:    domainBooking.SortByCreatedAt,
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list owner bookings: %w", err)
	}
	return ToBookingResponses(bookings), nil
}

// OwnerSchedules projects a customer's confirmed bookings onto their calendar.
func (s *Service) OwnerSchedules(ctx context.Context, ownerID string) ([]*CalendarEventResponse, error) {
	bookings, _, err := s.bookingRepo.List(ctx, &domainBooking.Filter{
		OwnerID:   &ownerID,
		Statuses:  []domainBooking.Status{domainBooking.StatusConfirmed},
		SortBy:    domainBooking.SortByCreatedAt,
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list owner schedules: %w", err)
	}

	events := make([]*CalendarEventResponse, 0, len(bookings))
	for _, b := range bookings {
		events = append(events, ToOwnCalendarEvent(b))
	}
	return events, nil
}

// UpcomingConfirmed returns confirmed bookings scheduled in [from, to) with owners attached.
func (s *Service) UpcomingConfirmed(ctx context.Context, from, to time.Time) ([]*domainBooking.Booking, error) {
	bookings, _, err := s.bookingRepo.List(ctx, &domainBooking.Filter{
		Statuses:     []domainBooking.Status{domainBooking.StatusConfirmed},
		ScheduleFrom: &from,
		ScheduleTo:   &to,
		SortBy:       domainBooking.SortBySchedule,
		SortOrder:    "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming bookings: %w", err)
	}

	if err := s.attachOwners(ctx, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// staleTransition explains a lost status update race against the booking as
// it is now.
func (s *Service) staleTransition(ctx context.Context, id string, to domainBooking.Status) error {
	current, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.ValidateStatusTransition(current.Status, to); err != nil {
		return err
	}
	return appErrors.NewAppError(appErrors.CodeInvalidTransition,
		fmt.Sprintf("Booking status changed to %s while updating, please retry.", current.Status), nil)
}

func (s *Service) getBooking(ctx context.Context, id string) (*domainBooking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainBooking.ErrBookingNotFound) {
			return nil, appErrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

func (s *Service) attachOwners(ctx context.Context, bookings []*domainBooking.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.OwnerID]; ok {
			continue
		}
		seen[b.OwnerID] = struct{}{}
		ids = append(ids, b.OwnerID)
	}

	owners, err := s.customerRepo.GetSummaries(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load booking owners: %w", err)
	}

	for _, b := range bookings {
		b.Owner = owners[b.OwnerID]
	}
	return nil
}

// publish hands the event to the publisher in the background so a slow
// broker never holds up the request.
func (s *Service) publish(evt *domainBooking.Event) {
	if s.events == nil {
		return
	}

	s.publishing.Add(1)
	go func() {
		defer s.publishing.Done()

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.events.Publish(ctx, evt); err != nil {
			logger.Warn("Failed to publish booking event",
				zap.String("booking_id", evt.BookingID),
				zap.String("type", string(evt.Type)),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until in-flight events have been handed to the publisher.
func (s *Service) Wait() {
	s.publishing.Wait()
}

func (s *Service) declined(ownerID, reason string) {
	s.metrics.BookingDeclined(reason)
	logger.Info("Booking request declined",
		zap.String("owner_id", ownerID),
		zap.String("reason", reason),
		zap.String("event", "booking_declined"),
	)
}
