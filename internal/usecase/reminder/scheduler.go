package reminder

import (
	"context"
	"fmt"
	"time"

	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/internal/logger"
	"dog-grooming-booking/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	// Lead is how far ahead of the appointment the reminder goes out.
	Lead = 24 * time.Hour
	// Window must match the cron interval so each booking is picked up once.
	Window = time.Hour

	runTimeout = 2 * time.Minute
)

type BookingSource interface {
	UpcomingConfirmed(ctx context.Context, from, to time.Time) ([]*booking.Booking, error)
}

type Notifier interface {
	BookingReminder(owner *account.Summary, b *booking.Booking)
}

// Scheduler emails owners of confirmed bookings the day before their appointment.
type Scheduler struct {
	cron     *cron.Cron
	source   BookingSource
	notifier Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
	log      *zap.Logger
}

func NewScheduler(source BookingSource, notifier Notifier, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		source:   source,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
		log:      logger.Named("reminder"),
	}
}

// Start registers the job on the given cron spec and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error("Reminder run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}

	s.cron.Start()
	s.log.Info("Reminder scheduler started", zap.String("schedule", spec))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Reminder scheduler stopped")
}

// RunOnce sends reminders for bookings scheduled in [now+Lead, now+Lead+Window),
// with now truncated to the window so late or early firings of the hourly job
// still produce adjacent, non-overlapping windows.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	from := s.now().UTC().Truncate(Window).Add(Lead)
	to := from.Add(Window)

	bookings, err := s.source.UpcomingConfirmed(ctx, from, to)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, b := range bookings {
		if b.Owner == nil || b.Owner.Email == "" {
			s.log.Warn("Skipping reminder for booking without owner", zap.String("booking_id", b.ID))
			continue
		}
		s.notifier.BookingReminder(b.Owner, b)
		s.metrics.ReminderSent()
		sent++
	}

	s.log.Info("Reminders queued",
		zap.Int("count", sent),
		zap.Time("from", from),
		zap.Time("to", to),
	)
	return sent, nil
}
