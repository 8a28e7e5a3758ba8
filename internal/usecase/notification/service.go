package notification

import (
	"context"
	"sync"
	"time"

	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/internal/infrastructure/mail"
	"dog-grooming-booking/internal/logger"
	"dog-grooming-booking/internal/metrics"

	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

// Service renders account and booking emails and sends them in the
// background. Delivery failures are logged and never reach the caller.
type Service struct {
	mailer  mail.Mailer
	appName string
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

func NewService(mailer mail.Mailer, appName string, m *metrics.Metrics) *Service {
	return &Service{
		mailer:  mailer,
		appName: appName,
		metrics: m,
	}
}

func (s *Service) VerificationCode(to *account.Account, code string) {
	s.send("verification_code", to.Email, to.DisplayName(), verificationCodeEmail(s.appName, to.DisplayName(), code))
}

func (s *Service) Welcome(to *account.Account) {
	s.send("welcome", to.Email, to.DisplayName(), welcomeEmail(s.appName, to.DisplayName()))
}

func (s *Service) PasswordResetLink(to *account.Account, link string) {
	s.send("password_reset_link", to.Email, to.DisplayName(), resetLinkEmail(s.appName, link))
}

func (s *Service) PasswordResetSuccess(to *account.Account) {
	s.send("password_reset_success", to.Email, to.DisplayName(), resetSuccessEmail(s.appName))
}

func (s *Service) BookingStatusChanged(owner *account.Summary, b *booking.Booking, previous booking.Status) {
	name := owner.FirstName
	s.send("booking_status_changed", owner.Email, name, bookingStatusEmail(s.appName, name, b))
}

func (s *Service) BookingReminder(owner *account.Summary, b *booking.Booking) {
	name := owner.FirstName
	s.send("booking_reminder", owner.Email, name, reminderEmail(s.appName, name, b))
}

// Wait blocks until queued emails have been handed to the provider.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) send(template, toEmail, toName string, content *content) {
	msg := &mail.Message{
		ToEmail: toEmail,
		ToName:  toName,
		Subject: content.subject,
		Text:    content.text,
		HTML:    content.html,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, msg); err != nil {
			s.metrics.NotificationFailed(template)
			logger.Error("Failed to send email",
				zap.String("template", template),
				zap.String("to", toEmail),
				zap.Error(err),
			)
			return
		}

		logger.Debug("Email sent",
			zap.String("template", template),
			zap.String("to", toEmail),
		)
	}()
}
