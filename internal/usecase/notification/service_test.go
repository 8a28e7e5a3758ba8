package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/internal/infrastructure/mail"
	"dog-grooming-booking/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []*mail.Message
	err  error
}

func (r *recordingMailer) Send(ctx context.Context, msg *mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func TestVerificationCodeEmail(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(mailer, "Dog Grooming", nil)

	svc.VerificationCode(&account.Account{
		Kind:      account.KindCustomer,
		FirstName: "Ana",
		LastName:  "Reyes",
		Email:     "ana@example.com",
	}, "123456")
	svc.Wait()

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "ana@example.com", msg.ToEmail)
	assert.Equal(t, "Ana Reyes", msg.ToName)
	assert.Contains(t, msg.Text, "123456")
	assert.Contains(t, msg.HTML, "123456")
}

func TestResetLinkEscapesHTML(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(mailer, "Dog Grooming", nil)

	svc.PasswordResetLink(&account.Account{Kind: account.KindStaff, Username: "groomer", Email: "staff@example.com"},
		`https://example.com/reset-password/abc"><script>`)
	svc.Wait()

	require.Len(t, mailer.sent, 1)
	assert.NotContains(t, mailer.sent[0].HTML, "<script>")
	assert.Equal(t, "groomer", mailer.sent[0].ToName)
}

func TestBookingStatusChangedEmail(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(mailer, "Dog Grooming", nil)

	svc.BookingStatusChanged(&account.Summary{FirstName: "Ana", Email: "ana@example.com"}, &booking.Booking{
		Service:     "Full Groom",
		DogCategory: "Poodle",
		Schedule:    time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC),
		Status:      booking.StatusConfirmed,
	}, booking.StatusPending)
	svc.Wait()

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Subject, "confirmed")
	assert.Contains(t, mailer.sent[0].Text, "Wednesday, March 12, 2025")
}

func TestDeliveryFailureIsCounted(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	m := metrics.New(prometheus.NewRegistry())
	svc := NewService(mailer, "Dog Grooming", m)

	svc.Welcome(&account.Account{Kind: account.KindCustomer, FirstName: "Ana", Email: "ana@example.com"})
	svc.Wait()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.NotificationErrors.WithLabelValues("welcome")))
}
