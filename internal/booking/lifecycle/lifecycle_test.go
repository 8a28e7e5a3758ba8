package lifecycle

import (
	"testing"

	"dog-grooming-booking/internal/domain/booking"
	appErrors "dog-grooming-booking/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStatusTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    booking.Status
		to      booking.Status
		allowed bool
	}{
		{"pending to confirmed", booking.StatusPending, booking.StatusConfirmed, true},
		{"pending to rejected", booking.StatusPending, booking.StatusRejected, true},
		{"confirmed to completed", booking.StatusConfirmed, booking.StatusCompleted, true},
		{"pending to completed", booking.StatusPending, booking.StatusCompleted, false},
		{"pending to pending", booking.StatusPending, booking.StatusPending, false},
		{"confirmed to rejected", booking.StatusConfirmed, booking.StatusRejected, false},
		{"confirmed to pending", booking.StatusConfirmed, booking.StatusPending, false},
		{"completed to confirmed", booking.StatusCompleted, booking.StatusConfirmed, false},
		{"completed to rejected", booking.StatusCompleted, booking.StatusRejected, false},
		{"rejected to pending", booking.StatusRejected, booking.StatusPending, false},
		{"rejected to confirmed", booking.StatusRejected, booking.StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatusTransition(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, appErrors.HasCode(err, appErrors.CodeInvalidTransition))
		})
	}
}

func TestTransitionMessageNamesAllowedStatuses(t *testing.T) {
	err := ValidateStatusTransition(booking.StatusPending, booking.StatusCompleted)
	require.Error(t, err)
	assert.Equal(t, `A pending booking can only be changed to "confirmed" or "rejected".`, err.Error())

	err = ValidateStatusTransition(booking.StatusConfirmed, booking.StatusRejected)
	require.Error(t, err)
	assert.Equal(t, `A confirmed booking can only be changed to "completed".`, err.Error())

	err = ValidateStatusTransition(booking.StatusRejected, booking.StatusConfirmed)
	require.Error(t, err)
	assert.Equal(t, "A rejected booking cannot be changed.", err.Error())
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(booking.StatusCompleted))
	assert.True(t, IsTerminal(booking.StatusRejected))
	assert.False(t, IsTerminal(booking.StatusPending))
	assert.False(t, IsTerminal(booking.StatusConfirmed))
	assert.False(t, IsTerminal(booking.Status("archived")))
}

func TestGetAllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t, []booking.Status{booking.StatusConfirmed, booking.StatusRejected},
		GetAllowedTransitions(booking.StatusPending))
	assert.Empty(t, GetAllowedTransitions(booking.StatusCompleted))
}
