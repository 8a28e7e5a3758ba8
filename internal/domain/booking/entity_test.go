package booking

import (
	"testing"
	"time"

	"dog-grooming-booking/internal/domain/account"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}

func TestCalendarEvent(t *testing.T) {
	start := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	b := &Booking{
		ID:          "b1",
		DogCategory: "Beagle",
		Service:     "Nail Trim",
		Schedule:    start,
		Owner:       &account.Summary{FirstName: "Juan", LastName: "Dela Cruz"},
	}

	staff := b.CalendarEvent(true)
	assert.Equal(t, "Dela Cruz, Juan || Nail Trim || Beagle", staff.Title)
	assert.Equal(t, "b1", staff.EventID)
	assert.Equal(t, start, staff.Start)
	assert.Equal(t, start.Add(AppointmentLength), staff.End)

	assert.Equal(t, "Nail Trim || Beagle", b.CalendarEvent(false).Title)

	b.Owner = nil
	assert.Equal(t, "Nail Trim || Beagle", b.CalendarEvent(true).Title)
}
