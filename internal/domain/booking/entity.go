package booking

import (
	"fmt"
	"time"

	"dog-grooming-booking/internal/domain/account"
)

// Status represents where a booking is in its lifecycle
type Status string

const (
	StatusPending   Status = "pending"   // Waiting for staff review
	StatusConfirmed Status = "confirmed" // Accepted, appears on the calendar
	StatusCompleted Status = "completed" // Appointment took place
	StatusRejected  Status = "rejected"  // Declined by staff
)

const (
	// LeadTime is the minimum gap between creating a booking and its schedule.
	LeadTime = 24 * time.Hour
	// ConflictWindow is the distance on either side of a schedule in which an
	// owner may not hold another booking.
	ConflictWindow = 2 * time.Hour
	// Quota caps an owner's pending and confirmed bookings.
	Quota = 5
	// AppointmentLength is the calendar duration of one booking.
	AppointmentLength = 2 * time.Hour
)

var (
	// Statuses lists every status a booking can hold.
	Statuses = []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusRejected}

	// ActiveStatuses count towards the quota.
	ActiveStatuses = []Status{StatusPending, StatusConfirmed}
)

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Booking is a grooming appointment owned by one customer
type Booking struct {
	ID          string
	OwnerID     string
	DogCategory string
	Service     string
	Price       float64
	Schedule    time.Time
	Status      Status

	CreatedAt time.Time
	UpdatedAt time.Time

	// Owner is filled in by read operations that enrich bookings.
	Owner *account.Summary
}

// End is when the appointment slot finishes.
func (b *Booking) End() time.Time {
	return b.Schedule.Add(AppointmentLength)
}

// CalendarEvent is the calendar projection of a confirmed booking
type CalendarEvent struct {
	EventID string
	Title   string
	Start   time.Time
	End     time.Time
}

// CalendarEvent titles the booking "service || category". With withOwner
// set and the owner resolved, the title is prefixed with "Last, First".
func (b *Booking) CalendarEvent(withOwner bool) CalendarEvent {
	title := fmt.Sprintf("%s || %s", b.Service, b.DogCategory)
	if withOwner && b.Owner != nil {
		title = fmt.Sprintf("%s, %s || %s", b.Owner.LastName, b.Owner.FirstName, title)
	}

	return CalendarEvent{
		EventID: b.ID,
		Title:   title,
		Start:   b.Schedule,
		End:     b.End(),
	}
}
