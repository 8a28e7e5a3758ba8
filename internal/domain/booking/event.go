package booking

import "time"

type EventType string

const (
	EventCreated       EventType = "booking.created"
	EventStatusChanged EventType = "booking.status_changed"
	EventDeleted       EventType = "booking.deleted"
)

// Event is the payload published for booking changes
type Event struct {
	Type           EventType `json:"type"`
	BookingID      string    `json:"booking_id"`
	OwnerID        string    `json:"owner_id,omitempty"`
	Status         Status    `json:"status,omitempty"`
	PreviousStatus Status    `json:"previous_status,omitempty"`
	Schedule       time.Time `json:"schedule,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewEvent(eventType EventType, b *Booking, now time.Time) *Event {
	return &Event{
		Type:       eventType,
		BookingID:  b.ID,
		OwnerID:    b.OwnerID,
		Status:     b.Status,
		Schedule:   b.Schedule,
		OccurredAt: now,
	}
}
