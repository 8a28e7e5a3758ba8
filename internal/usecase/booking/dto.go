package booking

import (
	"time"

	"dog-grooming-booking/internal/domain/account"
	domainBooking "dog-grooming-booking/internal/domain/booking"
)

// Request DTOs
type CreateBookingRequest struct {
	DogCategory string    `json:"dog_category" validate:"required,min=2,max=50"`
	Service     string    `json:"service" validate:"required,min=2,max=100"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Schedule    time.Time `json:"schedule" validate:"required"`
}

type UpdateStatusRequest struct {
	Status domainBooking.Status `json:"status" validate:"required,booking_status"`
}

type PaginateRequest struct {
	Page  int `form:"page" json:"page" validate:"min=1"`
	Limit int `form:"limit" json:"limit" validate:"min=1"`
}

// Response DTOs
type OwnerResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

type BookingResponse struct {
	ID          string               `json:"id"`
	DogCategory string               `json:"dog_category"`
	Service     string               `json:"service"`
	Price       float64              `json:"price"`
	Schedule    time.Time            `json:"schedule"`
	Status      domainBooking.Status `json:"status"`
	OwnerID     string               `json:"owner_id"`
	Owner       *OwnerResponse       `json:"user,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type PaginatedBookingsResponse struct {
	Bookings      []*BookingResponse `json:"bookings"`
	TotalBookings int64              `json:"total_bookings"`
	TotalPages    int                `json:"total_pages"`
	CurrentPage   int                `json:"current_page"`
}

type CalendarEventResponse struct {
	EventID string    `json:"event_id"`
	Title   string    `json:"title"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// Converters
func ToBookingResponse(b *domainBooking.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:          b.ID,
		DogCategory: b.DogCategory,
		Service:     b.Service,
		Price:       b.Price,
		Schedule:    b.Schedule,
		Status:      b.Status,
		OwnerID:     b.OwnerID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.Owner != nil {
		resp.Owner = toOwnerResponse(b.Owner)
	}
	return resp
}

func ToBookingResponses(bookings []*domainBooking.Booking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ToBookingResponse(b))
	}
	return out
}

func toOwnerResponse(s *account.Summary) *OwnerResponse {
	return &OwnerResponse{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		PhoneNumber: s.PhoneNumber,
		Email:       s.Email,
	}
}

// ToCalendarEvent projects a booking for the staff calendar. The title falls
// back to service and category when the owner could not be resolved.
func ToCalendarEvent(b *domainBooking.Booking) *CalendarEventResponse {
	return toEventResponse(b.CalendarEvent(true))
}

// ToOwnCalendarEvent projects a booking for its owner's calendar.
func ToOwnCalendarEvent(b *domainBooking.Booking) *CalendarEventResponse {
	return toEventResponse(b.CalendarEvent(false))
}

func toEventResponse(e domainBooking.CalendarEvent) *CalendarEventResponse {
	return &CalendarEventResponse{
		EventID: e.EventID,
		Title:   e.Title,
		Start:   e.Start,
		End:     e.End,
	}
}
