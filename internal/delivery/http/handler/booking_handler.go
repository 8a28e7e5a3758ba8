package handler

import (
	"net/http"

	"dog-grooming-booking/internal/config"
	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/internal/middleware"
	"dog-grooming-booking/internal/usecase/booking"
	"dog-grooming-booking/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type BookingHandler struct {
	service *booking.Service
	config  *config.Config
}

func NewBookingHandler(service *booking.Service, cfg *config.Config) *BookingHandler {
	return &BookingHandler{service: service, config: cfg}
}

// RegisterRoutes mounts /bookings. Every route needs a session; the kind
// middleware decides which side may call it.
func (h *BookingHandler) RegisterRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware(h.config))
	{
		bookings.POST("", middleware.CustomerOnly(), h.CreateBooking)
		bookings.GET("/:id", middleware.KindMiddleware(account.KindCustomer, account.KindStaff), h.GetBooking)

		staff := bookings.Group("")
		staff.Use(middleware.StaffOnly())
		{
			staff.GET("", h.ListBookings)
			staff.GET("/paginate", h.PaginateBookings)
			staff.GET("/schedules", h.Schedules)
			staff.PUT("/:id/status", h.UpdateStatus)
			staff.DELETE("/:id", h.DeleteBooking)
		}
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req booking.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	req.DogCategory = utils.SanitizeString(req.DogCategory)
	req.Service = utils.SanitizeString(req.Service)

	resp, err := h.service.Create(c.Request.Context(), middleware.GetAccountID(c), &req)
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Booking created successfully", resp)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	resp, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bookings retrieved successfully", resp)
}

func (h *BookingHandler) PaginateBookings(c *gin.Context) {
	req := booking.PaginateRequest{Page: defaultPage, Limit: defaultLimit}
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid pagination parameters")
		return
	}

	resp, err := h.service.Paginate(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bookings retrieved successfully", resp)
}

func (h *BookingHandler) Schedules(c *gin.Context) {
	resp, err := h.service.Schedules(c.Request.Context())
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Schedules retrieved successfully", resp)
}

// GetBooking lets staff read any booking and customers only their own.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	var (
		resp *booking.BookingResponse
		err  error
	)
	if middleware.GetKind(c) == string(account.KindStaff) {
		resp, err = h.service.FindBooking(c.Request.Context(), c.Param("id"))
	} else {
		resp, err = h.service.FindOwnedBooking(c.Request.Context(), middleware.GetAccountID(c), c.Param("id"))
	}
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking retrieved successfully", resp)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req booking.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking status updated successfully", resp)
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Booking deleted successfully", nil)
}

func (h *BookingHandler) debug() bool {
	return !h.config.IsProduction()
}
