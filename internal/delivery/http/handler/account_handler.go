package handler

import (
	"net/http"

	"dog-grooming-booking/internal/config"
	"dog-grooming-booking/internal/middleware"
	"dog-grooming-booking/internal/usecase/auth"
	"dog-grooming-booking/internal/usecase/booking"
	"dog-grooming-booking/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves the auth surface of one account kind. Customers are
// mounted under /accounts and staff under /staff.
type AccountHandler struct {
	service  *auth.Service
	bookings *booking.Service
	config   *config.Config
}

// NewAccountHandler takes the booking service only for customers; pass nil for staff.
func NewAccountHandler(service *auth.Service, bookings *booking.Service, cfg *config.Config) *AccountHandler {
	return &AccountHandler{service: service, bookings: bookings, config: cfg}
}

func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup) {
	credentials := router.Group("")
	if limit := h.config.RateLimit; limit.AuthRPS > 0 {
		credentials.Use(middleware.CredentialRateLimitMiddleware(limit.AuthRPS, limit.AuthBurst))
	}
	{
		credentials.POST("/register", h.Register)
		credentials.POST("/login", h.Login)
		credentials.POST("/verify-email", h.VerifyEmail)
		credentials.POST("/forgot-password", h.ForgotPassword)
		credentials.POST("/reset-password/:token", h.ResetPassword)
	}
	router.POST("/logout", h.Logout)

	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(h.config), middleware.KindMiddleware(h.service.Kind()))
	{
		protected.GET("/profile", h.Profile)
		protected.PUT("/update-profile", h.UpdateProfile)
		protected.PUT("/change-password", h.ChangePassword)

		if h.bookings != nil {
			protected.GET("/bookings", h.OwnBookings)
			protected.GET("/schedules", h.OwnSchedules)
		}
	}
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	req.FirstName = utils.SanitizeString(req.FirstName)
	req.MiddleName = utils.SanitizeString(req.MiddleName)
	req.LastName = utils.SanitizeString(req.LastName)
	req.PhoneNumber = utils.SanitizePhone(req.PhoneNumber)
	req.Username = utils.SanitizeString(req.Username)

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusCreated,
		"Registration successful. Please check your email for the verification code.", result.Account)
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	h.setSessionCookie(c, result.Token, int(h.config.JWT.Expiry().Seconds()))
	utils.SuccessResponse(c, http.StatusOK, "Login successful", result.Account)
}

func (h *AccountHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	utils.SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *AccountHandler) VerifyEmail(c *gin.Context) {
	var req auth.VerifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.VerifyEmail(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Email verified successfully", resp)
}

func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	var req auth.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	// The token only travels by email.
	if _, err := h.service.ForgotPassword(c.Request.Context(), &req); err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset link sent to your email", nil)
}

func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), c.Param("token"), &req); err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *AccountHandler) Profile(c *gin.Context) {
	resp, err := h.service.Profile(c.Request.Context(), middleware.GetAccountID(c))
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", resp)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req auth.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	sanitize := func(s *string, fn func(string) string) {
		if s != nil {
			*s = fn(*s)
		}
	}
	sanitize(req.FirstName, utils.SanitizeString)
	sanitize(req.MiddleName, utils.SanitizeString)
	sanitize(req.LastName, utils.SanitizeString)
	sanitize(req.PhoneNumber, utils.SanitizePhone)
	sanitize(req.Username, utils.SanitizeString)

	resp, err := h.service.UpdateProfile(c.Request.Context(), middleware.GetAccountID(c), &req)
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", resp)
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req auth.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), middleware.GetAccountID(c), &req); err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *AccountHandler) OwnBookings(c *gin.Context) {
	resp, err := h.bookings.OwnerBookings(c.Request.Context(), middleware.GetAccountID(c))
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bookings retrieved successfully", resp)
}

func (h *AccountHandler) OwnSchedules(c *gin.Context) {
	resp, err := h.bookings.OwnerSchedules(c.Request.Context(), middleware.GetAccountID(c))
	if err != nil {
		respondWithError(c, err, h.debug())
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Schedules retrieved successfully", resp)
}

func (h *AccountHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.config.IsProduction(), true)
}

func (h *AccountHandler) debug() bool {
	return !h.config.IsProduction()
}
