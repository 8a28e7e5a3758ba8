package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeDuplicateEmail        = "DUPLICATE_EMAIL"
	CodeNotFound              = "NOT_FOUND"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeNotVerified           = "NOT_VERIFIED"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeInvalidSchedule       = "INVALID_SCHEDULE"
	CodeQuotaExceeded         = "QUOTA_EXCEEDED"
	CodeScheduleConflict      = "SCHEDULE_CONFLICT"
	CodeBookingBusy           = "BOOKING_BUSY"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeInternal              = "INTERNAL_ERROR"
)

var (
	ErrInvalidCredentials    = NewAppError(CodeInvalidCredentials, "Invalid email or password", nil)
	ErrNotVerified           = NewAppError(CodeNotVerified, "Account is not verified", nil)
	ErrInvalidOrExpiredToken = NewAppError(CodeInvalidOrExpiredToken, "Invalid or expired token", nil)
	ErrUnauthorized          = NewAppError(CodeUnauthorized, "Authentication required", nil)
	ErrForbidden             = NewAppError(CodeForbidden, "Insufficient permissions", nil)
	ErrDuplicateEmail        = NewAppError(CodeDuplicateEmail, "An account with this email already exists", nil)
	ErrAccountNotFound       = NewAppError(CodeNotFound, "Account not found", nil)
	ErrBookingNotFound       = NewAppError(CodeNotFound, "Booking not found", nil)

	ErrInvalidSchedule  = NewAppError(CodeInvalidSchedule, "Bookings must be made at least 24 hours in advance.", nil)
	ErrQuotaExceeded    = NewAppError(CodeQuotaExceeded, "You cannot have more than 5 pending or confirmed bookings.", nil)
	ErrScheduleConflict = NewAppError(CodeScheduleConflict, "This booking conflicts with an existing schedule.", nil)
	ErrBookingBusy      = NewAppError(CodeBookingBusy, "Another booking request is in progress, please retry", nil)
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so wrapped copies of a sentinel compare equal to it.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap attaches a cause to a sentinel while keeping its code and message.
func Wrap(sentinel *AppError, err error) *AppError {
	return NewAppError(sentinel.Code, sentinel.Message, err)
}

// AsAppError returns the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func HasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// HTTPStatus maps an error to the status code the API reports for it.
func HTTPStatus(err error) int {
	appErr, ok := AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case CodeValidation, CodeInvalidSchedule, CodeInvalidTransition, CodeInvalidOrExpiredToken:
		return http.StatusBadRequest
	case CodeInvalidCredentials, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotVerified, CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateEmail, CodeQuotaExceeded, CodeScheduleConflict, CodeBookingBusy:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
