package utils

import (
	"errors"
	"net/http"

	appErrors "dog-grooming-booking/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}

// HandleError writes the response for err. Internal causes are only exposed
// when debug is set.
func HandleError(c *gin.Context, err error, debug bool) {
	_ = c.Error(err)

	status := appErrors.HTTPStatus(err)
	resp := Response{Success: false, Message: "Internal server error"}

	if appErr, ok := appErrors.AsAppError(err); ok {
		resp.Message = appErr.Message

		var validationErrs validator.ValidationErrors
		if errors.As(appErr.Err, &validationErrs) {
			resp.Errors = FormatValidationErrors(validationErrs)
		}
	}

	if debug {
		resp.Detail = err.Error()
	}

	c.JSON(status, resp)
}

// Unauthorized is the shape returned when no valid session cookie is present.
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message)
	c.Abort()
}
