package handler

import (
	"net/http"

	"dog-grooming-booking/internal/logger"
	"dog-grooming-booking/internal/middleware"
	appErrors "dog-grooming-booking/pkg/errors"
	"dog-grooming-booking/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondWithError maps err to the response envelope. Unexpected errors are
// logged with the request id before the generic 500 goes out.
func respondWithError(c *gin.Context, err error, debug bool) {
	if err == nil {
		return
	}

	if appErrors.HTTPStatus(err) == http.StatusInternalServerError {
		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
	}

	utils.HandleError(c, err, debug)
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
