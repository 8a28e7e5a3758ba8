package middleware

import (
	"net/http"

	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/pkg/utils"

	"github.com/gin-gonic/gin"
)

// KindMiddleware lets through sessions issued to one of the given account kinds.
func KindMiddleware(allowed ...account.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, exists := c.Get(KindKey)
		if !exists {
			utils.ErrorResponse(c, http.StatusForbidden, "Account kind not found in context")
			c.Abort()
			return
		}

		for _, k := range allowed {
			if kind == string(k) {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

func CustomerOnly() gin.HandlerFunc {
	return KindMiddleware(account.KindCustomer)
}

func StaffOnly() gin.HandlerFunc {
	return KindMiddleware(account.KindStaff)
}
