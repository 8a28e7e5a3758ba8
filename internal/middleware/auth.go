package middleware

import (
	"strings"

	"dog-grooming-booking/internal/config"
	"dog-grooming-booking/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie carries the signed session token for both account kinds.
	SessionCookie = "token"

	AccountIDKey = "accountID"
	KindKey      = "kind"
)

// AuthMiddleware accepts the session cookie, or a Bearer token for API clients.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			utils.Unauthorized(c, "Not authenticated")
			return
		}

		claims, err := utils.ValidateToken(token, cfg.JWT.Secret)
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(AccountIDKey, claims.AccountID)
		c.Set(KindKey, claims.Kind)

		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetAccountID returns the authenticated account id, or "" outside AuthMiddleware.
func GetAccountID(c *gin.Context) string {
	return c.GetString(AccountIDKey)
}

func GetKind(c *gin.Context) string {
	return c.GetString(KindKey)
}
