package middleware

import (
	"net/http"
	"sync"
	"time"

	"dog-grooming-booking/internal/logger"
	"dog-grooming-booking/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}

	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// cleanup drops buckets that have refilled, i.e. idle clients.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for key, limiter := range rl.limiters {
			if limiter.Tokens() >= float64(rl.burst) {
				delete(rl.limiters, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimitMiddleware limits each client IP across the whole API.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	return limitBy(NewRateLimiter(rps, burst), "general", func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// CredentialRateLimitMiddleware is the stricter limit for login, register and
// password reset endpoints. Buckets are per IP and route.
func CredentialRateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	return limitBy(NewRateLimiter(rps, burst), "credentials", func(c *gin.Context) string {
		return c.ClientIP() + "|" + c.FullPath()
	})
}

func limitBy(limiter *RateLimiter, scope string, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.Allow(key(c)) {
			c.Next()
			return
		}

		logger.Warn("Rate limit exceeded",
			zap.String("request_id", GetRequestID(c)),
			zap.String("scope", scope),
			zap.String("ip", c.ClientIP()),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)

		utils.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests, please try again later")
		c.Abort()
	}
}
