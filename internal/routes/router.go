package routes

import (
	"context"
	"net/http"
	"time"

	"dog-grooming-booking/internal/config"
	"dog-grooming-booking/internal/delivery/http/handler"
	"dog-grooming-booking/internal/logger"
	"dog-grooming-booking/internal/metrics"
	"dog-grooming-booking/internal/middleware"
	"dog-grooming-booking/internal/usecase/auth"
	"dog-grooming-booking/internal/usecase/booking"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services main wires for the HTTP layer.
type Dependencies struct {
	CustomerAuth *auth.Service
	StaffAuth    *auth.Service
	Bookings     *booking.Service

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// Health reports whether the store is reachable.
	Health func(ctx context.Context) error
}

func SetupRoutes(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware in order: recovery, request ID, logging, metrics, security headers, CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware("/health", cfg.Metrics.Path))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	if cfg.RateLimit.GeneralRPS > 0 {
		router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))
	}

	router.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"message": "Database connection failed",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	customerHandler := handler.NewAccountHandler(deps.CustomerAuth, deps.Bookings, cfg)
	staffHandler := handler.NewAccountHandler(deps.StaffAuth, nil, cfg)
	bookingHandler := handler.NewBookingHandler(deps.Bookings, cfg)

	v1 := router.Group("/api/v1")
	{
		customerHandler.RegisterRoutes(v1.Group("/accounts"))
		staffHandler.RegisterRoutes(v1.Group("/staff"))
		bookingHandler.RegisterRoutes(v1)
	}

	logger.Info("All routes initialized")
	return router
}
