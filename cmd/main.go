package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dog-grooming-booking/internal/config"
	"dog-grooming-booking/internal/database"
	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/internal/infrastructure/events"
	"dog-grooming-booking/internal/infrastructure/mail"
	"dog-grooming-booking/internal/logger"
	"dog-grooming-booking/internal/metrics"
	"dog-grooming-booking/internal/routes"
	"dog-grooming-booking/internal/usecase/auth"
	"dog-grooming-booking/internal/usecase/booking"
	"dog-grooming-booking/internal/usecase/notification"
	"dog-grooming-booking/internal/usecase/reminder"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("db_driver", cfg.Database.Driver),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	store, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	publisher, err := events.New(&cfg.Events)
	if err != nil {
		logger.Fatal("Failed to initialize event publisher", zap.Error(err))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", zap.Error(err))
		}
	}()

	mailer, err := mail.New(&cfg.Mail)
	if err != nil {
		logger.Fatal("Failed to initialize mailer", zap.Error(err))
	}
	notifier := notification.NewService(mailer, cfg.Mail.FromName, m)

	customerAuth := auth.NewService(store.Customers, account.KindCustomer, notifier, cfg)
	staffAuth := auth.NewService(store.Staff, account.KindStaff, notifier, cfg)
	bookingService := booking.NewService(store.Bookings, store.Customers, store.Locker, publisher, notifier, m)

	var scheduler *reminder.Scheduler
	if cfg.Reminder.Enabled {
		scheduler = reminder.NewScheduler(bookingService, notifier, m)
		if err := scheduler.Start(cfg.Reminder.Schedule); err != nil {
			logger.Fatal("Failed to start reminder scheduler", zap.Error(err))
		}
	}

	router := routes.SetupRoutes(cfg, &routes.Dependencies{
		CustomerAuth: customerAuth,
		StaffAuth:    staffAuth,
		Bookings:     bookingService,
		Metrics:      m,
		Gatherer:     registry,
		Health:       store.Health,
	})

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start goroutine
	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}

	if scheduler != nil {
		scheduler.Stop()
	}
	bookingService.Wait()
	notifier.Wait()

	logger.Info("Server exited properly")
}
