package database

import (
	"context"
	"fmt"

	"dog-grooming-booking/internal/config"
	"dog-grooming-booking/internal/domain/account"
	"dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/internal/infrastructure/database/memory"
	"dog-grooming-booking/internal/infrastructure/database/mongo"
	"dog-grooming-booking/internal/infrastructure/database/postgres"
	"dog-grooming-booking/internal/infrastructure/lock"
	"dog-grooming-booking/internal/logger"

	"go.uber.org/zap"
)

// Store bundles the repositories and owner locker for the configured driver.
type Store struct {
	Customers account.Repository
	Staff     account.Repository
	Bookings  booking.Repository
	Locker    booking.OwnerLocker

	health  func(ctx context.Context) error
	closers []func() error
}

// Open connects to DB_DRIVER's backend and the LOCK_PROVIDER's locker.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	store := &Store{}

	var mongoDB *mongo.DB
	switch cfg.Database.Driver {
	case config.DriverMongo:
		db, err := mongo.NewDB(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureIndexes(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		mongoDB = db
		store.Customers = mongo.NewAccountRepository(db, account.KindCustomer)
		store.Staff = mongo.NewAccountRepository(db, account.KindStaff)
		store.Bookings = mongo.NewBookingRepository(db)
		store.health = db.Ping
		store.closers = append(store.closers, db.Close)

	case config.DriverPostgres:
		db, err := postgres.NewDB(cfg)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		store.Customers = postgres.NewAccountRepository(db, account.KindCustomer)
		store.Staff = postgres.NewAccountRepository(db, account.KindStaff)
		store.Bookings = postgres.NewBookingRepository(db)
		store.health = func(ctx context.Context) error { return db.Health() }
		store.closers = append(store.closers, db.Close)

	case config.DriverMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		store.Customers = memory.NewAccountRepository(account.KindCustomer)
		store.Staff = memory.NewAccountRepository(account.KindStaff)
		store.Bookings = memory.NewBookingRepository()

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	switch cfg.Lock.Provider {
	case "mongo":
		if mongoDB == nil {
			_ = store.Close()
			return nil, fmt.Errorf("mongo lock provider requires the mongo driver")
		}
		store.Locker = lock.NewMongoLocker(mongoDB.Collection(mongo.BookingLocksCollection), cfg.Lock.TTL())
	case "redis":
		client, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		store.Locker = lock.NewRedisLocker(client, cfg.Lock.TTL())
		store.closers = append(store.closers, client.Close)
	case "local", "":
		store.Locker = lock.NewLocalLocker()
	default:
		_ = store.Close()
		return nil, fmt.Errorf("unsupported lock provider %q", cfg.Lock.Provider)
	}

	logger.Info("Store initialized",
		zap.String("driver", cfg.Database.Driver),
		zap.String("lock_provider", cfg.Lock.Provider),
	)
	return store, nil
}

// Health pings the backing database. The memory store is always healthy.
func (s *Store) Health(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	return s.health(ctx)
}

// Close releases connections in reverse order of opening.
func (s *Store) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
