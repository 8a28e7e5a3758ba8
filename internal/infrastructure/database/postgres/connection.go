package postgres

import (
	"fmt"
	"time"

	"dog-grooming-booking/internal/config"
	"dog-grooming-booking/internal/infrastructure/database/postgres/models"
	"dog-grooming-booking/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

func NewDB(cfg *config.Config) (*DB, error) {
	dsn := cfg.Database.DSN()

	var gormLogLevel gormLogger.LogLevel
	if cfg.IsProduction() {
		gormLogLevel = gormLogger.Warn
	} else {
		gormLogLevel = gormLogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
		zap.Int("max_open_connections", 25),
		zap.Int("max_idle_connections", 5),
	)

	return &DB{DB: db}, nil
}

// Migrate creates the customers, staff and bookings tables.
func (d *DB) Migrate() error {
	for _, table := range []string{models.CustomersTable, models.StaffTable} {
		if err := d.DB.Table(table).AutoMigrate(&models.AccountModel{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", table, err)
		}

		statements := []string{
			fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_email_lower_idx ON %[1]s (LOWER(email))`, table),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_verification_token_idx ON %[1]s (verification_token)`, table),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_reset_password_token_idx ON %[1]s (reset_password_token)`, table),
		}
		for _, stmt := range statements {
			if err := d.DB.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to index %s: %w", table, err)
			}
		}
	}

	if err := d.DB.AutoMigrate(&models.BookingModel{}); err != nil {
		return fmt.Errorf("failed to migrate bookings: %w", err)
	}

	logger.Info("Database schema migrated")
	return nil
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Health() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
