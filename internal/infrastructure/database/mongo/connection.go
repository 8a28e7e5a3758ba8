package mongo

import (
	"context"
	"fmt"
	"time"

	"dog-grooming-booking/internal/config"
	"dog-grooming-booking/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names
const (
	CustomersCollection    = "customers"
	StaffCollection        = "staff"
	BookingsCollection     = "bookings"
	BookingLocksCollection = "booking_locks"
)

type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewDB(ctx context.Context, cfg *config.MongoConfig) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(25).
		SetMinPoolSize(2).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging mongo: %w", err)
	}

	logger.Info("Mongo connection established",
		zap.String("database", cfg.Database),
		zap.Uint64("max_pool_size", 25),
	)

	return &DB{client: client, database: client.Database(cfg.Database)}, nil
}

func (d *DB) Database() *mongo.Database {
	return d.database
}

func (d *DB) Collection(name string) *mongo.Collection {
	return d.database.Collection(name)
}

func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// emailCollation makes email lookups and the unique index case-insensitive.
var emailCollation = &options.Collation{Locale: "en", Strength: 2}

// EnsureIndexes creates the indexes the repositories and locker rely on.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	for _, name := range []string{CustomersCollection, StaffCollection} {
		_, err := d.Collection(name).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetCollation(emailCollation),
			},
			{Keys: bson.D{{Key: "verification_token", Value: 1}}},
			{Keys: bson.D{{Key: "reset_password_token", Value: 1}}},
		})
		if err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}

	_, err := d.Collection(BookingsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "schedule", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "schedule", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create bookings indexes: %w", err)
	}

	// Expired lock documents are swept by the TTL monitor.
	_, err = d.Collection(BookingLocksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create booking_locks index: %w", err)
	}

	return nil
}
