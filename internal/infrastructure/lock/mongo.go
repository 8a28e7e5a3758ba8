package lock

import (
	"context"
	"fmt"
	"time"

	"dog-grooming-booking/internal/domain/booking"
	"dog-grooming-booking/internal/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	retryInterval  = 50 * time.Millisecond
	defaultMaxWait = 5 * time.Second
)

// MongoLocker keeps one document per owner in booking_locks. The _id
// unique index makes the insert the mutual exclusion point; expired
// locks left by crashed requests are taken over.
type MongoLocker struct {
	collection *mongo.Collection
	ttl        time.Duration
	maxWait    time.Duration
}

func NewMongoLocker(collection *mongo.Collection, ttl time.Duration) *MongoLocker {
	return &MongoLocker{collection: collection, ttl: ttl, maxWait: defaultMaxWait}
}

type lockDocument struct {
	OwnerID   string    `bson:"_id"`
	Token     string    `bson:"token"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func (l *MongoLocker) Acquire(ctx context.Context, ownerID string) (func(), error) {
	token := uuid.NewString()

	err := retryUntil(ctx, l.maxWait, func() (bool, error) {
		now := time.Now().UTC()
		_, err := l.collection.InsertOne(ctx, lockDocument{
			OwnerID:   ownerID,
			Token:     token,
			ExpiresAt: now.Add(l.ttl),
		})
		if err == nil {
			return true, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return false, fmt.Errorf("insert booking lock: %w", err)
		}

		// The TTL monitor runs once a minute, so stale locks are cleared here.
		if _, err := l.collection.DeleteOne(ctx, bson.M{"_id": ownerID, "expires_at": bson.M{"$lte": now}}); err != nil {
			return false, fmt.Errorf("clear expired booking lock: %w", err)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := l.collection.DeleteOne(ctx, bson.M{"_id": ownerID, "token": token}); err != nil {
			logger.Warn("Failed to release booking lock", zap.String("owner_id", ownerID), zap.Error(err))
		}
	}, nil
}

// retryUntil calls attempt until it succeeds, fails, or the wait budget ends.
func retryUntil(ctx context.Context, maxWait time.Duration, attempt func() (bool, error)) error {
	deadline := time.NewTimer(maxWait)
	defer deadline.Stop()
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := attempt()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return booking.ErrLockNotAcquired
		case <-deadline.C:
			return booking.ErrLockNotAcquired
		case <-ticker.C:
		}
	}
}
