package lock

import (
	"context"
	"fmt"
	"time"

	"dog-grooming-booking/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "booking-lock:"

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker uses SET NX with a TTL so a crashed holder cannot block an owner forever.
type RedisLocker struct {
	client  redis.UniversalClient
	ttl     time.Duration
	maxWait time.Duration
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, maxWait: defaultMaxWait}
}

func (l *RedisLocker) Acquire(ctx context.Context, ownerID string) (func(), error) {
	key := redisKeyPrefix + ownerID
	token := uuid.NewString()

	err := retryUntil(ctx, l.maxWait, func() (bool, error) {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return false, fmt.Errorf("redis setnx booking lock: %w", err)
		}
		return ok, nil
	})
	if err != nil {
		return nil, err
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			logger.Warn("Failed to release booking lock", zap.String("owner_id", ownerID), zap.Error(err))
		}
	}, nil
}

// NewRedisClient opens and pings a client for the lock provider.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("Redis connection established", zap.String("addr", addr), zap.Int("db", db))
	return client, nil
}
