package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// SessionKey is the hash holding the session opened for a registered email.
func SessionKey(email string) string {
	return "user:session:" + email
}

// StoreSession writes the session hash and its TTL in one round trip.
func StoreSession(ctx context.Context, rdb *redis.Client, email string, fields map[string]any, ttl time.Duration) error {
	key := SessionKey(email)
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// LoadSession returns the session hash; an empty map means no session.
func LoadSession(ctx context.Context, rdb *redis.Client, email string) (map[string]string, error) {
	return rdb.HGetAll(ctx, SessionKey(email)).Result()
}
