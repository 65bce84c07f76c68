package session

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisPrefix = "rentalweb:session:"

// RedisStore keeps each session under its own key with a TTL matching ExpiresAt.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(addr, password string, db int) RedisStore {
	return RedisStore{Client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})}
}

func (s RedisStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func (s RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.Client.Get(ctx, redisPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(id, raw)
}

func (s RedisStore) Save(ctx context.Context, sess *Session) error {
	raw, err := encode(sess)
	if err != nil {
		return err
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}
	return s.Client.Set(ctx, redisPrefix+sess.ID, raw, ttl).Err()
}

func (s RedisStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, redisPrefix+id).Err()
}

// DeleteExpired is a no-op: Redis evicts keys on TTL.
func (s RedisStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s RedisStore) Close() error {
	return s.Client.Close()
}
