package sessions

import (
	"context"
	"errors"
	"fmt"
	"pathmatrix-service/internal/domain"
	"pathmatrix-service/internal/platform/obs"
	"pathmatrix-service/internal/ports"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON values in Redis with a sliding TTL, so
// several server instances can share them.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects using a redis:// URL.
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisStoreFromClient(redis.NewClient(opt), ttl), nil
}

func NewRedisStoreFromClient(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Ping checks connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

func (r *RedisStore) Get(ctx context.Context, id string) (_ *domain.Session, err error) {
	defer obs.Time(ctx, "sessions.redis.Get")(&err)

	b, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session %s: %w", id, err)
	}

	if r.ttl > 0 {
		if err := r.rdb.Expire(ctx, r.key(id), r.ttl).Err(); err != nil {
			return nil, fmt.Errorf("redis refresh session %s: %w", id, err)
		}
	}

	return decode(id, b)
}

func (r *RedisStore) Save(ctx context.Context, s *domain.Session) (err error) {
	defer obs.Time(ctx, "sessions.redis.Save")(&err)

	if s == nil || s.ID == "" {
		return errors.New("save session: missing id")
	}

	b, err := encode(s)
	if err != nil {
		return err
	}

	if err := r.rdb.Set(ctx, r.key(s.ID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisStore) key(id string) string { return "pathmatrix:session:" + id }
