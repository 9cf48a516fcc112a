package db

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RedisOptions holds the connection settings of the Redis backend
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisKV stores each collection as a plain string key in Redis
type RedisKV struct {
	Client *redis.Client
}

var _ KV = (*RedisKV)(nil)

// NewRedisKV wraps an existing client
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{Client: client}
}

// OpenRedis creates a Redis client and tests the connection
func OpenRedis(ctx context.Context, opts RedisOptions, log *zap.Logger) (*RedisKV, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "could not connect to redis at %s", opts.Addr)
	}

	log.Info("connected to redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return NewRedisKV(rdb), nil
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, errors.Wrapf(err, "redis get %s", key)
	}
	return data, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.Client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}
	return nil
}

func (r *RedisKV) SetTransient(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.Client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s (ttl %s)", key, ttl)
	}
	return nil
}

func (r *RedisKV) Ping(ctx context.Context) error {
	return errors.Wrap(r.Client.Ping(ctx).Err(), "redis ping")
}

func (r *RedisKV) Close() error {
	return r.Client.Close()
}
