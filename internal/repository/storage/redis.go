package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// A board keeps playing from memory when redis is slow, so storage calls give up early.
const (
	defaultDialTimeout = 2 * time.Second
	defaultIOTimeout   = time.Second
)

type RedisStorage struct {
	Connection *redis.Client
}

type RedisOption func(options *redis.Options)

func WithPassword(password string) RedisOption {
	return func(options *redis.Options) {
		options.Password = password
	}
}

// WithDB selects the logical database, so several boards can share one redis.
func WithDB(db int) RedisOption {
	return func(options *redis.Options) {
		options.DB = db
	}
}

// NewRedisStorage connects to redis and checks the connection with a ping.
func NewRedisStorage(ctx context.Context, addr string, opts ...RedisOption) (*RedisStorage, error) {
	options := &redis.Options{
		Addr:         addr,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultIOTimeout,
		WriteTimeout: defaultIOTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}

	conn := redis.NewClient(options)

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s (db %d): %w", addr, options.DB, err)
	}

	return &RedisStorage{Connection: conn}, nil
}

func (that *RedisStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	return nil
}
