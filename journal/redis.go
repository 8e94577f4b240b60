package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a Redis backed journal.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces the fixed keys, e.g. "alice:".
	Prefix string
	// ConnectTimeout bounds the retrying initial ping.
	ConnectTimeout time.Duration
}

type redisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisStore dials Redis, retrying the first ping with exponential
// backoff until ConnectTimeout elapses.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*KeyedStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = opts.ConnectTimeout
	if b.MaxElapsedTime <= 0 {
		b.MaxElapsedTime = 10 * time.Second
	}

	ping := func() error {
		return client.Ping(ctx).Err()
	}
	if err := backoff.Retry(ping, backoff.WithContext(b, ctx)); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis %s: %w", opts.Addr, err)
	}
	return NewRedisStoreFromClient(client, opts.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. The store owns it and
// closes it on Close.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *KeyedStore {
	return NewKeyedStore(&redisBackend{client: client, prefix: prefix})
}

func (r *redisBackend) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *redisBackend) Write(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, r.prefix+key, data, 0).Err()
}

func (r *redisBackend) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *redisBackend) Close() error {
	return r.client.Close()
}
