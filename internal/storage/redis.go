package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces keys written by the redis backend.
const DefaultRedisPrefix = "taskboard:"

// Redis stores values as plain redis strings without expiry.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing client. Keys are stored as prefix+key.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if client == nil {
		panic("storage.NewRedis: client is nil")
	}
	return &Redis{client: client, prefix: prefix}
}

// DialRedis connects to the server in opts and checks it answers PING.
func DialRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis storage: address is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return NewRedis(client, opts.Prefix), nil
}

// Key returns the redis key used for key.
func (r *Redis) Key(key string) string {
	return r.prefix + key
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrInvalidKey
	}
	v, err := r.client.Get(ctx, r.Key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", r.Key(key), err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := r.client.Set(ctx, r.Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.Key(key), err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
