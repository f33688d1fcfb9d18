// Package storage provides the key/value string stores that persist the
// task board between runs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Adapter is a key/value string store.
type Adapter interface {
	// Get returns the value stored under key. ok is false when nothing
	// has been stored; err is reserved for failures of the store itself.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Backend is an Adapter that holds resources until closed.
type Backend interface {
	Adapter
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// ErrInvalidKey is returned for keys a backend cannot store.
var ErrInvalidKey = errors.New("invalid storage key")

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string // file backend directory
	Redis   RedisOptions
}

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Backends returns the supported backend names.
func Backends() []string {
	return []string{BackendMemory, BackendFile, BackendRedis}
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return NewFile(opts.Dir)
	case BackendRedis:
		return DialRedis(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected one of: %s)",
			opts.Backend, strings.Join(Backends(), ", "))
	}
}
