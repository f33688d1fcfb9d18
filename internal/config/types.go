package config

import (
	"github.com/nibzard/taskboard-go/internal/boarddir"
	"github.com/nibzard/taskboard-go/internal/storage"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Warnings lists keys found in config files that are not recognized.
	Warnings []string
}

// Default values.
const (
	DefaultBackend     = storage.BackendFile
	DefaultKey         = "tasks"
	DefaultDir         = boarddir.Dir
	DefaultRedisAddr   = "127.0.0.1:6379"
	DefaultRedisPrefix = storage.DefaultRedisPrefix
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Config holds the full configuration for taskboard.
type Config struct {
	Storage StorageConfig `toml:"storage"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// StorageConfig selects where the board is persisted.
type StorageConfig struct {
	Backend     string      `toml:"backend"`
	Key         string      `toml:"key"`
	Dir         string      `toml:"dir"`
	TrackNextID bool        `toml:"track_next_id"`
	Redis       RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// StorageOptions converts the storage section into backend options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend: c.Storage.Backend,
		Dir:     c.Storage.Dir,
		Redis: storage.RedisOptions{
			Addr:     c.Storage.Redis.Addr,
			Password: c.Storage.Redis.Password,
			DB:       c.Storage.Redis.DB,
			Prefix:   c.Storage.Redis.Prefix,
		},
	}
}

// field describes one configurable value for source tracking.
type field struct {
	name string   // name used in Sources
	path []string // TOML key path
}

// configFields returns the configurable fields for source tracking.
func configFields() []field {
	return []field{
		{"storage.backend", []string{"storage", "backend"}},
		{"storage.key", []string{"storage", "key"}},
		{"storage.dir", []string{"storage", "dir"}},
		{"storage.track_next_id", []string{"storage", "track_next_id"}},
		{"storage.redis.addr", []string{"storage", "redis", "addr"}},
		{"storage.redis.password", []string{"storage", "redis", "password"}},
		{"storage.redis.db", []string{"storage", "redis", "db"}},
		{"storage.redis.prefix", []string{"storage", "redis", "prefix"}},
		{"log_level", []string{"log_level"}},
		{"log_format", []string{"log_format"}},
		{"log_timestamps", []string{"log_timestamps"}},
		{"log_caller", []string{"log_caller"}},
	}
}
