package config

import (
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from TASKBOARD_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TASKBOARD_STORAGE"); v != "" {
		cfg.Storage.Backend = v
		set("storage.backend")
	}
	if v := os.Getenv("TASKBOARD_KEY"); v != "" {
		cfg.Storage.Key = v
		set("storage.key")
	}
	if v := os.Getenv("TASKBOARD_DIR"); v != "" {
		cfg.Storage.Dir = v
		set("storage.dir")
	}
	if v := os.Getenv("TASKBOARD_TRACK_NEXT_ID"); v != "" {
		cfg.Storage.TrackNextID = boolFromString(v)
		set("storage.track_next_id")
	}
	if v := os.Getenv("TASKBOARD_REDIS_ADDR"); v != "" {
		cfg.Storage.Redis.Addr = v
		set("storage.redis.addr")
	}
	if v := os.Getenv("TASKBOARD_REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
		set("storage.redis.password")
	}
	if v := os.Getenv("TASKBOARD_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Redis.DB = n
			set("storage.redis.db")
		}
	}
	// An empty prefix is meaningful, so presence is what counts.
	if v, ok := os.LookupEnv("TASKBOARD_REDIS_PREFIX"); ok {
		cfg.Storage.Redis.Prefix = v
		set("storage.redis.prefix")
	}
	if v := os.Getenv("TASKBOARD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("TASKBOARD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("TASKBOARD_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv("TASKBOARD_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
