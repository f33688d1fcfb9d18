package config

import "strconv"

// Setting is one effective configuration value and where it came from.
type Setting struct {
	Name   string
	Value  string
	Source ConfigSource
}

// Settings returns every configurable value in a stable order.
// The redis password is masked.
func (cws *ConfigWithSources) Settings() []Setting {
	fields := configFields()
	out := make([]Setting, 0, len(fields))
	for _, f := range fields {
		out = append(out, Setting{
			Name:   f.name,
			Value:  cws.Config.value(f.name),
			Source: cws.Sources[f.name],
		})
	}
	return out
}

func (c *Config) value(name string) string {
	switch name {
	case "storage.backend":
		return c.Storage.Backend
	case "storage.key":
		return c.Storage.Key
	case "storage.dir":
		return c.Storage.Dir
	case "storage.track_next_id":
		return strconv.FormatBool(c.Storage.TrackNextID)
	case "storage.redis.addr":
		return c.Storage.Redis.Addr
	case "storage.redis.password":
		if c.Storage.Redis.Password == "" {
			return ""
		}
		return "********"
	case "storage.redis.db":
		return strconv.Itoa(c.Storage.Redis.DB)
	case "storage.redis.prefix":
		return c.Storage.Redis.Prefix
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	default:
		return ""
	}
}
