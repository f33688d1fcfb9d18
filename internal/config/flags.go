package config

import "flag"

// flagFields maps flag names to the config fields they set.
var flagFields = map[string]string{
	"storage":       "storage.backend",
	"key":           "storage.key",
	"dir":           "storage.dir",
	"track-next-id": "storage.track_next_id",
	"redis-addr":    "storage.redis.addr",
	"redis-db":      "storage.redis.db",
	"redis-prefix":  "storage.redis.prefix",
	"log-level":     "log_level",
	"log-format":    "log_format",
}

// parseFlags defines global flags on fs and parses args. Parsing stops at
// the first non-flag argument, which is left in fs.Args().
// If sources is non-nil, it tracks which fields were set by a flag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskboard", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Storage.Backend, "storage", cfg.Storage.Backend, "Storage backend (memory|file|redis)")
	fs.StringVar(&cfg.Storage.Key, "key", cfg.Storage.Key, "Storage key holding the board")
	fs.StringVar(&cfg.Storage.Dir, "dir", cfg.Storage.Dir, "Directory used by the file backend")
	fs.BoolVar(&cfg.Storage.TrackNextID, "track-next-id", cfg.Storage.TrackNextID, "Persist the id counter so ids are never reused")
	fs.StringVar(&cfg.Storage.Redis.Addr, "redis-addr", cfg.Storage.Redis.Addr, "Redis address (host:port)")
	fs.IntVar(&cfg.Storage.Redis.DB, "redis-db", cfg.Storage.Redis.DB, "Redis database number")
	fs.StringVar(&cfg.Storage.Redis.Prefix, "redis-prefix", cfg.Storage.Redis.Prefix, "Prefix for redis keys")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if name, ok := flagFields[f.Name]; ok {
				sources[name] = SourceFlag
			}
		})
	}
	return nil
}
