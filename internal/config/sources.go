package config

import (
	"os"
	"path/filepath"

	"github.com/nibzard/taskboard-go/internal/boarddir"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range boarddir.ProjectConfigNames() {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.taskboard/taskboard.toml first, then the OS config directory.
func findUserConfigFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		path := boarddir.ConfigPath(home)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if cfgDir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(cfgDir, "taskboard", boarddir.ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Storage = StorageConfig{
		Backend: DefaultBackend,
		Key:     DefaultKey,
		Dir:     DefaultDir,
		Redis: RedisConfig{
			Addr:   DefaultRedisAddr,
			Prefix: DefaultRedisPrefix,
		},
	}
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// ConfigFile returns the highest-priority config file that was read, or
// an empty string.
func (cws *ConfigWithSources) ConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}
