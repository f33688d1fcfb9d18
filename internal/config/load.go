package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/taskboard-go/internal/storage"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.taskboard/taskboard.toml or OS config dir)
// 3. Project config file (taskboard.toml or .taskboard.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cfg := &Config{}
	cws := &ConfigWithSources{
		Config:  cfg,
		Sources: make(map[string]ConfigSource),
	}

	// 1. Set defaults
	setDefaults(cfg)
	for _, f := range configFields() {
		cws.Sources[f.name] = SourceDefault
	}

	// 2. User config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cws, path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	// 3. Project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cws, path, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	// 4. Environment
	loadFromEnv(cfg, cws.Sources)

	// 5. CLI flags
	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// loadConfigFile decodes a TOML file over the current values. Only keys
// present in the file change the config.
func loadConfigFile(cws *ConfigWithSources, path string, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cws.Config)
	if err != nil {
		return err
	}
	cws.Files = append(cws.Files, path)

	for _, f := range configFields() {
		if md.IsDefined(f.path...) {
			cws.Sources[f.name] = source
		}
	}
	for _, key := range md.Undecoded() {
		cws.Warnings = append(cws.Warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	return nil
}

// finalizeConfig normalizes values, validates them, and resolves paths.
func finalizeConfig(cfg *Config) error {
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultBackend
	}
	valid := false
	for _, b := range storage.Backends() {
		if cfg.Storage.Backend == b {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown storage backend %q (expected one of: %s)",
			cfg.Storage.Backend, strings.Join(storage.Backends(), ", "))
	}

	cfg.Storage.Key = strings.TrimSpace(cfg.Storage.Key)
	if cfg.Storage.Key == "" {
		return fmt.Errorf("storage key is empty")
	}
	if cfg.Storage.Redis.DB < 0 {
		return fmt.Errorf("redis db must be >= 0, got %d", cfg.Storage.Redis.DB)
	}

	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	cfg.Storage.Dir = expandPath(cfg.Storage.Dir)
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = DefaultDir
	}
	if !filepath.IsAbs(cfg.Storage.Dir) {
		cfg.Storage.Dir = filepath.Join(cfg.ProjectRoot, cfg.Storage.Dir)
	}

	return nil
}
