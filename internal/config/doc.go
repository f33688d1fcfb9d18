// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskboard/taskboard.toml or the OS config directory)
// 3. Project config file (taskboard.toml or .taskboard.toml in the working directory)
// 4. Environment variables (TASKBOARD_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.taskboard/taskboard.toml (preferred)
// - $XDG_CONFIG_HOME/taskboard/taskboard.toml, ~/Library/Application Support/taskboard/taskboard.toml,
//   or %AppData%\taskboard\taskboard.toml, as reported by os.UserConfigDir
//
// Project-level config locations (overrides user config):
// - ./taskboard.toml (preferred)
// - ./.taskboard.toml
package config
