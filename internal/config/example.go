package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskboard configuration file
# Values can be overridden by TASKBOARD_* environment variables or CLI flags

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false

[storage]
# Where the board is kept: memory, file, or redis
backend = "file"

# Key holding the encoded task list
key = "tasks"

# Directory for the file backend (relative to the working directory;
# supports ~ and $VAR expansion)
dir = ".taskboard"

# Also persist the id counter under "<key>.next_id" so ids of deleted
# tasks are never handed out again after a restart
track_next_id = false

[storage.redis]
addr = "127.0.0.1:6379"
password = ""
db = 0
prefix = "taskboard:"
`
}
