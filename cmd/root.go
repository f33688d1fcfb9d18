// Package cmd implements the CLI command structure for taskboard.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard-go/internal/config"
	"github.com/nibzard/taskboard-go/internal/logging"
	"github.com/nibzard/taskboard-go/internal/storage"
	"github.com/nibzard/taskboard-go/internal/store"
	"github.com/nibzard/taskboard-go/internal/task"
	"github.com/nibzard/taskboard-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// runBoard starts the interactive board. Tests replace it.
var runBoard = ui.RunBoard

// Run executes the taskboard CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	cfg := cws.Config
	logger := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	for _, w := range cws.Warnings {
		logger.Warn("Ignoring config key", "detail", w)
	}

	// With no command, show the board on a terminal and the lanes otherwise.
	subcommand := "ls"
	if ui.IsTTY(os.Stdout) {
		subcommand = "board"
	}
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "add":
		return addCommand(ctx, cfg, logger, remainingArgs)
	case "edit":
		return editCommand(ctx, cfg, logger, remainingArgs)
	case "status", "mv":
		return statusCommand(ctx, cfg, logger, remainingArgs)
	case "rm", "delete":
		return deleteCommand(ctx, cfg, logger, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, logger, remainingArgs)
	case "board", "tui":
		return boardCommand(ctx, cfg, logger, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cws, remainingArgs)
	case "config":
		return configCommand(remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStore opens the configured backend and loads the board from it.
// The caller closes the returned backend.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*store.Store, storage.Backend, error) {
	backend, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	s := store.New(backend,
		store.WithKey(cfg.Storage.Key),
		store.WithLogger(logger),
		store.WithTrackedNextID(cfg.Storage.TrackNextID),
	)
	if err := s.Initialize(ctx); err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}
	if cfg.Storage.Backend == storage.BackendMemory {
		logger.Debug("Using memory storage; changes are discarded on exit")
	}
	return s, backend, nil
}

// withStore runs fn against a freshly loaded store, logging each change.
func withStore(ctx context.Context, cfg *config.Config, logger *log.Logger, fn func(*store.Store) error) error {
	s, backend, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	unsubscribe := s.Subscribe(logging.EventLogger(logger))
	defer unsubscribe()
	return fn(s)
}

// addCommand creates a task in the To Do lane.
func addCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: taskboard add <name> <type>")
	}
	return withStore(ctx, cfg, logger, func(s *store.Store) error {
		t, err := s.Create(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Added %s\n", t)
		return nil
	})
}

// editCommand replaces a task's name and type.
func editCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: taskboard edit <id> <name> <type>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withStore(ctx, cfg, logger, func(s *store.Store) error {
		t, err := s.Edit(ctx, id, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Saved %s\n", t)
		return nil
	})
}

// statusCommand moves a task to another lane.
func statusCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: taskboard status <id> <status>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	// Accept unquoted multi-word labels such as: status 3 In Progress
	status, err := task.ParseStatus(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	return withStore(ctx, cfg, logger, func(s *store.Store) error {
		t, err := s.SetStatus(ctx, id, status)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Moved %s to %s\n", t, t.Status)
		return nil
	})
}

// deleteCommand removes a task. Deleting an unknown id is not an error.
func deleteCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskboard rm <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return withStore(ctx, cfg, logger, func(s *store.Store) error {
		t, found := s.Get(id)
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
		if found {
			fmt.Fprintf(stdout, "Deleted %s\n", t)
		} else {
			fmt.Fprintf(stdout, "Task %d not found; nothing deleted\n", id)
		}
		return nil
	})
}

// lsCommand prints the board, or the tasks in one lane.
func lsCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("taskboard ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	statusFilter := fs.String("status", "", "Filter by status (todo|doing|done)")
	asJSON := fs.Bool("json", false, "Print the stored JSON encoding")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 0 && *statusFilter == "" {
		*statusFilter = strings.Join(remaining, " ")
		remaining = nil
	}
	if len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	var filter []task.Status
	if *statusFilter != "" {
		status, err := task.ParseStatus(*statusFilter)
		if err != nil {
			return err
		}
		filter = append(filter, status)
	}

	s, backend, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	if *asJSON {
		encoded, err := task.Encode(s.List(filter...))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, encoded)
		return nil
	}
	if len(filter) > 0 {
		return ui.WriteTasks(stdout, s.List(filter...))
	}
	return ui.WriteLanes(stdout, s.Lanes())
}

// boardCommand runs the interactive board.
func boardCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("taskboard board", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inline := fs.Bool("inline", false, "Render inline instead of using the alternate screen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	s, backend, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	// Log lines would tear the board while it owns the terminal.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(stderr)

	title := fmt.Sprintf("Task Board (%s: %s)", cfg.Storage.Backend, cfg.Storage.Key)
	return runBoard(ctx, s, ui.WithAltScreen(!*inline), ui.WithTitle(title))
}

// configCommand prints an example configuration file.
func configCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	fmt.Fprint(stdout, config.ExampleConfig())
	return nil
}

func versionCommand() error {
	fmt.Fprintf(stdout, "taskboard version %s\n", Version)
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskboard - a three-lane task board")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskboard [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <name> <type>          Add a task to To Do")
	fmt.Fprintln(w, "  edit <id> <name> <type>    Change a task's name and type")
	fmt.Fprintln(w, "  status <id> <status>       Move a task (alias: mv)")
	fmt.Fprintln(w, "  rm <id>                    Delete a task (alias: delete)")
	fmt.Fprintln(w, "  ls [status]                List tasks by lane")
	fmt.Fprintln(w, "  board                      Open the interactive board (alias: tui; default on a terminal)")
	fmt.Fprintln(w, "  doctor                     Check config, storage, and saved data")
	fmt.Fprintln(w, "  config                     Print an example config file")
	fmt.Fprintln(w, "  version                    Show version information")
	fmt.Fprintln(w, "  help                       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Statuses: \"To Do\", \"In Progress\", \"Completed\" (or todo, doing, done)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Filter by status (todo|doing|done)")
	fmt.Fprintln(w, "  -json")
	fmt.Fprintln(w, "        Print the stored JSON encoding")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Board Options (use with 'board' command):")
	fmt.Fprintln(w, "  -inline")
	fmt.Fprintln(w, "        Render inline instead of using the alternate screen")
}
