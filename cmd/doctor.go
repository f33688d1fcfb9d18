package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/taskboard-go/internal/config"
	"github.com/nibzard/taskboard-go/internal/logging"
	"github.com/nibzard/taskboard-go/internal/storage"
	"github.com/nibzard/taskboard-go/internal/store"
	"github.com/nibzard/taskboard-go/internal/task"
)

// doctorCommand reports the effective config, whether the backend is
// reachable, and whether the saved board decodes.
func doctorCommand(ctx context.Context, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("taskboard doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := cws.Config
	w := stdout

	fmt.Fprintln(w, "Taskboard Doctor")
	fmt.Fprintln(w, "================")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "  Files: (none, using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(w, "  File: %s\n", f)
	}
	for _, warning := range cws.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	for _, s := range cws.Settings() {
		if !*verbose && s.Source == config.SourceDefault {
			continue
		}
		fmt.Fprintf(w, "  %s = %q (%s)\n", s.Name, s.Value, s.Source)
	}
	if logging.ValidLevel(cfg.LogLevel) {
		fmt.Fprintf(w, "  ✅ Log level: %s\n", cfg.LogLevel)
	} else {
		fmt.Fprintf(w, "  ❌ Log level: %s (expected debug|info|warn|error)\n", cfg.LogLevel)
		allOK = false
	}
	if logging.ValidFormat(cfg.LogFormat) {
		fmt.Fprintf(w, "  ✅ Log format: %s\n", cfg.LogFormat)
	} else {
		fmt.Fprintf(w, "  ❌ Log format: %s (expected text|json|logfmt)\n", cfg.LogFormat)
		allOK = false
	}
	fmt.Fprintln(w)

	// Storage
	fmt.Fprintf(w, "Storage: %s\n", describeBackend(cfg))
	backend, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "⚠️  Some checks failed. Taskboard may not function correctly.")
		return fmt.Errorf("doctor checks failed")
	}
	defer backend.Close()
	fmt.Fprintln(w, "  ✅ Reachable")
	if cfg.Storage.Backend == storage.BackendMemory {
		fmt.Fprintln(w, "  ⚠️  Memory storage does not keep tasks between runs")
	}
	fmt.Fprintln(w)

	// Saved data
	fmt.Fprintf(w, "Saved tasks (key %q):\n", cfg.Storage.Key)
	raw, ok, err := backend.Get(ctx, cfg.Storage.Key)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case !ok:
		fmt.Fprintln(w, "  ✅ Nothing saved yet")
	default:
		if errs := task.Validate(raw); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(w, "  ❌ %v\n", e)
			}
			fmt.Fprintln(w, "  ⚠️  The board will start empty and overwrite this value on the next change")
			allOK = false
		} else {
			tasks, _ := task.Decode(raw)
			fmt.Fprintf(w, "  ✅ %d task(s)\n", len(tasks))
			if *verbose {
				fmt.Fprintf(w, "  %s\n", laneCounts(tasks))
			}
		}
	}

	if cfg.Storage.TrackNextID {
		counterKey := store.New(backend, store.WithKey(cfg.Storage.Key)).CounterKey()
		counter, ok, err := backend.Get(ctx, counterKey)
		switch {
		case err != nil:
			fmt.Fprintf(w, "  ❌ Counter %q: %v\n", counterKey, err)
			allOK = false
		case !ok:
			fmt.Fprintf(w, "  ✅ Counter %q: not saved yet\n", counterKey)
		default:
			if n, convErr := strconv.Atoi(strings.TrimSpace(counter)); convErr != nil || n < 0 {
				fmt.Fprintf(w, "  ❌ Counter %q: not a non-negative integer (%q)\n", counterKey, counter)
				allOK = false
			} else {
				fmt.Fprintf(w, "  ✅ Counter %q: next id %d\n", counterKey, n)
			}
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. Taskboard may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func describeBackend(cfg *config.Config) string {
	switch cfg.Storage.Backend {
	case storage.BackendFile:
		return fmt.Sprintf("file (%s)", cfg.Storage.Dir)
	case storage.BackendRedis:
		return fmt.Sprintf("redis (%s db %d, prefix %q)", cfg.Storage.Redis.Addr, cfg.Storage.Redis.DB, cfg.Storage.Redis.Prefix)
	default:
		return cfg.Storage.Backend
	}
}

func laneCounts(tasks []task.Task) string {
	counts := make(map[task.Status]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	parts := make([]string, 0, len(task.Statuses()))
	for _, s := range task.Statuses() {
		parts = append(parts, fmt.Sprintf("%s: %d", s, counts[s]))
	}
	return strings.Join(parts, "  ")
}
