// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/nibzard/taskboard-go/internal/config"
	"github.com/nibzard/taskboard-go/internal/task"
	"github.com/nibzard/taskboard-go/internal/ui"
)

// setup isolates the CLI from the caller's environment and captures its
// output. It returns stdout, stderr, and the working directory.
func setup(t *testing.T) (*bytes.Buffer, *bytes.Buffer, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, name := range []string{
		"TASKBOARD_STORAGE", "TASKBOARD_KEY", "TASKBOARD_DIR", "TASKBOARD_TRACK_NEXT_ID",
		"TASKBOARD_REDIS_ADDR", "TASKBOARD_REDIS_PASSWORD", "TASKBOARD_REDIS_DB", "TASKBOARD_REDIS_PREFIX",
		"TASKBOARD_LOG_LEVEL", "TASKBOARD_LOG_FORMAT", "TASKBOARD_LOG_TIMESTAMPS", "TASKBOARD_LOG_CALLER",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	dir := t.TempDir()
	t.Chdir(dir)

	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() {
		stdout, stderr = oldOut, oldErr
	})
	return &out, &errOut, dir
}

func run(t *testing.T, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	if err := Run(context.Background(), args); err != nil {
		t.Fatalf("Run(%q): %v", args, err)
	}
	return out.String()
}

func TestRun(t *testing.T) {
	t.Run("shows help with -h flag", func(t *testing.T) {
		out, _, _ := setup(t)
		got := run(t, out, "-h")
		if !strings.Contains(got, "Usage:") || !strings.Contains(got, "-storage") {
			t.Errorf("help output missing sections:\n%s", got)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		out, _, _ := setup(t)
		if got := run(t, out, "help"); !strings.Contains(got, "Commands:") {
			t.Errorf("help output:\n%s", got)
		}
	})

	t.Run("shows version", func(t *testing.T) {
		for _, arg := range []string{"-v", "-version", "version"} {
			out, _, _ := setup(t)
			if got := run(t, out, arg); got != "taskboard version dev\n" {
				t.Errorf("%s: got %q", arg, got)
			}
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		setup(t)
		err := Run(context.Background(), []string{"unknown-command"})
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected unknown command error, got %v", err)
		}
	})

	t.Run("bad global flag returns error", func(t *testing.T) {
		setup(t)
		if err := Run(context.Background(), []string{"-storage", "tape"}); err == nil {
			t.Error("expected error for unknown backend")
		}
	})

	t.Run("config prints example", func(t *testing.T) {
		out, _, _ := setup(t)
		if got := run(t, out, "config"); got != config.ExampleConfig() {
			t.Errorf("config output differs from example:\n%s", got)
		}
	})
}

func TestScenario(t *testing.T) {
	out, _, dir := setup(t)

	if got := run(t, out, "add", "Write report", "Work"); got != "Added [0] Write report - Work\n" {
		t.Errorf("add: got %q", got)
	}
	run(t, out, "add", "Buy milk", "Personal")
	if got := run(t, out, "status", "0", "In", "Progress"); got != "Moved [0] Write report - Work to In Progress\n" {
		t.Errorf("status: got %q", got)
	}
	run(t, out, "mv", "1", "done")
	if got := run(t, out, "rm", "0"); got != "Deleted [0] Write report - Work\n" {
		t.Errorf("rm: got %q", got)
	}

	want := `To Do (0)
  (empty)

In Progress (0)
  (empty)

Completed (1)
  [1] Buy milk - Personal
`
	if got := run(t, out, "ls"); got != want {
		t.Errorf("ls:\ngot:\n%s\nwant:\n%s", got, want)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".taskboard", "tasks"))
	if err != nil {
		t.Fatalf("reading saved board: %v", err)
	}
	if got := string(data); got != `[{"id":1,"name":"Buy milk","type":"Personal","status":"Completed"}]` {
		t.Errorf("saved board: got %s", got)
	}
}

func TestDefaultCommandListsWhenNotATerminal(t *testing.T) {
	out, _, _ := setup(t)
	run(t, out, "add", "Write", "doc")

	// Test binaries never have a terminal on stdout.
	if got := run(t, out); !strings.Contains(got, "[0] Write - doc") {
		t.Errorf("default command output:\n%s", got)
	}
}

func TestEditCommand(t *testing.T) {
	out, _, _ := setup(t)
	run(t, out, "add", "Draft", "doc")

	if got := run(t, out, "edit", "0", " Final ", "report"); got != "Saved [0] Final - report\n" {
		t.Errorf("edit: got %q", got)
	}

	err := Run(context.Background(), []string{"edit", "7", "x", "y"})
	var nf *task.NotFoundError
	if !errors.As(err, &nf) || nf.ID != 7 {
		t.Errorf("edit unknown id: got %v", err)
	}
}

func TestCommandValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"add missing type", []string{"add", "Only name"}, "usage"},
		{"add blank name", []string{"add", "  ", "type"}, "name"},
		{"edit missing args", []string{"edit", "0"}, "usage"},
		{"status bad id", []string{"status", "abc", "done"}, "invalid task id"},
		{"status negative id", []string{"status", "-1", "done"}, "invalid task id"},
		{"status unknown lane", []string{"status", "0", "Blocked"}, "unknown status"},
		{"rm no id", []string{"rm"}, "usage"},
		{"ls unknown lane", []string{"ls", "-status", "later"}, "unknown status"},
		{"config extra args", []string{"config", "x"}, "unexpected arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t)
			err := Run(context.Background(), tt.args)
			if err == nil {
				t.Fatalf("Run(%q): expected error", tt.args)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run(%q): got %v, want it to mention %q", tt.args, err, tt.want)
			}
		})
	}
}

func TestAddBlankNameIsValidationError(t *testing.T) {
	setup(t)
	err := Run(context.Background(), []string{"add", "", "Work"})
	var ve *task.ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Errorf("got %v, want name ValidationError", err)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	out, _, _ := setup(t)
	if got := run(t, out, "delete", "42"); !strings.Contains(got, "nothing deleted") {
		t.Errorf("delete unknown: got %q", got)
	}
}

func TestLsFilters(t *testing.T) {
	out, _, _ := setup(t)
	run(t, out, "add", "Write report", "Work")
	run(t, out, "add", "Buy milk", "Personal")
	run(t, out, "status", "1", "doing")

	if got := run(t, out, "ls", "-status", "doing"); got != "In Progress  [1] Buy milk - Personal\n" {
		t.Errorf("ls -status: got %q", got)
	}
	if got := run(t, out, "ls", "To", "Do"); got != "To Do        [0] Write report - Work\n" {
		t.Errorf("ls positional: got %q", got)
	}
	if got := run(t, out, "ls", "-json", "-status", "todo"); got != `[{"id":0,"name":"Write report","type":"Work","status":"To Do"}]`+"\n" {
		t.Errorf("ls -json: got %q", got)
	}
	if got := run(t, out, "ls", "done"); got != "No tasks.\n" {
		t.Errorf("ls empty lane: got %q", got)
	}
}

func TestTrackNextIDFlag(t *testing.T) {
	out, _, dir := setup(t)
	run(t, out, "-track-next-id", "add", "First", "a")
	run(t, out, "-track-next-id", "rm", "0")

	if got := run(t, out, "-track-next-id", "add", "Second", "b"); got != "Added [1] Second - b\n" {
		t.Errorf("tracked id: got %q", got)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".taskboard", "tasks.next_id"))
	if err != nil {
		t.Fatalf("reading counter: %v", err)
	}
	if string(data) != "2" {
		t.Errorf("counter: got %q, want 2", data)
	}
}

func TestProjectConfigSelectsKey(t *testing.T) {
	out, _, dir := setup(t)
	if err := os.WriteFile("taskboard.toml", []byte("[storage]\nkey = \"work\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	run(t, out, "add", "Ship", "release")

	if _, err := os.Stat(filepath.Join(dir, ".taskboard", "work")); err != nil {
		t.Errorf("expected board under key work: %v", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	out, _, dir := setup(t)
	run(t, out, "-storage", "memory", "add", "Gone", "soon")

	if got := run(t, out, "-storage", "memory", "ls", "-json"); got != "[]\n" {
		t.Errorf("memory backend kept state across runs: %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, ".taskboard")); !os.IsNotExist(err) {
		t.Errorf("memory backend touched the file system: %v", err)
	}
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	out, _, _ := setup(t)
	flags := []string{"-storage", "redis", "-redis-addr", mr.Addr()}

	run(t, out, append(flags, "add", "Write report", "Work")...)
	run(t, out, append(flags, "status", "0", "Completed")...)

	got, err := mr.Get("taskboard:tasks")
	if err != nil {
		t.Fatalf("miniredis Get: %v", err)
	}
	if want := `[{"id":0,"name":"Write report","type":"Work","status":"Completed"}]`; got != want {
		t.Errorf("redis value: got %s, want %s", got, want)
	}
}

func TestRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	setup(t)
	err = Run(context.Background(), []string{"-storage", "redis", "-redis-addr", addr, "ls"})
	if err == nil || !strings.Contains(err.Error(), "opening redis storage") {
		t.Errorf("expected open error, got %v", err)
	}
}

func TestBoardCommand(t *testing.T) {
	out, _, _ := setup(t)
	run(t, out, "add", "Write", "doc")

	var seen int
	old := runBoard
	runBoard = func(ctx context.Context, board ui.Board, opts ...ui.BoardOption) error {
		seen = board.Lanes().Len()
		return nil
	}
	t.Cleanup(func() { runBoard = old })

	run(t, out, "board", "-inline")
	if seen != 1 {
		t.Errorf("board saw %d tasks, want 1", seen)
	}

	if err := Run(context.Background(), []string{"tui", "extra"}); err == nil {
		t.Error("expected error for extra board arguments")
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Run("passes on a fresh project", func(t *testing.T) {
		out, _, _ := setup(t)
		got := run(t, out, "doctor")
		if !strings.Contains(got, "Nothing saved yet") || !strings.Contains(got, "All checks passed") {
			t.Errorf("doctor output:\n%s", got)
		}
	})

	t.Run("counts saved tasks", func(t *testing.T) {
		out, _, _ := setup(t)
		run(t, out, "add", "A", "x")
		run(t, out, "add", "B", "x")
		got := run(t, out, "doctor", "-v")
		if !strings.Contains(got, "2 task(s)") || !strings.Contains(got, "To Do: 2") {
			t.Errorf("doctor output:\n%s", got)
		}
		if !strings.Contains(got, `storage.key = "tasks" (default)`) {
			t.Errorf("verbose doctor should list defaults:\n%s", got)
		}
	})

	t.Run("reports malformed data", func(t *testing.T) {
		out, _, dir := setup(t)
		path := filepath.Join(dir, ".taskboard", "tasks")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(`[{"id":0,"name":"x","type":"y","status":"Later"}]`), 0644); err != nil {
			t.Fatal(err)
		}

		err := Run(context.Background(), []string{"doctor"})
		if err == nil {
			t.Fatal("expected doctor to fail")
		}
		if got := out.String(); !strings.Contains(got, "[0].status") {
			t.Errorf("doctor should name the bad field:\n%s", got)
		}
	})

	t.Run("reports invalid log level", func(t *testing.T) {
		out, _, _ := setup(t)
		t.Setenv("TASKBOARD_LOG_LEVEL", "loud")
		if err := Run(context.Background(), []string{"doctor"}); err == nil {
			t.Fatal("expected doctor to fail")
		}
		if got := out.String(); !strings.Contains(got, "Log level: loud") {
			t.Errorf("doctor output:\n%s", got)
		}
	})
}

func TestMalformedDataStartsEmpty(t *testing.T) {
	out, errOut, dir := setup(t)
	path := filepath.Join(dir, ".taskboard", "tasks")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := run(t, out, "add", "Fresh", "start"); got != "Added [0] Fresh - start\n" {
		t.Errorf("add after malformed data: got %q", got)
	}
	if !strings.Contains(errOut.String(), "Discarding unreadable saved tasks") {
		t.Errorf("expected a warning on stderr, got:\n%s", errOut.String())
	}
}
