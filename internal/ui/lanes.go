// Package ui renders the board for the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/taskboard-go/internal/store"
	"github.com/nibzard/taskboard-go/internal/task"
)

// WriteLanes prints each lane with its tasks as "[id] name - type".
func WriteLanes(w io.Writer, lanes store.Lanes) error {
	var b strings.Builder
	for i, status := range task.Statuses() {
		if i > 0 {
			b.WriteString("\n")
		}
		items := lanes.Lane(status)
		fmt.Fprintf(&b, "%s (%d)\n", status, len(items))
		if len(items) == 0 {
			b.WriteString("  (empty)\n")
			continue
		}
		for _, t := range items {
			b.WriteString("  " + t.String() + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTasks prints one task per line with its lane, for filtered listings.
func WriteTasks(w io.Writer, tasks []task.Task) error {
	var b strings.Builder
	if len(tasks) == 0 {
		b.WriteString("No tasks.\n")
	}
	for _, t := range tasks {
		fmt.Fprintf(&b, "%-12s %s\n", t.Status, t.String())
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
