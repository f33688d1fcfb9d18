package task

import (
	"fmt"
	"strings"
)

// Status is the lane a task sits in.
type Status uint8

const (
	StatusToDo Status = iota
	StatusInProgress
	StatusCompleted
)

var statusLabels = [...]string{
	StatusToDo:       "To Do",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
}

// statusAliases maps lowercase shorthand accepted from the command line.
var statusAliases = map[string]Status{
	"to do":       StatusToDo,
	"todo":        StatusToDo,
	"to-do":       StatusToDo,
	"in progress": StatusInProgress,
	"in-progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"doing":       StatusInProgress,
	"completed":   StatusCompleted,
	"complete":    StatusCompleted,
	"done":        StatusCompleted,
}

// Statuses returns the three lanes in display order.
func Statuses() []Status {
	return []Status{StatusToDo, StatusInProgress, StatusCompleted}
}

// Valid reports whether s is one of the three lanes.
func (s Status) Valid() bool {
	return s <= StatusCompleted
}

// String returns the lane label ("To Do", "In Progress", "Completed").
func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
	return statusLabels[s]
}

// Next returns the lane to the right of s, or s if it is already last.
func (s Status) Next() Status {
	if s >= StatusCompleted {
		return StatusCompleted
	}
	return s + 1
}

// Prev returns the lane to the left of s, or s if it is already first.
func (s Status) Prev() Status {
	if s == StatusToDo || !s.Valid() {
		return StatusToDo
	}
	return s - 1
}

// MarshalText encodes the status as its lane label.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &ValidationError{Field: "status", Err: fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(s))}
	}
	return []byte(statusLabels[s]), nil
}

// UnmarshalText decodes an exact lane label. Aliases are not accepted on
// the wire.
func (s *Status) UnmarshalText(text []byte) error {
	label := string(text)
	for i, l := range statusLabels {
		if l == label {
			*s = Status(i)
			return nil
		}
	}
	return &ValidationError{Field: "status", Err: fmt.Errorf("%w %q", ErrUnknownStatus, label)}
}

// ParseStatus parses a lane label or one of its aliases, ignoring case
// and surrounding whitespace.
func ParseStatus(input string) (Status, error) {
	trimmed := strings.TrimSpace(input)
	for i, l := range statusLabels {
		if l == trimmed {
			return Status(i), nil
		}
	}
	if s, ok := statusAliases[strings.ToLower(trimmed)]; ok {
		return s, nil
	}
	return 0, &ValidationError{
		Field: "status",
		Err:   fmt.Errorf("%w %q, must be one of: To Do, In Progress, Completed", ErrUnknownStatus, input),
	}
}

// Task is a single card on the board.
type Task struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status Status `json:"status"`
}

// String renders the task the way a lane lists it.
func (t Task) String() string {
	return fmt.Sprintf("[%d] %s - %s", t.ID, t.Name, t.Type)
}

// CleanFields trims name and typ and checks that neither is empty.
func CleanFields(name, typ string) (string, string, error) {
	name = strings.TrimSpace(name)
	typ = strings.TrimSpace(typ)
	if name == "" {
		return "", "", &ValidationError{Field: "name", Err: ErrEmpty}
	}
	if typ == "" {
		return "", "", &ValidationError{Field: "type", Err: ErrEmpty}
	}
	return name, typ, nil
}

// Clone returns a copy of tasks that shares no backing array with it.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
