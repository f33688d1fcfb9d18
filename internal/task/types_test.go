package task

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"To Do", StatusToDo, false},
		{"In Progress", StatusInProgress, false},
		{"Completed", StatusCompleted, false},
		{"  Completed ", StatusCompleted, false},
		{"todo", StatusToDo, false},
		{"TODO", StatusToDo, false},
		{"doing", StatusInProgress, false},
		{"in-progress", StatusInProgress, false},
		{"done", StatusCompleted, false},
		{"", 0, true},
		{"Blocked", 0, true},
		{"to  do", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStatus(%q): expected error, got %v", tt.input, got)
				}
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if !errors.Is(err, ErrUnknownStatus) {
					t.Errorf("expected ErrUnknownStatus, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	if got := StatusInProgress.String(); got != "In Progress" {
		t.Errorf("String: got %q, want In Progress", got)
	}
	if got := Status(9).String(); got != "Status(9)" {
		t.Errorf("String of invalid status: got %q", got)
	}
	if Status(3).Valid() {
		t.Error("Status(3) should not be valid")
	}
}

func TestStatusNextPrev(t *testing.T) {
	if StatusToDo.Next() != StatusInProgress || StatusInProgress.Next() != StatusCompleted {
		t.Error("Next does not advance through lanes")
	}
	if StatusCompleted.Next() != StatusCompleted {
		t.Error("Next should stop at Completed")
	}
	if StatusCompleted.Prev() != StatusInProgress || StatusToDo.Prev() != StatusToDo {
		t.Error("Prev does not walk back through lanes")
	}
}

func TestStatusUnmarshalTextRejectsAliases(t *testing.T) {
	var s Status
	if err := s.UnmarshalText([]byte("done")); err == nil {
		t.Error("expected alias to be rejected on the wire")
	}
	if err := s.UnmarshalText([]byte("In Progress")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if s != StatusInProgress {
		t.Errorf("got %v, want In Progress", s)
	}
}

func TestCleanFields(t *testing.T) {
	tests := []struct {
		name, typ string
		wantField string
	}{
		{"", "x", "name"},
		{"x", "", "type"},
		{"   ", "   ", "name"},
		{"\t", "Work", "name"},
		{"Write report", "\n", "type"},
	}
	for _, tt := range tests {
		_, _, err := CleanFields(tt.name, tt.typ)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("CleanFields(%q, %q): expected *ValidationError, got %v", tt.name, tt.typ, err)
		}
		if ve.Field != tt.wantField {
			t.Errorf("CleanFields(%q, %q): field %q, want %q", tt.name, tt.typ, ve.Field, tt.wantField)
		}
		if !errors.Is(err, ErrEmpty) {
			t.Errorf("expected ErrEmpty, got %v", err)
		}
	}

	name, typ, err := CleanFields("  Write report ", " Work")
	if err != nil {
		t.Fatalf("CleanFields: %v", err)
	}
	if name != "Write report" || typ != "Work" {
		t.Errorf("CleanFields: got %q/%q", name, typ)
	}
}

func TestTaskString(t *testing.T) {
	task := Task{ID: 4, Name: "Buy milk", Type: "Personal"}
	if got := task.String(); got != "[4] Buy milk - Personal" {
		t.Errorf("String: got %q", got)
	}
}

func TestClone(t *testing.T) {
	orig := []Task{{ID: 1, Name: "a", Type: "b"}}
	c := Clone(orig)
	c[0].Name = "changed"
	if orig[0].Name != "a" {
		t.Error("Clone shares backing array")
	}
}
