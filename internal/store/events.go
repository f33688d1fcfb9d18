package store

import (
	"sort"

	"github.com/nibzard/taskboard-go/internal/task"
)

// EventKind identifies the operation behind an Event.
type EventKind int

const (
	EventLoaded EventKind = iota
	EventCreated
	EventEdited
	EventStatusChanged
	EventDeleted
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventCreated:
		return "created"
	case EventEdited:
		return "edited"
	case EventStatusChanged:
		return "status_changed"
	case EventDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event describes a completed mutation.
type Event struct {
	Kind EventKind
	// Task is the affected task after the change (before it, for
	// EventDeleted). Zero for EventLoaded.
	Task task.Task
	// Tasks is the full collection after the change.
	Tasks []task.Task
}

// Subscribe registers fn to receive events and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	fns := make([]func(Event), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
