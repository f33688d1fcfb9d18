package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskboard-go/internal/storage"
	"github.com/nibzard/taskboard-go/internal/task"
)

// DefaultKey is the storage key holding the encoded collection.
const DefaultKey = "tasks"

// counterSuffix is appended to the key to store the tracked counter.
const counterSuffix = ".next_id"

// ErrNotInitialized is returned by mutations issued before Initialize.
var ErrNotInitialized = errors.New("store not initialized")

// ErrIDsExhausted is returned by Create when the counter has reached the
// largest int.
var ErrIDsExhausted = errors.New("no task ids left")

// PersistError reports a failed write to the storage adapter. The
// mutation that triggered it has been rolled back.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %s", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistError) Unwrap() error {
	return e.Err
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the storage key. Empty keys are ignored.
func WithKey(key string) Option {
	return func(s *Store) {
		if strings.TrimSpace(key) != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for recoveries and mutations.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTrackedNextID persists the identifier counter alongside the
// collection so ids are never reused across reloads.
func WithTrackedNextID(enabled bool) Option {
	return func(s *Store) {
		s.trackNextID = enabled
	}
}

// Store is the task board state.
type Store struct {
	adapter     storage.Adapter
	key         string
	trackNextID bool
	logger      *log.Logger

	mu          sync.Mutex
	tasks       []task.Task
	nextID      int
	initialized bool

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// New returns a Store persisting through adapter. Call Initialize before
// mutating it.
func New(adapter storage.Adapter, opts ...Option) *Store {
	if adapter == nil {
		panic("store.New: adapter is nil")
	}
	s := &Store{
		adapter: adapter,
		key:     DefaultKey,
		logger:  log.New(io.Discard),
		subs:    make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key holding the collection.
func (s *Store) Key() string {
	return s.key
}

// CounterKey returns the storage key holding the tracked counter.
func (s *Store) CounterKey() string {
	return s.key + counterSuffix
}

// Initialize loads the collection from storage. Missing or malformed data
// leaves the store empty; only a failure of the adapter itself is
// returned.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()

	raw, ok, err := s.adapter.Get(ctx, s.key)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("load %s: %w", s.key, err)
	}

	tasks := []task.Task{}
	if !ok {
		s.logger.Info("No saved tasks found", "key", s.key)
	} else if decoded, err := task.Decode(raw); err != nil {
		s.logger.Warn("Discarding unreadable saved tasks", "key", s.key, "err", err)
	} else {
		tasks = decoded
	}

	next := nextAfter(tasks)
	if s.trackNextID {
		stored, err := s.loadCounter(ctx)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if stored > next {
			next = stored
		}
	}

	s.tasks = tasks
	s.nextID = next
	s.initialized = true
	snapshot := task.Clone(s.tasks)
	s.mu.Unlock()

	s.logger.Debug("Loaded tasks", "count", len(snapshot), "next_id", next)
	s.publish(Event{Kind: EventLoaded, Tasks: snapshot})
	return nil
}

func (s *Store) loadCounter(ctx context.Context) (int, error) {
	raw, ok, err := s.adapter.Get(ctx, s.CounterKey())
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", s.CounterKey(), err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		s.logger.Warn("Ignoring unreadable id counter", "key", s.CounterKey(), "value", raw)
		return 0, nil
	}
	return n, nil
}

// nextAfter returns one more than the highest id in tasks, or 0.
func nextAfter(tasks []task.Task) int {
	next := 0
	for _, t := range tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return next
}

// Create adds a To Do task with the next identifier.
func (s *Store) Create(ctx context.Context, name, typ string) (task.Task, error) {
	name, typ, err := task.CleanFields(name, typ)
	if err != nil {
		return task.Task{}, err
	}

	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return task.Task{}, ErrNotInitialized
	}
	if s.nextID == math.MaxInt {
		s.mu.Unlock()
		return task.Task{}, ErrIDsExhausted
	}

	created := task.Task{ID: s.nextID, Name: name, Type: typ, Status: task.StatusToDo}
	prevTasks, prevNext := s.tasks, s.nextID
	s.tasks = append(task.Clone(s.tasks), created)
	s.nextID++

	if err := s.persist(ctx); err != nil {
		s.tasks, s.nextID = prevTasks, prevNext
		s.mu.Unlock()
		return task.Task{}, err
	}
	snapshot := task.Clone(s.tasks)
	s.mu.Unlock()

	s.logger.Debug("Created task", "id", created.ID, "name", created.Name, "type", created.Type)
	s.publish(Event{Kind: EventCreated, Task: created, Tasks: snapshot})
	return created, nil
}

// Edit replaces a task's name and type, leaving its id and status.
func (s *Store) Edit(ctx context.Context, id int, name, typ string) (task.Task, error) {
	return s.update(ctx, id, EventEdited, func(t *task.Task) error {
		n, ty, err := task.CleanFields(name, typ)
		if err != nil {
			return err
		}
		t.Name, t.Type = n, ty
		return nil
	})
}

// SetStatus moves a task to another lane.
func (s *Store) SetStatus(ctx context.Context, id int, status task.Status) (task.Task, error) {
	return s.update(ctx, id, EventStatusChanged, func(t *task.Task) error {
		if !status.Valid() {
			return &task.ValidationError{Field: "status", Err: fmt.Errorf("%w: %s", task.ErrUnknownStatus, status)}
		}
		t.Status = status
		return nil
	})
}

// update applies fn to the task with id and persists the result.
func (s *Store) update(ctx context.Context, id int, kind EventKind, fn func(*task.Task) error) (task.Task, error) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return task.Task{}, ErrNotInitialized
	}

	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return task.Task{}, &task.NotFoundError{ID: id}
	}

	updated := s.tasks[idx]
	if err := fn(&updated); err != nil {
		s.mu.Unlock()
		return task.Task{}, err
	}

	prevTasks := s.tasks
	s.tasks = task.Clone(s.tasks)
	s.tasks[idx] = updated

	if err := s.persist(ctx); err != nil {
		s.tasks = prevTasks
		s.mu.Unlock()
		return task.Task{}, err
	}
	snapshot := task.Clone(s.tasks)
	s.mu.Unlock()

	s.logger.Debug("Updated task", "id", updated.ID, "change", kind, "status", updated.Status)
	s.publish(Event{Kind: kind, Task: updated, Tasks: snapshot})
	return updated, nil
}

// Delete removes the task with id. Deleting an unknown id is not an
// error; the collection is persisted either way.
func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}

	prevTasks := s.tasks
	var removed *task.Task
	kept := make([]task.Task, 0, len(s.tasks))
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			t := s.tasks[i]
			removed = &t
			continue
		}
		kept = append(kept, s.tasks[i])
	}
	s.tasks = kept

	if err := s.persist(ctx); err != nil {
		s.tasks = prevTasks
		s.mu.Unlock()
		return err
	}
	snapshot := task.Clone(s.tasks)
	s.mu.Unlock()

	if removed == nil {
		s.logger.Debug("Delete of unknown task ignored", "id", id)
		return nil
	}
	s.logger.Debug("Deleted task", "id", id)
	s.publish(Event{Kind: EventDeleted, Task: *removed, Tasks: snapshot})
	return nil
}

// persist writes the counter (when tracked) and then the collection.
// The counter goes first: a counter that is ahead of the collection only
// skips ids, while one that is behind could reuse them.
// Callers hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	encoded, err := task.Encode(s.tasks)
	if err != nil {
		return err
	}
	if s.trackNextID {
		if err := s.adapter.Set(ctx, s.CounterKey(), strconv.Itoa(s.nextID)); err != nil {
			return &PersistError{Key: s.CounterKey(), Err: err}
		}
	}
	if err := s.adapter.Set(ctx, s.key, encoded); err != nil {
		return &PersistError{Key: s.key, Err: err}
	}
	return nil
}

func (s *Store) indexOf(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
