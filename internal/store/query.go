package store

import "github.com/nibzard/taskboard-go/internal/task"

// Lanes is the collection partitioned by status, each lane in insertion
// order.
type Lanes struct {
	ToDo       []task.Task
	InProgress []task.Task
	Completed  []task.Task
}

// Lane returns the tasks in status.
func (l Lanes) Lane(status task.Status) []task.Task {
	switch status {
	case task.StatusToDo:
		return l.ToDo
	case task.StatusInProgress:
		return l.InProgress
	case task.StatusCompleted:
		return l.Completed
	default:
		return nil
	}
}

// Len returns the number of tasks across all lanes.
func (l Lanes) Len() int {
	return len(l.ToDo) + len(l.InProgress) + len(l.Completed)
}

// List returns a copy of the tasks in insertion order. With filters, only
// tasks in one of the given statuses are returned.
func (s *Store) List(filter ...task.Status) []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(filter) == 0 {
		return task.Clone(s.tasks)
	}
	out := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		for _, f := range filter {
			if t.Status == f {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Lanes returns the tasks partitioned by status.
func (s *Store) Lanes() Lanes {
	return Partition(s.List())
}

// Partition splits tasks into lanes, keeping their relative order.
func Partition(tasks []task.Task) Lanes {
	var l Lanes
	for _, t := range tasks {
		switch t.Status {
		case task.StatusToDo:
			l.ToDo = append(l.ToDo, t)
		case task.StatusInProgress:
			l.InProgress = append(l.InProgress, t)
		case task.StatusCompleted:
			l.Completed = append(l.Completed, t)
		}
	}
	return l
}

// Get returns the task with id.
func (s *Store) Get(id int) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return task.Task{}, false
}

// NextID returns the identifier the next Create will use.
func (s *Store) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
