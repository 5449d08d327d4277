// Package tasks holds the in-memory registry that tracks asynchronous fill
// requests. Records are replaced wholesale on every transition so concurrent
// readers always observe a fully-formed snapshot. State is process-local and
// lost on restart.
package tasks

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Task is an immutable snapshot of a unit of work. Progress is 0-100.
type Task struct {
	ID        string
	Status    Status
	Progress  int
	Result    any
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Registry struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]Task),
	}
}

// Create registers a new pending task and returns its snapshot.
func (r *Registry) Create() Task {
	now := time.Now()
	task := Task{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.tasks[task.ID] = task
	r.mu.Unlock()

	return task
}

// Get returns a snapshot of the task. The bool reports whether the id is
// known.
func (r *Registry) Get(id string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	return task, ok
}

// SetProgress moves the task to processing with the given progress.
func (r *Registry) SetProgress(id string, progress int) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	r.update(id, func(task Task) Task {
		task.Status = StatusProcessing
		task.Progress = progress
		return task
	})
}

// Complete marks the task as finished with the given result.
func (r *Registry) Complete(id string, result any) {
	r.update(id, func(task Task) Task {
		task.Status = StatusCompleted
		task.Progress = 100
		task.Result = result
		task.Error = ""
		return task
	})
}

// Fail marks the task as failed with a human-readable reason.
func (r *Registry) Fail(id string, reason string) {
	r.update(id, func(task Task) Task {
		task.Status = StatusError
		task.Error = reason
		return task
	})
}

// update replaces the whole record under the lock; partial in-place field
// mutation is never exposed to readers.
func (r *Registry) update(id string, apply func(Task) Task) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return
	}

	task = apply(task)
	task.UpdatedAt = time.Now()
	r.tasks[id] = task
}
