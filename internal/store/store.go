package store

import (
	"context"
	"errors"
	"time"

	"github.com/joescharf/focus/internal/models"
)

// ErrNotFound is returned (wrapped) when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned (wrapped) when an ID prefix matches more than
// one row.
var ErrAmbiguous = errors.New("ambiguous id prefix")

// TaskListFilter specifies filters for listing tasks. Zero values match
// everything.
type TaskListFilter struct {
	Status   models.TaskStatus
	Priority models.TaskPriority
	Query    string // case-insensitive substring of title or description
}

// Store defines the data interface for focus.
type Store interface {
	// Tasks
	CreateTask(ctx context.Context, t *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ResolveTask(ctx context.Context, ref string) (*models.Task, error)
	ListTasks(ctx context.Context, filter TaskListFilter) ([]*models.Task, error)
	UpdateTask(ctx context.Context, t *models.Task) error
	DeleteTask(ctx context.Context, id string) error
	MoveTask(ctx context.Context, id string, toIndex int) error

	// Calendar events
	CreateEvent(ctx context.Context, e *models.Event) error
	ListEvents(ctx context.Context, from, to time.Time) ([]*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	// Pomodoro log
	RecordPomodoro(ctx context.Context, r *models.PomodoroRecord) error
	ListPomodoros(ctx context.Context, from, to time.Time) ([]*models.PomodoroRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
