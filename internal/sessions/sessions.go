// Package sessions turns finished timer phases into log entries and
// credits work sessions to the task being focused on.
package sessions

import (
	"context"
	"fmt"
	"sync"

	"github.com/joescharf/focus/internal/models"
	"github.com/joescharf/focus/internal/pomodoro"
	"github.com/joescharf/focus/internal/store"
	"github.com/joescharf/focus/internal/tasks"
)

// Recorder is a pomodoro completion hook backed by the store.
type Recorder struct {
	store store.Store

	mu     sync.Mutex
	taskID string
	onErr  func(error)
}

// NewRecorder creates a Recorder. Errors from the hook go to onErr, which
// may be nil.
func NewRecorder(s store.Store, onErr func(error)) *Recorder {
	return &Recorder{store: s, onErr: onErr}
}

// Focus sets the task that completed work sessions are credited to. An
// empty id credits nothing.
func (r *Recorder) Focus(taskID string) {
	r.mu.Lock()
	r.taskID = taskID
	r.mu.Unlock()
}

// FocusedTask returns the current task id.
func (r *Recorder) FocusedTask() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.taskID
}

// Hook adapts the Recorder to pomodoro.WithCompletionHook.
func (r *Recorder) Hook(c pomodoro.Completion) {
	if err := r.Record(context.Background(), c); err != nil && r.onErr != nil {
		r.onErr(err)
	}
}

// Record logs c and, for a work phase with a focused task, credits the task.
func (r *Recorder) Record(ctx context.Context, c pomodoro.Completion) error {
	taskID := ""
	if c.Phase == pomodoro.PhaseWork {
		taskID = r.FocusedTask()
	}

	rec := &models.PomodoroRecord{
		Phase:           string(c.Phase),
		TaskID:          taskID,
		DurationSeconds: c.DurationSeconds,
		CompletedAt:     c.At,
	}
	if err := r.store.RecordPomodoro(ctx, rec); err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	if taskID == "" {
		return nil
	}

	t, err := r.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("credit session: %w", err)
	}
	tasks.RecordSession(t)
	if err := r.store.UpdateTask(ctx, t); err != nil {
		return fmt.Errorf("credit session: %w", err)
	}
	return nil
}
