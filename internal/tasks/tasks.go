// Package tasks holds the task list rules: completion toggling, reorder
// and due-date checks.
package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/joescharf/focus/internal/models"
)

// ToggleComplete flips a task between completed and todo. Completing fills
// CompletedSessions to the plan; reopening clears it.
func ToggleComplete(t *models.Task, now time.Time) {
	if t.Status == models.TaskStatusCompleted {
		t.Status = models.TaskStatusTodo
		t.CompletedSessions = 0
		t.CompletedAt = nil
		return
	}
	t.Status = models.TaskStatusCompleted
	t.CompletedSessions = t.PlannedSessions
	at := now.UTC()
	t.CompletedAt = &at
}

// IsOverdue reports whether the due date is before today and the task is
// not completed. Tasks without a due date are never overdue.
func IsOverdue(t *models.Task, now time.Time) bool {
	if t.DueDate.IsZero() || t.Status == models.TaskStatusCompleted {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	dy, dm, dd := t.DueDate.Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

// Progress is CompletedSessions as a percentage of PlannedSessions.
func Progress(t *models.Task) float64 {
	if t.PlannedSessions <= 0 {
		return 0
	}
	p := 100 * float64(t.CompletedSessions) / float64(t.PlannedSessions)
	if p > 100 {
		return 100
	}
	return p
}

// RecordSession credits one completed work session to the task. A todo
// task moves to in progress.
func RecordSession(t *models.Task) {
	t.CompletedSessions++
	if t.Status == models.TaskStatusTodo {
		t.Status = models.TaskStatusInProgress
	}
}

// Move returns a copy of list with the element at from moved to index to,
// shifting the elements between.
func Move[T any](list []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(list) {
		return nil, fmt.Errorf("move: source index %d out of range [0,%d)", from, len(list))
	}
	if to < 0 || to >= len(list) {
		return nil, fmt.Errorf("move: target index %d out of range [0,%d)", to, len(list))
	}

	out := make([]T, 0, len(list))
	item := list[from]
	for i, v := range list {
		if i == from {
			continue
		}
		out = append(out, v)
	}
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out, nil
}

// ParseStatus validates a status string. The empty string is allowed and
// means "any".
func ParseStatus(s string) (models.TaskStatus, error) {
	switch normalize(s) {
	case "", "all":
		return "", nil
	case "todo":
		return models.TaskStatusTodo, nil
	case "in_progress":
		return models.TaskStatusInProgress, nil
	case "completed", "done":
		return models.TaskStatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status %q (want todo, in_progress, completed)", s)
}

// ParsePriority validates a priority string. The empty string is allowed
// and means "any".
func ParsePriority(s string) (models.TaskPriority, error) {
	switch normalize(s) {
	case "", "all":
		return "", nil
	case "low":
		return models.TaskPriorityLow, nil
	case "medium":
		return models.TaskPriorityMedium, nil
	case "high":
		return models.TaskPriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority %q (want low, medium, high)", s)
}

// ParseCategory validates a category string, defaulting to work.
func ParseCategory(s string) (models.TaskCategory, error) {
	if s == "" {
		return models.TaskCategoryWork, nil
	}
	for _, c := range models.TaskCategories {
		if normalize(s) == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q (want work, personal, health, learning)", s)
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}
