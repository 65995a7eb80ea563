package models

import "time"

// PomodoroRecord logs one completed Pomodoro phase. Records live only as
// long as the process.
type PomodoroRecord struct {
	ID              string    `json:"id"`
	Phase           string    `json:"phase"`
	TaskID          string    `json:"task_id,omitempty"`
	DurationSeconds int       `json:"duration_seconds"`
	CompletedAt     time.Time `json:"completed_at"`
}

// IsWork reports whether the record is a completed work session.
func (r *PomodoroRecord) IsWork() bool {
	return r.Phase == "work"
}
