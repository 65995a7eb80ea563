package models

import "time"

// EventType is what kind of block a calendar event represents.
type EventType string

const (
	EventTypeTask    EventType = "task"
	EventTypeMeeting EventType = "meeting"
	EventTypeBreak   EventType = "break"
)

// Event is a scheduled block on the calendar.
type Event struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Start    time.Time    `json:"start"`
	End      time.Time    `json:"end"`
	Priority TaskPriority `json:"priority"`
	Type     EventType    `json:"type"`
	TaskID   string       `json:"task_id,omitempty"`
}

// Duration returns how long the event lasts.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
