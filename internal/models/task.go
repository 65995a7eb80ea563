package models

import "time"

// TaskStatus represents where a task is in its lifecycle.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskCategory groups tasks for the category breakdown chart.
type TaskCategory string

const (
	TaskCategoryWork     TaskCategory = "work"
	TaskCategoryPersonal TaskCategory = "personal"
	TaskCategoryHealth   TaskCategory = "health"
	TaskCategoryLearning TaskCategory = "learning"
)

// TaskCategories lists every category in display order.
var TaskCategories = []TaskCategory{
	TaskCategoryWork,
	TaskCategoryPersonal,
	TaskCategoryHealth,
	TaskCategoryLearning,
}

// DateLayout is the format of task due dates.
const DateLayout = "2006-01-02"

// Task is one entry in the ordered task list.
type Task struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Status            TaskStatus   `json:"status"`
	Priority          TaskPriority `json:"priority"`
	Category          TaskCategory `json:"category"`
	DueDate           time.Time    `json:"due_date"`
	PlannedSessions   int          `json:"planned_sessions"`
	CompletedSessions int          `json:"completed_sessions"`
	Position          int          `json:"position"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	CompletedAt       *time.Time   `json:"completed_at,omitempty"`
}
