// Package seed loads the demo data set every fresh store starts with.
// Dates are relative to the load time so the current week is populated.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/joescharf/focus/internal/models"
	"github.com/joescharf/focus/internal/store"
)

type taskSeed struct {
	title, desc string
	status      models.TaskStatus
	priority    models.TaskPriority
	category    models.TaskCategory
	dueIn       int // days from today
	planned     int
	completed   int
}

var taskSeeds = []taskSeed{
	{"Design new landing page", "Create wireframes and mockups for the new product landing page",
		models.TaskStatusInProgress, models.TaskPriorityHigh, models.TaskCategoryWork, 1, 4, 2},
	{"Write blog post about productivity", "Research and write a comprehensive blog post about productivity techniques",
		models.TaskStatusTodo, models.TaskPriorityMedium, models.TaskCategoryLearning, 3, 3, 0},
	{"Review pull requests", "Review and provide feedback on pending pull requests",
		models.TaskStatusCompleted, models.TaskPriorityHigh, models.TaskCategoryWork, -1, 2, 2},
	{"Team standup meeting", "Daily standup meeting with the development team",
		models.TaskStatusTodo, models.TaskPriorityLow, models.TaskCategoryWork, 0, 1, 0},
	{"Plan weekly meals", "Pick recipes and write the grocery list",
		models.TaskStatusTodo, models.TaskPriorityLow, models.TaskCategoryPersonal, 2, 1, 0},
	{"Evening run", "30 minute easy run around the park",
		models.TaskStatusCompleted, models.TaskPriorityMedium, models.TaskCategoryHealth, -2, 1, 1},
}

type eventSeed struct {
	title    string
	dayIn    int
	hour     int
	minute   int
	length   time.Duration
	priority models.TaskPriority
	kind     models.EventType
}

var eventSeeds = []eventSeed{
	{"Design new landing page", 1, 9, 0, 2 * time.Hour, models.TaskPriorityHigh, models.EventTypeTask},
	{"Team standup meeting", 0, 10, 0, 30 * time.Minute, models.TaskPriorityMedium, models.EventTypeMeeting},
	{"Write blog post", 3, 14, 0, 2 * time.Hour, models.TaskPriorityMedium, models.EventTypeTask},
	{"Coffee break", 2, 15, 0, 15 * time.Minute, models.TaskPriorityLow, models.EventTypeBreak},
}

// workLog is how many work sessions were completed n days ago, oldest
// first, ending yesterday.
var workLog = []int{3, 5, 0, 6, 7, 4, 8}

// Load fills s with the demo tasks, calendar events and a week of
// Pomodoro history.
func Load(ctx context.Context, s store.Store, now time.Time) error {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	ids := map[string]string{}
	for _, ts := range taskSeeds {
		t := &models.Task{
			Title:             ts.title,
			Description:       ts.desc,
			Status:            ts.status,
			Priority:          ts.priority,
			Category:          ts.category,
			DueDate:           today.AddDate(0, 0, ts.dueIn),
			PlannedSessions:   ts.planned,
			CompletedSessions: ts.completed,
		}
		if ts.status == models.TaskStatusCompleted {
			at := today.AddDate(0, 0, ts.dueIn).Add(17 * time.Hour).UTC()
			t.CompletedAt = &at
		}
		if err := s.CreateTask(ctx, t); err != nil {
			return fmt.Errorf("seed task %q: %w", ts.title, err)
		}
		ids[ts.title] = t.ID
	}

	for _, es := range eventSeeds {
		start := today.AddDate(0, 0, es.dayIn).Add(time.Duration(es.hour)*time.Hour + time.Duration(es.minute)*time.Minute)
		e := &models.Event{
			Title:    es.title,
			Start:    start,
			End:      start.Add(es.length),
			Priority: es.priority,
			Type:     es.kind,
			TaskID:   ids[es.title],
		}
		if err := s.CreateEvent(ctx, e); err != nil {
			return fmt.Errorf("seed event %q: %w", es.title, err)
		}
	}

	for i, n := range workLog {
		day := today.AddDate(0, 0, i-len(workLog))
		for j := 0; j < n; j++ {
			r := &models.PomodoroRecord{
				Phase:           "work",
				TaskID:          ids[taskSeeds[j%2].title],
				DurationSeconds: 25 * 60,
				CompletedAt:     day.Add(time.Duration(9+j) * time.Hour).Add(25 * time.Minute),
			}
			if err := s.RecordPomodoro(ctx, r); err != nil {
				return fmt.Errorf("seed pomodoro log: %w", err)
			}
		}
	}

	return nil
}

// Open creates a migrated in-memory store loaded with the demo data.
func Open(ctx context.Context, now time.Time) (*store.SQLiteStore, error) {
	s, err := store.NewMemoryStore()
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	if err := Load(ctx, s, now); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
