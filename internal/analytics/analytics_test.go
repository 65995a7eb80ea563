package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/focus/internal/models"
	"github.com/joescharf/focus/internal/store"
)

// Thursday, September 19, 2024, mid-morning.
var now = time.Date(2024, 9, 19, 10, 0, 0, 0, time.UTC)

func newTestCalculator() *Calculator {
	c := NewCalculator(0)
	c.Now = func() time.Time { return now }
	return c
}

func day(d int) time.Time { return time.Date(2024, 9, d, 0, 0, 0, 0, time.UTC) }

func work(d, hour int) *models.PomodoroRecord {
	return &models.PomodoroRecord{
		Phase:           "work",
		DurationSeconds: 1500,
		CompletedAt:     time.Date(2024, 9, d, hour, 25, 0, 0, time.UTC),
	}
}

func TestNewCalculator_DefaultGoal(t *testing.T) {
	assert.Equal(t, DefaultDailyGoal, NewCalculator(0).DailyGoal)
	assert.Equal(t, 8, NewCalculator(8).DailyGoal)
}

func TestSummary(t *testing.T) {
	c := newTestCalculator()
	list := []*models.Task{
		{Status: models.TaskStatusInProgress, DueDate: day(20)},
		{Status: models.TaskStatusTodo, DueDate: day(18)},
		{Status: models.TaskStatusCompleted, DueDate: day(18)},
		{Status: models.TaskStatusCompleted},
	}

	s := c.Summary(list)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 1, s.InProgress)
	assert.Equal(t, 1, s.Todo)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, 50, s.Productivity)
}

func TestSummary_Empty(t *testing.T) {
	s := newTestCalculator().Summary(nil)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.Productivity)
}

func TestWeekStart(t *testing.T) {
	assert.Equal(t, day(16), WeekStart(now))
	sunday := time.Date(2024, 9, 22, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, day(16), WeekStart(sunday))
}

func TestWeekly(t *testing.T) {
	c := newTestCalculator()
	list := []*models.Task{
		{DueDate: day(20), PlannedSessions: 4},
		{DueDate: day(20), PlannedSessions: 3},
		{DueDate: day(16), PlannedSessions: 1},
		{DueDate: day(30), PlannedSessions: 9},
		{PlannedSessions: 2},
	}
	records := []*models.PomodoroRecord{
		work(16, 9), work(16, 10), work(19, 9),
		{Phase: "short_break", CompletedAt: day(19).Add(time.Hour)},
		work(12, 9),
	}

	bars := c.Weekly(list, records)
	require.Len(t, bars, 7)
	assert.Equal(t, "Mon", bars[0].Day)
	assert.Equal(t, "Sun", bars[6].Day)
	assert.Equal(t, 2, bars[0].Completed)
	assert.Equal(t, 1, bars[0].Planned)
	assert.Equal(t, 1, bars[3].Completed)
	assert.Equal(t, 7, bars[4].Planned)
	assert.Equal(t, 0, bars[6].Planned)
}

func TestCategories(t *testing.T) {
	c := newTestCalculator()
	list := []*models.Task{
		{Category: models.TaskCategoryWork},
		{Category: models.TaskCategoryWork},
		{Category: models.TaskCategoryHealth},
		{Category: models.TaskCategoryLearning},
	}

	shares := c.Categories(list)
	require.Len(t, shares, 4)
	assert.Equal(t, models.TaskCategoryWork, shares[0].Category)
	assert.Equal(t, 50, shares[0].Percent)
	assert.Equal(t, 0, shares[1].Percent)
	assert.Equal(t, 25, shares[2].Percent)
	assert.Equal(t, 1, shares[3].Count)
}

func TestFocusByHour(t *testing.T) {
	c := newTestCalculator()
	records := []*models.PomodoroRecord{
		work(19, 9), work(18, 9), work(19, 15),
		{Phase: "long_break", DurationSeconds: 900, CompletedAt: day(19).Add(11 * time.Hour)},
	}

	hours := c.FocusByHour(records)
	assert.Equal(t, []HourFocus{{Hour: 9, Minutes: 50}, {Hour: 15, Minutes: 25}}, hours)
}

func TestPomodoroStats(t *testing.T) {
	c := newTestCalculator()
	records := []*models.PomodoroRecord{
		work(10, 9),
		work(12, 9), work(13, 9), work(14, 9),
		work(17, 9), work(18, 9),
		work(19, 9), work(19, 10),
		{Phase: "short_break", CompletedAt: day(19).Add(11 * time.Hour)},
	}

	stats := c.Pomodoro(records)
	assert.Equal(t, 2, stats.Today)
	assert.Equal(t, DefaultDailyGoal, stats.DailyGoal)
	assert.Equal(t, 3, stats.BestStreak)
	assert.Equal(t, 50*time.Minute, stats.FocusToday)
	assert.Equal(t, 17, stats.GoalPercent())
}

func TestPomodoroStats_Empty(t *testing.T) {
	stats := newTestCalculator().Pomodoro(nil)
	assert.Equal(t, 0, stats.Today)
	assert.Equal(t, 0, stats.BestStreak)
	assert.Equal(t, 0, stats.GoalPercent())
}

func TestGoalPercent_Capped(t *testing.T) {
	p := &PomodoroStats{Today: 20, DailyGoal: 12}
	assert.Equal(t, 100, p.GoalPercent())
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))

	require.NoError(t, s.CreateTask(ctx, &models.Task{Title: "a", Status: models.TaskStatusCompleted, DueDate: day(20), PlannedSessions: 2}))
	require.NoError(t, s.CreateTask(ctx, &models.Task{Title: "b", DueDate: day(18)}))
	require.NoError(t, s.RecordPomodoro(ctx, work(19, 9)))
	require.NoError(t, s.RecordPomodoro(ctx, work(18, 15)))

	r, err := newTestCalculator().Build(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Summary.Total)
	assert.Equal(t, 1, r.Summary.Overdue)
	assert.Equal(t, 2, r.Weekly[4].Planned)
	assert.Equal(t, 1, r.Pomodoro.Today)
	assert.Equal(t, 2, r.Pomodoro.BestStreak)
	assert.Len(t, r.FocusByHour, 2)
}
