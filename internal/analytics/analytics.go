// Package analytics derives the dashboard numbers from the task list and
// the Pomodoro log. Nothing here is stored.
package analytics

import (
	"math"
	"time"

	"github.com/joescharf/focus/internal/models"
	"github.com/joescharf/focus/internal/tasks"
)

// DefaultDailyGoal is the number of work sessions aimed for per day.
const DefaultDailyGoal = 12

// Summary holds the stats card values.
type Summary struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	InProgress   int `json:"in_progress"`
	Todo         int `json:"todo"`
	Overdue      int `json:"overdue"`
	Productivity int `json:"productivity"` // completed share of total, 0-100
}

// DayBar is one weekday of the weekly chart.
type DayBar struct {
	Day       string    `json:"day"` // Mon..Sun
	Date      time.Time `json:"date"`
	Completed int       `json:"completed"` // work sessions completed that day
	Planned   int       `json:"planned"`   // sessions planned on tasks due that day
}

// CategoryShare is one slice of the category chart.
type CategoryShare struct {
	Category models.TaskCategory `json:"category"`
	Count    int                 `json:"count"`
	Percent  int                 `json:"percent"`
}

// HourFocus is focused minutes within one hour of the day.
type HourFocus struct {
	Hour    int `json:"hour"`
	Minutes int `json:"minutes"`
}

// PomodoroStats is the timer page header.
type PomodoroStats struct {
	Today      int           `json:"today"`
	DailyGoal  int           `json:"daily_goal"`
	BestStreak int           `json:"best_streak"`
	FocusToday time.Duration `json:"focus_today_ns"`
}

// Calculator computes analytics relative to a clock.
type Calculator struct {
	Now       func() time.Time
	DailyGoal int
}

// NewCalculator returns a Calculator using the wall clock.
func NewCalculator(dailyGoal int) *Calculator {
	if dailyGoal <= 0 {
		dailyGoal = DefaultDailyGoal
	}
	return &Calculator{Now: time.Now, DailyGoal: dailyGoal}
}

// Summary counts tasks by status.
func (c *Calculator) Summary(list []*models.Task) *Summary {
	now := c.Now()
	s := &Summary{Total: len(list)}
	for _, t := range list {
		switch t.Status {
		case models.TaskStatusCompleted:
			s.Completed++
		case models.TaskStatusInProgress:
			s.InProgress++
		default:
			s.Todo++
		}
		if tasks.IsOverdue(t, now) {
			s.Overdue++
		}
	}
	s.Productivity = percent(s.Completed, s.Total)
	return s
}

// WeekStart returns the Monday starting the week containing t.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Weekly returns Mon..Sun of the current week: completed work sessions
// from the log against sessions planned on tasks due each day.
func (c *Calculator) Weekly(list []*models.Task, records []*models.PomodoroRecord) []DayBar {
	start := WeekStart(c.Now())
	bars := make([]DayBar, 7)
	for i := range bars {
		d := start.AddDate(0, 0, i)
		bars[i] = DayBar{Day: d.Format("Mon"), Date: d}
	}

	for _, r := range records {
		if !r.IsWork() {
			continue
		}
		if i, ok := dayIndex(start, r.CompletedAt); ok {
			bars[i].Completed++
		}
	}
	for _, t := range list {
		if t.DueDate.IsZero() {
			continue
		}
		if i, ok := dayIndex(start, t.DueDate); ok {
			bars[i].Planned += t.PlannedSessions
		}
	}
	return bars
}

func dayIndex(weekStart, t time.Time) (int, bool) {
	t = t.In(weekStart.Location())
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, weekStart.Location())
	i := int(math.Round(day.Sub(weekStart).Hours() / 24))
	if i < 0 || i > 6 {
		return 0, false
	}
	return i, true
}

// Categories splits tasks by category. Percentages are rounded and every
// category is listed.
func (c *Calculator) Categories(list []*models.Task) []CategoryShare {
	counts := map[models.TaskCategory]int{}
	for _, t := range list {
		counts[t.Category]++
	}
	shares := make([]CategoryShare, 0, len(models.TaskCategories))
	for _, cat := range models.TaskCategories {
		shares = append(shares, CategoryShare{
			Category: cat,
			Count:    counts[cat],
			Percent:  percent(counts[cat], len(list)),
		})
	}
	return shares
}

// FocusByHour sums completed work minutes per hour of the day, for the
// hours that have any.
func (c *Calculator) FocusByHour(records []*models.PomodoroRecord) []HourFocus {
	var minutes [24]int
	loc := c.Now().Location()
	for _, r := range records {
		if !r.IsWork() {
			continue
		}
		minutes[r.CompletedAt.In(loc).Hour()] += r.DurationSeconds / 60
	}
	var out []HourFocus
	for h, m := range minutes {
		if m > 0 {
			out = append(out, HourFocus{Hour: h, Minutes: m})
		}
	}
	return out
}

// Pomodoro computes today's count and the best streak of consecutive days
// with at least one completed work session.
func (c *Calculator) Pomodoro(records []*models.PomodoroRecord) *PomodoroStats {
	now := c.Now()
	loc := now.Location()
	today := now.In(loc).Format(models.DateLayout)

	stats := &PomodoroStats{DailyGoal: c.DailyGoal}
	days := map[string]bool{}
	for _, r := range records {
		if !r.IsWork() {
			continue
		}
		key := r.CompletedAt.In(loc).Format(models.DateLayout)
		days[key] = true
		if key == today {
			stats.Today++
			stats.FocusToday += time.Duration(r.DurationSeconds) * time.Second
		}
	}

	for key := range days {
		d, _ := time.ParseInLocation(models.DateLayout, key, loc)
		// Only count from the first day of each run.
		if days[d.AddDate(0, 0, -1).Format(models.DateLayout)] {
			continue
		}
		run := 0
		for days[d.AddDate(0, 0, run).Format(models.DateLayout)] {
			run++
		}
		if run > stats.BestStreak {
			stats.BestStreak = run
		}
	}
	return stats
}

// GoalPercent is today's progress toward the daily goal, capped at 100.
func (p *PomodoroStats) GoalPercent() int {
	if p.DailyGoal <= 0 {
		return 0
	}
	v := percent(p.Today, p.DailyGoal)
	if v > 100 {
		return 100
	}
	return v
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}
