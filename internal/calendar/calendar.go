// Package calendar computes the visible date window for the day, week and
// month views and buckets events into days.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/joescharf/focus/internal/models"
)

// View is a calendar zoom level.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewDay, ViewWeek, ViewMonth:
		return View(s), nil
	case "":
		return ViewWeek, nil
	}
	return "", fmt.Errorf("invalid view %q (want day, week, month)", s)
}

// Direction is a toolbar navigation action.
type Direction string

const (
	Prev  Direction = "prev"
	Next  Direction = "next"
	Today Direction = "today"
)

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Range returns the half-open window [start, end) shown by view around
// date. Weeks start on Sunday.
func Range(view View, date time.Time) (time.Time, time.Time) {
	day := StartOfDay(date)
	switch view {
	case ViewDay:
		return day, day.AddDate(0, 0, 1)
	case ViewMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(0, 1, 0)
	default:
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return start, start.AddDate(0, 0, 7)
	}
}

// Navigate moves date one view-width in dir. Today ignores date and
// returns now.
func Navigate(view View, date time.Time, dir Direction, now time.Time) time.Time {
	step := 1
	switch dir {
	case Today:
		return now
	case Prev:
		step = -1
	}
	switch view {
	case ViewDay:
		return date.AddDate(0, 0, step)
	case ViewMonth:
		// Anchor on the 1st so Jan 31 + 1 month is February, not March.
		first := time.Date(date.Year(), date.Month(), 1, date.Hour(), date.Minute(), 0, 0, date.Location())
		return first.AddDate(0, step, 0)
	default:
		return date.AddDate(0, 0, 7*step)
	}
}

// Label is the toolbar title for the window containing date.
func Label(view View, date time.Time) string {
	start, end := Range(view, date)
	switch view {
	case ViewDay:
		return start.Format("Monday, January 2, 2006")
	case ViewMonth:
		return start.Format("January 2006")
	default:
		last := end.AddDate(0, 0, -1)
		if start.Month() == last.Month() {
			return fmt.Sprintf("%s %d – %d, %d", start.Format("January"), start.Day(), last.Day(), last.Year())
		}
		return fmt.Sprintf("%s – %s", start.Format("Jan 2"), last.Format("Jan 2, 2006"))
	}
}

// Day is one calendar day with the events that start on it.
type Day struct {
	Date   time.Time
	Events []*models.Event
}

// Group buckets events by the local day they start on, covering every day
// of the view window even when empty.
func Group(view View, date time.Time, events []*models.Event) []Day {
	start, end := Range(view, date)
	var days []Day
	index := map[string]int{}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		index[d.Format(models.DateLayout)] = len(days)
		days = append(days, Day{Date: d})
	}

	sorted := make([]*models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	for _, e := range sorted {
		key := e.Start.In(start.Location()).Format(models.DateLayout)
		if i, ok := index[key]; ok {
			days[i].Events = append(days[i].Events, e)
		}
	}
	return days
}
