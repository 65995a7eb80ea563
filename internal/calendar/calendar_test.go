package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/focus/internal/models"
)

// Friday, September 20, 2024.
var friday = time.Date(2024, 9, 20, 14, 30, 0, 0, time.UTC)

func TestRange(t *testing.T) {
	tests := []struct {
		view      View
		wantStart string
		wantEnd   string
	}{
		{ViewDay, "2024-09-20", "2024-09-21"},
		{ViewWeek, "2024-09-15", "2024-09-22"},
		{ViewMonth, "2024-09-01", "2024-10-01"},
	}
	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			start, end := Range(tt.view, friday)
			assert.Equal(t, tt.wantStart, start.Format(models.DateLayout))
			assert.Equal(t, tt.wantEnd, end.Format(models.DateLayout))
			assert.Equal(t, 0, start.Hour())
		})
	}
}

func TestRange_WeekStartsSunday(t *testing.T) {
	sunday := time.Date(2024, 9, 15, 8, 0, 0, 0, time.UTC)
	start, _ := Range(ViewWeek, sunday)
	assert.Equal(t, "2024-09-15", start.Format(models.DateLayout))
}

func TestNavigate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-09-21", Navigate(ViewDay, friday, Next, now).Format(models.DateLayout))
	assert.Equal(t, "2024-09-13", Navigate(ViewWeek, friday, Prev, now).Format(models.DateLayout))
	assert.Equal(t, "2024-10", Navigate(ViewMonth, friday, Next, now).Format("2006-01"))
	assert.Equal(t, now, Navigate(ViewWeek, friday, Today, now))

	jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02", Navigate(ViewMonth, jan31, Next, now).Format("2006-01"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Friday, September 20, 2024", Label(ViewDay, friday))
	assert.Equal(t, "September 15 – 21, 2024", Label(ViewWeek, friday))
	assert.Equal(t, "September 2024", Label(ViewMonth, friday))

	crossing := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Sep 29 – Oct 5, 2024", Label(ViewWeek, crossing))
}

func TestParseView(t *testing.T) {
	v, err := ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewWeek, v)

	v, err = ParseView("month")
	require.NoError(t, err)
	assert.Equal(t, ViewMonth, v)

	_, err = ParseView("agenda")
	assert.Error(t, err)
}

func TestGroup(t *testing.T) {
	at := func(day, hour int) time.Time { return time.Date(2024, 9, day, hour, 0, 0, 0, time.UTC) }
	events := []*models.Event{
		{Title: "Design", Start: at(20, 9), End: at(20, 11)},
		{Title: "Standup", Start: at(19, 10), End: at(19, 11)},
		{Title: "Early", Start: at(20, 7), End: at(20, 8)},
		{Title: "Outside", Start: at(25, 7), End: at(25, 8)},
	}

	days := Group(ViewWeek, friday, events)
	require.Len(t, days, 7)
	assert.Equal(t, time.Sunday, days[0].Date.Weekday())
	assert.Empty(t, days[0].Events)

	require.Len(t, days[4].Events, 1)
	assert.Equal(t, "Standup", days[4].Events[0].Title)

	require.Len(t, days[5].Events, 2)
	assert.Equal(t, "Early", days[5].Events[0].Title)
	assert.Equal(t, "Design", days[5].Events[1].Title)
}
