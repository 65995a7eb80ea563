package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetCalendarFlags(t *testing.T) {
	t.Helper()
	calView, calDate = "week", ""
	calPrev, calNext = false, false
}

func TestCalendar_Week(t *testing.T) {
	_, out := testEnv(t)
	resetCalendarFlags(t)

	require.NoError(t, calendarRun())
	s := out.String()
	assert.Contains(t, s, "September 15 – 21, 2024")
	assert.Contains(t, s, "Thu Sep 19")
	assert.Contains(t, s, "10:00-10:30  Team standup meeting")
	assert.Contains(t, s, "[meeting]")
	assert.Contains(t, s, "09:00-11:00  Design new landing page")
	assert.Contains(t, s, "Coffee break")
	assert.NotContains(t, s, "Write blog post")
}

func TestCalendar_NextWeek(t *testing.T) {
	_, out := testEnv(t)
	resetCalendarFlags(t)
	calNext = true

	require.NoError(t, calendarRun())
	assert.Contains(t, out.String(), "September 22 – 28, 2024")
	assert.Contains(t, out.String(), "14:00-16:00  Write blog post")
	assert.NotContains(t, out.String(), "Team standup meeting")
}

func TestCalendar_Day(t *testing.T) {
	_, out := testEnv(t)
	resetCalendarFlags(t)
	calView = "day"
	calDate = "2024-09-21"

	require.NoError(t, calendarRun())
	assert.Contains(t, out.String(), "Coffee break")
	assert.Contains(t, out.String(), "[break]")
	assert.NotContains(t, out.String(), "Team standup meeting")
}

func TestCalendar_EmptyMonth(t *testing.T) {
	_, out := testEnv(t)
	resetCalendarFlags(t)
	calView = "month"
	calDate = "2024-07-04"

	require.NoError(t, calendarRun())
	assert.Contains(t, out.String(), "July 2024")
	assert.Contains(t, out.String(), "No events this month")
}

func TestCalendar_InvalidFlags(t *testing.T) {
	testEnv(t)

	resetCalendarFlags(t)
	calView = "year"
	assert.Error(t, calendarRun())

	resetCalendarFlags(t)
	calDate = "19/09/2024"
	assert.Error(t, calendarRun())
}
