package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/focus/internal/models"
	"github.com/joescharf/focus/internal/store"
)

func TestOpen_LoadsDemoData(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 9, 19, 12, 0, 0, 0, time.UTC)

	s, err := Open(ctx, now)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	list, err := s.ListTasks(ctx, store.TaskListFilter{})
	require.NoError(t, err)
	require.Len(t, list, len(taskSeeds))
	assert.Equal(t, "Design new landing page", list[0].Title)
	assert.Equal(t, "2024-09-20", list[0].DueDate.Format(models.DateLayout))

	completed, err := s.ListTasks(ctx, store.TaskListFilter{Status: models.TaskStatusCompleted})
	require.NoError(t, err)
	for _, task := range completed {
		assert.NotNil(t, task.CompletedAt)
		assert.Equal(t, task.PlannedSessions, task.CompletedSessions)
	}

	events, err := s.ListEvents(ctx, now.AddDate(0, 0, -1), now.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, events, len(eventSeeds))
	assert.Equal(t, "Team standup meeting", events[0].Title)
	assert.Equal(t, models.EventTypeMeeting, events[0].Type)
	assert.NotEmpty(t, events[0].TaskID)

	records, err := s.ListPomodoros(ctx, now.AddDate(0, 0, -7), now)
	require.NoError(t, err)
	total := 0
	for _, n := range workLog {
		total += n
	}
	assert.Len(t, records, total)
}

func TestOpen_FreshEachTime(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	a, err := Open(ctx, now)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	list, err := a.ListTasks(ctx, store.TaskListFilter{})
	require.NoError(t, err)
	require.NoError(t, a.DeleteTask(ctx, list[0].ID))

	b, err := Open(ctx, now)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	list, err = b.ListTasks(ctx, store.TaskListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, len(taskSeeds))
}
