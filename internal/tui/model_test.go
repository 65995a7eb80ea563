package tui

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/focus/internal/pomodoro"
	"github.com/joescharf/focus/internal/pomodoro/pomodorotest"
)

func newTestModel(t *testing.T, opts Options) (Model, *pomodoro.Controller, *pomodorotest.ManualScheduler, *Bridge) {
	t.Helper()
	sched := pomodorotest.NewManualScheduler()
	bridge := NewBridge()
	c := pomodoro.New(
		pomodoro.WithScheduler(sched),
		pomodoro.WithNotifier(bridge),
		pomodoro.WithObserver(bridge.Observe),
		pomodoro.WithDurations(pomodoro.Durations{Work: 3, ShortBreak: 2, LongBreak: 4}),
	)
	t.Cleanup(c.Close)
	return New(c, bridge, opts), c, sched, bridge
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

// drain feeds every queued bridge message into the model.
func drain(t *testing.T, m Model, b *Bridge) Model {
	t.Helper()
	for {
		select {
		case msg := <-b.ch:
			m = update(t, m, msg)
		default:
			return m
		}
	}
}

func TestModel_InitialView(t *testing.T) {
	m, _, _, _ := newTestModel(t, Options{TaskTitle: "Design new landing page", DailyGoal: 12, TodayCount: 3})
	view := m.View()
	assert.Contains(t, view, "Pomodoro Timer")
	assert.Contains(t, view, "00:03")
	assert.Contains(t, view, "Ready")
	assert.Contains(t, view, "Today 3/12")
	assert.Contains(t, view, "Task: Design new landing page")
}

func TestModel_SpaceTogglesStartPause(t *testing.T) {
	m, c, sched, _ := newTestModel(t, Options{})

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, pomodoro.StatusRunning, c.Snapshot().Status)
	assert.Equal(t, 1, sched.Armed())
	assert.Contains(t, m.View(), "Running")

	m = update(t, m, runes("s"))
	assert.Equal(t, pomodoro.StatusPaused, c.Snapshot().Status)
	assert.Contains(t, m.View(), "Paused")
}

func TestModel_TicksReachViewThroughBridge(t *testing.T) {
	m, _, sched, bridge := newTestModel(t, Options{Alerts: true})

	m = update(t, m, runes("s"))
	sched.Advance(1)
	m = drain(t, m, bridge)
	assert.Equal(t, 2, m.Session().RemainingSeconds)
	assert.Contains(t, m.View(), "00:02")

	sched.Advance(2)
	m = drain(t, m, bridge)
	assert.Equal(t, pomodoro.PhaseShortBreak, m.Session().Phase)
	assert.Equal(t, 1, m.Session().CompletedWorkSessions)
	assert.Contains(t, m.View(), "Work session completed!")
}

func TestModel_AlertsHiddenButBellRings(t *testing.T) {
	var bell bytes.Buffer
	m, _, sched, bridge := newTestModel(t, Options{Bell: &bell})

	m = update(t, m, runes("s"))
	sched.Advance(3)
	m = drain(t, m, bridge)

	assert.NotContains(t, m.View(), "Work session completed!")
	assert.Equal(t, "\a", bell.String())
}

func TestModel_TodayCountsNewSessions(t *testing.T) {
	m, _, sched, bridge := newTestModel(t, Options{DailyGoal: 12, TodayCount: 5})

	m = update(t, m, runes("s"))
	sched.Advance(3)
	m = drain(t, m, bridge)
	assert.Contains(t, m.View(), "Today 6/12")
}

func TestModel_PhaseKeys(t *testing.T) {
	m, c, _, _ := newTestModel(t, Options{})

	m = update(t, m, runes("3"))
	assert.Equal(t, pomodoro.PhaseLongBreak, c.Snapshot().Phase)
	assert.Equal(t, 4, m.Session().RemainingSeconds)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, pomodoro.PhaseWork, c.Snapshot().Phase)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, pomodoro.PhaseShortBreak, m.Session().Phase)

	m = update(t, m, runes("1"))
	assert.Equal(t, pomodoro.PhaseWork, m.Session().Phase)
}

func TestModel_Reset(t *testing.T) {
	m, c, sched, bridge := newTestModel(t, Options{})

	m = update(t, m, runes("s"))
	sched.Advance(1)
	m = drain(t, m, bridge)
	m = update(t, m, runes("r"))

	assert.Equal(t, pomodoro.StatusIdle, c.Snapshot().Status)
	assert.Equal(t, 3, m.Session().RemainingSeconds)
}

func TestModel_Quit(t *testing.T) {
	m, _, _, _ := newTestModel(t, Options{})

	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestModel_ErrorShown(t *testing.T) {
	m, _, _, _ := newTestModel(t, Options{})
	m = update(t, m, errMsg{err: errors.New("record session: disk full")})
	assert.Contains(t, m.View(), "record session: disk full")
}

func TestModel_WindowResize(t *testing.T) {
	m, _, _, _ := newTestModel(t, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})
	assert.Equal(t, 28, m.bars[pomodoro.PhaseWork].Width)
}

func TestBridge_DropsWhenFull(t *testing.T) {
	b := NewBridge()
	for i := 0; i < cap(b.ch)+5; i++ {
		b.Observe(pomodoro.Session{RemainingSeconds: i})
	}
	assert.Len(t, b.ch, cap(b.ch))
}
