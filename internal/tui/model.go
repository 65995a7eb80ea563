// Package tui is the interactive Bubble Tea front end for the Pomodoro
// timer.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joescharf/focus/internal/pomodoro"
)

// Timer is the part of the controller the model drives.
type Timer interface {
	Start()
	Pause()
	Reset()
	SwitchPhase(pomodoro.Phase)
	Snapshot() pomodoro.Session
	ProgressPercent() float64
}

type sessionMsg pomodoro.Session

type alertMsg struct{ title, body string }

type errMsg struct{ err error }

// Bridge carries controller callbacks into the Bubble Tea loop. Wire
// Observe into pomodoro.WithObserver and the Bridge itself as the
// Notifier. Sends never block the controller; a full buffer drops the
// message and the next one carries the latest state.
type Bridge struct {
	ch chan tea.Msg
}

// NewBridge creates a Bridge with a small buffer.
func NewBridge() *Bridge {
	return &Bridge{ch: make(chan tea.Msg, 32)}
}

// Observe forwards a session snapshot.
func (b *Bridge) Observe(s pomodoro.Session) { b.send(sessionMsg(s)) }

// Notify implements pomodoro.Notifier.
func (b *Bridge) Notify(title, body string) { b.send(alertMsg{title: title, body: body}) }

// Error forwards a background error, such as a failed session record.
func (b *Bridge) Error(err error) { b.send(errMsg{err: err}) }

func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}

func (b *Bridge) wait() tea.Cmd {
	return func() tea.Msg { return <-b.ch }
}

// Options are display settings for the model.
type Options struct {
	TaskTitle  string
	TodayCount int // work sessions already logged today
	DailyGoal  int
	Alerts     bool      // show completion messages
	Bell       io.Writer // receives a BEL on each alert; nil for silence
}

// Model is the timer screen.
type Model struct {
	timer  Timer
	bridge *Bridge
	opts   Options

	keys  KeyMap
	help  help.Model
	bars  map[pomodoro.Phase]progress.Model
	width int

	session  pomodoro.Session
	baseline int
	alert    string
	err      error
	quitting bool
}

// New creates the model. The controller should already be wired to bridge.
func New(t Timer, bridge *Bridge, opts Options) Model {
	bars := make(map[pomodoro.Phase]progress.Model, len(pomodoro.Phases))
	for _, p := range pomodoro.Phases {
		bar := progress.New(progress.WithSolidFill(string(phaseColor(string(p)))), progress.WithoutPercentage())
		bar.Width = 40
		bars[p] = bar
	}
	s := t.Snapshot()
	return Model{
		timer:    t,
		bridge:   bridge,
		opts:     opts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		bars:     bars,
		session:  s,
		baseline: s.CompletedWorkSessions,
	}
}

// Init starts listening for controller updates.
func (m Model) Init() tea.Cmd {
	return m.bridge.wait()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 12
		if w > 60 {
			w = 60
		}
		if w < 10 {
			w = 10
		}
		for p, bar := range m.bars {
			bar.Width = w
			m.bars[p] = bar
		}
		m.help.Width = msg.Width
		return m, nil

	case sessionMsg:
		m.session = pomodoro.Session(msg)
		return m, m.bridge.wait()

	case alertMsg:
		if m.opts.Alerts {
			m.alert = msg.title + " " + msg.body
		}
		if m.opts.Bell != nil {
			fmt.Fprint(m.opts.Bell, "\a")
		}
		return m, m.bridge.wait()

	case errMsg:
		m.err = msg.err
		return m, m.bridge.wait()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		if m.timer.Snapshot().Status == pomodoro.StatusRunning {
			m.timer.Pause()
		} else {
			m.alert = ""
			m.timer.Start()
		}
	case key.Matches(msg, m.keys.Reset):
		m.timer.Reset()
	case key.Matches(msg, m.keys.Work):
		m.timer.SwitchPhase(pomodoro.PhaseWork)
	case key.Matches(msg, m.keys.ShortBreak):
		m.timer.SwitchPhase(pomodoro.PhaseShortBreak)
	case key.Matches(msg, m.keys.LongBreak):
		m.timer.SwitchPhase(pomodoro.PhaseLongBreak)
	case key.Matches(msg, m.keys.NextPhase):
		m.timer.SwitchPhase(nextPhase(m.timer.Snapshot().Phase))
	default:
		return m, nil
	}
	m.session = m.timer.Snapshot()
	return m, nil
}

func nextPhase(p pomodoro.Phase) pomodoro.Phase {
	for i, q := range pomodoro.Phases {
		if q == p {
			return pomodoro.Phases[(i+1)%len(pomodoro.Phases)]
		}
	}
	return pomodoro.PhaseWork
}

// Session returns the last snapshot the model rendered.
func (m Model) Session() pomodoro.Session { return m.session }

// View renders the timer screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.session
	color := phaseColor(string(s.Phase))

	var tabs []string
	for _, p := range pomodoro.Phases {
		if p == s.Phase {
			tabs = append(tabs, ActiveTabStyle.Foreground(color).Render(p.Label()))
		} else {
			tabs = append(tabs, TabStyle.Render(p.Label()))
		}
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Pomodoro Timer"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(ClockStyle.Foreground(color).Render(pomodoro.FormatClock(s.RemainingSeconds)))
	b.WriteString("\n")
	b.WriteString(m.bars[s.Phase].ViewAs(m.timer.ProgressPercent() / 100))
	b.WriteString("\n\n")
	b.WriteString(StatusStyle.Render(m.statusLine()))
	if m.opts.TaskTitle != "" {
		b.WriteString("\n")
		b.WriteString(TaskStyle.Render("Task: " + m.opts.TaskTitle))
	}
	if m.alert != "" {
		b.WriteString("\n\n")
		b.WriteString(AlertStyle.Render("✓ " + m.alert))
	}
	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(ErrorStyle.Render("⚠ " + m.err.Error()))
	}

	return FrameStyle.Render(b.String()) + "\n" + m.help.View(m.keys) + "\n"
}

func (m Model) statusLine() string {
	s := m.session
	var state string
	switch s.Status {
	case pomodoro.StatusRunning:
		state = "Running"
	case pomodoro.StatusPaused:
		state = "Paused"
	default:
		state = "Ready"
	}
	line := fmt.Sprintf("%s · Completed %d", state, s.CompletedWorkSessions)
	if m.opts.DailyGoal > 0 {
		today := m.opts.TodayCount + s.CompletedWorkSessions - m.baseline
		line += fmt.Sprintf(" · Today %d/%d", today, m.opts.DailyGoal)
	}
	return line
}
