// Package pomodoro implements the Pomodoro session controller: a single
// countdown timer that cycles between work and break phases.
package pomodoro

import "fmt"

// Phase is which part of the Pomodoro cycle the session is in.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// Phases lists every phase in display order.
var Phases = []Phase{PhaseWork, PhaseShortBreak, PhaseLongBreak}

// Label returns the human-readable phase name.
func (p Phase) Label() string {
	switch p {
	case PhaseWork:
		return "Work"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return string(p)
	}
}

// IsBreak reports whether p is one of the break phases.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// ParsePhase accepts the canonical names plus a few common spellings.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "work", "focus":
		return PhaseWork, nil
	case "short_break", "short-break", "short", "shortBreak":
		return PhaseShortBreak, nil
	case "long_break", "long-break", "long", "longBreak":
		return PhaseLongBreak, nil
	}
	return "", fmt.Errorf("invalid phase %q (want work, short_break, long_break)", s)
}

// Status is whether the countdown is moving.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// Durations holds the length of each phase in seconds.
type Durations struct {
	Work       int
	ShortBreak int
	LongBreak  int
}

// DefaultDurations returns the classic 25/5/15 minute cycle.
func DefaultDurations() Durations {
	return Durations{
		Work:       25 * 60,
		ShortBreak: 5 * 60,
		LongBreak:  15 * 60,
	}
}

// DurationsFromMinutes builds Durations from whole minutes. Non-positive
// values fall back to the defaults.
func DurationsFromMinutes(work, short, long int) Durations {
	d := DefaultDurations()
	if work > 0 {
		d.Work = work * 60
	}
	if short > 0 {
		d.ShortBreak = short * 60
	}
	if long > 0 {
		d.LongBreak = long * 60
	}
	return d
}

// Of returns the duration of phase p in seconds.
func (d Durations) Of(p Phase) int {
	switch p {
	case PhaseShortBreak:
		return d.ShortBreak
	case PhaseLongBreak:
		return d.LongBreak
	default:
		return d.Work
	}
}

func (d Durations) valid() bool {
	return d.Work > 0 && d.ShortBreak > 0 && d.LongBreak > 0
}

// Session is a point-in-time view of the controller state.
type Session struct {
	Phase                 Phase  `json:"phase"`
	Status                Status `json:"status"`
	RemainingSeconds      int    `json:"remaining_seconds"`
	CompletedWorkSessions int    `json:"completed_work_sessions"`
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
