// Package pomodorotest provides deterministic schedulers and notifiers for
// exercising pomodoro.Controller without real time passing.
package pomodorotest

import (
	"sync"
	"time"

	"github.com/joescharf/focus/internal/pomodoro"
)

// ManualScheduler fires armed callbacks only when Advance is called.
type ManualScheduler struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

// NewManualScheduler returns an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// ManualTimer is the handle returned by ManualScheduler.Every.
type ManualTimer struct {
	mu       sync.Mutex
	fn       func()
	interval time.Duration
	stopped  bool
}

// Stop cancels the timer.
func (t *ManualTimer) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// Stopped reports whether Stop has been called.
func (t *ManualTimer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Every records the callback.
func (s *ManualScheduler) Every(interval time.Duration, fn func()) pomodoro.Timer {
	t := &ManualTimer{fn: fn, interval: interval}
	s.mu.Lock()
	s.timers = append(s.timers, t)
	s.mu.Unlock()
	return t
}

// Active returns the number of timers that have not been stopped.
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.Stopped() {
			n++
		}
	}
	return n
}

// Armed returns the total number of timers ever armed.
func (s *ManualScheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Advance simulates n elapsed intervals, firing every live timer once per
// interval. Timers armed during a step start firing on the next step.
func (s *ManualScheduler) Advance(n int) {
	for i := 0; i < n; i++ {
		s.mu.Lock()
		live := make([]*ManualTimer, 0, len(s.timers))
		for _, t := range s.timers {
			if !t.Stopped() {
				live = append(live, t)
			}
		}
		s.mu.Unlock()

		for _, t := range live {
			if t.Stopped() {
				continue
			}
			t.fn()
		}
	}
}

// FireStale invokes every stopped timer's callback once, simulating a
// fire that raced with cancellation.
func (s *ManualScheduler) FireStale() {
	s.mu.Lock()
	stale := make([]*ManualTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if t.Stopped() {
			stale = append(stale, t)
		}
	}
	s.mu.Unlock()
	for _, t := range stale {
		t.fn()
	}
}

// Message is one captured notification.
type Message struct {
	Title string
	Body  string
}

// Recorder captures notifications.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Notify records the message.
func (r *Recorder) Notify(title, body string) {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Title: title, Body: body})
	r.mu.Unlock()
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
