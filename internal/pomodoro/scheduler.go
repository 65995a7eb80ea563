package pomodoro

import (
	"sync"
	"time"
)

// Scheduler arms recurring callbacks. The controller holds at most one
// armed Timer at a time.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Timer
}

// Timer is a handle to an armed recurring callback.
// After Stop returns no new fire is started; a call already in flight may
// still complete.
type Timer interface {
	Stop()
}

// Notifier displays a message to the user. Fire-and-forget.
type Notifier interface {
	Notify(title, body string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, body string)

// Notify calls f(title, body).
func (f NotifierFunc) Notify(title, body string) { f(title, body) }

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}

// TickerScheduler runs each armed callback on its own goroutine driven by
// a time.Ticker.
type TickerScheduler struct{}

// Every starts a goroutine calling fn once per interval until Stop.
func (TickerScheduler) Every(interval time.Duration, fn func()) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			// Stop may race with a ready tick; prefer done.
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
