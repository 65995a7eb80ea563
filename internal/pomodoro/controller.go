package pomodoro

import (
	"sync"
	"time"
)

// DefaultLongBreakInterval is how many work sessions earn a long break.
const DefaultLongBreakInterval = 4

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Completion describes a phase that ran down to zero.
type Completion struct {
	Phase                 Phase
	Next                  Phase
	CompletedWorkSessions int
	DurationSeconds       int
	At                    time.Time
}

// Controller owns one Session. All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	sched           Scheduler
	notifier        Notifier
	durations       Durations
	longEvery       int
	autoStartBreaks bool
	observer        func(Session)
	onComplete      func(Completion)
	now             func() time.Time

	phase     Phase
	status    Status
	remaining int
	completed int

	timer  Timer
	gen    uint64
	closed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets the tick source. Defaults to TickerScheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithNotifier sets where completion messages go.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithDurations overrides the phase lengths. Invalid values are ignored.
func WithDurations(d Durations) Option {
	return func(c *Controller) {
		if d.valid() {
			c.durations = d
		}
	}
}

// WithLongBreakInterval sets how many work sessions earn a long break.
func WithLongBreakInterval(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.longEvery = n
		}
	}
}

// WithAutoStartBreaks starts the break countdown as soon as a work
// session completes.
func WithAutoStartBreaks(on bool) Option {
	return func(c *Controller) { c.autoStartBreaks = on }
}

// WithObserver registers a callback invoked with the new state after
// every change. It runs outside the controller lock.
func WithObserver(fn func(Session)) Option {
	return func(c *Controller) { c.observer = fn }
}

// WithCompletionHook registers a callback for every natural phase
// completion. It runs outside the controller lock.
func WithCompletionHook(fn func(Completion)) Option {
	return func(c *Controller) { c.onComplete = fn }
}

// WithClock overrides time.Now for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a controller in the work phase, idle, with a full countdown.
func New(opts ...Option) *Controller {
	c := &Controller{
		sched:     TickerScheduler{},
		notifier:  nopNotifier{},
		durations: DefaultDurations(),
		longEvery: DefaultLongBreakInterval,
		now:       time.Now,
		phase:     PhaseWork,
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.remaining = c.durations.Of(c.phase)
	return c
}

// effects are side effects computed under the lock and run after it is
// released, so callbacks may call back into the controller.
type effects struct {
	stop  Timer
	snap  Session
	title string
	body  string
	done  *Completion
}

func (c *Controller) run(e effects) {
	if e.stop != nil {
		e.stop.Stop()
	}
	if e.title != "" {
		c.notifier.Notify(e.title, e.body)
	}
	if e.done != nil && c.onComplete != nil {
		c.onComplete(*e.done)
	}
	if c.observer != nil {
		c.observer(e.snap)
	}
}

// Start begins or resumes the countdown. It is a no-op when already running.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.closed || c.status == StatusRunning {
		c.mu.Unlock()
		return
	}
	c.status = StatusRunning
	c.arm()
	e := effects{snap: c.snapshot()}
	c.mu.Unlock()
	c.run(e)
}

// Pause stops the countdown, keeping the remaining time. It is a no-op
// unless running.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.closed || c.status != StatusRunning {
		c.mu.Unlock()
		return
	}
	c.status = StatusPaused
	e := effects{stop: c.disarm()}
	e.snap = c.snapshot()
	c.mu.Unlock()
	c.run(e)
}

// Reset stops the countdown and refills the current phase.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	e := effects{stop: c.disarm()}
	c.status = StatusIdle
	c.remaining = c.durations.Of(c.phase)
	e.snap = c.snapshot()
	c.mu.Unlock()
	c.run(e)
}

// SwitchPhase resets the countdown into target. The work session counter
// is untouched.
func (c *Controller) SwitchPhase(target Phase) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	e := effects{stop: c.disarm()}
	c.status = StatusIdle
	c.phase = target
	c.remaining = c.durations.Of(target)
	e.snap = c.snapshot()
	c.mu.Unlock()
	c.run(e)
}

// Tick applies one elapsed second. It is ignored unless running.
func (c *Controller) Tick() {
	c.mu.Lock()
	c.tickLocked()
}

// tickGen is the scheduler callback; fires from a cancelled timer are
// dropped.
func (c *Controller) tickGen(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.tickLocked()
}

// tickLocked must be called with c.mu held; it releases it.
func (c *Controller) tickLocked() {
	if c.closed || c.status != StatusRunning {
		c.mu.Unlock()
		return
	}

	if c.remaining > 1 {
		c.remaining--
		e := effects{snap: c.snapshot()}
		c.mu.Unlock()
		c.run(e)
		return
	}

	e := effects{stop: c.disarm()}
	c.remaining = 0
	c.status = StatusIdle

	finished := c.phase
	done := &Completion{
		Phase:           finished,
		DurationSeconds: c.durations.Of(finished),
		At:              c.now(),
	}

	if finished == PhaseWork {
		c.completed++
		next := PhaseShortBreak
		if c.completed%c.longEvery == 0 {
			next = PhaseLongBreak
		}
		c.phase = next
		c.remaining = c.durations.Of(next)

		e.title = "Work session completed!"
		if next == PhaseLongBreak {
			e.body = "Time for a long break."
		} else {
			e.body = "Time for a short break."
		}

		if c.autoStartBreaks {
			c.status = StatusRunning
			c.arm()
		}
	} else {
		c.phase = PhaseWork
		c.remaining = c.durations.Of(PhaseWork)
		e.title = "Break finished!"
		e.body = "Ready for the next work session?"
	}

	done.Next = c.phase
	done.CompletedWorkSessions = c.completed
	e.done = done
	e.snap = c.snapshot()
	c.mu.Unlock()
	c.run(e)
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// ProgressPercent is how much of the current phase has elapsed, 0-100.
func (c *Controller) ProgressPercent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Progress(c.durations.Of(c.phase), c.remaining)
}

// Progress returns the elapsed share of a countdown of total seconds with
// remaining seconds left, as a percentage.
func Progress(total, remaining int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(total-remaining) / float64(total)
}

// Durations returns the configured phase lengths.
func (c *Controller) Durations() Durations {
	return c.durations
}

// Close cancels any armed timer. The controller ignores all calls after.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	t := c.disarm()
	c.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}

func (c *Controller) snapshot() Session {
	return Session{
		Phase:                 c.phase,
		Status:                c.status,
		RemainingSeconds:      c.remaining,
		CompletedWorkSessions: c.completed,
	}
}

// arm replaces any existing timer with a fresh one. The old timer, if
// any, is stopped inline; callers only arm from a state without one.
func (c *Controller) arm() {
	if old := c.disarm(); old != nil {
		old.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = c.sched.Every(TickInterval, func() { c.tickGen(gen) })
}

// disarm invalidates the current timer generation and hands back the
// timer for the caller to stop once the lock is released.
func (c *Controller) disarm() Timer {
	c.gen++
	t := c.timer
	c.timer = nil
	return t
}
