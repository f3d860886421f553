package pipeline

import (
	"sync"
	"time"
)

// Scheduler abstracts timer creation so tests can drive virtual time.
// Schedule runs fn after d and returns a cancel function; cancelling after
// the timer fired is a no-op.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler is the real Scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Debouncer commits the most recent input value once the input stream has
// been quiet for the debounce window. A single timer is pending at any
// time: each input cancels and reschedules it. The window widens when the
// active marker count crosses the large-result threshold, trading
// responsiveness for fewer recomputes.
type Debouncer struct {
	sched     Scheduler
	window    time.Duration
	wide      time.Duration
	threshold int

	mu      sync.Mutex
	cancel  func()
	pending string
	gen     uint64
}

// NewDebouncer builds a Debouncer. window is the quiescence period, wide
// replaces it while activeCount exceeds threshold.
func NewDebouncer(sched Scheduler, window, wide time.Duration, threshold int) *Debouncer {
	return &Debouncer{sched: sched, window: window, wide: wide, threshold: threshold}
}

// Input registers a keystroke value. commit runs with the value after the
// stream quiesces; only the newest value ever commits.
func (d *Debouncer) Input(value string, activeCount int, commit func(string)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	d.pending = value
	// Cancelling a timer that already fired is a no-op, so each schedule
	// carries a generation token; a superseded callback sees a newer token
	// and drops out instead of committing.
	d.gen++
	gen := d.gen

	window := d.window
	if activeCount > d.threshold {
		window = d.wide
	}
	d.cancel = d.sched.Schedule(window, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		v := d.pending
		d.cancel = nil
		d.mu.Unlock()
		commit(v)
	})
}

// Cancel drops any pending commit.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
