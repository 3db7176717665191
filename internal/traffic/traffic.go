// Package traffic keeps a sliding window of page server submission outcomes for
// the health check.
package traffic

import (
	"sync"
	"time"
)

// Outcome is what became of one submission.
type Outcome int

const (
	// Success means the provider answered and the display was filled.
	Success Outcome = iota
	// Failure means the provider fetch failed (transport, decode or error body).
	Failure
	// Denied means the rate limiter rejected the submission before it ran.
	Denied
)

// maxAge bounds how long outcomes are retained, whatever window is queried.
const maxAge = 5 * time.Minute

// Counts are the outcomes seen within a window.
type Counts struct {
	Successes int
	Failures  int
	Denials   int
}

// Total counts every outcome, denials included.
func (c Counts) Total() int { return c.Successes + c.Failures + c.Denials }

// FailurePct is failures as a percentage of submissions that reached the
// provider. Zero when none did.
func (c Counts) FailurePct() float64 {
	ran := c.Successes + c.Failures
	if ran == 0 {
		return 0
	}
	return float64(c.Failures) * 100 / float64(ran)
}

// DenialPct is denials as a percentage of all outcomes.
func (c Counts) DenialPct() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.Denials) * 100 / float64(c.Total())
}

type event struct {
	at      time.Time
	outcome Outcome
}

// Tracker records outcomes in arrival order.
type Tracker struct {
	mu     sync.Mutex
	events []event
	now    func() time.Time
}

// NewTracker returns an empty tracker on the wall clock.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

func (t *Tracker) clock() time.Time {
	if t.now == nil {
		return time.Now()
	}
	return t.now()
}

// Record appends an outcome stamped now.
func (t *Tracker) Record(o Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock()
	t.events = append(t.events, event{at: now, outcome: o})
	t.pruneLocked(now)
}

// Window counts the outcomes recorded within the last d.
func (t *Tracker) Window(d time.Duration) Counts {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.clock().Add(-d)
	var c Counts
	for i := len(t.events) - 1; i >= 0 && !t.events[i].at.Before(cutoff); i-- {
		switch t.events[i].outcome {
		case Success:
			c.Successes++
		case Failure:
			c.Failures++
		case Denied:
			c.Denials++
		}
	}
	return c
}

// Reset drops every recorded outcome.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.events = nil
	t.mu.Unlock()
}

// pruneLocked drops events older than maxAge. Events are in time order.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-maxAge)
	i := 0
	for i < len(t.events) && t.events[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		t.events = append(t.events[:0], t.events[i:]...)
	}
}

var defaultTracker = NewTracker()

// Record records an outcome on the process-wide tracker.
func Record(o Outcome) { defaultTracker.Record(o) }

// Window counts outcomes on the process-wide tracker.
func Window(d time.Duration) Counts { return defaultTracker.Window(d) }

// Reset clears the process-wide tracker. For tests only.
func Reset() { defaultTracker.Reset() }
