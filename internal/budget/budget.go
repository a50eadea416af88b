package budget

import (
	"context"
	"sync"
	"time"
)

// Defaults for the tail window guaranteed to synthesis and the ceiling on any
// single external call.
const (
	DefaultReservedTail   = 15 * time.Second
	DefaultPerCallTimeout = 180 * time.Second
)

// Budget tracks elapsed wall-clock time against a total deadline and a
// reserved tail window. It is the only component that performs elapsed-time
// checks; everyone else asks it.
type Budget struct {
	start    time.Time
	deadline time.Time
	reserved time.Duration
	perCall  time.Duration
	now      func() time.Time

	mu         sync.Mutex
	phase      string
	phaseStart time.Time
}

// Option tweaks Budget construction; used by tests to inject a clock.
type Option func(*Budget)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(b *Budget) { b.now = now }
}

// New starts the budget clock. total is the hard wall for the whole request,
// reserved is the minimum window kept for synthesis, perCall caps any single
// external call.
func New(total, reserved, perCall time.Duration, opts ...Option) *Budget {
	b := &Budget{
		reserved: reserved,
		perCall:  perCall,
		now:      time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	if b.reserved <= 0 {
		b.reserved = DefaultReservedTail
	}
	if b.perCall <= 0 {
		b.perCall = DefaultPerCallTimeout
	}
	b.start = b.now()
	b.deadline = b.start.Add(total)
	return b
}

// Deadline returns the absolute wall for the request.
func (b *Budget) Deadline() time.Time { return b.deadline }

// Elapsed returns time since the budget started.
func (b *Budget) Elapsed() time.Duration { return b.now().Sub(b.start) }

// Remaining returns time until the deadline; never negative.
func (b *Budget) Remaining() time.Duration {
	d := b.deadline.Sub(b.now())
	if d < 0 {
		return 0
	}
	return d
}

// Exceeded reports whether the deadline has already passed.
func (b *Budget) Exceeded() bool { return !b.now().Before(b.deadline) }

// TailReached reports whether only the reserved tail (or less) remains. When
// true, the orchestrator must cut phases short and route to synthesis.
func (b *Budget) TailReached() bool { return b.Remaining() <= b.reserved }

// ReservedTail returns the configured tail window.
func (b *Budget) ReservedTail() time.Duration { return b.reserved }

// StartPhase records the phase the engine is entering. Only the orchestrator
// calls this; readers use Phase().
func (b *Budget) StartPhase(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.phase = name
	b.phaseStart = b.now()
}

// Phase returns the current phase name and how long it has been running.
func (b *Budget) Phase() (string, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.phase == "" {
		return "", 0
	}
	return b.phase, b.now().Sub(b.phaseStart)
}

// CallContext derives a context for one external capability call: the overall
// remaining budget minus the reserved tail, capped by the per-call ceiling.
// The caller must cancel the returned context.
func (b *Budget) CallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	window := b.Remaining() - b.reserved
	if window < 0 {
		window = 0
	}
	if window > b.perCall {
		window = b.perCall
	}
	return context.WithDeadline(ctx, b.now().Add(window))
}
