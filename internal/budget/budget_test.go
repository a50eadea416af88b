package budget

import (
	"context"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeBudget(total, reserved, perCall time.Duration) (*Budget, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(total, reserved, perCall, WithClock(clk.now)), clk
}

func TestRemainingAndElapsed(t *testing.T) {
	b, clk := newFakeBudget(time.Minute, 10*time.Second, 30*time.Second)
	if got := b.Remaining(); got != time.Minute {
		t.Fatalf("remaining: %v", got)
	}
	clk.advance(40 * time.Second)
	if got := b.Elapsed(); got != 40*time.Second {
		t.Fatalf("elapsed: %v", got)
	}
	if got := b.Remaining(); got != 20*time.Second {
		t.Fatalf("remaining: %v", got)
	}
	clk.advance(2 * time.Minute)
	if got := b.Remaining(); got != 0 {
		t.Fatalf("remaining past deadline must clamp to zero, got %v", got)
	}
}

func TestTailReached(t *testing.T) {
	b, clk := newFakeBudget(time.Minute, 10*time.Second, 30*time.Second)
	if b.TailReached() {
		t.Fatalf("tail reached at start")
	}
	clk.advance(49 * time.Second)
	if b.TailReached() {
		t.Fatalf("tail reached with 11s remaining")
	}
	clk.advance(time.Second)
	if !b.TailReached() {
		t.Fatalf("tail not reached with exactly the reserved window left")
	}
}

func TestExceeded(t *testing.T) {
	b, clk := newFakeBudget(time.Minute, 10*time.Second, 30*time.Second)
	if b.Exceeded() {
		t.Fatalf("exceeded at start")
	}
	clk.advance(time.Minute)
	if !b.Exceeded() {
		t.Fatalf("not exceeded at the deadline")
	}
}

func TestCallContextWindow(t *testing.T) {
	b, clk := newFakeBudget(time.Minute, 10*time.Second, 30*time.Second)

	// Early on, the per-call ceiling binds.
	ctx, cancel := b.CallContext(context.Background())
	dl, ok := ctx.Deadline()
	cancel()
	if !ok {
		t.Fatalf("no deadline on call context")
	}
	if want := clk.t.Add(30 * time.Second); !dl.Equal(want) {
		t.Fatalf("deadline: got %v want %v", dl, want)
	}

	// Near the end, the remaining budget minus the tail binds.
	clk.advance(45 * time.Second) // 15s remaining, 10s reserved
	ctx, cancel = b.CallContext(context.Background())
	dl, _ = ctx.Deadline()
	cancel()
	if want := clk.t.Add(5 * time.Second); !dl.Equal(want) {
		t.Fatalf("deadline: got %v want %v", dl, want)
	}

	// Inside the tail, the window collapses to zero.
	clk.advance(10 * time.Second)
	ctx, cancel = b.CallContext(context.Background())
	defer cancel()
	dl, _ = ctx.Deadline()
	if !dl.Equal(clk.t) {
		t.Fatalf("deadline: got %v want %v", dl, clk.t)
	}
}

func TestDefaultsApplied(t *testing.T) {
	b := New(time.Minute, 0, 0)
	if b.ReservedTail() != DefaultReservedTail {
		t.Fatalf("reserved tail: %v", b.ReservedTail())
	}
}

func TestPhaseTracking(t *testing.T) {
	b, clk := newFakeBudget(time.Minute, 10*time.Second, 30*time.Second)
	b.StartPhase("opening")
	clk.advance(3 * time.Second)
	name, dur := b.Phase()
	if name != "opening" || dur != 3*time.Second {
		t.Fatalf("phase: %q %v", name, dur)
	}
}
