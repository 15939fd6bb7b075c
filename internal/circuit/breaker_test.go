package circuit

import (
	"testing"
	"time"
)

// fakeClock drives the breaker's injected clock.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(maxErrors int, window time.Duration) (*ErrorWindowBreaker, *fakeClock) {
	b := NewErrorWindowBreaker(&Config{Enabled: true, MaxErrors: maxErrors, Window: window})
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	b.now = clock.now
	return b, clock
}

func TestBreakerTripsAtThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	for i := 0; i < 2; i++ {
		b.RecordFailure()
		if b.State() != StateClosed {
			t.Fatalf("state after %d failures = %s, want closed", i+1, b.State())
		}
	}

	b.RecordFailure()
	if b.State() != StateOpen {
		t.Errorf("state after threshold = %s, want open", b.State())
	}
	if ok, reason := b.Allow(); ok || reason == "" {
		t.Errorf("open breaker allowed a call (reason %q)", reason)
	}
}

func TestBreakerSlidingWindowForgets(t *testing.T) {
	b, clock := newTestBreaker(3, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	clock.advance(2 * time.Minute)

	// Earlier failures fell out of the window; this one starts a fresh count.
	b.RecordFailure()
	if b.State() != StateClosed {
		t.Errorf("state = %s, stale failures should not count toward the trip", b.State())
	}
}

func TestBreakerHalfOpenProbeSuccess(t *testing.T) {
	b, clock := newTestBreaker(2, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	if b.State() != StateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}

	clock.advance(61 * time.Second)

	ok, _ := b.Allow()
	if !ok {
		t.Fatal("cooled-down breaker should admit one probe")
	}
	if b.State() != StateHalfOpen {
		t.Errorf("state = %s, want half_open", b.State())
	}
	if ok, _ := b.Allow(); ok {
		t.Error("a second call must wait while the probe is in flight")
	}

	b.RecordSuccess()
	if b.State() != StateClosed {
		t.Errorf("state after successful probe = %s, want closed", b.State())
	}
	if ok, _ := b.Allow(); !ok {
		t.Error("closed breaker should allow calls")
	}
}

func TestBreakerHalfOpenProbeFailure(t *testing.T) {
	b, clock := newTestBreaker(2, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	clock.advance(61 * time.Second)
	if ok, _ := b.Allow(); !ok {
		t.Fatal("probe should be admitted")
	}

	b.RecordFailure()
	if b.State() != StateOpen {
		t.Errorf("state after failed probe = %s, want open for a full window", b.State())
	}
	if ok, _ := b.Allow(); ok {
		t.Error("freshly re-opened breaker must refuse calls")
	}

	clock.advance(61 * time.Second)
	if ok, _ := b.Allow(); !ok {
		t.Error("breaker should admit another probe after the second window")
	}
}

func TestBreakerCallbacks(t *testing.T) {
	b, clock := newTestBreaker(1, time.Minute)

	tripped := make(chan string, 1)
	reset := make(chan struct{}, 1)
	b.OnTrip(func(reason string) { tripped <- reason })
	b.OnReset(func() { reset <- struct{}{} })

	b.RecordFailure()
	select {
	case reason := <-tripped:
		if reason == "" {
			t.Error("trip reason should not be empty")
		}
	case <-time.After(time.Second):
		t.Fatal("OnTrip callback never fired")
	}

	clock.advance(61 * time.Second)
	b.Allow()
	b.RecordSuccess()
	select {
	case <-reset:
	case <-time.After(time.Second):
		t.Fatal("OnReset callback never fired")
	}
}

func TestBreakerDisabled(t *testing.T) {
	b := NewErrorWindowBreaker(&Config{Enabled: false, MaxErrors: 1, Window: time.Minute})

	b.RecordFailure()
	b.RecordFailure()
	if ok, _ := b.Allow(); !ok {
		t.Error("disabled breaker must always allow")
	}
	if b.State() != StateClosed {
		t.Errorf("disabled breaker state = %s, want closed", b.State())
	}
}

func TestWindowConfigFromOperatorKnobs(t *testing.T) {
	cfg := WindowConfig(8, 300)
	if !cfg.Enabled {
		t.Error("window config should keep the breaker enabled")
	}
	if cfg.MaxErrors != 8 {
		t.Errorf("max errors = %d, want 8", cfg.MaxErrors)
	}
	if cfg.Window != 5*time.Minute {
		t.Errorf("window = %s, want 5m", cfg.Window)
	}

	// Non-positive knobs keep the defaults rather than disabling the window.
	cfg = WindowConfig(0, -1)
	if cfg.MaxErrors != 5 || cfg.Window != 2*time.Minute {
		t.Errorf("fallback config = %+v, want the defaults", cfg)
	}
}

func TestBreakerHonorsConfiguredWindow(t *testing.T) {
	b := NewErrorWindowBreaker(WindowConfig(2, 300))
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	b.now = clock.now

	b.RecordFailure()
	b.RecordFailure()
	if b.State() != StateOpen {
		t.Fatalf("state = %s, want open at the configured threshold", b.State())
	}

	// The default two-minute window has passed, the configured five-minute
	// one has not.
	clock.advance(3 * time.Minute)
	if ok, _ := b.Allow(); ok {
		t.Error("breaker must stay open for the configured window")
	}
	clock.advance(3 * time.Minute)
	if ok, _ := b.Allow(); !ok {
		t.Error("breaker should admit a probe after the configured window")
	}
}

func TestBreakerNilConfigDefaults(t *testing.T) {
	b := NewErrorWindowBreaker(nil)
	if !b.config.Enabled || b.config.MaxErrors != 5 || b.config.Window != 2*time.Minute {
		t.Errorf("nil config should take defaults, got %+v", b.config)
	}
}
