package circuit

import (
	"sync"
	"time"
)

// BreakerState represents the circuit breaker state
type BreakerState string

const (
	StateClosed   BreakerState = "closed"    // Normal operation
	StateOpen     BreakerState = "open"      // Venue calls halted
	StateHalfOpen BreakerState = "half_open" // Testing recovery with a single probe
)

// Config holds error-window breaker configuration. The breaker trips when
// MaxErrors transport failures land inside a sliding Window, and stays open
// for one full Window after the trip.
type Config struct {
	Enabled   bool          `json:"enabled"`
	MaxErrors int           `json:"max_errors"`
	Window    time.Duration `json:"window"`
}

// DefaultConfig returns safe defaults
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		MaxErrors: 5,
		Window:    2 * time.Minute,
	}
}

// WindowConfig builds a breaker config from the operator's error-window
// knobs. Non-positive values keep the corresponding default.
func WindowConfig(maxErrors, windowSeconds int) *Config {
	cfg := DefaultConfig()
	if maxErrors > 0 {
		cfg.MaxErrors = maxErrors
	}
	if windowSeconds > 0 {
		cfg.Window = time.Duration(windowSeconds) * time.Second
	}
	return cfg
}

// ErrorWindowBreaker guards the venue client against hammering a failing API.
type ErrorWindowBreaker struct {
	config    *Config
	state     BreakerState
	failures  []time.Time
	trippedAt time.Time
	probing   bool
	mu        sync.Mutex
	onTrip    func(reason string)
	onReset   func()
	now       func() time.Time
}

// NewErrorWindowBreaker creates a new breaker
func NewErrorWindowBreaker(config *Config) *ErrorWindowBreaker {
	if config == nil {
		config = DefaultConfig()
	}
	return &ErrorWindowBreaker{
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
}

// OnTrip sets callback for when the breaker trips
func (b *ErrorWindowBreaker) OnTrip(handler func(reason string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onTrip = handler
}

// OnReset sets callback for when the breaker closes again
func (b *ErrorWindowBreaker) OnReset(handler func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onReset = handler
}

// Allow reports whether a venue call may proceed. While open it returns
// false until a full window has passed, then admits a single probe.
func (b *ErrorWindowBreaker) Allow() (bool, string) {
	if !b.config.Enabled {
		return true, ""
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true, ""
	case StateOpen:
		if b.now().Sub(b.trippedAt) < b.config.Window {
			return false, "error window exceeded, cooling down"
		}
		b.state = StateHalfOpen
		b.probing = true
		return true, ""
	case StateHalfOpen:
		if b.probing {
			return false, "recovery probe in flight"
		}
		b.probing = true
		return true, ""
	}
	return true, ""
}

// RecordSuccess closes the breaker after a successful probe and discards
// stale failures during normal operation.
func (b *ErrorWindowBreaker) RecordSuccess() {
	if !b.config.Enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	if b.state == StateHalfOpen {
		b.state = StateClosed
		b.failures = nil
		if b.onReset != nil {
			go b.onReset()
		}
		return
	}
	b.trimLocked()
}

// RecordFailure registers a transport failure and trips the breaker when
// the window fills up.
func (b *ErrorWindowBreaker) RecordFailure() {
	if !b.config.Enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.probing = false

	if b.state == StateHalfOpen {
		// Probe failed, re-open for another full window.
		b.state = StateOpen
		b.trippedAt = now
		return
	}

	b.failures = append(b.failures, now)
	b.trimLocked()

	if b.state == StateClosed && len(b.failures) >= b.config.MaxErrors {
		b.state = StateOpen
		b.trippedAt = now
		b.failures = nil
		if b.onTrip != nil {
			go b.onTrip("too many venue errors in window")
		}
	}
}

// State returns the current breaker state
func (b *ErrorWindowBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *ErrorWindowBreaker) trimLocked() {
	cutoff := b.now().Add(-b.config.Window)
	i := 0
	for i < len(b.failures) && b.failures[i].Before(cutoff) {
		i++
	}
	b.failures = b.failures[i:]
}
