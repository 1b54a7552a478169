// Package circuitbreaker guards outbound calls so a dead dependency
// (the email relay, first of all) fails fast instead of stacking up
// timeouts. Stdlib only.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State of the breaker: closed lets calls through, open rejects them,
// half-open lets a probe through to test recovery.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

var (
	// ErrOpen is returned while the breaker rejects calls.
	ErrOpen = errors.New("circuit breaker is open")
	// ErrProbeInFlight is returned when the half-open probe slot is taken.
	ErrProbeInFlight = errors.New("circuit breaker probe already in flight")
)

// Config tunes when the breaker trips and recovers.
type Config struct {
	// Name shows up in state-change notifications.
	Name string

	// TripAfter consecutive failures open the circuit.
	TripAfter int

	// CloseAfter consecutive probe successes close it again.
	CloseAfter int

	// Cooldown is how long the circuit stays open before probing.
	Cooldown time.Duration

	// OnStateChange observes every transition.
	OnStateChange func(name string, from, to State)
}

// CircuitBreaker tracks consecutive failures behind a mutex.
type CircuitBreaker struct {
	cfg Config

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	openedAt    time.Time
	probeActive bool
}

// New creates a breaker, filling unset config fields with defaults.
func New(cfg Config) *CircuitBreaker {
	if cfg.TripAfter < 1 {
		cfg.TripAfter = 5
	}
	if cfg.CloseAfter < 1 {
		cfg.CloseAfter = 2
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &CircuitBreaker{cfg: cfg}
}

// Execute runs fn if the circuit allows it and records the outcome.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.admit(); err != nil {
		return err
	}
	err := fn(ctx)
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(cb.openedAt) < cb.cfg.Cooldown {
			return ErrOpen
		}
		cb.transition(StateHalfOpen)
		cb.probeActive = true
		return nil
	default: // StateHalfOpen
		if cb.probeActive {
			return ErrProbeInFlight
		}
		cb.probeActive = true
		return nil
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probeActive = false

	if err != nil {
		cb.failures++
		cb.successes = 0
		switch cb.state {
		case StateClosed:
			if cb.failures >= cb.cfg.TripAfter {
				cb.openedAt = time.Now()
				cb.transition(StateOpen)
			}
		case StateHalfOpen:
			// A failed probe re-opens immediately.
			cb.openedAt = time.Now()
			cb.transition(StateOpen)
		}
		return
	}

	cb.successes++
	cb.failures = 0
	if cb.state == StateHalfOpen && cb.successes >= cb.cfg.CloseAfter {
		cb.transition(StateClosed)
	}
}

func (cb *CircuitBreaker) transition(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.failures = 0
	cb.successes = 0
	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.cfg.Name, from, to)
	}
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EmailBreaker is tuned for the email transport: relays hiccup, so the
// circuit tolerates five consecutive failures and probes after half a
// minute; two clean probes close it.
func EmailBreaker(onStateChange func(name string, from, to State)) *CircuitBreaker {
	return New(Config{
		Name:          "email",
		TripAfter:     5,
		CloseAfter:    2,
		Cooldown:      30 * time.Second,
		OnStateChange: onStateChange,
	})
}
