// Package retry implements bounded retries with exponential backoff and
// jitter for outbound calls. Stdlib only.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// PermanentError marks an error that must not be retried, for example a
// malformed recipient address. Everything else is considered transient.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the retrier gives up immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err carries the no-retry marker.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// Config tunes the backoff schedule.
type Config struct {
	// Attempts counts the first try too. Values below 1 mean one try.
	Attempts int

	// BaseDelay is the wait before the first retry; each further retry
	// multiplies it by Multiplier, capped at MaxDelay.
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64

	// Jitter spreads each delay by ±(delay*Jitter) so parallel workers
	// do not retry in lockstep. 0 disables it.
	Jitter float64

	// OnRetry, when set, observes each retry before the sleep.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retrier runs operations under a fixed backoff schedule.
type Retrier struct {
	cfg Config
}

// New creates a Retrier, filling unset config fields with defaults.
func New(cfg Config) *Retrier {
	if cfg.Attempts < 1 {
		cfg.Attempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 2
	}
	return &Retrier{cfg: cfg}
}

// Do runs op until it succeeds, returns a permanent error, the attempt
// budget runs out, or ctx is cancelled. The last error wins.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return errors.Unwrap(err)
		}
		lastErr = err

		if attempt == r.cfg.Attempts {
			return lastErr
		}

		delay := r.delayFor(attempt)
		if r.cfg.OnRetry != nil {
			r.cfg.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delay):
		}
	}
}

func (r *Retrier) delayFor(attempt int) time.Duration {
	d := float64(r.cfg.BaseDelay) * math.Pow(r.cfg.Multiplier, float64(attempt-1))
	if d > float64(r.cfg.MaxDelay) {
		d = float64(r.cfg.MaxDelay)
	}
	if r.cfg.Jitter > 0 {
		d += d * r.cfg.Jitter * (rand.Float64()*2 - 1)
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// EmailRetrier is tuned for the email transport: three tries, half a
// second before the first retry, wide jitter so bulk invitation rounds
// do not slam a recovering relay all at once.
func EmailRetrier() *Retrier {
	return New(Config{
		Attempts:   3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2,
		Jitter:     0.2,
	})
}
