package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
	"github.com/cmis-hub/cmis-engagement-hub/pkg/retry"
)

// Dispatcher routes bus events to named handlers with middleware,
// retry, and a dead letter ring. Почтовые потоки живут на нём: дрожащий
// транспорт ретраится, а приглашение, письмо которого так и не ушло,
// оседает в DLQ вместо того чтобы потеряться.
type Dispatcher struct {
	bus      shared.EventBus
	mu       sync.RWMutex
	routes   map[shared.EventType][]route
	chain    []Middleware
	retrier  *retry.Retrier
	deadRing *DeadLetterRing
	log      *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	slots    chan struct{}
}

// route binds one named handler to an event type.
type route struct {
	name    string
	handler shared.EventHandler
	sync    bool
	timeout time.Duration
}

// Middleware wraps handler execution.
type Middleware func(shared.EventHandler) shared.EventHandler

// DispatcherConfig configures the Dispatcher.
type DispatcherConfig struct {
	EventBus shared.EventBus

	// WorkerPoolSize caps concurrent handler executions.
	WorkerPoolSize int

	// Retry is the backoff schedule applied to every handler.
	Retry retry.Config

	// HandlerTimeout bounds a single handler attempt.
	HandlerTimeout time.Duration

	// DeadLetterCapacity is the ring size; 0 disables the DLQ.
	DeadLetterCapacity int

	Logger *slog.Logger
}

// DefaultDispatcherConfig returns the defaults both binaries use.
func DefaultDispatcherConfig(bus shared.EventBus) DispatcherConfig {
	return DispatcherConfig{
		EventBus:       bus,
		WorkerPoolSize: 10,
		Retry: retry.Config{
			Attempts:  3,
			BaseDelay: 100 * time.Millisecond,
			MaxDelay:  5 * time.Second,
		},
		HandlerTimeout:     30 * time.Second,
		DeadLetterCapacity: 1000,
	}
}

// NewDispatcher creates a dispatcher. Call Start to attach it to the bus.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 10
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		bus:     cfg.EventBus,
		routes:  make(map[shared.EventType][]route),
		retrier: retry.New(cfg.Retry),
		log:     cfg.Logger,
		ctx:     ctx,
		cancel:  cancel,
		slots:   make(chan struct{}, cfg.WorkerPoolSize),
	}
	if cfg.DeadLetterCapacity > 0 {
		d.deadRing = NewDeadLetterRing(cfg.DeadLetterCapacity)
	}
	d.Use(RecoveryMiddleware(cfg.Logger))
	return d
}

// Register binds an async handler to an event type. The name shows up
// in logs and dead letters; keep it stable across releases.
func (d *Dispatcher) Register(eventType shared.EventType, name string, handler shared.EventHandler) error {
	return d.register(eventType, route{name: name, handler: handler})
}

// RegisterSync binds a handler whose error surfaces to the publisher.
func (d *Dispatcher) RegisterSync(eventType shared.EventType, name string, handler shared.EventHandler) error {
	return d.register(eventType, route{name: name, handler: handler, sync: true})
}

func (d *Dispatcher) register(eventType shared.EventType, r route) error {
	if r.handler == nil {
		return errors.New("handler cannot be nil")
	}
	if r.name == "" {
		return errors.New("handler name cannot be empty")
	}
	if r.timeout <= 0 {
		r.timeout = 30 * time.Second
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.routes[eventType] {
		if existing.name == r.name {
			return fmt.Errorf("handler %q already registered for %s", r.name, eventType)
		}
	}
	d.routes[eventType] = append(d.routes[eventType], r)
	return nil
}

// Use appends middleware; it wraps every handler, innermost last.
func (d *Dispatcher) Use(mw Middleware) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.chain = append(d.chain, mw)
}

// Start subscribes the dispatcher to every event on the bus.
func (d *Dispatcher) Start() error {
	return d.bus.SubscribeAll(func(ctx context.Context, event shared.Event) error {
		return d.dispatch(ctx, event)
	})
}

// Stop cancels in-flight retries. Pending sleeps return immediately.
func (d *Dispatcher) Stop() error {
	d.cancel()
	d.log.Info("dispatcher stopped")
	return nil
}

// DeadLetters returns the dead letter ring, nil when disabled.
func (d *Dispatcher) DeadLetters() *DeadLetterRing {
	return d.deadRing
}

func (d *Dispatcher) dispatch(ctx context.Context, event shared.Event) error {
	d.mu.RLock()
	targets := d.routes[event.EventType()]
	chain := d.chain
	d.mu.RUnlock()

	var firstErr error
	for _, r := range targets {
		if r.sync {
			if err := d.deliver(ctx, event, r, chain); err != nil && firstErr == nil {
				firstErr = err
			}
			continue
		}
		// async: the bus already detached us from the publisher
		if err := d.deliver(context.Background(), event, r, chain); err != nil {
			d.log.Error("event handler exhausted retries",
				"handler", r.name,
				"event_type", event.EventType(),
				"error", err,
			)
		}
	}
	return firstErr
}

// deliver runs one route through the middleware chain with retry and a
// per-attempt timeout. Exhausted deliveries land in the dead letter
// ring with enough context to replay them by hand.
func (d *Dispatcher) deliver(ctx context.Context, event shared.Event, r route, chain []Middleware) error {
	select {
	case d.slots <- struct{}{}:
		defer func() { <-d.slots }()
	case <-d.ctx.Done():
		return d.ctx.Err()
	}

	h := r.handler
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}

	attempts := 0
	err := d.retrier.Do(ctx, func(ctx context.Context) error {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return h(attemptCtx, event)
	})
	if err == nil {
		return nil
	}

	if d.deadRing != nil {
		d.deadRing.Add(DeadLetter{
			Event:    event,
			Handler:  r.name,
			Err:      err,
			Attempts: attempts,
			FailedAt: time.Now(),
		})
	}
	return fmt.Errorf("handler %s failed after %d attempts: %w", r.name, attempts, err)
}

// RecoveryMiddleware turns handler panics into errors so a bad payload
// cannot take a worker down.
func RecoveryMiddleware(log *slog.Logger) Middleware {
	return func(next shared.EventHandler) shared.EventHandler {
		return func(ctx context.Context, event shared.Event) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("event handler panicked",
						"event_type", event.EventType(),
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					err = retry.Permanent(fmt.Errorf("handler panic: %v", rec))
				}
			}()
			return next(ctx, event)
		}
	}
}

// LoggingMiddleware records every handler execution with its outcome.
func LoggingMiddleware(log *slog.Logger) Middleware {
	return func(next shared.EventHandler) shared.EventHandler {
		return func(ctx context.Context, event shared.Event) error {
			start := time.Now()
			err := next(ctx, event)
			if err != nil {
				log.Error("event handler failed",
					"event_type", event.EventType(),
					"aggregate_id", event.AggregateID(),
					"duration", time.Since(start).String(),
					"error", err,
				)
				return err
			}
			log.Debug("event handler completed",
				"event_type", event.EventType(),
				"aggregate_id", event.AggregateID(),
				"duration", time.Since(start).String(),
			)
			return nil
		}
	}
}

// DeadLetter is one delivery that exhausted its retries.
type DeadLetter struct {
	Event    shared.Event
	Handler  string
	Err      error
	Attempts int
	FailedAt time.Time
}

// DeadLetterRing keeps the most recent failed deliveries, evicting the
// oldest when full.
type DeadLetterRing struct {
	mu      sync.Mutex
	entries []DeadLetter
	cap     int
}

// NewDeadLetterRing creates a ring holding at most capacity entries.
func NewDeadLetterRing(capacity int) *DeadLetterRing {
	if capacity <= 0 {
		capacity = 1000
	}
	return &DeadLetterRing{cap: capacity}
}

// Add records a failed delivery.
func (q *DeadLetterRing) Add(dl DeadLetter) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) >= q.cap {
		q.entries = q.entries[1:]
	}
	q.entries = append(q.entries, dl)
}

// Entries returns a copy of the current contents, oldest first.
func (q *DeadLetterRing) Entries() []DeadLetter {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]DeadLetter, len(q.entries))
	copy(out, q.entries)
	return out
}

// Take removes and returns the oldest entry.
func (q *DeadLetterRing) Take() (DeadLetter, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return DeadLetter{}, false
	}
	dl := q.entries[0]
	q.entries = q.entries[1:]
	return dl, true
}

// Len returns the number of stored entries.
func (q *DeadLetterRing) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
