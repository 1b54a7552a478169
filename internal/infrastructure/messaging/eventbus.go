// Package messaging implements the event bus for the CMIS Engagement Hub.
// Доменные события (приглашение создано, ответ получен, просадка
// вовлечённости) расходятся отсюда по почтовым обработчикам.
package messaging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ErrEventBusClosed is returned for operations on a closed bus.
var ErrEventBusClosed = errors.New("event bus is closed")

// InMemoryEventBus is the shared.EventBus for single-process deployments.
// Both binaries run one instance each; handlers that must survive a
// restart persist their own state, the bus itself keeps nothing.
type InMemoryEventBus struct {
	mu     sync.RWMutex
	byType map[shared.EventType][]shared.EventHandler
	global []shared.EventHandler
	closed bool

	async   bool
	slots   chan struct{}
	closeCh chan struct{}
	wg      sync.WaitGroup

	published atomic.Int64
	failed    atomic.Int64

	log *slog.Logger
}

// InMemoryEventBusConfig configures the bus.
type InMemoryEventBusConfig struct {
	// AsyncMode runs handlers in goroutines detached from the
	// publisher. Command handlers publish on the request path, so
	// this is on by default.
	AsyncMode bool

	// WorkerPoolSize caps concurrent async handler executions.
	WorkerPoolSize int

	Logger *slog.Logger
}

// DefaultInMemoryEventBusConfig returns the defaults both binaries use.
func DefaultInMemoryEventBusConfig() InMemoryEventBusConfig {
	return InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 10,
	}
}

// NewInMemoryEventBus creates the bus.
func NewInMemoryEventBus(cfg InMemoryEventBusConfig) *InMemoryEventBus {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 10
	}
	return &InMemoryEventBus{
		byType:  make(map[shared.EventType][]shared.EventHandler),
		async:   cfg.AsyncMode,
		slots:   make(chan struct{}, cfg.WorkerPoolSize),
		closeCh: make(chan struct{}),
		log:     cfg.Logger,
	}
}

// Subscribe registers a handler for one event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}
	b.byType[eventType] = append(b.byType[eventType], handler)
	return nil
}

// SubscribeAll registers a handler that sees every event. The
// dispatcher hangs off the bus through this.
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}
	b.global = append(b.global, handler)
	return nil
}

// Publish fans the event out to every matching handler.
func (b *InMemoryEventBus) Publish(ctx context.Context, event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}
	targets := make([]shared.EventHandler, 0, len(b.byType[event.EventType()])+len(b.global))
	targets = append(targets, b.byType[event.EventType()]...)
	targets = append(targets, b.global...)
	b.mu.RUnlock()

	b.published.Add(1)

	for _, h := range targets {
		if b.async {
			b.spawn(event, h)
			continue
		}
		if err := b.invoke(ctx, event, h); err != nil {
			b.log.Error("event handler failed",
				"event_type", event.EventType(),
				"error", err,
			)
		}
	}
	return nil
}

// PublishBatch publishes events in order, keeping the last error.
func (b *InMemoryEventBus) PublishBatch(ctx context.Context, events []shared.Event) error {
	var lastErr error
	for _, e := range events {
		if err := b.Publish(ctx, e); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// spawn runs a handler on the pool, detached from the publisher's
// context: an invitation email must not be cancelled because the HTTP
// request that created the invitation already returned.
func (b *InMemoryEventBus) spawn(event shared.Event, h shared.EventHandler) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		select {
		case b.slots <- struct{}{}:
			defer func() { <-b.slots }()
		case <-b.closeCh:
			return
		}

		if err := b.invoke(context.Background(), event, h); err != nil {
			b.log.Error("async event handler failed",
				"event_type", event.EventType(),
				"error", err,
			)
		}
	}()
}

func (b *InMemoryEventBus) invoke(ctx context.Context, event shared.Event, h shared.EventHandler) error {
	err := h(ctx, event)
	if err != nil {
		b.failed.Add(1)
	}
	return err
}

// Close drains in-flight handlers and rejects further publishes.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.closeCh)
	b.mu.Unlock()

	b.wg.Wait()
	b.log.Info("event bus closed",
		"published", b.published.Load(),
		"handler_failures", b.failed.Load(),
	)
	return nil
}
