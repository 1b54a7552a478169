package email

import (
	"context"
	"log/slog"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/outreach"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
	"github.com/cmis-hub/cmis-engagement-hub/pkg/circuitbreaker"
	"github.com/cmis-hub/cmis-engagement-hub/pkg/retry"
)

// ResilientSender wraps an outreach.Sender with retry and a circuit
// breaker. A dead transport stops being hammered; transient failures
// are retried with backoff.
type ResilientSender struct {
	inner   outreach.Sender
	retrier *retry.Retrier
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewResilientSender wraps the inner sender.
func NewResilientSender(inner outreach.Sender, logger *slog.Logger) *ResilientSender {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "email_resilient")

	breaker := circuitbreaker.EmailBreaker(func(name string, from, to circuitbreaker.State) {
		logger.Warn("email circuit state changed",
			"breaker", name,
			"from", from.String(),
			"to", to.String(),
		)
	})

	return &ResilientSender{
		inner:   inner,
		retrier: retry.EmailRetrier(),
		breaker: breaker,
		logger:  logger,
	}
}

// Send implements outreach.Sender.
func (s *ResilientSender) Send(ctx context.Context, msg outreach.EmailMessage) error {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.retrier.Do(ctx, func(ctx context.Context) error {
			return s.inner.Send(ctx, msg)
		})
	})
	if err != nil {
		s.logger.Error("email send failed",
			"to", msg.To.String(),
			"subject", msg.Subject,
			"breaker_state", s.breaker.State().String(),
			"error", err,
		)
		return shared.WrapError("email", "Send", shared.ErrExternalService, "failed to send email", err)
	}
	return nil
}

// BreakerState exposes the circuit state for health reporting.
func (s *ResilientSender) BreakerState() circuitbreaker.State {
	return s.breaker.State()
}
