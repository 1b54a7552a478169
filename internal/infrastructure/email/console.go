// Package email provides outreach.Sender implementations. The console
// sender is the development transport: it prints the rendered message
// instead of delivering it. Real delivery is out of scope; production
// deployments plug their own transport behind the same interface.
package email

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/outreach"
)

// ConsoleSender writes emails to a writer (stdout by default).
type ConsoleSender struct {
	out    io.Writer
	logger *slog.Logger
	sent   atomic.Int64
}

// NewConsoleSender creates a console email sender.
func NewConsoleSender(out io.Writer, logger *slog.Logger) *ConsoleSender {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ConsoleSender{
		out:    out,
		logger: logger.With("component", "email_console"),
	}
}

// Send implements outreach.Sender.
func (s *ConsoleSender) Send(ctx context.Context, msg outreach.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "--- EMAIL ---\nTo: %s <%s>\nSubject: %s\n\n%s\n-------------\n",
		msg.ToName, msg.To, msg.Subject, msg.Body)

	s.sent.Add(1)
	s.logger.Info("email dispatched",
		"to", msg.To.String(),
		"subject", msg.Subject,
	)
	return nil
}

// SentCount returns how many emails have been dispatched.
func (s *ConsoleSender) SentCount() int64 {
	return s.sent.Load()
}
