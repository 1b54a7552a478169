package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/outreach"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/program"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEND APPRECIATIONS COMMAND
// Daily sweep over concluded subjects. Every stakeholder who accepted
// an invitation to an event, lecture, or competition that has already
// taken place gets one thank-you email; the subject is then flagged so
// later sweeps leave it alone. Run by the background worker.
// ══════════════════════════════════════════════════════════════════════════════

// SendAppreciationsCommand triggers one thank-you sweep.
type SendAppreciationsCommand struct {
	// Now is the sweep time (zero = time.Now).
	Now time.Time

	// CorrelationID for tracing.
	CorrelationID string
}

// SendAppreciationsResult contains the outcome of a sweep.
type SendAppreciationsResult struct {
	// SubjectsExamined is how many concluded subjects were considered.
	SubjectsExamined int

	// SubjectsThanked is how many subjects got flagged as thanked.
	SubjectsThanked int

	// ThankYousSent is how many thank-you emails went out.
	ThankYousSent int

	// Failures is how many sends failed.
	Failures int

	// Events contains domain events generated.
	Events []shared.Event
}

// SendAppreciationsHandler handles the SendAppreciationsCommand.
type SendAppreciationsHandler struct {
	programRepo    program.Repository
	invitationRepo invitation.Repository
	emailSender    outreach.Sender
	eventPublisher shared.EventPublisher
}

// NewSendAppreciationsHandler creates a new SendAppreciationsHandler.
func NewSendAppreciationsHandler(
	programRepo program.Repository,
	invitationRepo invitation.Repository,
	emailSender outreach.Sender,
	eventPublisher shared.EventPublisher,
) *SendAppreciationsHandler {
	return &SendAppreciationsHandler{
		programRepo:    programRepo,
		invitationRepo: invitationRepo,
		emailSender:    emailSender,
		eventPublisher: eventPublisher,
	}
}

// Handle executes one thank-you sweep.
func (h *SendAppreciationsHandler) Handle(ctx context.Context, cmd SendAppreciationsCommand) (*SendAppreciationsResult, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	ended, err := h.programRepo.FindEndedUnthanked(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("send_appreciations: failed to load ended subjects: %w", err)
	}

	result := &SendAppreciationsResult{
		SubjectsExamined: len(ended),
		Events:           make([]shared.Event, 0),
	}

	var firstSendErr error
	for _, subject := range ended {
		ref := invitation.SubjectRef{
			Type: invitation.SubjectType(subject.Kind),
			ID:   subject.ID,
		}
		invitations, err := h.invitationRepo.FindBySubject(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("send_appreciations: failed to load invitations: %w", err)
		}

		// Subjects nobody accepted stay unflagged: participants may
		// still respond late, and re-examining them is cheap.
		sent := 0
		for _, inv := range invitations {
			if inv.Status != invitation.StatusAccepted {
				continue
			}

			msg := outreach.BuildThankYouEmail(
				inv.RecipientName,
				inv.RecipientEmail.String(),
				subject.Title,
			)
			if err := h.emailSender.Send(ctx, msg); err != nil {
				result.Failures++
				if firstSendErr == nil {
					firstSendErr = err
				}
				continue
			}

			sent++
			result.ThankYousSent++

			event := shared.AppreciationSentEvent{
				BaseEvent:    shared.NewBaseEvent(shared.EventAppreciationSent, inv.ID.String()),
				InvitationID: inv.ID.String(),
				RecipientID:  inv.RecipientID.String(),
				SubjectID:    subject.ID.String(),
				SubjectTitle: subject.Title,
			}
			if cmd.CorrelationID != "" {
				event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
			}
			result.Events = append(result.Events, event)
			_ = h.eventPublisher.Publish(ctx, event)
		}

		// A subject where every send failed stays unflagged so the
		// next sweep retries it.
		if sent == 0 {
			continue
		}
		if err := h.programRepo.MarkAppreciationSent(ctx, subject.Kind, subject.ID); err != nil {
			return result, fmt.Errorf("send_appreciations: failed to flag subject: %w", err)
		}
		result.SubjectsThanked++
	}

	if result.ThankYousSent == 0 && firstSendErr != nil && !errors.Is(firstSendErr, context.Canceled) {
		return result, fmt.Errorf("send_appreciations: all sends failed: %w", firstSendErr)
	}

	return result, nil
}
