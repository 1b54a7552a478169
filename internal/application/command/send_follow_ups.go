package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/outreach"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEND FOLLOW UPS COMMAND
// Periodic sweep over pending invitations. Sends a reminder email to
// each recipient whose invitation has sat unanswered past the
// threshold, up to MaxFollowUps reminders per invitation. Run by the
// background worker.
// ══════════════════════════════════════════════════════════════════════════════

// FollowUpConfig contains the reminder policy.
type FollowUpConfig struct {
	// Threshold is how long an invitation may sit unanswered before
	// a reminder goes out.
	Threshold time.Duration

	// MaxFollowUps caps the reminders per invitation.
	MaxFollowUps int
}

// DefaultFollowUpConfig returns the default policy: a reminder after
// three quiet days, at most two reminders per invitation.
func DefaultFollowUpConfig() FollowUpConfig {
	return FollowUpConfig{
		Threshold:    3 * 24 * time.Hour,
		MaxFollowUps: 2,
	}
}

// SendFollowUpsCommand triggers one reminder sweep.
type SendFollowUpsCommand struct {
	// Now is the sweep time (zero = time.Now).
	Now time.Time

	// CorrelationID for tracing.
	CorrelationID string
}

// SendFollowUpsResult contains the outcome of a sweep.
type SendFollowUpsResult struct {
	// Examined is how many pending invitations were considered.
	Examined int

	// RemindersSent is how many reminder emails went out.
	RemindersSent int

	// Failures is how many sends failed.
	Failures int

	// Events contains domain events generated.
	Events []shared.Event
}

// SendFollowUpsHandler handles the SendFollowUpsCommand.
type SendFollowUpsHandler struct {
	invitationRepo invitation.Repository
	emailSender    outreach.Sender
	eventPublisher shared.EventPublisher
	config         FollowUpConfig
}

// NewSendFollowUpsHandler creates a new SendFollowUpsHandler.
func NewSendFollowUpsHandler(
	invitationRepo invitation.Repository,
	emailSender outreach.Sender,
	eventPublisher shared.EventPublisher,
	config FollowUpConfig,
) *SendFollowUpsHandler {
	if config.Threshold <= 0 || config.MaxFollowUps <= 0 {
		config = DefaultFollowUpConfig()
	}

	return &SendFollowUpsHandler{
		invitationRepo: invitationRepo,
		emailSender:    emailSender,
		eventPublisher: eventPublisher,
		config:         config,
	}
}

// Handle executes one follow-up sweep.
func (h *SendFollowUpsHandler) Handle(ctx context.Context, cmd SendFollowUpsCommand) (*SendFollowUpsResult, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	pending, err := h.invitationRepo.FindPendingBefore(ctx, now.Add(-h.config.Threshold))
	if err != nil {
		return nil, fmt.Errorf("send_follow_ups: failed to load pending invitations: %w", err)
	}

	result := &SendFollowUpsResult{
		Examined: len(pending),
		Events:   make([]shared.Event, 0),
	}

	var firstSendErr error
	for _, inv := range pending {
		if !inv.NeedsFollowUp(now, h.config.Threshold, h.config.MaxFollowUps) {
			continue
		}

		msg := outreach.BuildFollowUpEmail(
			inv.RecipientName,
			inv.RecipientEmail.String(),
			inv.SubjectTitle,
			inv.FollowUpCount+1,
		)
		if err := h.emailSender.Send(ctx, msg); err != nil {
			result.Failures++
			if firstSendErr == nil {
				firstSendErr = err
			}
			continue
		}

		if err := inv.RecordFollowUp(now); err != nil {
			continue
		}
		if err := h.invitationRepo.Update(ctx, inv); err != nil {
			return nil, fmt.Errorf("send_follow_ups: failed to save invitation: %w", err)
		}

		result.RemindersSent++

		event := shared.FollowUpSentEvent{
			BaseEvent:     shared.NewBaseEvent(shared.EventFollowUpSent, inv.ID.String()),
			InvitationID:  inv.ID.String(),
			RecipientID:   inv.RecipientID.String(),
			FollowUpCount: inv.FollowUpCount,
		}
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		result.Events = append(result.Events, event)
		_ = h.eventPublisher.Publish(ctx, event)
	}

	if result.RemindersSent == 0 && firstSendErr != nil && !errors.Is(firstSendErr, context.Canceled) {
		return result, fmt.Errorf("send_follow_ups: all sends failed: %w", firstSendErr)
	}

	return result, nil
}
