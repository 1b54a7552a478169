package command

import (
	"context"
	"fmt"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPOND INVITATION COMMAND
// Records a stakeholder's accept or decline. Both transitions are
// terminal; a second response fails with ErrInvitationResolved.
// ══════════════════════════════════════════════════════════════════════════════

// RespondInvitationCommand contains the data to respond to an invitation.
type RespondInvitationCommand struct {
	// InvitationID is the invitation being responded to.
	InvitationID string

	// Accept is true to accept, false to decline.
	Accept bool

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RespondInvitationCommand) Validate() error {
	if c.InvitationID == "" {
		return shared.NewDomainError("command", "RespondInvitation", shared.ErrInvalidInput, "invitation_id is required")
	}
	return nil
}

// RespondInvitationResult contains the result of responding.
type RespondInvitationResult struct {
	// InvitationID is the invitation responded to.
	InvitationID string

	// Status is the final status.
	Status invitation.Status

	// Events contains domain events generated.
	Events []shared.Event
}

// RespondInvitationHandler handles the RespondInvitationCommand.
type RespondInvitationHandler struct {
	invitationRepo invitation.Repository
	eventPublisher shared.EventPublisher
}

// NewRespondInvitationHandler creates a new RespondInvitationHandler.
func NewRespondInvitationHandler(
	invitationRepo invitation.Repository,
	eventPublisher shared.EventPublisher,
) *RespondInvitationHandler {
	return &RespondInvitationHandler{
		invitationRepo: invitationRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the respond invitation command.
func (h *RespondInvitationHandler) Handle(ctx context.Context, cmd RespondInvitationCommand) (*RespondInvitationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	inv, err := h.invitationRepo.FindByID(ctx, invitation.InvitationID(cmd.InvitationID))
	if err != nil {
		return nil, fmt.Errorf("respond_invitation: invitation not found: %w", err)
	}

	if cmd.Accept {
		err = inv.Accept()
	} else {
		err = inv.Decline()
	}
	if err != nil {
		return nil, fmt.Errorf("respond_invitation: %w", err)
	}

	if err := h.invitationRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("respond_invitation: failed to save: %w", err)
	}

	result := &RespondInvitationResult{
		InvitationID: inv.ID.String(),
		Status:       inv.Status,
		Events:       make([]shared.Event, 0),
	}

	eventType := shared.EventInvitationAccepted
	if !cmd.Accept {
		eventType = shared.EventInvitationDeclined
	}
	event := shared.InvitationRespondedEvent{
		BaseEvent:    shared.NewBaseEvent(eventType, inv.ID.String()),
		InvitationID: inv.ID.String(),
		RecipientID:  inv.RecipientID.String(),
		SubjectID:    inv.Subject.ID.String(),
		Accepted:     cmd.Accept,
	}
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(ctx, event)

	return result, nil
}
