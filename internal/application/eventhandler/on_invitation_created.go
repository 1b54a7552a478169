// Package eventhandler содержит обработчики доменных событий.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/outreach"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON INVITATION CREATED HANDLER
// Отправляет письмо-приглашение, как только селектор создал запись.
// Email — побочный эффект события, а не часть команды: падение
// почтового транспорта не ломает сам отбор.
// ═══════════════════════════════════════════════════════════════════════════

// OnInvitationCreatedHandler отправляет письма по новым приглашениям.
type OnInvitationCreatedHandler struct {
	emailSender outreach.Sender
	logger      *slog.Logger
}

// NewOnInvitationCreatedHandler создаёт новый обработчик.
func NewOnInvitationCreatedHandler(emailSender outreach.Sender, logger *slog.Logger) *OnInvitationCreatedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnInvitationCreatedHandler{
		emailSender: emailSender,
		logger:      logger.With("handler", "on_invitation_created"),
	}
}

// Handle обрабатывает событие создания приглашения.
// Сигнатура совместима с shared.EventHandler.
func (h *OnInvitationCreatedHandler) Handle(ctx context.Context, event shared.Event) error {
	created, ok := event.(shared.InvitationCreatedEvent)
	if !ok {
		return fmt.Errorf("on_invitation_created: unexpected event type %T", event)
	}

	msg := outreach.BuildInvitationEmail(
		created.RecipientName,
		created.RecipientEmail,
		created.SubjectTitle,
		created.MatchReason,
	)

	if err := h.emailSender.Send(ctx, msg); err != nil {
		h.logger.Error("failed to send invitation email",
			"invitation_id", created.InvitationID,
			"recipient_id", created.RecipientID,
			"error", err,
		)
		return err
	}

	h.logger.Info("invitation email sent",
		"invitation_id", created.InvitationID,
		"recipient_id", created.RecipientID,
		"subject_title", created.SubjectTitle,
		"match_score", created.MatchScore,
	)
	return nil
}
