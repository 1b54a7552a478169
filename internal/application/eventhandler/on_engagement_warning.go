package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/outreach"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON ENGAGEMENT WARNING HANDLER
// Уведомляет администраторов программы о падении вовлечённости.
// Предупреждение не персистится, поэтому письмо — единственный след
// помимо логов.
// ═══════════════════════════════════════════════════════════════════════════

// OnEngagementWarningHandler рассылает алерты по падению вовлечённости.
type OnEngagementWarningHandler struct {
	emailSender outreach.Sender
	adminEmails []string
	logger      *slog.Logger
}

// NewOnEngagementWarningHandler создаёт новый обработчик.
func NewOnEngagementWarningHandler(
	emailSender outreach.Sender,
	adminEmails []string,
	logger *slog.Logger,
) *OnEngagementWarningHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnEngagementWarningHandler{
		emailSender: emailSender,
		adminEmails: adminEmails,
		logger:      logger.With("handler", "on_engagement_warning"),
	}
}

// Handle обрабатывает событие предупреждения о вовлечённости.
// Сигнатура совместима с shared.EventHandler.
func (h *OnEngagementWarningHandler) Handle(ctx context.Context, event shared.Event) error {
	warning, ok := event.(shared.EngagementWarningEvent)
	if !ok {
		return fmt.Errorf("on_engagement_warning: unexpected event type %T", event)
	}

	h.logger.Warn("engagement warning raised",
		"level", warning.Level,
		"message", warning.Message,
		"latest_value", warning.LatestValue,
		"period", warning.Period,
	)

	var lastErr error
	for _, admin := range h.adminEmails {
		msg := outreach.BuildWarningAlert(admin, warning.Level, warning.Message, warning.Suggestions)
		if err := h.emailSender.Send(ctx, msg); err != nil {
			h.logger.Error("failed to send engagement alert", "admin", admin, "error", err)
			lastErr = err
		}
	}
	return lastErr
}
