package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/outreach"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON PROFILE REGISTERED HANDLER
// Подтверждает регистрацию стейкхолдера приветственным письмом.
// Как и с приглашениями, письмо — побочный эффект события: упавший
// почтовый транспорт не откатывает саму регистрацию.
// ═══════════════════════════════════════════════════════════════════════════

// OnProfileRegisteredHandler отправляет подтверждение свежим профилям.
type OnProfileRegisteredHandler struct {
	emailSender outreach.Sender
	logger      *slog.Logger
}

// NewOnProfileRegisteredHandler создаёт новый обработчик.
func NewOnProfileRegisteredHandler(emailSender outreach.Sender, logger *slog.Logger) *OnProfileRegisteredHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnProfileRegisteredHandler{
		emailSender: emailSender,
		logger:      logger.With("handler", "on_profile_registered"),
	}
}

// Handle обрабатывает событие регистрации профиля.
// Сигнатура совместима с shared.EventHandler.
func (h *OnProfileRegisteredHandler) Handle(ctx context.Context, event shared.Event) error {
	registered, ok := event.(shared.ProfileRegisteredEvent)
	if !ok {
		return fmt.Errorf("on_profile_registered: unexpected event type %T", event)
	}

	msg := outreach.BuildRegistrationEmail(
		registered.FullName,
		registered.Email,
		registered.Roles,
	)

	if err := h.emailSender.Send(ctx, msg); err != nil {
		h.logger.Error("failed to send registration confirmation",
			"profile_id", registered.ProfileID,
			"error", err,
		)
		return err
	}

	h.logger.Info("registration confirmation sent",
		"profile_id", registered.ProfileID,
		"roles", registered.Roles,
	)
	return nil
}
