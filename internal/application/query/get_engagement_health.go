package query

import (
	"context"
	"fmt"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/engagement"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ENGAGEMENT HEALTH QUERY
// Прогоняет текущий ряд вовлечённости через монитор. Предупреждение
// нигде не сохраняется — каждый запрос считает его заново. При
// срабатывании публикуется событие для алертинга администраторов.
// ══════════════════════════════════════════════════════════════════════════════

// GetEngagementHealthQuery содержит параметры проверки.
type GetEngagementHealthQuery struct {
	// EmitEvent - публиковать ли событие при срабатывании монитора.
	// Включается у планировщика, выключено у HTTP-запросов.
	EmitEvent bool
}

// EngagementHealthDTO - результат проверки здоровья вовлечённости.
type EngagementHealthDTO struct {
	// Healthy - true, если монитор не нашёл проблем.
	Healthy bool `json:"healthy"`

	// Level - уровень предупреждения: warning | critical (пусто, если Healthy).
	Level string `json:"level,omitempty"`

	// Message - описание проблемы.
	Message string `json:"message,omitempty"`

	// Suggestions - рекомендуемые действия.
	Suggestions []string `json:"suggestions,omitempty"`

	// Series - ряд, по которому принято решение.
	Series []EngagementPointDTO `json:"series"`
}

// EngagementPointDTO - одна точка ряда вовлечённости.
type EngagementPointDTO struct {
	// Period - метка периода ("Jan", "2026-02").
	Period string `json:"period"`

	// Value - значение вовлечённости за период.
	Value float64 `json:"value"`
}

// GetEngagementHealthHandler обрабатывает GetEngagementHealthQuery.
type GetEngagementHealthHandler struct {
	engagementRepo engagement.Repository
	monitor        *engagement.Monitor
	eventPublisher shared.EventPublisher
}

// NewGetEngagementHealthHandler создаёт новый обработчик.
func NewGetEngagementHealthHandler(
	engagementRepo engagement.Repository,
	monitor *engagement.Monitor,
	eventPublisher shared.EventPublisher,
) *GetEngagementHealthHandler {
	return &GetEngagementHealthHandler{
		engagementRepo: engagementRepo,
		monitor:        monitor,
		eventPublisher: eventPublisher,
	}
}

// Handle выполняет проверку здоровья вовлечённости.
func (h *GetEngagementHealthHandler) Handle(ctx context.Context, q GetEngagementHealthQuery) (*EngagementHealthDTO, error) {
	series, err := h.engagementRepo.CurrentSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_engagement_health: failed to load series: %w", err)
	}

	dto := &EngagementHealthDTO{
		Healthy: true,
		Series:  make([]EngagementPointDTO, 0, series.Len()),
	}
	for _, p := range series {
		dto.Series = append(dto.Series, EngagementPointDTO{Period: p.Period, Value: p.Value})
	}

	warning := h.monitor.Check(series)
	if warning == nil {
		return dto, nil
	}

	dto.Healthy = false
	dto.Level = string(warning.Level)
	dto.Message = warning.Message
	dto.Suggestions = warning.Suggestions

	if q.EmitEvent && h.eventPublisher != nil {
		latest, _ := series.Latest()
		event := shared.EngagementWarningEvent{
			BaseEvent:   shared.NewBaseEvent(shared.EventEngagementWarning, "engagement"),
			Level:       string(warning.Level),
			Message:     warning.Message,
			Suggestions: warning.Suggestions,
			LatestValue: latest.Value,
			Period:      latest.Period,
		}
		_ = h.eventPublisher.Publish(ctx, event)
	}

	return dto, nil
}
