package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmis-hub/cmis-engagement-hub/internal/application/query"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/engagement"
	"github.com/cmis-hub/cmis-engagement-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENGAGEMENT HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AnalyticsCache caches platform analytics snapshots.
// Satisfied by redis.AnalyticsCache.
type AnalyticsCache interface {
	Get(ctx context.Context, scope string) (*engagement.PlatformAnalytics, error)
	Set(ctx context.Context, scope string, snapshot *engagement.PlatformAnalytics) error
}

// EngagementHandler serves the engagement health check and the admin
// analytics dashboard.
type EngagementHandler struct {
	health    *query.GetEngagementHealthHandler
	analytics *query.GetPlatformAnalyticsHandler
	cache     AnalyticsCache // nil when Redis is disabled
	log       *logger.Logger
}

// NewEngagementHandler creates a new EngagementHandler.
func NewEngagementHandler(
	health *query.GetEngagementHealthHandler,
	analytics *query.GetPlatformAnalyticsHandler,
	cache AnalyticsCache,
	log *logger.Logger,
) *EngagementHandler {
	return &EngagementHandler{
		health:    health,
		analytics: analytics,
		cache:     cache,
		log:       log,
	}
}

// Health handles GET /v1/engagement-health.
// Recomputed from the current series on every call; a warning is a
// fresh reading, never a stored record.
func (h *EngagementHandler) Health(c echo.Context) error {
	result, err := h.health.Handle(c.Request().Context(), query.GetEngagementHealthQuery{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Analytics handles GET /v1/analytics.
func (h *EngagementHandler) Analytics(c echo.Context) error {
	ctx := c.Request().Context()

	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, ""); err == nil {
			return c.JSON(http.StatusOK, cached)
		}
	}

	result, err := h.analytics.Handle(ctx, query.GetPlatformAnalyticsQuery{})
	if err != nil {
		return err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, "", result); err != nil {
			h.log.Warn("failed to cache analytics snapshot", logger.Err(err))
		}
	}

	return c.JSON(http.StatusOK, result)
}
