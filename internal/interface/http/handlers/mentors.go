package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmis-hub/cmis-engagement-hub/internal/application/query"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
	"github.com/cmis-hub/cmis-engagement-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MENTOR HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecommendationCache caches whole recommendation responses keyed by
// the requesting skill set. Satisfied by redis.RecommendationCache.
type RecommendationCache interface {
	Get(ctx context.Context, skills shared.SkillSet) (*query.MentorRecommendationsDTO, error)
	Set(ctx context.Context, skills shared.SkillSet, recs *query.MentorRecommendationsDTO) error
}

// MentorHandler serves mentor recommendations for students.
type MentorHandler struct {
	recommend *query.RecommendMentorsHandler
	cache     RecommendationCache // nil when Redis is disabled
	log       *logger.Logger
}

// NewMentorHandler creates a new MentorHandler.
func NewMentorHandler(
	recommend *query.RecommendMentorsHandler,
	cache RecommendationCache,
	log *logger.Logger,
) *MentorHandler {
	return &MentorHandler{
		recommend: recommend,
		cache:     cache,
		log:       log,
	}
}

// RecommendRequest is the body of POST /v1/mentors/recommendations.
type RecommendRequest struct {
	Skills   []string `json:"skills"`
	Limit    int      `json:"limit" validate:"gte=0"`
	MinScore int      `json:"min_score" validate:"gte=0,lte=100"`
}

// Recommend handles POST /v1/mentors/recommendations.
// A POST because the skill list does not fit a query string; the
// operation itself is a pure read and cacheable.
func (h *MentorHandler) Recommend(c echo.Context) error {
	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	skills := shared.NewSkillSet(req.Skills...)

	// Cache only default-shaped requests; custom limits and floors go
	// straight to the ranker.
	cacheable := h.cache != nil && req.Limit == 0 && req.MinScore == 0

	if cacheable {
		if cached, err := h.cache.Get(ctx, skills); err == nil {
			return c.JSON(http.StatusOK, cached)
		}
	}

	result, err := h.recommend.Handle(ctx, query.RecommendMentorsQuery{
		StudentSkills: req.Skills,
		Limit:         req.Limit,
		MinScore:      req.MinScore,
	})
	if err != nil {
		return err
	}

	if cacheable {
		if err := h.cache.Set(ctx, skills, result); err != nil {
			h.log.Warn("failed to cache mentor recommendations", logger.Err(err))
		}
	}

	return c.JSON(http.StatusOK, result)
}
