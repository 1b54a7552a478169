// Package handlers contains the echo route handlers of the REST API.
// Each handler binds and validates the request, delegates to an
// application command or query, and shapes the JSON response.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/matching"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATCHING HANDLER
// Прямой доступ к движку подбора: UI присылает свой пул кандидатов и
// получает оценки. Состояние не трогается — чистые функции за HTTP.
// ══════════════════════════════════════════════════════════════════════════════

// MatchingHandler exposes the matching engine over HTTP.
type MatchingHandler struct{}

// NewMatchingHandler creates a new MatchingHandler.
func NewMatchingHandler() *MatchingHandler {
	return &MatchingHandler{}
}

// MatchRequest is the body of POST /v1/match.
type MatchRequest struct {
	RequesterSkills []string `json:"requester_skills"`
	CandidateID     string   `json:"candidate_id" validate:"required"`
	CandidateSkills []string `json:"candidate_skills"`
}

// MatchResponse mirrors the MatchResult shape.
type MatchResponse struct {
	CandidateID  string   `json:"candidate_id"`
	Score        int      `json:"score"`
	Quality      string   `json:"quality"`
	MatchedTerms []string `json:"matched_terms"`
}

// Match handles POST /v1/match.
func (h *MatchingHandler) Match(c echo.Context) error {
	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result := matching.Match(
		shared.NewSkillSet(req.RequesterSkills...),
		shared.NewSkillSet(req.CandidateSkills...),
		matching.CandidateID(req.CandidateID),
	)

	return c.JSON(http.StatusOK, MatchResponse{
		CandidateID:  result.CandidateID.String(),
		Score:        result.Score.Int(),
		Quality:      string(result.Score.Quality()),
		MatchedTerms: result.MatchedTerms.Strings(),
	})
}

// RankRequest is the body of POST /v1/rank.
type RankRequest struct {
	RequesterSkills []string        `json:"requester_skills"`
	Candidates      []RankCandidate `json:"candidates" validate:"required,dive"`
	TopN            int             `json:"top_n" validate:"gte=0"`
}

// RankCandidate is one pool entry in a rank request.
type RankCandidate struct {
	ID          string   `json:"id" validate:"required"`
	DisplayName string   `json:"display_name"`
	Skills      []string `json:"skills"`
}

// RankResponse mirrors the RankedSelection shape.
type RankResponse struct {
	Selected                  []RankedEntry `json:"selected"`
	TotalCandidatesConsidered int           `json:"total_candidates_considered"`
}

// RankedEntry is one selected candidate with its match result.
type RankedEntry struct {
	CandidateID  string   `json:"candidate_id"`
	DisplayName  string   `json:"display_name"`
	Score        int      `json:"score"`
	MatchedTerms []string `json:"matched_terms"`
	RankPosition int      `json:"rank_position"`
}

// Rank handles POST /v1/rank.
func (h *MatchingHandler) Rank(c echo.Context) error {
	var req RankRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pool := make([]matching.Candidate, len(req.Candidates))
	for i, rc := range req.Candidates {
		pool[i] = matching.Candidate{
			ID:          matching.CandidateID(rc.ID),
			DisplayName: rc.DisplayName,
			Skills:      shared.NewSkillSet(rc.Skills...),
		}
	}

	topN := req.TopN
	if topN == 0 {
		topN = matching.DefaultTopN
	}

	selection, err := matching.SelectTop(shared.NewSkillSet(req.RequesterSkills...), pool, topN)
	if err != nil {
		return err
	}

	resp := RankResponse{
		Selected:                  make([]RankedEntry, 0, len(selection.Selected)),
		TotalCandidatesConsidered: selection.TotalCandidatesConsidered,
	}
	for _, ranked := range selection.Selected {
		resp.Selected = append(resp.Selected, RankedEntry{
			CandidateID:  ranked.Candidate.ID.String(),
			DisplayName:  ranked.Candidate.DisplayName,
			Score:        ranked.Result.Score.Int(),
			MatchedTerms: ranked.Result.MatchedTerms.Strings(),
			RankPosition: ranked.RankPosition,
		})
	}

	return c.JSON(http.StatusOK, resp)
}
