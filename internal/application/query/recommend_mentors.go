// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/matching"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMEND MENTORS QUERY
// Подбирает менторов под навыки студента. Тот же движок, что и отбор
// приглашений, но без побочных эффектов: ничего не создаётся и не
// отправляется, только ранжированный список с объяснением.
// ══════════════════════════════════════════════════════════════════════════════

// RecommendMentorsQuery содержит параметры подбора менторов.
type RecommendMentorsQuery struct {
	// StudentSkills - навыки и интересы студента.
	StudentSkills []string

	// Limit - максимальное количество рекомендаций (по умолчанию 5).
	Limit int

	// MinScore - минимальная оценка совместимости (0 = без порога).
	MinScore int
}

// Validate проверяет корректность параметров.
func (q *RecommendMentorsQuery) Validate() error {
	if q.Limit < 0 {
		return shared.NewDomainError("query", "RecommendMentors", shared.ErrNegativeValue, "limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = matching.DefaultTopN
	}
	if q.MinScore < 0 || q.MinScore > 100 {
		return shared.NewDomainError("query", "RecommendMentors", shared.ErrValueOutOfRange, "min_score must be between 0 and 100")
	}
	return nil
}

// MentorRecommendationDTO - DTO одной рекомендации.
type MentorRecommendationDTO struct {
	// MentorID - ID профиля ментора.
	MentorID string `json:"mentor_id"`

	// DisplayName - имя ментора.
	DisplayName string `json:"display_name"`

	// Organization - место работы.
	Organization string `json:"organization,omitempty"`

	// Title - должность.
	Title string `json:"title,omitempty"`

	// Score - оценка совместимости (0-100).
	Score int `json:"score"`

	// Quality - словесная оценка: excellent / good / fair / poor / none.
	Quality string `json:"quality"`

	// MatchedSkills - общие навыки.
	MatchedSkills []string `json:"matched_skills"`

	// Reason - человекочитаемое объяснение рекомендации.
	Reason string `json:"reason"`

	// RankPosition - позиция в списке (с 1).
	RankPosition int `json:"rank_position"`
}

// MentorRecommendationsDTO - результат запроса.
type MentorRecommendationsDTO struct {
	// Recommendations - рекомендации по убыванию оценки.
	Recommendations []MentorRecommendationDTO `json:"recommendations"`

	// MentorsConsidered - размер пула менторов.
	MentorsConsidered int `json:"mentors_considered"`
}

// RecommendMentorsHandler обрабатывает RecommendMentorsQuery.
type RecommendMentorsHandler struct {
	directoryRepo directory.Repository
}

// NewRecommendMentorsHandler создаёт новый обработчик.
func NewRecommendMentorsHandler(directoryRepo directory.Repository) *RecommendMentorsHandler {
	return &RecommendMentorsHandler{directoryRepo: directoryRepo}
}

// Handle выполняет подбор менторов.
func (h *RecommendMentorsHandler) Handle(ctx context.Context, q RecommendMentorsQuery) (*MentorRecommendationsDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("recommend_mentors: %w", err)
	}

	mentors, err := h.directoryRepo.FindAvailableByRole(ctx, directory.RoleMentor)
	if err != nil {
		return nil, fmt.Errorf("recommend_mentors: failed to load mentors: %w", err)
	}

	pool := make([]matching.Candidate, len(mentors))
	byCandidate := make(map[matching.CandidateID]*directory.StakeholderProfile, len(mentors))
	for i, m := range mentors {
		pool[i] = m.Candidate()
		byCandidate[pool[i].ID] = m
	}

	studentSkills := shared.NewSkillSet(q.StudentSkills...)
	selection, err := matching.SelectTop(studentSkills, pool, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("recommend_mentors: ranking failed: %w", err)
	}

	selected := selection.Selected
	if q.MinScore > 0 {
		selected = selection.FilterByMinScore(matching.MatchScore(q.MinScore))
	}

	dto := &MentorRecommendationsDTO{
		Recommendations:   make([]MentorRecommendationDTO, 0, len(selected)),
		MentorsConsidered: selection.TotalCandidatesConsidered,
	}

	for _, ranked := range selected {
		mentor := byCandidate[ranked.Candidate.ID]
		dto.Recommendations = append(dto.Recommendations, MentorRecommendationDTO{
			MentorID:      mentor.ID.String(),
			DisplayName:   mentor.FullName,
			Organization:  mentor.Organization,
			Title:         mentor.Title,
			Score:         int(ranked.Result.Score),
			Quality:       string(ranked.Result.Score.Quality()),
			MatchedSkills: ranked.Result.MatchedTerms.Strings(),
			Reason:        buildRecommendationReason(ranked.Result.MatchedTerms),
			RankPosition:  ranked.RankPosition,
		})
	}

	return dto, nil
}

// buildRecommendationReason строит объяснение в терминах общих навыков.
func buildRecommendationReason(matched shared.SkillSet) string {
	if matched.IsEmpty() {
		return "General mentorship fit"
	}
	return fmt.Sprintf("Based on %s skills", matched.Join(" & "))
}
