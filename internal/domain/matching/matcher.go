// Package matching содержит движок подбора по навыкам CMIS Engagement Hub.
//
// Философия подбора: "Насколько кандидат покрывает то, что я ищу".
// Оценка — это доля навыков ЗАПРАШИВАЮЩЕЙ стороны, закрытых кандидатом:
// студент, выбирающий ментора, и организатор, выбирающий судью по
// заявленным темам, задают один и тот же вопрос.
package matching

import (
	"math"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATCH SCORE
// ══════════════════════════════════════════════════════════════════════════════

// MatchScore представляет оценку совместимости (0-100).
type MatchScore int

// IsValid проверяет корректность оценки.
func (m MatchScore) IsValid() bool {
	return m >= 0 && m <= 100
}

// Int возвращает целочисленное значение.
func (m MatchScore) Int() int {
	return int(m)
}

// Quality возвращает качественную оценку совместимости.
func (m MatchScore) Quality() MatchQuality {
	switch {
	case m >= 80:
		return MatchQualityExcellent
	case m >= 60:
		return MatchQualityGood
	case m >= 40:
		return MatchQualityFair
	case m >= 20:
		return MatchQualityPoor
	default:
		return MatchQualityNone
	}
}

// MatchQuality определяет качество подбора.
type MatchQuality string

const (
	// MatchQualityExcellent - отличная совместимость (80-100).
	MatchQualityExcellent MatchQuality = "excellent"

	// MatchQualityGood - хорошая совместимость (60-79).
	MatchQualityGood MatchQuality = "good"

	// MatchQualityFair - удовлетворительная совместимость (40-59).
	MatchQualityFair MatchQuality = "fair"

	// MatchQualityPoor - низкая совместимость (20-39).
	MatchQualityPoor MatchQuality = "poor"

	// MatchQualityNone - нет совместимости (0-19).
	MatchQualityNone MatchQuality = "none"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATCH RESULT
// ══════════════════════════════════════════════════════════════════════════════

// MatchResult представляет результат сопоставления одного кандидата
// с набором навыков запрашивающей стороны. Никогда не хранится —
// вычисляется заново при каждом обращении.
type MatchResult struct {
	// CandidateID - чей это результат.
	CandidateID CandidateID

	// Score - доля закрытых навыков запрашивающего, 0-100.
	Score MatchScore

	// MatchedTerms - навыки кандидата, найденные у запрашивающего.
	// Сохраняют регистр и взаимный порядок КАНДИДАТА: именно они
	// показываются в UI как "общая экспертиза".
	MatchedTerms shared.SkillSet
}

// HasOverlap возвращает true, если нашёлся хотя бы один общий навык.
func (r MatchResult) HasOverlap() bool {
	return len(r.MatchedTerms) > 0
}

// ══════════════════════════════════════════════════════════════════════════════
// MATCHER
// ══════════════════════════════════════════════════════════════════════════════

// Match вычисляет оценку совместимости кандидата с навыками запрашивающего.
//
// Инвариант: score == round(100 * |matchedTerms| / |requesterSkills|)
// при непустом requesterSkills; score == 0 при пустом (оценить
// соответствие "ничему" невозможно, без деления на ноль).
//
// Чистая функция: без побочных эффектов, безопасна для конкурентных вызовов.
func Match(requesterSkills, candidateSkills shared.SkillSet, candidateID CandidateID) MatchResult {
	if requesterSkills.IsEmpty() {
		return MatchResult{
			CandidateID:  candidateID,
			Score:        0,
			MatchedTerms: shared.SkillSet{},
		}
	}

	matched := candidateSkills.Intersect(requesterSkills)

	score := MatchScore(math.Round(100 * float64(len(matched)) / float64(requesterSkills.Len())))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return MatchResult{
		CandidateID:  candidateID,
		Score:        score,
		MatchedTerms: matched,
	}
}
