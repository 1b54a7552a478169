package matching

import (
	"sort"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANKER & INVITATION SELECTOR
//
// Оценивает весь пул кандидатов, сортирует по убыванию оценки и отдаёт
// top-N для приглашения. Сортировка СТАБИЛЬНАЯ: при равных оценках
// кандидаты сохраняют исходный порядок пула — результат детерминирован,
// воспроизводим, и раньше зарегистрированные кандидаты не штрафуются
// за ничью.
//
// Минимального порога оценки движок НЕ применяет: продукт приглашает
// top-5 независимо от качества оценок. Это осознанное решение, а не
// упущение — фильтрацию по порогу, если она понадобится, делает
// вызывающая сторона.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultTopN - количество кандидатов, приглашаемых по умолчанию.
const DefaultTopN = 5

// RankedCandidate связывает кандидата с его результатом подбора.
type RankedCandidate struct {
	// Candidate - кандидат.
	Candidate Candidate

	// Result - результат сопоставления.
	Result MatchResult

	// RankPosition - позиция в итоговом рейтинге (1-based).
	RankPosition int
}

// RankedSelection представляет результат отбора top-N кандидатов.
type RankedSelection struct {
	// Selected - отобранные кандидаты, по убыванию оценки.
	Selected []RankedCandidate

	// TotalCandidatesConsidered - размер исходного пула.
	TotalCandidatesConsidered int
}

// IsEmpty возвращает true, если никто не отобран.
func (s RankedSelection) IsEmpty() bool {
	return len(s.Selected) == 0
}

// FilterByMinScore возвращает отобранных с оценкой не ниже minScore.
// Порядок сохраняется. Движок сам порога не применяет (см. выше);
// этот метод — для вызывающей стороны.
func (s RankedSelection) FilterByMinScore(minScore MatchScore) []RankedCandidate {
	filtered := make([]RankedCandidate, 0, len(s.Selected))
	for _, rc := range s.Selected {
		if rc.Result.Score >= minScore {
			filtered = append(filtered, rc)
		}
	}
	return filtered
}

// SelectTop оценивает каждый элемент пула через Match, стабильно сортирует
// по убыванию оценки и усекает до topN.
//
// Контракт:
//   - topN < 0 → ошибка ErrNegativeTopN (InvalidArgument);
//   - topN >= |pool| → весь отранжированный пул, без ошибки;
//   - |Selected| == min(topN, |pool|);
//   - повторные вызовы с теми же аргументами дают идентичный результат.
func SelectTop(requesterSkills shared.SkillSet, pool []Candidate, topN int) (RankedSelection, error) {
	if topN < 0 {
		return RankedSelection{}, shared.ErrNegativeTopN
	}

	ranked := make([]RankedCandidate, 0, len(pool))
	for _, c := range pool {
		ranked = append(ranked, RankedCandidate{
			Candidate: c,
			Result:    Match(requesterSkills, c.Skills, c.ID),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Score > ranked[j].Result.Score
	})

	if topN < len(ranked) {
		ranked = ranked[:topN]
	}

	for i := range ranked {
		ranked[i].RankPosition = i + 1
	}

	return RankedSelection{
		Selected:                  ranked,
		TotalCandidatesConsidered: len(pool),
	}, nil
}
