package matching

import (
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CANDIDATE
// Кандидат для подбора: ментор, спикер или судья.
//
// Движок видит у кандидата ровно три поля: ID, имя и SkillSet.
// Всё остальное (компания, должность, био, счётчики активности) живёт
// в профиле directory и для подбора непрозрачно.
// ══════════════════════════════════════════════════════════════════════════════

// CandidateID представляет идентификатор кандидата.
type CandidateID string

// IsValid проверяет, что ID не пустой.
func (id CandidateID) IsValid() bool {
	return len(id) > 0
}

// String возвращает строковое представление ID.
func (id CandidateID) String() string {
	return string(id)
}

// Candidate представляет кандидата для подбора.
type Candidate struct {
	// ID - идентификатор кандидата (совпадает с ProfileID из directory).
	ID CandidateID

	// DisplayName - имя для отображения.
	DisplayName string

	// Skills - навыки/экспертиза кандидата.
	Skills shared.SkillSet
}

// IsValid проверяет минимальную корректность кандидата.
func (c Candidate) IsValid() bool {
	return c.ID.IsValid()
}
