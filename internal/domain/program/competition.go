package program

import (
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// Competition представляет соревнование: кейс-чемпионат, хакатон,
// pitch competition.
type Competition struct {
	// ID - уникальный идентификатор соревнования.
	ID shared.SubjectID

	// Title - название соревнования.
	Title string

	// CaseDomain - предметная область кейса.
	CaseDomain string

	// HeldAt - когда соревнование проводится.
	HeldAt time.Time

	// RegistrationDeadline - дедлайн регистрации команд.
	RegistrationDeadline time.Time

	// RequiredSkills - экспертиза, которую ищем у судей.
	RequiredSkills shared.SkillSet

	// JudgesNeeded - сколько судей требуется.
	JudgesNeeded int

	// CreatedAt - когда запись создана.
	CreatedAt time.Time
}

// NewCompetitionParams содержит параметры для создания соревнования.
type NewCompetitionParams struct {
	ID                   shared.SubjectID
	Title                string
	CaseDomain           string
	HeldAt               time.Time
	RegistrationDeadline time.Time
	RequiredSkills       shared.SkillSet
	JudgesNeeded         int
}

// NewCompetition создаёт соревнование с валидацией.
// Дедлайн регистрации не может быть позже даты проведения.
func NewCompetition(params NewCompetitionParams) (*Competition, error) {
	if !params.ID.IsValid() {
		return nil, shared.NewDomainError("program", "NewCompetition", shared.ErrInvalidID, "competition id is required")
	}

	if params.Title == "" {
		return nil, shared.NewDomainError("program", "NewCompetition", shared.ErrEmptyValue, "competition title is required")
	}

	if params.HeldAt.IsZero() {
		return nil, shared.NewDomainError("program", "NewCompetition", shared.ErrEmptyValue, "competition date is required")
	}

	if !params.RegistrationDeadline.IsZero() && params.RegistrationDeadline.After(params.HeldAt) {
		return nil, shared.ErrPastDeadline
	}

	if params.JudgesNeeded < 0 {
		return nil, shared.NewDomainError("program", "NewCompetition", shared.ErrNegativeValue, "judges needed cannot be negative")
	}

	return &Competition{
		ID:                   params.ID,
		Title:                params.Title,
		CaseDomain:           params.CaseDomain,
		HeldAt:               params.HeldAt,
		RegistrationDeadline: params.RegistrationDeadline,
		RequiredSkills:       params.RequiredSkills,
		JudgesNeeded:         params.JudgesNeeded,
		CreatedAt:            time.Now().UTC(),
	}, nil
}

// RegistrationOpen возвращает true, если регистрация ещё открыта.
func (c *Competition) RegistrationOpen(now time.Time) bool {
	if c.RegistrationDeadline.IsZero() {
		return now.Before(c.HeldAt)
	}
	return !now.After(c.RegistrationDeadline)
}
