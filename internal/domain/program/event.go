// Package program содержит предметы приглашений CMIS Engagement Hub:
// события, гостевые лекции и соревнования. Каждый предмет несёт набор
// требуемых навыков, по которому движок подбора оценивает кандидатов.
package program

import (
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// Event представляет событие программы: митап, networking mixer,
// карьерная панель.
type Event struct {
	// ID - уникальный идентификатор события.
	ID shared.SubjectID

	// Title - название события.
	Title string

	// Description - описание.
	Description string

	// Location - место проведения.
	Location string

	// StartsAt - когда событие начинается.
	StartsAt time.Time

	// RequiredSkills - экспертиза, которую ищем у участников.
	RequiredSkills shared.SkillSet

	// Capacity - ограничение по числу участников (0 = без лимита).
	Capacity int

	// CreatedAt - когда запись создана.
	CreatedAt time.Time
}

// NewEventParams содержит параметры для создания события.
type NewEventParams struct {
	ID             shared.SubjectID
	Title          string
	Description    string
	Location       string
	StartsAt       time.Time
	RequiredSkills shared.SkillSet
	Capacity       int
}

// NewEvent создаёт событие с валидацией.
func NewEvent(params NewEventParams) (*Event, error) {
	if !params.ID.IsValid() {
		return nil, shared.NewDomainError("program", "NewEvent", shared.ErrInvalidID, "event id is required")
	}

	if params.Title == "" {
		return nil, shared.NewDomainError("program", "NewEvent", shared.ErrEmptyValue, "event title is required")
	}

	if params.StartsAt.IsZero() {
		return nil, shared.NewDomainError("program", "NewEvent", shared.ErrEmptyValue, "event start time is required")
	}

	if params.Capacity < 0 {
		return nil, shared.NewDomainError("program", "NewEvent", shared.ErrNegativeValue, "event capacity cannot be negative")
	}

	return &Event{
		ID:             params.ID,
		Title:          params.Title,
		Description:    params.Description,
		Location:       params.Location,
		StartsAt:       params.StartsAt,
		RequiredSkills: params.RequiredSkills,
		Capacity:       params.Capacity,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
