package program

import (
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// GuestLecture представляет гостевую лекцию в рамках курса.
type GuestLecture struct {
	// ID - уникальный идентификатор лекции.
	ID shared.SubjectID

	// Topic - тема лекции.
	Topic string

	// CourseName - курс, в рамках которого читается лекция.
	CourseName string

	// ScheduledAt - когда лекция запланирована.
	ScheduledAt time.Time

	// RequiredSkills - экспертиза, которую ищем у спикера.
	RequiredSkills shared.SkillSet

	// MinYearsExperience - минимальный стаж спикера (0 = без требования).
	MinYearsExperience int

	// CreatedAt - когда запись создана.
	CreatedAt time.Time
}

// NewLectureParams содержит параметры для создания лекции.
type NewLectureParams struct {
	ID                 shared.SubjectID
	Topic              string
	CourseName         string
	ScheduledAt        time.Time
	RequiredSkills     shared.SkillSet
	MinYearsExperience int
}

// NewGuestLecture создаёт лекцию с валидацией.
func NewGuestLecture(params NewLectureParams) (*GuestLecture, error) {
	if !params.ID.IsValid() {
		return nil, shared.NewDomainError("program", "NewLecture", shared.ErrInvalidID, "lecture id is required")
	}

	if params.Topic == "" {
		return nil, shared.NewDomainError("program", "NewLecture", shared.ErrEmptyValue, "lecture topic is required")
	}

	if params.ScheduledAt.IsZero() {
		return nil, shared.NewDomainError("program", "NewLecture", shared.ErrEmptyValue, "lecture schedule time is required")
	}

	if params.MinYearsExperience < 0 {
		return nil, shared.NewDomainError("program", "NewLecture", shared.ErrNegativeValue, "minimum experience cannot be negative")
	}

	return &GuestLecture{
		ID:                 params.ID,
		Topic:              params.Topic,
		CourseName:         params.CourseName,
		ScheduledAt:        params.ScheduledAt,
		RequiredSkills:     params.RequiredSkills,
		MinYearsExperience: params.MinYearsExperience,
		CreatedAt:          time.Now().UTC(),
	}, nil
}
