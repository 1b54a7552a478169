// Package directory содержит реестр стейкхолдеров CMIS Engagement Hub:
// менторов, судей, спикеров и выпускников, которых платформа
// подбирает под события, лекции и соревнования.
package directory

import (
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/matching"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Role определяет роль стейкхолдера на платформе.
// Один профиль может совмещать несколько ролей.
type Role string

const (
	// RoleMentor - ментор для студентов.
	RoleMentor Role = "mentor"

	// RoleJudge - судья соревнований.
	RoleJudge Role = "judge"

	// RoleSpeaker - приглашённый спикер.
	RoleSpeaker Role = "speaker"

	// RoleAlumni - выпускник программы.
	RoleAlumni Role = "alumni"
)

// IsValid проверяет корректность роли.
func (r Role) IsValid() bool {
	switch r {
	case RoleMentor, RoleJudge, RoleSpeaker, RoleAlumni:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление роли.
func (r Role) String() string {
	return string(r)
}

// RoleSet представляет набор ролей профиля.
type RoleSet []Role

// Has возвращает true, если набор содержит роль.
func (rs RoleSet) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// IsValid проверяет, что набор не пуст и все роли корректны.
func (rs RoleSet) IsValid() bool {
	if len(rs) == 0 {
		return false
	}
	for _, r := range rs {
		if !r.IsValid() {
			return false
		}
	}
	return true
}

// Strings возвращает роли в виде строк.
func (rs RoleSet) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// STAKEHOLDER PROFILE ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// StakeholderProfile представляет профиль стейкхолдера в реестре.
type StakeholderProfile struct {
	// ID - уникальный идентификатор профиля (UUID).
	ID shared.ProfileID

	// FullName - полное имя.
	FullName string

	// Email - контактный email.
	Email shared.Email

	// Roles - роли на платформе.
	Roles RoleSet

	// Skills - заявленная экспертиза.
	Skills shared.SkillSet

	// Organization - место работы.
	Organization string

	// Title - должность.
	Title string

	// YearsExperience - стаж в годах.
	YearsExperience int

	// Available - готов ли профиль получать приглашения.
	Available bool

	// RegisteredAt - когда профиль зарегистрирован.
	RegisteredAt time.Time
}

// NewProfileParams содержит параметры для создания профиля.
type NewProfileParams struct {
	ID              shared.ProfileID
	FullName        string
	Email           shared.Email
	Roles           RoleSet
	Skills          shared.SkillSet
	Organization    string
	Title           string
	YearsExperience int
}

// NewStakeholderProfile создаёт профиль с валидацией.
// Новый профиль доступен для приглашений по умолчанию.
func NewStakeholderProfile(params NewProfileParams) (*StakeholderProfile, error) {
	if !params.ID.IsValid() {
		return nil, shared.NewDomainError("directory", "New", shared.ErrInvalidID, "profile id is required")
	}

	if params.FullName == "" {
		return nil, shared.NewDomainError("directory", "New", shared.ErrEmptyValue, "full name is required")
	}

	if !params.Email.IsValid() {
		return nil, shared.NewDomainError("directory", "New", shared.ErrInvalidFormat, "email is invalid")
	}

	if !params.Roles.IsValid() {
		return nil, shared.ErrInvalidProfileRole
	}

	if params.YearsExperience < 0 {
		return nil, shared.NewDomainError("directory", "New", shared.ErrNegativeValue, "years of experience cannot be negative")
	}

	return &StakeholderProfile{
		ID:              params.ID,
		FullName:        params.FullName,
		Email:           params.Email.Normalize(),
		Roles:           params.Roles,
		Skills:          params.Skills,
		Organization:    params.Organization,
		Title:           params.Title,
		YearsExperience: params.YearsExperience,
		Available:       true,
		RegisteredAt:    time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// Candidate проецирует профиль в кандидата для движка подбора.
// Движок видит только идентичность и навыки.
func (p *StakeholderProfile) Candidate() matching.Candidate {
	return matching.Candidate{
		ID:          matching.CandidateID(p.ID.String()),
		DisplayName: p.FullName,
		Skills:      p.Skills,
	}
}

// CanServe возвращает true, если профиль доступен и несёт роль.
func (p *StakeholderProfile) CanServe(role Role) bool {
	return p.Available && p.Roles.Has(role)
}

// UpdateSkills заменяет набор навыков профиля.
func (p *StakeholderProfile) UpdateSkills(skills shared.SkillSet) {
	p.Skills = skills
}

// SetAvailability переключает доступность для приглашений.
func (p *StakeholderProfile) SetAvailability(available bool) {
	p.Available = available
}
