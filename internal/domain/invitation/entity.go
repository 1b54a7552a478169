// Package invitation содержит доменную модель приглашений CMIS Engagement Hub.
// Приглашение — это персистентная запись предложения стейкхолдеру
// (судье, спикеру, ментору) поучаствовать в событии, лекции или
// соревновании. Создаётся ровно один раз на пару (получатель, предмет).
package invitation

import (
	"fmt"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// InvitationID представляет уникальный идентификатор приглашения.
type InvitationID string

// IsValid проверяет, что ID не пустой.
func (id InvitationID) IsValid() bool {
	return len(id) > 0
}

// String возвращает строковое представление ID.
func (id InvitationID) String() string {
	return string(id)
}

// SubjectType определяет тип предмета приглашения.
type SubjectType string

const (
	// SubjectEvent - событие (митап, networking mixer).
	SubjectEvent SubjectType = "event"

	// SubjectLecture - гостевая лекция.
	SubjectLecture SubjectType = "lecture"

	// SubjectCompetition - соревнование (кейс-чемпионат, хакатон).
	SubjectCompetition SubjectType = "competition"
)

// IsValid проверяет корректность типа предмета.
func (t SubjectType) IsValid() bool {
	switch t {
	case SubjectEvent, SubjectLecture, SubjectCompetition:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление типа.
func (t SubjectType) String() string {
	return string(t)
}

// SubjectRef однозначно указывает на предмет приглашения.
type SubjectRef struct {
	// Type - тип предмета.
	Type SubjectType

	// ID - идентификатор предмета.
	ID shared.SubjectID
}

// IsValid проверяет корректность ссылки.
func (r SubjectRef) IsValid() bool {
	return r.Type.IsValid() && r.ID.IsValid()
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// Единственные разрешённые переходы: pending → accepted, pending → declined.
// Оба конечные. Приглашения не истекают — вместо этого по pending
// рассылаются follow-up напоминания.
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет статус приглашения.
type Status string

const (
	// StatusPending - ожидает ответа получателя.
	StatusPending Status = "pending"

	// StatusAccepted - получатель принял.
	StatusAccepted Status = "accepted"

	// StatusDeclined - получатель отклонил.
	StatusDeclined Status = "declined"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined:
		return true
	default:
		return false
	}
}

// IsPending возвращает true, если приглашение ожидает ответа.
func (s Status) IsPending() bool {
	return s == StatusPending
}

// IsFinal возвращает true, если статус конечный.
func (s Status) IsFinal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// ══════════════════════════════════════════════════════════════════════════════
// INVITATION ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Invitation представляет приглашение стейкхолдера.
type Invitation struct {
	// ID - уникальный идентификатор приглашения (UUID).
	ID InvitationID

	// RecipientID - кого приглашаем.
	RecipientID shared.ProfileID

	// RecipientName - имя получателя (денормализовано для писем).
	RecipientName string

	// RecipientEmail - email получателя.
	RecipientEmail shared.Email

	// Subject - на что приглашаем.
	Subject SubjectRef

	// SubjectTitle - название предмета (денормализовано для писем).
	SubjectTitle string

	// MatchedTerms - общие навыки, из-за которых кандидат отобран.
	MatchedTerms shared.SkillSet

	// MatchReason - человекочитаемая причина приглашения.
	MatchReason string

	// MatchScore - оценка совместимости на момент отбора (0-100).
	MatchScore int

	// Status - текущий статус.
	Status Status

	// SentAt - когда приглашение создано/отправлено.
	SentAt time.Time

	// RespondedAt - когда получен ответ (nil до ответа).
	RespondedAt *time.Time

	// FollowUpCount - сколько напоминаний уже отправлено.
	FollowUpCount int

	// LastFollowUpAt - когда отправлено последнее напоминание.
	LastFollowUpAt *time.Time
}

// NewInvitationParams содержит параметры для создания приглашения.
type NewInvitationParams struct {
	ID             InvitationID
	RecipientID    shared.ProfileID
	RecipientName  string
	RecipientEmail shared.Email
	Subject        SubjectRef
	SubjectTitle   string
	MatchedTerms   shared.SkillSet
	MatchScore     int
}

// NewInvitation создаёт новое приглашение с валидацией.
// MatchReason выводится из MatchedTerms автоматически.
func NewInvitation(params NewInvitationParams) (*Invitation, error) {
	if !params.ID.IsValid() {
		return nil, shared.NewDomainError("invitation", "New", shared.ErrInvalidID, "invitation id is required")
	}

	if !params.RecipientID.IsValid() {
		return nil, shared.ErrInvalidRecipient
	}

	if !params.RecipientEmail.IsValid() {
		return nil, shared.NewDomainError("invitation", "New", shared.ErrInvalidFormat, "recipient email is invalid")
	}

	if !params.Subject.IsValid() {
		return nil, shared.ErrInvalidSubjectType
	}

	if params.MatchScore < 0 || params.MatchScore > 100 {
		return nil, shared.ErrInvalidMatchScore
	}

	return &Invitation{
		ID:             params.ID,
		RecipientID:    params.RecipientID,
		RecipientName:  params.RecipientName,
		RecipientEmail: params.RecipientEmail,
		Subject:        params.Subject,
		SubjectTitle:   params.SubjectTitle,
		MatchedTerms:   params.MatchedTerms,
		MatchReason:    BuildMatchReason(params.MatchedTerms),
		MatchScore:     params.MatchScore,
		Status:         StatusPending,
		SentAt:         time.Now().UTC(),
	}, nil
}

// BuildMatchReason строит человекочитаемую причину приглашения.
func BuildMatchReason(matchedTerms shared.SkillSet) string {
	if matchedTerms.IsEmpty() {
		return "Invited by the program organizers"
	}
	return fmt.Sprintf("Matched based on expertise in %s", matchedTerms.Join(", "))
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// Accept принимает приглашение. Переход конечный.
func (i *Invitation) Accept() error {
	if i.Status.IsFinal() {
		return shared.ErrInvitationResolved
	}

	now := time.Now().UTC()
	i.Status = StatusAccepted
	i.RespondedAt = &now
	return nil
}

// Decline отклоняет приглашение. Переход конечный.
func (i *Invitation) Decline() error {
	if i.Status.IsFinal() {
		return shared.ErrInvitationResolved
	}

	now := time.Now().UTC()
	i.Status = StatusDeclined
	i.RespondedAt = &now
	return nil
}

// NeedsFollowUp возвращает true, если по приглашению пора отправить
// напоминание: оно всё ещё pending, с отправки (или последнего
// напоминания) прошло не меньше threshold, и лимит maxFollowUps
// не исчерпан.
func (i *Invitation) NeedsFollowUp(now time.Time, threshold time.Duration, maxFollowUps int) bool {
	if !i.Status.IsPending() {
		return false
	}
	if i.FollowUpCount >= maxFollowUps {
		return false
	}

	since := i.SentAt
	if i.LastFollowUpAt != nil {
		since = *i.LastFollowUpAt
	}
	return now.Sub(since) >= threshold
}

// RecordFollowUp регистрирует отправленное напоминание.
func (i *Invitation) RecordFollowUp(now time.Time) error {
	if !i.Status.IsPending() {
		return shared.ErrInvitationResolved
	}

	i.FollowUpCount++
	at := now.UTC()
	i.LastFollowUpAt = &at
	return nil
}
