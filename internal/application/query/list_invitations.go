package query

import (
	"context"
	"fmt"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST INVITATIONS QUERY
// Возвращает приглашения стейкхолдера или предмета — дашборд судьи
// ("мои приглашения") и панель организатора ("кого мы позвали").
// ══════════════════════════════════════════════════════════════════════════════

// ListInvitationsQuery содержит параметры запроса.
// Задаётся ровно один из RecipientID / SubjectType+SubjectID.
type ListInvitationsQuery struct {
	// RecipientID - показать приглашения получателя.
	RecipientID string

	// SubjectType - тип предмета (вместе с SubjectID).
	SubjectType string

	// SubjectID - показать приглашения на предмет.
	SubjectID string

	// Status - фильтр по статусу (пустой = все).
	Status string
}

// Validate проверяет корректность параметров.
func (q *ListInvitationsQuery) Validate() error {
	hasRecipient := q.RecipientID != ""
	hasSubject := q.SubjectID != ""
	if hasRecipient == hasSubject {
		return shared.NewDomainError("query", "ListInvitations", shared.ErrInvalidInput, "exactly one of recipient_id or subject_id is required")
	}
	if hasSubject && !invitation.SubjectType(q.SubjectType).IsValid() {
		return shared.NewDomainError("query", "ListInvitations", shared.ErrInvalidInput, fmt.Sprintf("invalid subject type: %s", q.SubjectType))
	}
	if q.Status != "" && !invitation.Status(q.Status).IsValid() {
		return shared.NewDomainError("query", "ListInvitations", shared.ErrInvalidInput, fmt.Sprintf("invalid status: %s", q.Status))
	}
	return nil
}

// InvitationDTO - DTO одного приглашения.
type InvitationDTO struct {
	// ID - идентификатор приглашения.
	ID string `json:"id"`

	// RecipientID - кто приглашён.
	RecipientID string `json:"recipient_id"`

	// RecipientName - имя приглашённого.
	RecipientName string `json:"recipient_name"`

	// SubjectType - тип предмета.
	SubjectType string `json:"subject_type"`

	// SubjectID - идентификатор предмета.
	SubjectID string `json:"subject_id"`

	// SubjectTitle - название предмета.
	SubjectTitle string `json:"subject_title"`

	// MatchedTerms - общие навыки на момент отбора.
	MatchedTerms []string `json:"matched_terms"`

	// MatchReason - причина приглашения.
	MatchReason string `json:"match_reason"`

	// MatchScore - оценка совместимости (0-100).
	MatchScore int `json:"match_score"`

	// Status - текущий статус.
	Status string `json:"status"`

	// SentAt - когда отправлено.
	SentAt time.Time `json:"sent_at"`

	// RespondedAt - когда получен ответ.
	RespondedAt *time.Time `json:"responded_at,omitempty"`

	// FollowUpCount - сколько напоминаний отправлено.
	FollowUpCount int `json:"follow_up_count"`
}

// InvitationListDTO - результат запроса.
type InvitationListDTO struct {
	// Invitations - приглашения, от новых к старым.
	Invitations []InvitationDTO `json:"invitations"`

	// Total - количество после фильтра.
	Total int `json:"total"`
}

// ListInvitationsHandler обрабатывает ListInvitationsQuery.
type ListInvitationsHandler struct {
	invitationRepo invitation.Repository
}

// NewListInvitationsHandler создаёт новый обработчик.
func NewListInvitationsHandler(invitationRepo invitation.Repository) *ListInvitationsHandler {
	return &ListInvitationsHandler{invitationRepo: invitationRepo}
}

// Handle выполняет выборку приглашений.
func (h *ListInvitationsHandler) Handle(ctx context.Context, q ListInvitationsQuery) (*InvitationListDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("list_invitations: %w", err)
	}

	var (
		invitations []*invitation.Invitation
		err         error
	)
	if q.RecipientID != "" {
		invitations, err = h.invitationRepo.FindByRecipient(ctx, shared.ProfileID(q.RecipientID))
	} else {
		invitations, err = h.invitationRepo.FindBySubject(ctx, invitation.SubjectRef{
			Type: invitation.SubjectType(q.SubjectType),
			ID:   shared.SubjectID(q.SubjectID),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("list_invitations: failed to load: %w", err)
	}

	dto := &InvitationListDTO{Invitations: make([]InvitationDTO, 0, len(invitations))}
	for _, inv := range invitations {
		if q.Status != "" && inv.Status != invitation.Status(q.Status) {
			continue
		}
		dto.Invitations = append(dto.Invitations, toInvitationDTO(inv))
	}
	dto.Total = len(dto.Invitations)

	return dto, nil
}

func toInvitationDTO(inv *invitation.Invitation) InvitationDTO {
	return InvitationDTO{
		ID:            inv.ID.String(),
		RecipientID:   inv.RecipientID.String(),
		RecipientName: inv.RecipientName,
		SubjectType:   inv.Subject.Type.String(),
		SubjectID:     inv.Subject.ID.String(),
		SubjectTitle:  inv.SubjectTitle,
		MatchedTerms:  inv.MatchedTerms.Strings(),
		MatchReason:   inv.MatchReason,
		MatchScore:    inv.MatchScore,
		Status:        string(inv.Status),
		SentAt:        inv.SentAt,
		RespondedAt:   inv.RespondedAt,
		FollowUpCount: inv.FollowUpCount,
	}
}
