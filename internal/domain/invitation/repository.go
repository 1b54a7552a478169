package invitation

import (
	"context"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// Repository определяет контракт хранилища приглашений.
// Create обязан отклонять дубликаты по паре (получатель, предмет)
// ошибкой shared.ErrDuplicateInvitation.
type Repository interface {
	// Create сохраняет новое приглашение.
	Create(ctx context.Context, inv *Invitation) error

	// Update сохраняет изменённое приглашение.
	Update(ctx context.Context, inv *Invitation) error

	// FindByID возвращает приглашение по ID.
	FindByID(ctx context.Context, id InvitationID) (*Invitation, error)

	// FindBySubject возвращает все приглашения на предмет.
	FindBySubject(ctx context.Context, subject SubjectRef) ([]*Invitation, error)

	// FindByRecipient возвращает все приглашения получателя.
	FindByRecipient(ctx context.Context, recipientID shared.ProfileID) ([]*Invitation, error)

	// FindPendingBefore возвращает pending приглашения, отправленные
	// (или последний раз напомненные) не позже cutoff. Используется
	// планировщиком follow-up рассылки.
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]*Invitation, error)

	// CountByStatus возвращает количество приглашений по статусам.
	CountByStatus(ctx context.Context) (map[Status]int, error)
}
