package program

import (
	"context"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// Виды предметов. Значения совпадают с типами предметов приглашений.
const (
	KindEvent       = "event"
	KindLecture     = "lecture"
	KindCompetition = "competition"
)

// EndedSubject описывает завершившийся предмет, участников которого
// ещё не поблагодарили.
type EndedSubject struct {
	// ID - идентификатор предмета.
	ID shared.SubjectID

	// Kind - вид предмета: event, lecture или competition.
	Kind string

	// Title - название предмета (тема для лекций).
	Title string

	// EndedAt - когда предмет прошёл.
	EndedAt time.Time
}

// Repository определяет контракт хранилища предметов программы.
// Find* возвращают shared.ErrSubjectNotFound, если предмета нет.
type Repository interface {
	// CreateEvent сохраняет новое событие.
	CreateEvent(ctx context.Context, event *Event) error

	// CreateLecture сохраняет новую лекцию.
	CreateLecture(ctx context.Context, lecture *GuestLecture) error

	// CreateCompetition сохраняет новое соревнование.
	CreateCompetition(ctx context.Context, competition *Competition) error

	// FindEventByID возвращает событие по ID.
	FindEventByID(ctx context.Context, id shared.SubjectID) (*Event, error)

	// FindLectureByID возвращает лекцию по ID.
	FindLectureByID(ctx context.Context, id shared.SubjectID) (*GuestLecture, error)

	// FindCompetitionByID возвращает соревнование по ID.
	FindCompetitionByID(ctx context.Context, id shared.SubjectID) (*Competition, error)

	// FindEndedUnthanked возвращает предметы, прошедшие до cutoff,
	// по которым благодарственные письма ещё не отправлялись.
	FindEndedUnthanked(ctx context.Context, cutoff time.Time) ([]EndedSubject, error)

	// MarkAppreciationSent помечает предмет как отблагодарённый,
	// чтобы следующий проход его не трогал.
	MarkAppreciationSent(ctx context.Context, kind string, id shared.SubjectID) error

	// CountSubjects возвращает количество предметов по типам.
	CountSubjects(ctx context.Context) (events, lectures, competitions int, err error)
}
