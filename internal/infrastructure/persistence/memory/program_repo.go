package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/program"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ProgramRepository is an in-memory program.Repository.
type ProgramRepository struct {
	mu           sync.RWMutex
	events       map[shared.SubjectID]*program.Event
	lectures     map[shared.SubjectID]*program.GuestLecture
	competitions map[shared.SubjectID]*program.Competition
	thanked      map[string]bool // kind + "/" + id
}

// NewProgramRepository creates an empty in-memory program store.
func NewProgramRepository() *ProgramRepository {
	return &ProgramRepository{
		events:       make(map[shared.SubjectID]*program.Event),
		lectures:     make(map[shared.SubjectID]*program.GuestLecture),
		competitions: make(map[shared.SubjectID]*program.Competition),
		thanked:      make(map[string]bool),
	}
}

// CreateEvent implements program.Repository.
func (r *ProgramRepository) CreateEvent(_ context.Context, event *program.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[event.ID]; ok {
		return shared.NewDomainError("program", "CreateEvent", shared.ErrAlreadyExists, "event already exists")
	}
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

// CreateLecture implements program.Repository.
func (r *ProgramRepository) CreateLecture(_ context.Context, lecture *program.GuestLecture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lectures[lecture.ID]; ok {
		return shared.NewDomainError("program", "CreateLecture", shared.ErrAlreadyExists, "lecture already exists")
	}
	cp := *lecture
	r.lectures[lecture.ID] = &cp
	return nil
}

// CreateCompetition implements program.Repository.
func (r *ProgramRepository) CreateCompetition(_ context.Context, competition *program.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.competitions[competition.ID]; ok {
		return shared.NewDomainError("program", "CreateCompetition", shared.ErrAlreadyExists, "competition already exists")
	}
	cp := *competition
	r.competitions[competition.ID] = &cp
	return nil
}

// FindEventByID implements program.Repository.
func (r *ProgramRepository) FindEventByID(_ context.Context, id shared.SubjectID) (*program.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	if !ok {
		return nil, shared.ErrSubjectNotFound
	}
	cp := *event
	return &cp, nil
}

// FindLectureByID implements program.Repository.
func (r *ProgramRepository) FindLectureByID(_ context.Context, id shared.SubjectID) (*program.GuestLecture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lecture, ok := r.lectures[id]
	if !ok {
		return nil, shared.ErrSubjectNotFound
	}
	cp := *lecture
	return &cp, nil
}

// FindCompetitionByID implements program.Repository.
func (r *ProgramRepository) FindCompetitionByID(_ context.Context, id shared.SubjectID) (*program.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	competition, ok := r.competitions[id]
	if !ok {
		return nil, shared.ErrSubjectNotFound
	}
	cp := *competition
	return &cp, nil
}

// FindEndedUnthanked implements program.Repository.
func (r *ProgramRepository) FindEndedUnthanked(_ context.Context, cutoff time.Time) ([]program.EndedSubject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ended := make([]program.EndedSubject, 0)

	for id, event := range r.events {
		if event.StartsAt.Before(cutoff) && !r.thanked[thankedKey(program.KindEvent, id)] {
			ended = append(ended, program.EndedSubject{
				ID:      id,
				Kind:    program.KindEvent,
				Title:   event.Title,
				EndedAt: event.StartsAt,
			})
		}
	}
	for id, lecture := range r.lectures {
		if lecture.ScheduledAt.Before(cutoff) && !r.thanked[thankedKey(program.KindLecture, id)] {
			ended = append(ended, program.EndedSubject{
				ID:      id,
				Kind:    program.KindLecture,
				Title:   lecture.Topic,
				EndedAt: lecture.ScheduledAt,
			})
		}
	}
	for id, competition := range r.competitions {
		if competition.HeldAt.Before(cutoff) && !r.thanked[thankedKey(program.KindCompetition, id)] {
			ended = append(ended, program.EndedSubject{
				ID:      id,
				Kind:    program.KindCompetition,
				Title:   competition.Title,
				EndedAt: competition.HeldAt,
			})
		}
	}

	return ended, nil
}

// MarkAppreciationSent implements program.Repository.
func (r *ProgramRepository) MarkAppreciationSent(_ context.Context, kind string, id shared.SubjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var exists bool
	switch kind {
	case program.KindEvent:
		_, exists = r.events[id]
	case program.KindLecture:
		_, exists = r.lectures[id]
	case program.KindCompetition:
		_, exists = r.competitions[id]
	default:
		return shared.NewDomainError("program", "MarkAppreciationSent", shared.ErrInvalidInput, "unknown subject kind")
	}
	if !exists {
		return shared.ErrSubjectNotFound
	}

	r.thanked[thankedKey(kind, id)] = true
	return nil
}

func thankedKey(kind string, id shared.SubjectID) string {
	return kind + "/" + string(id)
}

// CountSubjects implements program.Repository.
func (r *ProgramRepository) CountSubjects(_ context.Context) (events, lectures, competitions int, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events), len(r.lectures), len(r.competitions), nil
}
