package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/program"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRAM REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgramRepository implements program.Repository for PostgreSQL.
// Events, guest lectures, and competitions live in separate tables;
// the application layer decides which one an invitation run targets.
type ProgramRepository struct {
	conn *Connection
}

// NewProgramRepository creates a new ProgramRepository.
func NewProgramRepository(conn *Connection) *ProgramRepository {
	return &ProgramRepository{conn: conn}
}

// CreateEvent stores a new networking event.
func (r *ProgramRepository) CreateEvent(ctx context.Context, event *program.Event) error {
	query := `
		INSERT INTO events (
			id, title, description, location, starts_at, required_skills, capacity, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.Exec(ctx, query,
		string(event.ID),
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.RequiredSkills.Strings(),
		event.Capacity,
		event.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("program", "CreateEvent", shared.ErrAlreadyExists, "event already exists", err)
		}
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// CreateLecture stores a new guest lecture.
func (r *ProgramRepository) CreateLecture(ctx context.Context, lecture *program.GuestLecture) error {
	query := `
		INSERT INTO guest_lectures (
			id, topic, course_name, scheduled_at, required_skills, min_years_experience, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		string(lecture.ID),
		lecture.Topic,
		lecture.CourseName,
		lecture.ScheduledAt,
		lecture.RequiredSkills.Strings(),
		lecture.MinYearsExperience,
		lecture.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("program", "CreateLecture", shared.ErrAlreadyExists, "lecture already exists", err)
		}
		return fmt.Errorf("failed to create lecture: %w", err)
	}

	return nil
}

// CreateCompetition stores a new case competition.
func (r *ProgramRepository) CreateCompetition(ctx context.Context, competition *program.Competition) error {
	query := `
		INSERT INTO competitions (
			id, title, case_domain, held_at, registration_deadline,
			required_skills, judges_needed, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.Exec(ctx, query,
		string(competition.ID),
		competition.Title,
		competition.CaseDomain,
		competition.HeldAt,
		competition.RegistrationDeadline,
		competition.RequiredSkills.Strings(),
		competition.JudgesNeeded,
		competition.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("program", "CreateCompetition", shared.ErrAlreadyExists, "competition already exists", err)
		}
		return fmt.Errorf("failed to create competition: %w", err)
	}

	return nil
}

// FindEventByID returns an event by ID.
func (r *ProgramRepository) FindEventByID(ctx context.Context, id shared.SubjectID) (*program.Event, error) {
	query := `
		SELECT id, title, description, location, starts_at, required_skills, capacity, created_at
		FROM events
		WHERE id = $1
	`

	var (
		e      program.Event
		eid    string
		skills []string
	)

	err := r.conn.QueryRow(ctx, query, string(id)).Scan(
		&eid,
		&e.Title,
		&e.Description,
		&e.Location,
		&e.StartsAt,
		&skills,
		&e.Capacity,
		&e.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	e.ID = shared.SubjectID(eid)
	e.RequiredSkills = shared.NewSkillSet(skills...)

	return &e, nil
}

// FindLectureByID returns a guest lecture by ID.
func (r *ProgramRepository) FindLectureByID(ctx context.Context, id shared.SubjectID) (*program.GuestLecture, error) {
	query := `
		SELECT id, topic, course_name, scheduled_at, required_skills, min_years_experience, created_at
		FROM guest_lectures
		WHERE id = $1
	`

	var (
		l      program.GuestLecture
		lid    string
		skills []string
	)

	err := r.conn.QueryRow(ctx, query, string(id)).Scan(
		&lid,
		&l.Topic,
		&l.CourseName,
		&l.ScheduledAt,
		&skills,
		&l.MinYearsExperience,
		&l.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to find lecture: %w", err)
	}

	l.ID = shared.SubjectID(lid)
	l.RequiredSkills = shared.NewSkillSet(skills...)

	return &l, nil
}

// FindCompetitionByID returns a competition by ID.
func (r *ProgramRepository) FindCompetitionByID(ctx context.Context, id shared.SubjectID) (*program.Competition, error) {
	query := `
		SELECT id, title, case_domain, held_at, registration_deadline,
			   required_skills, judges_needed, created_at
		FROM competitions
		WHERE id = $1
	`

	var (
		c      program.Competition
		cid    string
		skills []string
	)

	err := r.conn.QueryRow(ctx, query, string(id)).Scan(
		&cid,
		&c.Title,
		&c.CaseDomain,
		&c.HeldAt,
		&c.RegistrationDeadline,
		&skills,
		&c.JudgesNeeded,
		&c.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to find competition: %w", err)
	}

	c.ID = shared.SubjectID(cid)
	c.RequiredSkills = shared.NewSkillSet(skills...)

	return &c, nil
}

// FindEndedUnthanked returns subjects that concluded before cutoff and
// whose participants have not been thanked yet.
func (r *ProgramRepository) FindEndedUnthanked(ctx context.Context, cutoff time.Time) ([]program.EndedSubject, error) {
	query := `
		SELECT id, 'event' AS kind, title, starts_at AS ended_at
		FROM events
		WHERE starts_at < $1 AND appreciation_sent = FALSE
		UNION ALL
		SELECT id, 'lecture', topic, scheduled_at
		FROM guest_lectures
		WHERE scheduled_at < $1 AND appreciation_sent = FALSE
		UNION ALL
		SELECT id, 'competition', title, held_at
		FROM competitions
		WHERE held_at < $1 AND appreciation_sent = FALSE
		ORDER BY ended_at
	`

	rows, err := r.conn.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to find ended subjects: %w", err)
	}
	defer rows.Close()

	ended := make([]program.EndedSubject, 0)
	for rows.Next() {
		var (
			s  program.EndedSubject
			id string
		)
		if err := rows.Scan(&id, &s.Kind, &s.Title, &s.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ended subject: %w", err)
		}
		s.ID = shared.SubjectID(id)
		ended = append(ended, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ended subjects: %w", err)
	}

	return ended, nil
}

// MarkAppreciationSent flips the appreciation flag so the next sweep
// skips the subject.
func (r *ProgramRepository) MarkAppreciationSent(ctx context.Context, kind string, id shared.SubjectID) error {
	var table string
	switch kind {
	case program.KindEvent:
		table = "events"
	case program.KindLecture:
		table = "guest_lectures"
	case program.KindCompetition:
		table = "competitions"
	default:
		return shared.NewDomainError("program", "MarkAppreciationSent", shared.ErrInvalidInput, "unknown subject kind")
	}

	tag, err := r.conn.Exec(ctx, fmt.Sprintf("UPDATE %s SET appreciation_sent = TRUE WHERE id = $1", table), string(id))
	if err != nil {
		return fmt.Errorf("failed to mark appreciation sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSubjectNotFound
	}

	return nil
}

// CountSubjects returns per-type subject counts for the analytics dashboard.
func (r *ProgramRepository) CountSubjects(ctx context.Context) (events, lectures, competitions int, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM guest_lectures),
			(SELECT COUNT(*) FROM competitions)
	`

	if err = r.conn.QueryRow(ctx, query).Scan(&events, &lectures, &competitions); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count subjects: %w", err)
	}

	return events, lectures, competitions, nil
}
