// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/program"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE EVENT COMMAND
// Creates a program event (mixer, career panel, meetup). The required
// skill list on the subject is what the invitation selector later
// matches stakeholder expertise against.
// ══════════════════════════════════════════════════════════════════════════════

// CreateEventCommand contains the data to create an event.
type CreateEventCommand struct {
	// Title is the event title.
	Title string

	// Description is a free-form description.
	Description string

	// Location is where the event takes place.
	Location string

	// StartsAt is when the event starts.
	StartsAt time.Time

	// RequiredSkills is the expertise the organizers are looking for.
	RequiredSkills []string

	// Capacity limits attendance (0 = unlimited).
	Capacity int

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c CreateEventCommand) Validate() error {
	if c.Title == "" {
		return shared.NewDomainError("command", "CreateEvent", shared.ErrInvalidInput, "title is required")
	}
	if c.StartsAt.IsZero() {
		return shared.NewDomainError("command", "CreateEvent", shared.ErrInvalidInput, "starts_at is required")
	}
	if c.Capacity < 0 {
		return shared.NewDomainError("command", "CreateEvent", shared.ErrNegativeValue, "capacity cannot be negative")
	}
	return nil
}

// CreateEventResult contains the result of creating an event.
type CreateEventResult struct {
	// EventID is the ID of the created event.
	EventID string

	// CreatedAt is when the event was created.
	CreatedAt time.Time

	// Events contains domain events generated.
	Events []shared.Event
}

// CreateEventHandler handles the CreateEventCommand.
type CreateEventHandler struct {
	programRepo    program.Repository
	eventPublisher shared.EventPublisher
}

// NewCreateEventHandler creates a new CreateEventHandler.
func NewCreateEventHandler(
	programRepo program.Repository,
	eventPublisher shared.EventPublisher,
) *CreateEventHandler {
	return &CreateEventHandler{
		programRepo:    programRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the create event command.
func (h *CreateEventHandler) Handle(ctx context.Context, cmd CreateEventCommand) (*CreateEventResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	event, err := program.NewEvent(program.NewEventParams{
		ID:             shared.SubjectID(uuid.NewString()),
		Title:          cmd.Title,
		Description:    cmd.Description,
		Location:       cmd.Location,
		StartsAt:       cmd.StartsAt,
		RequiredSkills: shared.NewSkillSet(cmd.RequiredSkills...),
		Capacity:       cmd.Capacity,
	})
	if err != nil {
		return nil, fmt.Errorf("create_event: failed to create: %w", err)
	}

	if err := h.programRepo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create_event: failed to save: %w", err)
	}

	result := &CreateEventResult{
		EventID:   event.ID.String(),
		CreatedAt: event.CreatedAt,
		Events:    make([]shared.Event, 0),
	}

	evt := shared.SubjectCreatedEvent{
		BaseEvent:      shared.NewBaseEvent(shared.EventEventCreated, event.ID.String()),
		SubjectType:    "event",
		Title:          event.Title,
		RequiredSkills: event.RequiredSkills.Strings(),
	}
	if cmd.CorrelationID != "" {
		evt.BaseEvent = evt.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, evt)
	_ = h.eventPublisher.Publish(ctx, evt)

	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CREATE LECTURE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreateLectureCommand contains the data to create a guest lecture.
type CreateLectureCommand struct {
	// Topic is the lecture topic.
	Topic string

	// CourseName is the course hosting the lecture.
	CourseName string

	// ScheduledAt is when the lecture takes place.
	ScheduledAt time.Time

	// RequiredSkills is the expertise expected from the speaker.
	RequiredSkills []string

	// MinYearsExperience is the minimum speaker experience (0 = any).
	MinYearsExperience int

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c CreateLectureCommand) Validate() error {
	if c.Topic == "" {
		return shared.NewDomainError("command", "CreateLecture", shared.ErrInvalidInput, "topic is required")
	}
	if c.ScheduledAt.IsZero() {
		return shared.NewDomainError("command", "CreateLecture", shared.ErrInvalidInput, "scheduled_at is required")
	}
	if c.MinYearsExperience < 0 {
		return shared.NewDomainError("command", "CreateLecture", shared.ErrNegativeValue, "min_years_experience cannot be negative")
	}
	return nil
}

// CreateLectureResult contains the result of creating a lecture.
type CreateLectureResult struct {
	// LectureID is the ID of the created lecture.
	LectureID string

	// CreatedAt is when the lecture was created.
	CreatedAt time.Time

	// Events contains domain events generated.
	Events []shared.Event
}

// CreateLectureHandler handles the CreateLectureCommand.
type CreateLectureHandler struct {
	programRepo    program.Repository
	eventPublisher shared.EventPublisher
}

// NewCreateLectureHandler creates a new CreateLectureHandler.
func NewCreateLectureHandler(
	programRepo program.Repository,
	eventPublisher shared.EventPublisher,
) *CreateLectureHandler {
	return &CreateLectureHandler{
		programRepo:    programRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the create lecture command.
func (h *CreateLectureHandler) Handle(ctx context.Context, cmd CreateLectureCommand) (*CreateLectureResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	lecture, err := program.NewGuestLecture(program.NewLectureParams{
		ID:                 shared.SubjectID(uuid.NewString()),
		Topic:              cmd.Topic,
		CourseName:         cmd.CourseName,
		ScheduledAt:        cmd.ScheduledAt,
		RequiredSkills:     shared.NewSkillSet(cmd.RequiredSkills...),
		MinYearsExperience: cmd.MinYearsExperience,
	})
	if err != nil {
		return nil, fmt.Errorf("create_lecture: failed to create: %w", err)
	}

	if err := h.programRepo.CreateLecture(ctx, lecture); err != nil {
		return nil, fmt.Errorf("create_lecture: failed to save: %w", err)
	}

	result := &CreateLectureResult{
		LectureID: lecture.ID.String(),
		CreatedAt: lecture.CreatedAt,
		Events:    make([]shared.Event, 0),
	}

	evt := shared.SubjectCreatedEvent{
		BaseEvent:      shared.NewBaseEvent(shared.EventLectureCreated, lecture.ID.String()),
		SubjectType:    "lecture",
		Title:          lecture.Topic,
		RequiredSkills: lecture.RequiredSkills.Strings(),
	}
	if cmd.CorrelationID != "" {
		evt.BaseEvent = evt.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, evt)
	_ = h.eventPublisher.Publish(ctx, evt)

	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CREATE COMPETITION COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreateCompetitionCommand contains the data to create a competition.
type CreateCompetitionCommand struct {
	// Title is the competition title.
	Title string

	// CaseDomain is the business domain of the case.
	CaseDomain string

	// HeldAt is when the competition runs.
	HeldAt time.Time

	// RegistrationDeadline is the team registration cutoff.
	RegistrationDeadline time.Time

	// RequiredSkills is the expertise expected from judges.
	RequiredSkills []string

	// JudgesNeeded is how many judges the competition needs.
	JudgesNeeded int

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c CreateCompetitionCommand) Validate() error {
	if c.Title == "" {
		return shared.NewDomainError("command", "CreateCompetition", shared.ErrInvalidInput, "title is required")
	}
	if c.HeldAt.IsZero() {
		return shared.NewDomainError("command", "CreateCompetition", shared.ErrInvalidInput, "held_at is required")
	}
	if c.JudgesNeeded < 0 {
		return shared.NewDomainError("command", "CreateCompetition", shared.ErrNegativeValue, "judges_needed cannot be negative")
	}
	return nil
}

// CreateCompetitionResult contains the result of creating a competition.
type CreateCompetitionResult struct {
	// CompetitionID is the ID of the created competition.
	CompetitionID string

	// CreatedAt is when the competition was created.
	CreatedAt time.Time

	// Events contains domain events generated.
	Events []shared.Event
}

// CreateCompetitionHandler handles the CreateCompetitionCommand.
type CreateCompetitionHandler struct {
	programRepo    program.Repository
	eventPublisher shared.EventPublisher
}

// NewCreateCompetitionHandler creates a new CreateCompetitionHandler.
func NewCreateCompetitionHandler(
	programRepo program.Repository,
	eventPublisher shared.EventPublisher,
) *CreateCompetitionHandler {
	return &CreateCompetitionHandler{
		programRepo:    programRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the create competition command.
func (h *CreateCompetitionHandler) Handle(ctx context.Context, cmd CreateCompetitionCommand) (*CreateCompetitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	competition, err := program.NewCompetition(program.NewCompetitionParams{
		ID:                   shared.SubjectID(uuid.NewString()),
		Title:                cmd.Title,
		CaseDomain:           cmd.CaseDomain,
		HeldAt:               cmd.HeldAt,
		RegistrationDeadline: cmd.RegistrationDeadline,
		RequiredSkills:       shared.NewSkillSet(cmd.RequiredSkills...),
		JudgesNeeded:         cmd.JudgesNeeded,
	})
	if err != nil {
		return nil, fmt.Errorf("create_competition: failed to create: %w", err)
	}

	if err := h.programRepo.CreateCompetition(ctx, competition); err != nil {
		return nil, fmt.Errorf("create_competition: failed to save: %w", err)
	}

	result := &CreateCompetitionResult{
		CompetitionID: competition.ID.String(),
		CreatedAt:     competition.CreatedAt,
		Events:        make([]shared.Event, 0),
	}

	evt := shared.SubjectCreatedEvent{
		BaseEvent:      shared.NewBaseEvent(shared.EventCompetitionCreated, competition.ID.String()),
		SubjectType:    "competition",
		Title:          competition.Title,
		RequiredSkills: competition.RequiredSkills.Strings(),
	}
	if cmd.CorrelationID != "" {
		evt.BaseEvent = evt.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, evt)
	_ = h.eventPublisher.Publish(ctx, evt)

	return result, nil
}
