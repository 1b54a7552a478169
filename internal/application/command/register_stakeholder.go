package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STAKEHOLDER COMMAND
// Добавляет профиль в каталог стейкхолдеров. Email уникален: повторная
// регистрация завершается ErrProfileAlreadyExists.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStakeholderCommand contains the data to register a profile.
type RegisterStakeholderCommand struct {
	// FullName is the stakeholder's display name.
	FullName string

	// Email is the contact email (unique across the directory).
	Email string

	// Roles the stakeholder can serve: mentor, judge, speaker, alumni.
	Roles []string

	// Skills is the declared expertise.
	Skills []string

	// Organization is where the stakeholder works.
	Organization string

	// Title is the stakeholder's job title.
	Title string

	// YearsExperience is professional experience in years.
	YearsExperience int

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RegisterStakeholderCommand) Validate() error {
	if c.FullName == "" {
		return shared.NewDomainError("command", "RegisterStakeholder", shared.ErrInvalidInput, "full_name is required")
	}
	if c.Email == "" {
		return shared.NewDomainError("command", "RegisterStakeholder", shared.ErrInvalidInput, "email is required")
	}
	if len(c.Roles) == 0 {
		return shared.NewDomainError("command", "RegisterStakeholder", shared.ErrInvalidInput, "at least one role is required")
	}
	return nil
}

// RegisterStakeholderResult contains the result of registering a profile.
type RegisterStakeholderResult struct {
	// ProfileID is the ID of the created profile.
	ProfileID string

	// RegisteredAt is when the profile was registered.
	RegisteredAt time.Time
}

// RegisterStakeholderHandler handles the RegisterStakeholderCommand.
type RegisterStakeholderHandler struct {
	directoryRepo  directory.Repository
	eventPublisher shared.EventPublisher
}

// NewRegisterStakeholderHandler creates a new RegisterStakeholderHandler.
func NewRegisterStakeholderHandler(directoryRepo directory.Repository, eventPublisher shared.EventPublisher) *RegisterStakeholderHandler {
	return &RegisterStakeholderHandler{
		directoryRepo:  directoryRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the register stakeholder command.
func (h *RegisterStakeholderHandler) Handle(ctx context.Context, cmd RegisterStakeholderCommand) (*RegisterStakeholderResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	roles := make(directory.RoleSet, 0, len(cmd.Roles))
	for _, r := range cmd.Roles {
		roles = append(roles, directory.Role(r))
	}

	profile, err := directory.NewStakeholderProfile(directory.NewProfileParams{
		ID:              shared.ProfileID(uuid.NewString()),
		FullName:        cmd.FullName,
		Email:           shared.Email(cmd.Email),
		Roles:           roles,
		Skills:          shared.NewSkillSet(cmd.Skills...),
		Organization:    cmd.Organization,
		Title:           cmd.Title,
		YearsExperience: cmd.YearsExperience,
	})
	if err != nil {
		return nil, fmt.Errorf("register_stakeholder: failed to create: %w", err)
	}

	if err := h.directoryRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("register_stakeholder: failed to save: %w", err)
	}

	event := shared.ProfileRegisteredEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventProfileRegistered, profile.ID.String()),
		ProfileID: profile.ID.String(),
		FullName:  profile.FullName,
		Email:     profile.Email.String(),
		Roles:     profile.Roles.Strings(),
	}
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.eventPublisher.Publish(ctx, event)

	return &RegisterStakeholderResult{
		ProfileID:    profile.ID.String(),
		RegisteredAt: profile.RegisteredAt,
	}, nil
}
