package command

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/matching"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/program"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// INVITE STAKEHOLDERS COMMAND
// The core write path of the platform: rank available stakeholders
// against a subject's required skills and create one invitation per
// selected candidate. Existing (recipient, subject) pairs are skipped,
// so the command is safe to re-run after the directory grows.
// ══════════════════════════════════════════════════════════════════════════════

// roleForSubject maps subject types to the stakeholder role invited.
// Events draw from alumni, lectures from speakers, competitions from judges.
var roleForSubject = map[invitation.SubjectType]directory.Role{
	invitation.SubjectEvent:       directory.RoleAlumni,
	invitation.SubjectLecture:     directory.RoleSpeaker,
	invitation.SubjectCompetition: directory.RoleJudge,
}

// InviteStakeholdersCommand contains the data to run a selection round.
type InviteStakeholdersCommand struct {
	// SubjectType is the kind of subject: event, lecture, or competition.
	SubjectType invitation.SubjectType

	// SubjectID is the subject to invite stakeholders to.
	SubjectID string

	// TopN limits how many candidates are invited (0 = default of 5).
	TopN int

	// MinScore drops candidates scoring below the floor (0 = no floor).
	MinScore int

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c InviteStakeholdersCommand) Validate() error {
	if c.SubjectID == "" {
		return shared.NewDomainError("command", "InviteStakeholders", shared.ErrInvalidInput, "subject_id is required")
	}
	if !c.SubjectType.IsValid() {
		return shared.NewDomainError("command", "InviteStakeholders", shared.ErrInvalidInput, fmt.Sprintf("invalid subject type: %s", c.SubjectType))
	}
	if c.TopN < 0 {
		return shared.NewDomainError("command", "InviteStakeholders", shared.ErrNegativeValue, "top_n cannot be negative")
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return shared.NewDomainError("command", "InviteStakeholders", shared.ErrValueOutOfRange, "min_score must be between 0 and 100")
	}
	return nil
}

// InvitedStakeholder describes one invitation created by the round.
type InvitedStakeholder struct {
	// InvitationID is the ID of the created invitation.
	InvitationID string

	// RecipientID is who was invited.
	RecipientID string

	// RecipientName is the invitee's display name.
	RecipientName string

	// Score is the match score at selection time.
	Score int

	// MatchedTerms are the overlapping skills.
	MatchedTerms []string

	// MatchReason is the human-readable justification.
	MatchReason string

	// RankPosition is the 1-based position in the ranking.
	RankPosition int
}

// InviteStakeholdersResult contains the outcome of a selection round.
type InviteStakeholdersResult struct {
	// SubjectTitle is the title of the subject invited to.
	SubjectTitle string

	// Invited lists the invitations created, best match first.
	Invited []InvitedStakeholder

	// SkippedExisting counts candidates that already had an invitation.
	SkippedExisting int

	// CandidatesConsidered is the size of the candidate pool.
	CandidatesConsidered int

	// Events contains domain events generated.
	Events []shared.Event

	// CompletedAt is when the round finished.
	CompletedAt time.Time
}

// subjectDetails is the selector's view of a subject, whatever its kind.
type subjectDetails struct {
	title          string
	requiredSkills shared.SkillSet
	minExperience  int
}

// InviteStakeholdersHandler handles the InviteStakeholdersCommand.
type InviteStakeholdersHandler struct {
	programRepo    program.Repository
	directoryRepo  directory.Repository
	invitationRepo invitation.Repository
	eventPublisher shared.EventPublisher
}

// NewInviteStakeholdersHandler creates a new InviteStakeholdersHandler.
func NewInviteStakeholdersHandler(
	programRepo program.Repository,
	directoryRepo directory.Repository,
	invitationRepo invitation.Repository,
	eventPublisher shared.EventPublisher,
) *InviteStakeholdersHandler {
	return &InviteStakeholdersHandler{
		programRepo:    programRepo,
		directoryRepo:  directoryRepo,
		invitationRepo: invitationRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the invite stakeholders command.
func (h *InviteStakeholdersHandler) Handle(ctx context.Context, cmd InviteStakeholdersCommand) (*InviteStakeholdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	subject, err := h.loadSubject(ctx, cmd.SubjectType, shared.SubjectID(cmd.SubjectID))
	if err != nil {
		return nil, fmt.Errorf("invite_stakeholders: subject not found: %w", err)
	}

	profiles, err := h.directoryRepo.FindAvailableByRole(ctx, roleForSubject[cmd.SubjectType])
	if err != nil {
		return nil, fmt.Errorf("invite_stakeholders: failed to load candidates: %w", err)
	}

	profiles = h.preparePool(profiles, subject.minExperience)

	topN := cmd.TopN
	if topN == 0 {
		topN = matching.DefaultTopN
	}

	pool := make([]matching.Candidate, len(profiles))
	byCandidate := make(map[matching.CandidateID]*directory.StakeholderProfile, len(profiles))
	for i, p := range profiles {
		pool[i] = p.Candidate()
		byCandidate[pool[i].ID] = p
	}

	selection, err := matching.SelectTop(subject.requiredSkills, pool, topN)
	if err != nil {
		return nil, fmt.Errorf("invite_stakeholders: ranking failed: %w", err)
	}
	selected := selection.Selected
	if cmd.MinScore > 0 {
		selected = selection.FilterByMinScore(matching.MatchScore(cmd.MinScore))
	}

	result := &InviteStakeholdersResult{
		SubjectTitle:         subject.title,
		Invited:              make([]InvitedStakeholder, 0, len(selected)),
		CandidatesConsidered: selection.TotalCandidatesConsidered,
		Events:               make([]shared.Event, 0),
		CompletedAt:          time.Now().UTC(),
	}

	subjectRef := invitation.SubjectRef{
		Type: cmd.SubjectType,
		ID:   shared.SubjectID(cmd.SubjectID),
	}

	for _, ranked := range selected {
		profile := byCandidate[ranked.Candidate.ID]

		inv, err := invitation.NewInvitation(invitation.NewInvitationParams{
			ID:             invitation.InvitationID(uuid.NewString()),
			RecipientID:    profile.ID,
			RecipientName:  profile.FullName,
			RecipientEmail: profile.Email,
			Subject:        subjectRef,
			SubjectTitle:   subject.title,
			MatchedTerms:   ranked.Result.MatchedTerms,
			MatchScore:     int(ranked.Result.Score),
		})
		if err != nil {
			return nil, fmt.Errorf("invite_stakeholders: failed to build invitation: %w", err)
		}

		if err := h.invitationRepo.Create(ctx, inv); err != nil {
			if shared.IsAlreadyExists(err) {
				result.SkippedExisting++
				continue
			}
			return nil, fmt.Errorf("invite_stakeholders: failed to save invitation: %w", err)
		}

		result.Invited = append(result.Invited, InvitedStakeholder{
			InvitationID:  inv.ID.String(),
			RecipientID:   profile.ID.String(),
			RecipientName: profile.FullName,
			Score:         inv.MatchScore,
			MatchedTerms:  inv.MatchedTerms.Strings(),
			MatchReason:   inv.MatchReason,
			RankPosition:  ranked.RankPosition,
		})

		event := shared.InvitationCreatedEvent{
			BaseEvent:      shared.NewBaseEvent(shared.EventInvitationCreated, inv.ID.String()),
			InvitationID:   inv.ID.String(),
			RecipientID:    profile.ID.String(),
			RecipientName:  profile.FullName,
			RecipientEmail: profile.Email.String(),
			SubjectType:    cmd.SubjectType.String(),
			SubjectID:      cmd.SubjectID,
			SubjectTitle:   subject.title,
			MatchedTerms:   inv.MatchedTerms.Strings(),
			MatchReason:    inv.MatchReason,
			MatchScore:     inv.MatchScore,
		}
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		result.Events = append(result.Events, event)
		_ = h.eventPublisher.Publish(ctx, event)
	}

	return result, nil
}

// loadSubject resolves the subject's title and required skills by kind.
func (h *InviteStakeholdersHandler) loadSubject(ctx context.Context, kind invitation.SubjectType, id shared.SubjectID) (subjectDetails, error) {
	switch kind {
	case invitation.SubjectEvent:
		event, err := h.programRepo.FindEventByID(ctx, id)
		if err != nil {
			return subjectDetails{}, err
		}
		return subjectDetails{title: event.Title, requiredSkills: event.RequiredSkills}, nil

	case invitation.SubjectLecture:
		lecture, err := h.programRepo.FindLectureByID(ctx, id)
		if err != nil {
			return subjectDetails{}, err
		}
		return subjectDetails{
			title:          lecture.Topic,
			requiredSkills: lecture.RequiredSkills,
			minExperience:  lecture.MinYearsExperience,
		}, nil

	case invitation.SubjectCompetition:
		competition, err := h.programRepo.FindCompetitionByID(ctx, id)
		if err != nil {
			return subjectDetails{}, err
		}
		return subjectDetails{title: competition.Title, requiredSkills: competition.RequiredSkills}, nil

	default:
		return subjectDetails{}, shared.ErrInvalidSubjectType
	}
}

// preparePool filters by minimum experience and pre-sorts the pool by
// experience descending. The ranking sort is stable, so among equal
// scores the more experienced stakeholder wins the tie.
func (h *InviteStakeholdersHandler) preparePool(profiles []*directory.StakeholderProfile, minExperience int) []*directory.StakeholderProfile {
	if minExperience > 0 {
		filtered := profiles[:0]
		for _, p := range profiles {
			if p.YearsExperience >= minExperience {
				filtered = append(filtered, p)
			}
		}
		profiles = filtered
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].YearsExperience > profiles[j].YearsExperience
	})
	return profiles
}
