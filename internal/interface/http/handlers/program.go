package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cmis-hub/cmis-engagement-hub/internal/application/command"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRAM HANDLER
// Создание предметов вовлечения и запуск раунда отбора приглашений.
// ══════════════════════════════════════════════════════════════════════════════

// ProgramHandler serves event, lecture and competition endpoints.
type ProgramHandler struct {
	createEvent       *command.CreateEventHandler
	createLecture     *command.CreateLectureHandler
	createCompetition *command.CreateCompetitionHandler
	invite            *command.InviteStakeholdersHandler
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(
	createEvent *command.CreateEventHandler,
	createLecture *command.CreateLectureHandler,
	createCompetition *command.CreateCompetitionHandler,
	invite *command.InviteStakeholdersHandler,
) *ProgramHandler {
	return &ProgramHandler{
		createEvent:       createEvent,
		createLecture:     createLecture,
		createCompetition: createCompetition,
		invite:            invite,
	}
}

// CreateEventRequest is the body of POST /v1/events.
type CreateEventRequest struct {
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	RequiredSkills []string  `json:"required_skills"`
	Capacity       int       `json:"capacity" validate:"gte=0"`
}

// CreateEvent handles POST /v1/events.
func (h *ProgramHandler) CreateEvent(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.createEvent.Handle(c.Request().Context(), command.CreateEventCommand{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartsAt:       req.StartsAt,
		RequiredSkills: req.RequiredSkills,
		Capacity:       req.Capacity,
		CorrelationID:  requestID(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"event_id":   result.EventID,
		"created_at": result.CreatedAt,
	})
}

// CreateLectureRequest is the body of POST /v1/lectures.
type CreateLectureRequest struct {
	Topic              string    `json:"topic" validate:"required"`
	CourseName         string    `json:"course_name"`
	ScheduledAt        time.Time `json:"scheduled_at" validate:"required"`
	RequiredSkills     []string  `json:"required_skills"`
	MinYearsExperience int       `json:"min_years_experience" validate:"gte=0"`
}

// CreateLecture handles POST /v1/lectures.
func (h *ProgramHandler) CreateLecture(c echo.Context) error {
	var req CreateLectureRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.createLecture.Handle(c.Request().Context(), command.CreateLectureCommand{
		Topic:              req.Topic,
		CourseName:         req.CourseName,
		ScheduledAt:        req.ScheduledAt,
		RequiredSkills:     req.RequiredSkills,
		MinYearsExperience: req.MinYearsExperience,
		CorrelationID:      requestID(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"lecture_id": result.LectureID,
		"created_at": result.CreatedAt,
	})
}

// CreateCompetitionRequest is the body of POST /v1/competitions.
type CreateCompetitionRequest struct {
	Title                string    `json:"title" validate:"required"`
	CaseDomain           string    `json:"case_domain"`
	HeldAt               time.Time `json:"held_at" validate:"required"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	RequiredSkills       []string  `json:"required_skills"`
	JudgesNeeded         int       `json:"judges_needed" validate:"gte=0"`
}

// CreateCompetition handles POST /v1/competitions.
func (h *ProgramHandler) CreateCompetition(c echo.Context) error {
	var req CreateCompetitionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.createCompetition.Handle(c.Request().Context(), command.CreateCompetitionCommand{
		Title:                req.Title,
		CaseDomain:           req.CaseDomain,
		HeldAt:               req.HeldAt,
		RegistrationDeadline: req.RegistrationDeadline,
		RequiredSkills:       req.RequiredSkills,
		JudgesNeeded:         req.JudgesNeeded,
		CorrelationID:        requestID(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"competition_id": result.CompetitionID,
		"created_at":     result.CreatedAt,
	})
}

// InviteRequest is the body of POST /v1/subjects/:type/:id/invitations.
type InviteRequest struct {
	TopN     int `json:"top_n" validate:"gte=0"`
	MinScore int `json:"min_score" validate:"gte=0,lte=100"`
}

// InvitedResponse describes one created invitation.
type InvitedResponse struct {
	InvitationID  string   `json:"invitation_id"`
	RecipientID   string   `json:"recipient_id"`
	RecipientName string   `json:"recipient_name"`
	Score         int      `json:"score"`
	MatchedTerms  []string `json:"matched_terms"`
	MatchReason   string   `json:"match_reason"`
	RankPosition  int      `json:"rank_position"`
}

// InviteResponse is the outcome of a selection round.
type InviteResponse struct {
	SubjectTitle         string            `json:"subject_title"`
	Invited              []InvitedResponse `json:"invited"`
	SkippedExisting      int               `json:"skipped_existing"`
	CandidatesConsidered int               `json:"candidates_considered"`
}

// InviteStakeholders handles POST /v1/subjects/:type/:id/invitations.
// Runs one selection round: rank the candidate pool against the
// subject's required skills and invite the top scorers.
func (h *ProgramHandler) InviteStakeholders(c echo.Context) error {
	var req InviteRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	subjectType := invitation.SubjectType(c.Param("type"))
	if !subjectType.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "subject type must be event, lecture or competition")
	}

	result, err := h.invite.Handle(c.Request().Context(), command.InviteStakeholdersCommand{
		SubjectType:   subjectType,
		SubjectID:     c.Param("id"),
		TopN:          req.TopN,
		MinScore:      req.MinScore,
		CorrelationID: requestID(c),
	})
	if err != nil {
		return err
	}

	resp := InviteResponse{
		SubjectTitle:         result.SubjectTitle,
		Invited:              make([]InvitedResponse, 0, len(result.Invited)),
		SkippedExisting:      result.SkippedExisting,
		CandidatesConsidered: result.CandidatesConsidered,
	}
	for _, inv := range result.Invited {
		resp.Invited = append(resp.Invited, InvitedResponse{
			InvitationID:  inv.InvitationID,
			RecipientID:   inv.RecipientID,
			RecipientName: inv.RecipientName,
			Score:         inv.Score,
			MatchedTerms:  inv.MatchedTerms,
			MatchReason:   inv.MatchReason,
			RankPosition:  inv.RankPosition,
		})
	}

	return c.JSON(http.StatusCreated, resp)
}
