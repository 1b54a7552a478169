package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cmis-hub/cmis-engagement-hub/internal/application/command"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DIRECTORY HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// DirectoryHandler serves the stakeholder directory endpoints.
type DirectoryHandler struct {
	register      *command.RegisterStakeholderHandler
	directoryRepo directory.Repository
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(
	register *command.RegisterStakeholderHandler,
	directoryRepo directory.Repository,
) *DirectoryHandler {
	return &DirectoryHandler{
		register:      register,
		directoryRepo: directoryRepo,
	}
}

// RegisterProfileRequest is the body of POST /v1/profiles.
type RegisterProfileRequest struct {
	FullName        string   `json:"full_name" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Roles           []string `json:"roles" validate:"required,min=1,dive,oneof=mentor judge speaker alumni"`
	Skills          []string `json:"skills"`
	Organization    string   `json:"organization"`
	Title           string   `json:"title"`
	YearsExperience int      `json:"years_experience" validate:"gte=0"`
}

// RegisterProfileResponse is the result of registering a profile.
type RegisterProfileResponse struct {
	ProfileID    string    `json:"profile_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Register handles POST /v1/profiles.
func (h *DirectoryHandler) Register(c echo.Context) error {
	var req RegisterProfileRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.register.Handle(c.Request().Context(), command.RegisterStakeholderCommand{
		FullName:        req.FullName,
		Email:           req.Email,
		Roles:           req.Roles,
		Skills:          req.Skills,
		Organization:    req.Organization,
		Title:           req.Title,
		YearsExperience: req.YearsExperience,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RegisterProfileResponse{
		ProfileID:    result.ProfileID,
		RegisteredAt: result.RegisteredAt,
	})
}

// ProfileResponse is the read shape of a stakeholder profile.
type ProfileResponse struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Roles           []string  `json:"roles"`
	Skills          []string  `json:"skills"`
	Organization    string    `json:"organization,omitempty"`
	Title           string    `json:"title,omitempty"`
	YearsExperience int       `json:"years_experience"`
	Available       bool      `json:"available"`
	RegisteredAt    time.Time `json:"registered_at"`
}

// Get handles GET /v1/profiles/:id.
func (h *DirectoryHandler) Get(c echo.Context) error {
	profile, err := h.directoryRepo.FindByID(c.Request().Context(), shared.ProfileID(c.Param("id")))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:              profile.ID.String(),
		FullName:        profile.FullName,
		Email:           profile.Email.String(),
		Roles:           profile.Roles.Strings(),
		Skills:          profile.Skills.Strings(),
		Organization:    profile.Organization,
		Title:           profile.Title,
		YearsExperience: profile.YearsExperience,
		Available:       profile.Available,
		RegisteredAt:    profile.RegisteredAt,
	})
}

// SetAvailabilityRequest is the body of PATCH /v1/profiles/:id/availability.
type SetAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// SetAvailability handles PATCH /v1/profiles/:id/availability.
// Unavailable profiles stay in the directory but drop out of every
// candidate pool until switched back.
func (h *DirectoryHandler) SetAvailability(c echo.Context) error {
	var req SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	profile, err := h.directoryRepo.FindByID(ctx, shared.ProfileID(c.Param("id")))
	if err != nil {
		return err
	}

	profile.SetAvailability(*req.Available)
	if err := h.directoryRepo.Update(ctx, profile); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"profile_id": profile.ID.String(),
		"available":  profile.Available,
	})
}
