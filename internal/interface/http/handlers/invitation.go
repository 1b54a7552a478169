package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmis-hub/cmis-engagement-hub/internal/application/command"
	"github.com/cmis-hub/cmis-engagement-hub/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// INVITATION HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// InvitationHandler serves invitation listing and responses.
type InvitationHandler struct {
	respond *command.RespondInvitationHandler
	list    *query.ListInvitationsHandler
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(
	respond *command.RespondInvitationHandler,
	list *query.ListInvitationsHandler,
) *InvitationHandler {
	return &InvitationHandler{
		respond: respond,
		list:    list,
	}
}

// List handles GET /v1/invitations.
// Exactly one of ?recipient_id or ?subject_type+?subject_id selects the
// view: a stakeholder's own invitations or a subject's invite list.
func (h *InvitationHandler) List(c echo.Context) error {
	result, err := h.list.Handle(c.Request().Context(), query.ListInvitationsQuery{
		RecipientID: c.QueryParam("recipient_id"),
		SubjectType: c.QueryParam("subject_type"),
		SubjectID:   c.QueryParam("subject_id"),
		Status:      c.QueryParam("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// RespondRequest is the body of POST /v1/invitations/:id/respond.
type RespondRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

// Respond handles POST /v1/invitations/:id/respond.
// Accept and decline are both terminal; a second response is rejected.
func (h *InvitationHandler) Respond(c echo.Context) error {
	var req RespondRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.respond.Handle(c.Request().Context(), command.RespondInvitationCommand{
		InvitationID:  c.Param("id"),
		Accept:        *req.Accept,
		CorrelationID: requestID(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"invitation_id": result.InvitationID,
		"status":        string(result.Status),
	})
}
