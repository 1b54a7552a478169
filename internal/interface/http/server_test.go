package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmis-hub/cmis-engagement-hub/config"
	"github.com/cmis-hub/cmis-engagement-hub/internal/application/command"
	"github.com/cmis-hub/cmis-engagement-hub/internal/application/query"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/engagement"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/persistence/memory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/interface/http/handlers"
	"github.com/cmis-hub/cmis-engagement-hub/pkg/logger"
)

// noopBus swallows events; the HTTP tests assert on state and status
// codes, not on the event stream.
type noopBus struct{}

func (noopBus) Publish(context.Context, shared.Event) error        { return nil }
func (noopBus) PublishBatch(context.Context, []shared.Event) error { return nil }

// newTestServer wires the full route table over seeded in-memory
// stores, the same shape the api binary builds in development mode.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	ctx := context.Background()
	stores := memory.NewStores()
	require.NoError(t, stores.Seed(ctx))

	bus := noopBus{}
	monitor := engagement.NewMonitor(engagement.DefaultThresholds())

	registerCmd := command.NewRegisterStakeholderHandler(stores.Directory, bus)
	createEventCmd := command.NewCreateEventHandler(stores.Program, bus)
	createLectureCmd := command.NewCreateLectureHandler(stores.Program, bus)
	createCompetitionCmd := command.NewCreateCompetitionHandler(stores.Program, bus)
	inviteCmd := command.NewInviteStakeholdersHandler(stores.Program, stores.Directory, stores.Invitation, bus)
	respondCmd := command.NewRespondInvitationHandler(stores.Invitation, bus)

	recommendQuery := query.NewRecommendMentorsHandler(stores.Directory)
	listQuery := query.NewListInvitationsHandler(stores.Invitation)
	healthQuery := query.NewGetEngagementHealthHandler(stores.Engagement, monitor, bus)
	analyticsQuery := query.NewGetPlatformAnalyticsHandler(stores.Directory, stores.Program, stores.Invitation, stores.Engagement)

	log := logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})

	return NewServer(config.Config{}, log, Deps{
		Matching:    handlers.NewMatchingHandler(),
		Directory:   handlers.NewDirectoryHandler(registerCmd, stores.Directory),
		Program:     handlers.NewProgramHandler(createEventCmd, createLectureCmd, createCompetitionCmd, inviteCmd),
		Invitations: handlers.NewInvitationHandler(respondCmd, listQuery),
		Mentors:     handlers.NewMentorHandler(recommendQuery, nil, log),
		Engagement:  handlers.NewEngagementHandler(healthQuery, analyticsQuery, nil, log),
		Health:      handlers.NewHealthHandler("test"),
	})
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestServer_Liveness(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health/live", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestServer_Match(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/match", `{
		"requester_skills": ["Python", "SQL"],
		"candidate_id": "cand-1",
		"candidate_skills": ["python", "Tableau"]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body handlers.MatchResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "cand-1", body.CandidateID)
	assert.Equal(t, 50, body.Score)
	assert.Equal(t, []string{"python"}, body.MatchedTerms)
	assert.NotEmpty(t, body.Quality)
}

func TestServer_MatchRequiresCandidateID(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/match", `{"requester_skills": ["Python"]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "validation failed", body["error"])
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "CandidateID")
}

func TestServer_Rank(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/rank", `{
		"requester_skills": ["Go", "Kubernetes"],
		"candidates": [
			{"id": "a", "display_name": "A", "skills": ["Go", "Kubernetes"]},
			{"id": "b", "display_name": "B", "skills": ["Go"]},
			{"id": "c", "display_name": "C", "skills": []}
		],
		"top_n": 2
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body handlers.RankResponse
	decodeBody(t, rec, &body)
	require.Len(t, body.Selected, 2)
	assert.Equal(t, "a", body.Selected[0].CandidateID)
	assert.Equal(t, 100, body.Selected[0].Score)
	assert.Equal(t, 1, body.Selected[0].RankPosition)
	assert.Equal(t, "b", body.Selected[1].CandidateID)
	assert.Equal(t, 3, body.TotalCandidatesConsidered)
}

func TestServer_RankRequiresCandidates(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/rank", `{"requester_skills": ["Go"]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RegisterProfile(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/profiles", `{
		"full_name": "Nora Feldman",
		"email": "N.Feldman@Example.com",
		"roles": ["mentor", "judge"],
		"skills": ["Accounting", "Audit"],
		"years_experience": 9
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created handlers.RegisterProfileResponse
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created.ProfileID)

	get := doJSON(t, srv, http.MethodGet, "/v1/profiles/"+created.ProfileID, "")
	require.Equal(t, http.StatusOK, get.Code)
	var profile handlers.ProfileResponse
	decodeBody(t, get, &profile)
	assert.Equal(t, "Nora Feldman", profile.FullName)
	assert.Equal(t, "n.feldman@example.com", profile.Email)
	assert.True(t, profile.Available)
}

func TestServer_RegisterProfileDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/profiles", `{
		"full_name": "Sarah Chen Impostor",
		"email": "s.chen@example.com",
		"roles": ["mentor"]
	}`)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_RegisterProfileValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/profiles", `{"roles": ["wizard"]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "validation failed", body["error"])
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "FullName")
	assert.Contains(t, fields, "Email")
}

func TestServer_GetProfileNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/profiles/no-such-profile", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_SetAvailability(t *testing.T) {
	srv := newTestServer(t)
	chen := "550e8400-e29b-41d4-a716-446655440001"

	rec := doJSON(t, srv, http.MethodPatch, "/v1/profiles/"+chen+"/availability", `{"available": false}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, false, body["available"])

	get := doJSON(t, srv, http.MethodGet, "/v1/profiles/"+chen, "")
	var profile handlers.ProfileResponse
	decodeBody(t, get, &profile)
	assert.False(t, profile.Available)
}

func TestServer_InviteRound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/subjects/competition/comp-case-spring-2026/invitations", `{}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body handlers.InviteResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Spring Case Competition", body.SubjectTitle)
	require.Len(t, body.Invited, 3)
	assert.Equal(t, "Emily Tran", body.Invited[0].RecipientName)
	assert.Equal(t, 33, body.Invited[0].Score)
	assert.Equal(t, 1, body.Invited[0].RankPosition)
	assert.Equal(t, 3, body.CandidatesConsidered)

	// A second round finds nothing new to send.
	again := doJSON(t, srv, http.MethodPost, "/v1/subjects/competition/comp-case-spring-2026/invitations", `{}`)
	require.Equal(t, http.StatusCreated, again.Code)
	var second handlers.InviteResponse
	decodeBody(t, again, &second)
	assert.Empty(t, second.Invited)
	assert.Equal(t, 3, second.SkippedExisting)
}

func TestServer_InviteRejectsUnknownSubjectType(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/subjects/hackathon/some-id/invitations", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_InviteSubjectNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/subjects/competition/comp-missing/invitations", `{}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RespondToInvitation(t *testing.T) {
	srv := newTestServer(t)

	invite := doJSON(t, srv, http.MethodPost, "/v1/subjects/competition/comp-case-spring-2026/invitations", `{}`)
	require.Equal(t, http.StatusCreated, invite.Code)
	var round handlers.InviteResponse
	decodeBody(t, invite, &round)
	require.NotEmpty(t, round.Invited)
	invID := round.Invited[0].InvitationID
	recipientID := round.Invited[0].RecipientID

	rec := doJSON(t, srv, http.MethodPost, "/v1/invitations/"+invID+"/respond", `{"accept": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "accepted", body["status"])

	// Accept and decline are both terminal.
	again := doJSON(t, srv, http.MethodPost, "/v1/invitations/"+invID+"/respond", `{"accept": false}`)
	require.Equal(t, http.StatusConflict, again.Code)

	list := doJSON(t, srv, http.MethodGet, "/v1/invitations?recipient_id="+recipientID, "")
	require.Equal(t, http.StatusOK, list.Code)
	var inbox query.InvitationListDTO
	decodeBody(t, list, &inbox)
	require.Equal(t, 1, inbox.Total)
	assert.Equal(t, "accepted", inbox.Invitations[0].Status)
	assert.NotNil(t, inbox.Invitations[0].RespondedAt)
}

func TestServer_RespondUnknownInvitation(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/invitations/inv-missing/respond", `{"accept": true}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ListInvitationsRequiresSelector(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/invitations", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ListInvitationsBySubject(t *testing.T) {
	srv := newTestServer(t)

	invite := doJSON(t, srv, http.MethodPost, "/v1/subjects/lecture/lec-mis-430-security/invitations", `{"min_score": 60}`)
	require.Equal(t, http.StatusCreated, invite.Code)

	list := doJSON(t, srv, http.MethodGet, "/v1/invitations?subject_type=lecture&subject_id=lec-mis-430-security", "")
	require.Equal(t, http.StatusOK, list.Code)
	var result query.InvitationListDTO
	decodeBody(t, list, &result)
	require.Equal(t, 1, result.Total)
	// Only Priya Patel carries the full security skill set.
	assert.Equal(t, "Priya Patel", result.Invitations[0].RecipientName)
	assert.Equal(t, "pending", result.Invitations[0].Status)
}

func TestServer_CreateCompetitionAndInvite(t *testing.T) {
	srv := newTestServer(t)

	created := doJSON(t, srv, http.MethodPost, "/v1/competitions", `{
		"title": "Fall Strategy Cup",
		"case_domain": "Healthcare",
		"held_at": "2026-11-06T09:00:00Z",
		"required_skills": ["Strategy"],
		"judges_needed": 3
	}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var body map[string]any
	decodeBody(t, created, &body)
	compID, _ := body["competition_id"].(string)
	require.NotEmpty(t, compID)

	invite := doJSON(t, srv, http.MethodPost,
		fmt.Sprintf("/v1/subjects/competition/%s/invitations", compID), `{"top_n": 1}`)
	require.Equal(t, http.StatusCreated, invite.Code)
	var round handlers.InviteResponse
	decodeBody(t, invite, &round)
	assert.Equal(t, "Fall Strategy Cup", round.SubjectTitle)
	require.Len(t, round.Invited, 1)
}

func TestServer_CreateEventValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/events", `{"description": "no title, no date"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RecommendMentors(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/mentors/recommendations", `{
		"skills": ["Data Analytics", "Finance"]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result query.MentorRecommendationsDTO
	decodeBody(t, rec, &result)
	require.NotEmpty(t, result.Recommendations)
	// Okafor carries both requested skills; no other mentor does.
	assert.Equal(t, "Michael Okafor", result.Recommendations[0].DisplayName)
	assert.Equal(t, 100, result.Recommendations[0].Score)
}

func TestServer_RecommendMentorsRejectsBadFloor(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/mentors/recommendations", `{
		"skills": ["Python"],
		"min_score": 250
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_EngagementHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/engagement-health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var result query.EngagementHealthDTO
	decodeBody(t, rec, &result)
	assert.Len(t, result.Series, 5)
}

func TestServer_Analytics(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/analytics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot engagement.PlatformAnalytics
	decodeBody(t, rec, &snapshot)
	assert.Equal(t, 6, snapshot.Users.TotalUsers)
	assert.Equal(t, 3, snapshot.Users.TotalAlumni)
}
