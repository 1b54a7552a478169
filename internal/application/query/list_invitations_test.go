package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/persistence/memory"
)

func seedInvitation(t *testing.T, repo *memory.InvitationRepository, id, recipientID, subjectID string, sentAt time.Time, accept bool) {
	t.Helper()
	inv, err := invitation.NewInvitation(invitation.NewInvitationParams{
		ID:             invitation.InvitationID(id),
		RecipientID:    shared.ProfileID(recipientID),
		RecipientName:  "Recipient",
		RecipientEmail: shared.Email(recipientID + "@example.com"),
		Subject: invitation.SubjectRef{
			Type: invitation.SubjectCompetition,
			ID:   shared.SubjectID(subjectID),
		},
		SubjectTitle: "Case Competition",
		MatchScore:   70,
	})
	require.NoError(t, err)
	inv.SentAt = sentAt
	if accept {
		require.NoError(t, inv.Accept())
	}
	require.NoError(t, repo.Create(context.Background(), inv))
}

func TestListInvitations_ByRecipient(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvitationRepository()
	handler := NewListInvitationsHandler(repo)

	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	seedInvitation(t, repo, "inv-1", "judge-1", "comp-1", base, false)
	seedInvitation(t, repo, "inv-2", "judge-1", "comp-2", base.Add(time.Hour), true)
	seedInvitation(t, repo, "inv-3", "judge-2", "comp-1", base, false)

	list, err := handler.Handle(ctx, ListInvitationsQuery{RecipientID: "judge-1"})
	require.NoError(t, err)

	require.Equal(t, 2, list.Total)
	// Newest first.
	assert.Equal(t, "inv-2", list.Invitations[0].ID)
	assert.Equal(t, "inv-1", list.Invitations[1].ID)
}

func TestListInvitations_BySubjectWithStatusFilter(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvitationRepository()
	handler := NewListInvitationsHandler(repo)

	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	seedInvitation(t, repo, "inv-1", "judge-1", "comp-1", base, false)
	seedInvitation(t, repo, "inv-2", "judge-2", "comp-1", base, true)

	list, err := handler.Handle(ctx, ListInvitationsQuery{
		SubjectType: "competition",
		SubjectID:   "comp-1",
		Status:      "accepted",
	})
	require.NoError(t, err)

	require.Equal(t, 1, list.Total)
	assert.Equal(t, "inv-2", list.Invitations[0].ID)
	assert.Equal(t, "accepted", list.Invitations[0].Status)
	assert.NotNil(t, list.Invitations[0].RespondedAt)
}

func TestListInvitations_Validate(t *testing.T) {
	handler := NewListInvitationsHandler(memory.NewInvitationRepository())
	ctx := context.Background()

	cases := []struct {
		name string
		q    ListInvitationsQuery
	}{
		{"no selector", ListInvitationsQuery{}},
		{"both selectors", ListInvitationsQuery{RecipientID: "r", SubjectType: "event", SubjectID: "s"}},
		{"bad subject type", ListInvitationsQuery{SubjectType: "seminar", SubjectID: "s"}},
		{"bad status", ListInvitationsQuery{RecipientID: "r", Status: "maybe"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := handler.Handle(ctx, tc.q)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}
