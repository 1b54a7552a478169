package command

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

// Компетиция из seedCompetition проводится 10 апреля 2026; проход
// "назавтра" должен её подхватить.
var dayAfterCompetition = time.Date(2026, time.April, 11, 10, 0, 0, 0, time.UTC)

func seedAcceptedInvitation(t *testing.T, stores *memory.Stores, id, subjectID, name string, accepted bool) {
	t.Helper()

	inv, err := invitation.NewInvitation(invitation.NewInvitationParams{
		ID:             invitation.InvitationID(id),
		RecipientID:    shared.ProfileID("11111111-1111-1111-1111-11111111111" + id[len(id)-1:]),
		RecipientName:  name,
		RecipientEmail: shared.Email(name + "@example.com"),
		Subject: invitation.SubjectRef{
			Type: invitation.SubjectCompetition,
			ID:   shared.SubjectID(subjectID),
		},
		SubjectTitle: "Case Competition",
		MatchScore:   80,
	})
	require.NoError(t, err)
	if accepted {
		require.NoError(t, inv.Accept())
	}
	require.NoError(t, stores.Invitation.Create(context.Background(), inv))
}

func TestSendAppreciations_ThanksAcceptedParticipantsOnce(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	seedCompetition(t, stores, "comp-1", shared.NewSkillSet("Finance"))
	seedAcceptedInvitation(t, stores, "inv-1", "comp-1", "judge-a", true)
	seedAcceptedInvitation(t, stores, "inv-2", "comp-1", "judge-b", true)
	seedAcceptedInvitation(t, stores, "inv-3", "comp-1", "declined-c", false)

	sender := &recordingSender{}
	publisher := &capturePublisher{}
	handler := NewSendAppreciationsHandler(stores.Program, stores.Invitation, sender, publisher)

	result, err := handler.Handle(ctx, SendAppreciationsCommand{Now: dayAfterCompetition})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SubjectsExamined)
	assert.Equal(t, 1, result.SubjectsThanked)
	assert.Equal(t, 2, result.ThankYousSent)
	assert.Zero(t, result.Failures)

	sent := sender.Sent()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].Subject, "Case Competition")
	assert.Contains(t, sent[0].Body, "Thank you for contributing")

	events := publisher.ByType(shared.EventAppreciationSent)
	require.Len(t, events, 2)

	// Second run: the subject is flagged, nobody is thanked twice.
	again, err := handler.Handle(ctx, SendAppreciationsCommand{Now: dayAfterCompetition})
	require.NoError(t, err)
	assert.Zero(t, again.SubjectsExamined)
	assert.Zero(t, again.ThankYousSent)
	require.Len(t, sender.Sent(), 2)
}

func TestSendAppreciations_SkipsFutureSubjects(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	seedCompetition(t, stores, "comp-1", shared.NewSkillSet("Finance"))
	seedAcceptedInvitation(t, stores, "inv-1", "comp-1", "judge-a", true)

	sender := &recordingSender{}
	handler := NewSendAppreciationsHandler(stores.Program, stores.Invitation, sender, &capturePublisher{})

	beforeCompetition := time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC)
	result, err := handler.Handle(ctx, SendAppreciationsCommand{Now: beforeCompetition})
	require.NoError(t, err)

	assert.Zero(t, result.SubjectsExamined)
	assert.Empty(t, sender.Sent())
}

func TestSendAppreciations_LeavesSubjectUnflaggedWithoutAcceptances(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	seedCompetition(t, stores, "comp-1", shared.NewSkillSet("Finance"))
	seedAcceptedInvitation(t, stores, "inv-1", "comp-1", "declined-a", false)

	handler := NewSendAppreciationsHandler(stores.Program, stores.Invitation, &recordingSender{}, &capturePublisher{})

	result, err := handler.Handle(ctx, SendAppreciationsCommand{Now: dayAfterCompetition})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SubjectsExamined)
	assert.Zero(t, result.SubjectsThanked)

	// Still examined tomorrow: a late acceptance deserves its thank-you.
	again, err := handler.Handle(ctx, SendAppreciationsCommand{Now: dayAfterCompetition})
	require.NoError(t, err)
	assert.Equal(t, 1, again.SubjectsExamined)
}

func TestSendAppreciations_RetriesSubjectWhenAllSendsFail(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	seedCompetition(t, stores, "comp-1", shared.NewSkillSet("Finance"))
	seedAcceptedInvitation(t, stores, "inv-1", "comp-1", "judge-a", true)

	sender := &recordingSender{FailFirst: 1}
	handler := NewSendAppreciationsHandler(stores.Program, stores.Invitation, sender, &capturePublisher{})

	result, err := handler.Handle(ctx, SendAppreciationsCommand{Now: dayAfterCompetition})
	require.Error(t, err)
	assert.Equal(t, 1, result.Failures)
	assert.Zero(t, result.SubjectsThanked)

	// The transport recovered; the subject is still eligible.
	recovered, err := handler.Handle(ctx, SendAppreciationsCommand{Now: dayAfterCompetition})
	require.NoError(t, err)
	assert.Equal(t, 1, recovered.ThankYousSent)
	assert.Equal(t, 1, recovered.SubjectsThanked)
}
