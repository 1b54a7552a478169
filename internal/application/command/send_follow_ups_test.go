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

func pendingInvitation(t *testing.T, repo *memory.InvitationRepository, id string, sentAt time.Time) *invitation.Invitation {
	t.Helper()
	inv, err := invitation.NewInvitation(invitation.NewInvitationParams{
		ID:             invitation.InvitationID(id),
		RecipientID:    shared.ProfileID("recipient-" + id),
		RecipientName:  "Recipient " + id,
		RecipientEmail: shared.Email(id + "@example.com"),
		Subject: invitation.SubjectRef{
			Type: invitation.SubjectCompetition,
			ID:   shared.SubjectID("comp-1"),
		},
		SubjectTitle: "Case Competition",
		MatchScore:   80,
	})
	require.NoError(t, err)
	inv.SentAt = sentAt
	require.NoError(t, repo.Create(context.Background(), inv))
	return inv
}

func TestSendFollowUps_RemindsQuietInvitations(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvitationRepository()
	sender := &recordingSender{}
	publisher := &capturePublisher{}
	handler := NewSendFollowUpsHandler(repo, sender, publisher, FollowUpConfig{
		Threshold:    3 * 24 * time.Hour,
		MaxFollowUps: 2,
	})

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	pendingInvitation(t, repo, "inv-old", now.Add(-4*24*time.Hour))
	pendingInvitation(t, repo, "inv-fresh", now.Add(-24*time.Hour))

	result, err := handler.Handle(ctx, SendFollowUpsCommand{Now: now})
	require.NoError(t, err)

	assert.Equal(t, 1, result.RemindersSent)
	assert.Zero(t, result.Failures)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, shared.Email("inv-old@example.com"), sent[0].To)
	assert.Contains(t, sent[0].Subject, "Reminder")

	updated, err := repo.FindByID(ctx, invitation.InvitationID("inv-old"))
	require.NoError(t, err)
	assert.Equal(t, 1, updated.FollowUpCount)
	require.NotNil(t, updated.LastFollowUpAt)
	assert.Equal(t, now, *updated.LastFollowUpAt)

	assert.Len(t, publisher.ByType(shared.EventFollowUpSent), 1)
}

func TestSendFollowUps_CapsReminders(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvitationRepository()
	sender := &recordingSender{}
	handler := NewSendFollowUpsHandler(repo, sender, &capturePublisher{}, FollowUpConfig{
		Threshold:    3 * 24 * time.Hour,
		MaxFollowUps: 2,
	})

	start := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	pendingInvitation(t, repo, "inv-1", start)

	// Sweep every four days. Only the first two sweeps may send.
	for i := 1; i <= 4; i++ {
		_, err := handler.Handle(ctx, SendFollowUpsCommand{Now: start.Add(time.Duration(i) * 4 * 24 * time.Hour)})
		require.NoError(t, err)
	}

	assert.Len(t, sender.Sent(), 2)

	updated, err := repo.FindByID(ctx, invitation.InvitationID("inv-1"))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.FollowUpCount)
	assert.Equal(t, invitation.StatusPending, updated.Status)
}

func TestSendFollowUps_SkipsResolvedInvitations(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvitationRepository()
	sender := &recordingSender{}
	handler := NewSendFollowUpsHandler(repo, sender, &capturePublisher{}, FollowUpConfig{
		Threshold:    3 * 24 * time.Hour,
		MaxFollowUps: 2,
	})

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	inv := pendingInvitation(t, repo, "inv-accepted", now.Add(-10*24*time.Hour))
	require.NoError(t, inv.Accept())
	require.NoError(t, repo.Update(ctx, inv))

	result, err := handler.Handle(ctx, SendFollowUpsCommand{Now: now})
	require.NoError(t, err)

	assert.Zero(t, result.RemindersSent)
	assert.Empty(t, sender.Sent())
}

func TestSendFollowUps_ThresholdRestartsAfterReminder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvitationRepository()
	sender := &recordingSender{}
	handler := NewSendFollowUpsHandler(repo, sender, &capturePublisher{}, FollowUpConfig{
		Threshold:    3 * 24 * time.Hour,
		MaxFollowUps: 2,
	})

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	pendingInvitation(t, repo, "inv-1", now.Add(-4*24*time.Hour))

	first, err := handler.Handle(ctx, SendFollowUpsCommand{Now: now})
	require.NoError(t, err)
	assert.Equal(t, 1, first.RemindersSent)

	// One day later the three-day clock has not run out again.
	second, err := handler.Handle(ctx, SendFollowUpsCommand{Now: now.Add(24 * time.Hour)})
	require.NoError(t, err)
	assert.Zero(t, second.RemindersSent)
	assert.Len(t, sender.Sent(), 1)
}

func TestSendFollowUps_CountsFailures(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvitationRepository()
	sender := &recordingSender{FailFirst: 1}
	handler := NewSendFollowUpsHandler(repo, sender, &capturePublisher{}, FollowUpConfig{
		Threshold:    3 * 24 * time.Hour,
		MaxFollowUps: 2,
	})

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	pendingInvitation(t, repo, "inv-a", now.Add(-5*24*time.Hour))
	pendingInvitation(t, repo, "inv-b", now.Add(-4*24*time.Hour))

	result, err := handler.Handle(ctx, SendFollowUpsCommand{Now: now})
	require.NoError(t, err)

	assert.Equal(t, 1, result.RemindersSent)
	assert.Equal(t, 1, result.Failures)

	// The failed invitation keeps its zero count and stays due.
	failed, err := repo.FindByID(ctx, invitation.InvitationID("inv-a"))
	require.NoError(t, err)
	assert.Zero(t, failed.FollowUpCount)
}

func TestSendFollowUps_AllSendsFailed(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvitationRepository()
	sender := &recordingSender{FailFirst: 10}
	handler := NewSendFollowUpsHandler(repo, sender, &capturePublisher{}, FollowUpConfig{
		Threshold:    3 * 24 * time.Hour,
		MaxFollowUps: 2,
	})

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	pendingInvitation(t, repo, "inv-a", now.Add(-5*24*time.Hour))

	result, err := handler.Handle(ctx, SendFollowUpsCommand{Now: now})
	assert.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Failures)
}

func TestNewSendFollowUpsHandler_DefaultsInvalidConfig(t *testing.T) {
	handler := NewSendFollowUpsHandler(memory.NewInvitationRepository(), &recordingSender{}, &capturePublisher{}, FollowUpConfig{})

	assert.Equal(t, DefaultFollowUpConfig(), handler.config)
}
