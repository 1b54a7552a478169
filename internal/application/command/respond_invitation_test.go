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

func TestRespondInvitation_Accept(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvitationRepository()
	publisher := &capturePublisher{}
	handler := NewRespondInvitationHandler(repo, publisher)

	pendingInvitation(t, repo, "inv-1", time.Now().UTC())

	result, err := handler.Handle(ctx, RespondInvitationCommand{
		InvitationID: "inv-1",
		Accept:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, invitation.StatusAccepted, result.Status)

	saved, err := repo.FindByID(ctx, invitation.InvitationID("inv-1"))
	require.NoError(t, err)
	assert.Equal(t, invitation.StatusAccepted, saved.Status)
	assert.NotNil(t, saved.RespondedAt)

	assert.Len(t, publisher.ByType(shared.EventInvitationAccepted), 1)
}

func TestRespondInvitation_Decline(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvitationRepository()
	publisher := &capturePublisher{}
	handler := NewRespondInvitationHandler(repo, publisher)

	pendingInvitation(t, repo, "inv-1", time.Now().UTC())

	result, err := handler.Handle(ctx, RespondInvitationCommand{
		InvitationID: "inv-1",
		Accept:       false,
	})
	require.NoError(t, err)

	assert.Equal(t, invitation.StatusDeclined, result.Status)
	assert.Len(t, publisher.ByType(shared.EventInvitationDeclined), 1)
}

func TestRespondInvitation_SecondResponseFails(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvitationRepository()
	handler := NewRespondInvitationHandler(repo, &capturePublisher{})

	pendingInvitation(t, repo, "inv-1", time.Now().UTC())

	_, err := handler.Handle(ctx, RespondInvitationCommand{InvitationID: "inv-1", Accept: true})
	require.NoError(t, err)

	// Both transitions are terminal. Changing one's mind is not supported.
	_, err = handler.Handle(ctx, RespondInvitationCommand{InvitationID: "inv-1", Accept: false})
	assert.ErrorIs(t, err, shared.ErrAlreadyResolved)

	saved, err := repo.FindByID(ctx, invitation.InvitationID("inv-1"))
	require.NoError(t, err)
	assert.Equal(t, invitation.StatusAccepted, saved.Status)
}

func TestRespondInvitation_NotFound(t *testing.T) {
	handler := NewRespondInvitationHandler(memory.NewInvitationRepository(), &capturePublisher{})

	_, err := handler.Handle(context.Background(), RespondInvitationCommand{InvitationID: "missing", Accept: true})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRespondInvitation_RequiresID(t *testing.T) {
	handler := NewRespondInvitationHandler(memory.NewInvitationRepository(), &capturePublisher{})

	_, err := handler.Handle(context.Background(), RespondInvitationCommand{Accept: true})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
