package eventhandler

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/outreach"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

type stubSender struct {
	sent []outreach.EmailMessage
	err  error
}

func (s *stubSender) Send(_ context.Context, msg outreach.EmailMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOnProfileRegistered_SendsConfirmationEmail(t *testing.T) {
	sender := &stubSender{}
	handler := NewOnProfileRegisteredHandler(sender, discardLogger())

	event := shared.ProfileRegisteredEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventProfileRegistered, "profile-1"),
		ProfileID: "profile-1",
		FullName:  "Dana Whitfield",
		Email:     "d.whitfield@example.com",
		Roles:     []string{"mentor", "judge"},
	}

	require.NoError(t, handler.Handle(context.Background(), event))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, shared.Email("d.whitfield@example.com"), msg.To)
	assert.Equal(t, "Dana Whitfield", msg.ToName)
	assert.Equal(t, "Registration Confirmed - CMIS Engagement Hub", msg.Subject)
	assert.Contains(t, msg.Body, "Dear Dana Whitfield")
	assert.Contains(t, msg.Body, "mentor, judge")
}

func TestOnProfileRegistered_PropagatesSendFailure(t *testing.T) {
	sender := &stubSender{err: shared.ErrEmailSendFailed}
	handler := NewOnProfileRegisteredHandler(sender, discardLogger())

	event := shared.ProfileRegisteredEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventProfileRegistered, "profile-1"),
		ProfileID: "profile-1",
		FullName:  "Dana Whitfield",
		Email:     "d.whitfield@example.com",
	}

	err := handler.Handle(context.Background(), event)
	assert.ErrorIs(t, err, shared.ErrEmailSendFailed)
}

func TestOnProfileRegistered_RejectsWrongEventType(t *testing.T) {
	handler := NewOnProfileRegisteredHandler(&stubSender{}, discardLogger())

	event := shared.FollowUpSentEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventFollowUpSent, "inv-1"),
	}

	assert.Error(t, handler.Handle(context.Background(), event))
}
