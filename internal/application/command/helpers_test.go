package command

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/outreach"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/program"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/persistence/memory"
)

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturePublisher) Publish(_ context.Context, event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) PublishBatch(ctx context.Context, events []shared.Event) error {
	for _, e := range events {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (p *capturePublisher) ByType(t shared.EventType) []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.Event, 0)
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// recordingSender captures sent emails; FailFirst makes the first N sends fail.
type recordingSender struct {
	mu        sync.Mutex
	sent      []outreach.EmailMessage
	FailFirst int
}

func (s *recordingSender) Send(_ context.Context, msg outreach.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailFirst > 0 {
		s.FailFirst--
		return shared.ErrEmailSendFailed
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) Sent() []outreach.EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]outreach.EmailMessage, len(s.sent))
	copy(out, s.sent)
	return out
}

func mustProfile(t *testing.T, id, name string, roles directory.RoleSet, skills shared.SkillSet, years int) *directory.StakeholderProfile {
	t.Helper()
	profile, err := directory.NewStakeholderProfile(directory.NewProfileParams{
		ID:              shared.ProfileID(id),
		FullName:        name,
		Email:           shared.Email(fmt.Sprintf("%s@example.com", id)),
		Roles:           roles,
		Skills:          skills,
		YearsExperience: years,
	})
	require.NoError(t, err)
	return profile
}

func seedCompetition(t *testing.T, stores *memory.Stores, id string, skills shared.SkillSet) {
	t.Helper()
	competition, err := program.NewCompetition(program.NewCompetitionParams{
		ID:             shared.SubjectID(id),
		Title:          "Case Competition",
		CaseDomain:     "Retail",
		HeldAt:         time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC),
		RequiredSkills: skills,
		JudgesNeeded:   5,
	})
	require.NoError(t, err)
	require.NoError(t, stores.Program.CreateCompetition(context.Background(), competition))
}
