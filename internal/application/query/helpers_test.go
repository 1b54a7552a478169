package query

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// stubPublisher records published events for assertions.
type stubPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *stubPublisher) Publish(_ context.Context, event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *stubPublisher) PublishBatch(ctx context.Context, events []shared.Event) error {
	for _, e := range events {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (p *stubPublisher) Events() []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.Event, len(p.events))
	copy(out, p.events)
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
