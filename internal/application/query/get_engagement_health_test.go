package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/engagement"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/persistence/memory"
)

func healthHandler(repo *memory.EngagementRepository, publisher shared.EventPublisher) *GetEngagementHealthHandler {
	return NewGetEngagementHealthHandler(repo, engagement.NewMonitor(engagement.DefaultThresholds()), publisher)
}

func TestGetEngagementHealth_HealthySeries(t *testing.T) {
	repo := memory.NewEngagementRepository()
	repo.SetSeries(engagement.Series{
		{Period: "Sep", Value: 80},
		{Period: "Oct", Value: 85},
	})

	dto, err := healthHandler(repo, &stubPublisher{}).Handle(context.Background(), GetEngagementHealthQuery{})
	require.NoError(t, err)

	assert.True(t, dto.Healthy)
	assert.Empty(t, dto.Level)
	assert.Len(t, dto.Series, 2)
}

func TestGetEngagementHealth_CriticalBelowFloor(t *testing.T) {
	repo := memory.NewEngagementRepository()
	repo.SetSeries(engagement.Series{
		{Period: "Dec", Value: 55},
		{Period: "Jan", Value: 42},
	})

	dto, err := healthHandler(repo, &stubPublisher{}).Handle(context.Background(), GetEngagementHealthQuery{})
	require.NoError(t, err)

	assert.False(t, dto.Healthy)
	assert.Equal(t, "critical", dto.Level)
	assert.Contains(t, dto.Message, "Jan")
	assert.NotEmpty(t, dto.Suggestions)
}

func TestGetEngagementHealth_WarningOnDrop(t *testing.T) {
	repo := memory.NewEngagementRepository()
	repo.SetSeries(engagement.Series{
		{Period: "Nov", Value: 88},
		{Period: "Dec", Value: 76},
	})

	dto, err := healthHandler(repo, &stubPublisher{}).Handle(context.Background(), GetEngagementHealthQuery{})
	require.NoError(t, err)

	assert.False(t, dto.Healthy)
	assert.Equal(t, "warning", dto.Level)
}

func TestGetEngagementHealth_SinglePointIsHealthy(t *testing.T) {
	repo := memory.NewEngagementRepository()
	repo.SetSeries(engagement.Series{{Period: "Sep", Value: 10}})

	dto, err := healthHandler(repo, &stubPublisher{}).Handle(context.Background(), GetEngagementHealthQuery{})
	require.NoError(t, err)

	// One point is not a trend, whatever its value.
	assert.True(t, dto.Healthy)
}

func TestGetEngagementHealth_EmitsEventWhenAsked(t *testing.T) {
	repo := memory.NewEngagementRepository()
	repo.SetSeries(engagement.Series{
		{Period: "Dec", Value: 55},
		{Period: "Jan", Value: 42},
	})

	publisher := &stubPublisher{}
	_, err := healthHandler(repo, publisher).Handle(context.Background(), GetEngagementHealthQuery{EmitEvent: true})
	require.NoError(t, err)

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, shared.EventEngagementWarning, events[0].EventType())
}

func TestGetEngagementHealth_NoEventForDashboardReads(t *testing.T) {
	repo := memory.NewEngagementRepository()
	repo.SetSeries(engagement.Series{
		{Period: "Dec", Value: 55},
		{Period: "Jan", Value: 42},
	})

	publisher := &stubPublisher{}
	_, err := healthHandler(repo, publisher).Handle(context.Background(), GetEngagementHealthQuery{})
	require.NoError(t, err)

	assert.Empty(t, publisher.Events())
}
