package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/engagement"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/persistence/memory"
)

func TestGetPlatformAnalytics_FromSeededStores(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	require.NoError(t, stores.Seed(ctx))

	handler := NewGetPlatformAnalyticsHandler(stores.Directory, stores.Program, stores.Invitation, stores.Engagement)

	analytics, err := handler.Handle(ctx, GetPlatformAnalyticsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 6, analytics.Users.TotalUsers)
	assert.Equal(t, 3, analytics.Users.TotalAlumni)
	assert.Equal(t, 3, analytics.Users.ActiveMentors)

	assert.Equal(t, 1, analytics.Activity.TotalEvents)
	assert.Equal(t, 1, analytics.Activity.TotalLectures)
	assert.Equal(t, 1, analytics.Activity.TotalCompetitions)
	assert.Zero(t, analytics.Activity.AcceptedInvitations)

	assert.Equal(t, 2, analytics.Feedback.StudentCount)
	assert.Equal(t, 1, analytics.Feedback.EmployerCount)
	assert.InDelta(t, 4.25, analytics.Feedback.StudentAvg, 0.001)
	assert.InDelta(t, 5.0, analytics.Feedback.EmployerAvg, 0.001)
}

func TestGetPlatformAnalytics_RecentFeedbackOnlyCommented(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()

	now := time.Now().UTC()
	stores.Engagement.AddStudentFeedback(
		engagement.FeedbackEntry{ID: "fb-1", Rating: 4, Comments: "Great event", SubmittedAt: now.Add(-2 * time.Hour)},
		engagement.FeedbackEntry{ID: "fb-2", Rating: 5, SubmittedAt: now.Add(-time.Hour)},
	)
	stores.Engagement.AddJudgeFeedback(
		engagement.FeedbackEntry{ID: "fb-3", Rating: 5, Comments: "Sharp teams", SubmittedAt: now},
	)

	handler := NewGetPlatformAnalyticsHandler(stores.Directory, stores.Program, stores.Invitation, stores.Engagement)

	analytics, err := handler.Handle(ctx, GetPlatformAnalyticsQuery{})
	require.NoError(t, err)

	// Entries without comments are counted but never surfaced.
	require.Len(t, analytics.RecentFeedback, 2)
	assert.Equal(t, "fb-3", analytics.RecentFeedback[0].ID)
	assert.Equal(t, "fb-1", analytics.RecentFeedback[1].ID)
	assert.Equal(t, 3, analytics.Feedback.StudentCount+analytics.Feedback.EmployerCount)
}

func TestGetPlatformAnalytics_RecentFeedbackLimit(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()

	now := time.Now().UTC()
	for i := 0; i < 8; i++ {
		stores.Engagement.AddStudentFeedback(engagement.FeedbackEntry{
			ID:          string(rune('a' + i)),
			Rating:      4,
			Comments:    "comment",
			SubmittedAt: now.Add(time.Duration(-i) * time.Hour),
		})
	}

	handler := NewGetPlatformAnalyticsHandler(stores.Directory, stores.Program, stores.Invitation, stores.Engagement)

	analytics, err := handler.Handle(ctx, GetPlatformAnalyticsQuery{RecentFeedbackLimit: 3})
	require.NoError(t, err)
	assert.Len(t, analytics.RecentFeedback, 3)

	// Zero falls back to the default of five.
	analytics, err = handler.Handle(ctx, GetPlatformAnalyticsQuery{})
	require.NoError(t, err)
	assert.Len(t, analytics.RecentFeedback, 5)
}

func TestGetPlatformAnalytics_UnavailableMentorNotActive(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()

	busy := mustProfile(t, "mentor-busy", "Busy", directory.RoleSet{directory.RoleMentor}, shared.NewSkillSet("Python"), 5)
	busy.SetAvailability(false)
	require.NoError(t, stores.Directory.Create(ctx, busy))
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "mentor-free", "Free", directory.RoleSet{directory.RoleMentor}, shared.NewSkillSet("Python"), 5)))

	handler := NewGetPlatformAnalyticsHandler(stores.Directory, stores.Program, stores.Invitation, stores.Engagement)

	analytics, err := handler.Handle(ctx, GetPlatformAnalyticsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 2, analytics.Users.TotalUsers)
	assert.Equal(t, 1, analytics.Users.ActiveMentors)
}
