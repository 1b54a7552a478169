package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureFlags_Defaults(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.True(t, ff.IsEnabled(FeatureMatchAutoInvite, nil))
	assert.True(t, ff.IsEnabled(FeatureNotifyFollowUps, nil))
	assert.False(t, ff.IsEnabled(FeatureExperimentalWebhooks, nil))
	assert.False(t, ff.IsEnabled("no.such.feature", nil))
}

func TestFeatureFlags_EnvOverride(t *testing.T) {
	t.Setenv("FEATURE_NOTIFY_FOLLOW_UPS", "false")
	t.Setenv("FEATURE_EXPERIMENTAL_ANALYTICS", "true")

	ff := LoadFeatureFlags()

	assert.False(t, ff.FollowUpsEnabled(nil))
	assert.True(t, ff.IsEnabled(FeatureExperimentalAnalytics, nil))
}

func TestFeatureFlags_PercentRolloutIsConsistent(t *testing.T) {
	t.Setenv("FEATURE_MATCH_MENTOR_RECS", "50")

	ff := LoadFeatureFlags()
	ctx := &FeatureContext{ProfileID: "profile-1"}

	first := ff.IsEnabled(FeatureMatchMentorRecs, ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ff.IsEnabled(FeatureMatchMentorRecs, ctx))
	}
}

func TestFeatureFlags_ProfileOverrideWins(t *testing.T) {
	ff := LoadFeatureFlags()
	ctx := &FeatureContext{ProfileID: "profile-1"}

	require.True(t, ff.IsEnabled(FeatureNotifyInvitations, ctx))

	ff.SetProfileOverride("profile-1", FeatureNotifyInvitations, false)
	assert.False(t, ff.IsEnabled(FeatureNotifyInvitations, ctx))
	// Other profiles keep the default.
	assert.True(t, ff.IsEnabled(FeatureNotifyInvitations, &FeatureContext{ProfileID: "profile-2"}))

	ff.ClearProfileOverrides("profile-1")
	assert.True(t, ff.IsEnabled(FeatureNotifyInvitations, ctx))
}

func TestFeatureFlags_AdminsSeeEverything(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.True(t, ff.IsEnabled(FeatureExperimentalAnalytics, &FeatureContext{IsAdmin: true}))
}

func TestFeatureFlags_SetRolloutPercent(t *testing.T) {
	ff := LoadFeatureFlags()

	require.NoError(t, ff.DisableFeature(FeatureEngagementAlerts))
	assert.False(t, ff.IsEnabled(FeatureEngagementAlerts, nil))

	require.NoError(t, ff.EnableFeature(FeatureEngagementAlerts))
	assert.True(t, ff.IsEnabled(FeatureEngagementAlerts, nil))

	assert.ErrorIs(t, ff.SetRolloutPercent("no.such.feature", 10), ErrFeatureNotFound)
	assert.ErrorIs(t, ff.SetRolloutPercent(FeatureEngagementAlerts, 150), ErrInvalidRolloutPercent)
}

func TestFeatureFlags_InvitationsEnabledNeedsBothFlags(t *testing.T) {
	t.Setenv("FEATURE_MATCH_AUTO_INVITE", "false")

	ff := LoadFeatureFlags()

	assert.True(t, ff.IsEnabled(FeatureNotifyInvitations, nil))
	assert.False(t, ff.InvitationsEnabled(nil))
}
