package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles and gradual rollouts.
// Supports percentage rollouts, role targeting, and per-profile overrides.
//
// Engagement features ship carefully: an invitation email that goes out
// half-baked burns goodwill with alumni and partners that took years to
// build, so new notification paths roll out to a fraction of subjects
// before going wide.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	profileOverrides map[string]map[string]bool // profileID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Profiles are assigned based on hash of their ID
	RolloutPercent int

	// Role targeting (e.g., "alumni", "speaker", "judge")
	// Empty means all roles
	TargetRoles []string

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time

	// A/B test variant (for experiments)
	Variants []string
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	ProfileID string // Stakeholder profile ID

	Role    string // Primary role (e.g., "alumni")
	IsAdmin bool   // Is an engagement office admin
}

// Predefined feature flag names.
const (
	// === Matching Features ===
	FeatureMatchAutoInvite     = "match.auto_invite"     // Send invitations on subject creation
	FeatureMatchMinScoreFilter = "match.min_score"       // Drop low-score candidates
	FeatureMatchMentorRecs     = "match.mentor_recs"     // Mentor recommendations for students
	FeatureMatchLectureRanking = "match.lecture_ranking" // Experience-weighted lecture pools

	// === Notification Features ===
	FeatureNotifyInvitations  = "notify.invitations"   // Invitation emails
	FeatureNotifyRegistration = "notify.registration"  // Welcome email on stakeholder registration
	FeatureNotifyFollowUps    = "notify.follow_ups"    // Follow-up reminders for pending invitations
	FeatureNotifyAppreciation = "notify.appreciation"  // Thank-you emails after a subject concludes
	FeatureNotifySendWindow   = "notify.send_window"   // Hold emails outside campus daytime hours
	FeatureNotifyAdminDigest  = "notify.admin_digest"  // Response summaries for the engagement office
	FeatureNotifyDeclineAlert = "notify.decline_alert" // Alert admins on declines

	// === Engagement Monitoring ===
	FeatureEngagementAlerts   = "engagement.alerts"   // Downturn warnings to admins
	FeatureEngagementNightly  = "engagement.nightly"  // Nightly trend check job
	FeatureEngagementFeedback = "engagement.feedback" // Feedback aggregation in analytics

	// === Experimental Features ===
	FeatureExperimentalAnalytics = "experimental.analytics" // Extended analytics dashboard
	FeatureExperimentalWebhooks  = "experimental.webhooks"  // Real-time webhook updates
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:         make(map[string]*Feature),
		profileOverrides: make(map[string]map[string]bool),
	}

	// Initialize all features with defaults
	ff.initializeDefaults()

	// Load overrides from environment
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	// Matching features - the core of the platform, enabled by default
	ff.features[FeatureMatchAutoInvite] = &Feature{
		Name:           FeatureMatchAutoInvite,
		Description:    "Invite matched stakeholders when a subject is created",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureMatchMinScoreFilter] = &Feature{
		Name:           FeatureMatchMinScoreFilter,
		Description:    "Filter candidates below the configured minimum score",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureMatchMentorRecs] = &Feature{
		Name:           FeatureMatchMentorRecs,
		Description:    "Recommend alumni mentors to students",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureMatchLectureRanking] = &Feature{
		Name:           FeatureMatchLectureRanking,
		Description:    "Weight guest lecture pools by years of experience",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Notification features - tuned so stakeholders never feel spammed
	ff.features[FeatureNotifyInvitations] = &Feature{
		Name:           FeatureNotifyInvitations,
		Description:    "Send invitation emails to matched stakeholders",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyRegistration] = &Feature{
		Name:           FeatureNotifyRegistration,
		Description:    "Confirm new stakeholder registrations by email",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyFollowUps] = &Feature{
		Name:           FeatureNotifyFollowUps,
		Description:    "Send follow-up reminders for stale pending invitations",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyAppreciation] = &Feature{
		Name:           FeatureNotifyAppreciation,
		Description:    "Thank stakeholders who served at concluded subjects",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifySendWindow] = &Feature{
		Name:           FeatureNotifySendWindow,
		Description:    "Hold outgoing email outside the campus send window",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyAdminDigest] = &Feature{
		Name:           FeatureNotifyAdminDigest,
		Description:    "Summarize invitation responses for the engagement office",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyDeclineAlert] = &Feature{
		Name:           FeatureNotifyDeclineAlert,
		Description:    "Alert admins when an invitation is declined",
		Enabled:        false, // Noisy; digests cover it
		RolloutPercent: 0,
	}

	// Engagement monitoring
	ff.features[FeatureEngagementAlerts] = &Feature{
		Name:           FeatureEngagementAlerts,
		Description:    "Warn admins when engagement metrics dip",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureEngagementNightly] = &Feature{
		Name:           FeatureEngagementNightly,
		Description:    "Run the nightly engagement trend check",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureEngagementFeedback] = &Feature{
		Name:           FeatureEngagementFeedback,
		Description:    "Include feedback aggregates in analytics",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Experimental features - disabled by default
	ff.features[FeatureExperimentalAnalytics] = &Feature{
		Name:           FeatureExperimentalAnalytics,
		Description:    "Extended analytics dashboard",
		Enabled:        false,
		RolloutPercent: 0,
	}

	ff.features[FeatureExperimentalWebhooks] = &Feature{
		Name:           FeatureExperimentalWebhooks,
		Description:    "Real-time webhook updates",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_MATCH_AUTO_INVITE=true
// Example: FEATURE_NOTIFY_FOLLOW_UPS=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "match.auto_invite" -> "FEATURE_MATCH_AUTO_INVITE"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	return ff.isEnabledLocked(featureName, ctx)
}

func (ff *FeatureFlags) isEnabledLocked(featureName string, ctx *FeatureContext) bool {
	// Check profile overrides first
	if ctx != nil && ctx.ProfileID != "" {
		if overrides, ok := ff.profileOverrides[ctx.ProfileID]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admins get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	// Check if feature is enabled at all
	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check role targeting
	if len(feature.TargetRoles) > 0 && ctx != nil && ctx.Role != "" {
		roleMatch := false
		for _, r := range feature.TargetRoles {
			if r == ctx.Role {
				roleMatch = true
				break
			}
		}
		if !roleMatch {
			return false
		}
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.ProfileID != "" {
		return ff.isInRollout(ctx.ProfileID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a profile is in the rollout percentage.
// Uses consistent hashing so profiles stay in their bucket.
func (ff *FeatureFlags) isInRollout(profileID, featureName string, percent int) bool {
	// Create a consistent hash for this profile+feature combination
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(profileID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// GetVariant returns the A/B test variant for a profile.
// Returns empty string if no variants defined or feature disabled.
func (ff *FeatureFlags) GetVariant(featureName string, ctx *FeatureContext) string {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok || !ff.isEnabledLocked(featureName, ctx) {
		return ""
	}

	if len(feature.Variants) == 0 || ctx == nil {
		return ""
	}

	// Use consistent hashing to assign variant
	h := fnv.New32a()
	h.Write([]byte(featureName + "_variant"))
	h.Write([]byte(ctx.ProfileID))
	hash := h.Sum32()

	variantIndex := int(hash % uint32(len(feature.Variants)))
	return feature.Variants[variantIndex]
}

// SetProfileOverride sets a feature override for a specific profile.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetProfileOverride(profileID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.profileOverrides[profileID]; !ok {
		ff.profileOverrides[profileID] = make(map[string]bool)
	}
	ff.profileOverrides[profileID][featureName] = enabled
}

// ClearProfileOverrides removes all overrides for a profile.
func (ff *FeatureFlags) ClearProfileOverrides(profileID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.profileOverrides, profileID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		// Return a copy
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// InvitationsEnabled checks if invitation sending is enabled at all.
func (ff *FeatureFlags) InvitationsEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureMatchAutoInvite, ctx) &&
		ff.IsEnabled(FeatureNotifyInvitations, ctx)
}

// FollowUpsEnabled checks if the follow-up reminder pipeline is enabled.
func (ff *FeatureFlags) FollowUpsEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureNotifyFollowUps, ctx)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
