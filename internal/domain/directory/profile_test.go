package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/matching"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

func validProfileParams() NewProfileParams {
	return NewProfileParams{
		ID:              shared.ProfileID("550e8400-e29b-41d4-a716-446655440000"),
		FullName:        "James Rodriguez",
		Email:           shared.Email("J.Rodriguez@Example.com"),
		Roles:           RoleSet{RoleMentor, RoleJudge},
		Skills:          shared.NewSkillSet("Supply Chain", "Operations"),
		Organization:    "Dell Technologies",
		Title:           "Senior Operations Manager",
		YearsExperience: 12,
	}
}

func TestNewStakeholderProfile(t *testing.T) {
	t.Run("creates available profile with normalized email", func(t *testing.T) {
		profile, err := NewStakeholderProfile(validProfileParams())
		require.NoError(t, err)

		assert.True(t, profile.Available)
		assert.Equal(t, shared.Email("j.rodriguez@example.com"), profile.Email)
		assert.False(t, profile.RegisteredAt.IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		params := validProfileParams()
		params.FullName = ""

		_, err := NewStakeholderProfile(params)
		assert.ErrorIs(t, err, shared.ErrEmptyValue)
	})

	t.Run("rejects empty role set", func(t *testing.T) {
		params := validProfileParams()
		params.Roles = nil

		_, err := NewStakeholderProfile(params)
		assert.ErrorIs(t, err, shared.ErrInvalidProfileRole)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		params := validProfileParams()
		params.Roles = RoleSet{Role("sponsor")}

		_, err := NewStakeholderProfile(params)
		assert.ErrorIs(t, err, shared.ErrInvalidProfileRole)
	})

	t.Run("rejects negative experience", func(t *testing.T) {
		params := validProfileParams()
		params.YearsExperience = -1

		_, err := NewStakeholderProfile(params)
		assert.ErrorIs(t, err, shared.ErrNegativeValue)
	})
}

func TestStakeholderProfile_Candidate(t *testing.T) {
	profile, err := NewStakeholderProfile(validProfileParams())
	require.NoError(t, err)

	candidate := profile.Candidate()

	assert.Equal(t, matching.CandidateID(profile.ID.String()), candidate.ID)
	assert.Equal(t, "James Rodriguez", candidate.DisplayName)
	assert.Equal(t, profile.Skills, candidate.Skills)
}

func TestStakeholderProfile_CanServe(t *testing.T) {
	profile, err := NewStakeholderProfile(validProfileParams())
	require.NoError(t, err)

	assert.True(t, profile.CanServe(RoleMentor))
	assert.True(t, profile.CanServe(RoleJudge))
	assert.False(t, profile.CanServe(RoleSpeaker))

	profile.SetAvailability(false)
	assert.False(t, profile.CanServe(RoleMentor))
}
