package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/persistence/memory"
)

func TestRecommendMentors_RanksByOverlap(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewDirectoryRepository()
	handler := NewRecommendMentorsHandler(repo)

	mentors := directory.RoleSet{directory.RoleMentor}
	require.NoError(t, repo.Create(ctx,
		mustProfile(t, "mentor-full", "Full Match", mentors, shared.NewSkillSet("Python", "SQL"), 10)))
	require.NoError(t, repo.Create(ctx,
		mustProfile(t, "mentor-half", "Half Match", mentors, shared.NewSkillSet("Python"), 8)))
	require.NoError(t, repo.Create(ctx,
		mustProfile(t, "mentor-none", "No Match", mentors, shared.NewSkillSet("Drawing"), 5)))

	recs, err := handler.Handle(ctx, RecommendMentorsQuery{
		StudentSkills: []string{"Python", "SQL"},
	})
	require.NoError(t, err)

	require.Len(t, recs.Recommendations, 3)
	assert.Equal(t, "mentor-full", recs.Recommendations[0].MentorID)
	assert.Equal(t, 100, recs.Recommendations[0].Score)
	assert.Equal(t, "excellent", recs.Recommendations[0].Quality)
	assert.Equal(t, 1, recs.Recommendations[0].RankPosition)
	assert.Equal(t, "mentor-half", recs.Recommendations[1].MentorID)
	assert.Equal(t, 50, recs.Recommendations[1].Score)
	assert.Equal(t, "mentor-none", recs.Recommendations[2].MentorID)
	assert.Equal(t, 0, recs.Recommendations[2].Score)
	assert.Equal(t, 3, recs.MentorsConsidered)
}

func TestRecommendMentors_DefaultLimitIsFive(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewDirectoryRepository()
	handler := NewRecommendMentorsHandler(repo)

	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		require.NoError(t, repo.Create(ctx,
			mustProfile(t, "mentor-"+id, "Mentor "+id, directory.RoleSet{directory.RoleMentor}, shared.NewSkillSet("Python"), 5)))
	}

	recs, err := handler.Handle(ctx, RecommendMentorsQuery{StudentSkills: []string{"Python"}})
	require.NoError(t, err)

	assert.Len(t, recs.Recommendations, 5)
	assert.Equal(t, 8, recs.MentorsConsidered)
}

func TestRecommendMentors_MinScoreFilter(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewDirectoryRepository()
	handler := NewRecommendMentorsHandler(repo)

	mentors := directory.RoleSet{directory.RoleMentor}
	require.NoError(t, repo.Create(ctx,
		mustProfile(t, "mentor-good", "Good", mentors, shared.NewSkillSet("Python", "SQL"), 5)))
	require.NoError(t, repo.Create(ctx,
		mustProfile(t, "mentor-weak", "Weak", mentors, shared.NewSkillSet("Drawing"), 5)))

	recs, err := handler.Handle(ctx, RecommendMentorsQuery{
		StudentSkills: []string{"Python", "SQL"},
		MinScore:      60,
	})
	require.NoError(t, err)

	require.Len(t, recs.Recommendations, 1)
	assert.Equal(t, "mentor-good", recs.Recommendations[0].MentorID)
	// The pool size counts everyone, including the filtered.
	assert.Equal(t, 2, recs.MentorsConsidered)
}

func TestRecommendMentors_OnlyAvailableMentors(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewDirectoryRepository()
	handler := NewRecommendMentorsHandler(repo)

	busy := mustProfile(t, "mentor-busy", "Busy Mentor", directory.RoleSet{directory.RoleMentor}, shared.NewSkillSet("Python"), 5)
	busy.SetAvailability(false)
	require.NoError(t, repo.Create(ctx, busy))
	require.NoError(t, repo.Create(ctx,
		mustProfile(t, "judge-only", "Judge Only", directory.RoleSet{directory.RoleJudge}, shared.NewSkillSet("Python"), 5)))
	require.NoError(t, repo.Create(ctx,
		mustProfile(t, "mentor-free", "Free Mentor", directory.RoleSet{directory.RoleMentor}, shared.NewSkillSet("Python"), 5)))

	recs, err := handler.Handle(ctx, RecommendMentorsQuery{StudentSkills: []string{"Python"}})
	require.NoError(t, err)

	require.Len(t, recs.Recommendations, 1)
	assert.Equal(t, "mentor-free", recs.Recommendations[0].MentorID)
	assert.Equal(t, 1, recs.MentorsConsidered)
}

func TestRecommendMentors_Reason(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewDirectoryRepository()
	handler := NewRecommendMentorsHandler(repo)

	mentors := directory.RoleSet{directory.RoleMentor}
	require.NoError(t, repo.Create(ctx,
		mustProfile(t, "mentor-skilled", "Skilled", mentors, shared.NewSkillSet("Python", "SQL"), 5)))
	require.NoError(t, repo.Create(ctx,
		mustProfile(t, "mentor-generic", "Generic", mentors, shared.NewSkillSet("Drawing"), 5)))

	recs, err := handler.Handle(ctx, RecommendMentorsQuery{StudentSkills: []string{"Python", "SQL"}})
	require.NoError(t, err)

	require.Len(t, recs.Recommendations, 2)
	assert.Equal(t, "Based on Python & SQL skills", recs.Recommendations[0].Reason)
	assert.Equal(t, "General mentorship fit", recs.Recommendations[1].Reason)
}

func TestRecommendMentorsQuery_Validate(t *testing.T) {
	negative := RecommendMentorsQuery{Limit: -1}
	assert.Error(t, negative.Validate())

	outOfRange := RecommendMentorsQuery{MinScore: 101}
	assert.Error(t, outOfRange.Validate())

	defaulted := RecommendMentorsQuery{}
	require.NoError(t, defaulted.Validate())
	assert.Equal(t, 5, defaulted.Limit)
}
