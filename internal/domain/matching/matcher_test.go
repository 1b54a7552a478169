package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

func TestMatch_FullCoverage(t *testing.T) {
	requester := shared.NewSkillSet("Python", "SQL")
	candidate := shared.NewSkillSet("python", "Java", "sql")

	result := Match(requester, candidate, "mentor-1")

	assert.Equal(t, MatchScore(100), result.Score)
	// Matched terms keep the candidate's casing and order.
	assert.Equal(t, []string{"python", "sql"}, result.MatchedTerms.Strings())
	assert.Equal(t, CandidateID("mentor-1"), result.CandidateID)
}

func TestMatch_PartialCoverage(t *testing.T) {
	requester := shared.NewSkillSet("Python", "SQL", "ML")
	candidate := shared.NewSkillSet("Python")

	result := Match(requester, candidate, "mentor-2")

	// 1 of 3 requester skills covered -> 33%.
	assert.Equal(t, MatchScore(33), result.Score)
	assert.Equal(t, []string{"Python"}, result.MatchedTerms.Strings())
}

func TestMatch_EmptyRequester(t *testing.T) {
	result := Match(shared.SkillSet{}, shared.NewSkillSet("Python", "SQL"), "mentor-3")

	assert.Equal(t, MatchScore(0), result.Score)
	assert.Empty(t, result.MatchedTerms)
	assert.False(t, result.HasOverlap())
}

func TestMatch_NoOverlap(t *testing.T) {
	requester := shared.NewSkillSet("Finance", "Accounting")
	candidate := shared.NewSkillSet("Python", "SQL")

	result := Match(requester, candidate, "mentor-4")

	assert.Equal(t, MatchScore(0), result.Score)
	assert.Empty(t, result.MatchedTerms)
}

func TestMatch_Superset_ScoresHundred(t *testing.T) {
	requester := shared.NewSkillSet("AI", "Ethics")
	candidate := shared.NewSkillSet("ethics", "ai", "Law", "Policy")

	result := Match(requester, candidate, "judge-1")

	assert.Equal(t, MatchScore(100), result.Score)
	assert.True(t, candidate.ContainsAll(requester))
}

func TestMatch_ScoreBounds(t *testing.T) {
	cases := []struct {
		name      string
		requester shared.SkillSet
		candidate shared.SkillSet
	}{
		{"both empty", shared.SkillSet{}, shared.SkillSet{}},
		{"empty candidate", shared.NewSkillSet("Python"), shared.SkillSet{}},
		{"single match", shared.NewSkillSet("Python"), shared.NewSkillSet("Python")},
		{"large pool", shared.NewSkillSet("a", "b", "c", "d", "e", "f", "g"), shared.NewSkillSet("a", "c", "e", "g", "x", "y", "z")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Match(tc.requester, tc.candidate, "c")
			assert.True(t, result.Score.IsValid(), "score %d out of [0,100]", result.Score)
		})
	}
}

func TestMatch_Deterministic(t *testing.T) {
	requester := shared.NewSkillSet("Data Analytics", "Tableau", "Excel")
	candidate := shared.NewSkillSet("Excel", "tableau", "PowerPoint")

	first := Match(requester, candidate, "mentor-5")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Match(requester, candidate, "mentor-5"))
	}
}

func TestMatchScore_Quality(t *testing.T) {
	assert.Equal(t, MatchQualityExcellent, MatchScore(95).Quality())
	assert.Equal(t, MatchQualityGood, MatchScore(60).Quality())
	assert.Equal(t, MatchQualityFair, MatchScore(45).Quality())
	assert.Equal(t, MatchQualityPoor, MatchScore(20).Quality())
	assert.Equal(t, MatchQualityNone, MatchScore(0).Quality())
}
