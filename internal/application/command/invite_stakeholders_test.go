package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/program"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/persistence/memory"
)

func TestInviteStakeholders_RanksByScore(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	publisher := &capturePublisher{}
	handler := NewInviteStakeholdersHandler(stores.Program, stores.Directory, stores.Invitation, publisher)

	seedCompetition(t, stores, "comp-1", shared.NewSkillSet("Finance", "Data Analytics", "Strategy"))

	judges := directory.RoleSet{directory.RoleJudge}
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "judge-strong", "Strong Judge", judges, shared.NewSkillSet("Finance", "Data Analytics", "Strategy"), 10)))
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "judge-mid", "Mid Judge", judges, shared.NewSkillSet("Finance"), 10)))
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "judge-none", "No Overlap Judge", judges, shared.NewSkillSet("Poetry"), 10)))

	result, err := handler.Handle(ctx, InviteStakeholdersCommand{
		SubjectType: invitation.SubjectCompetition,
		SubjectID:   "comp-1",
	})
	require.NoError(t, err)

	require.Len(t, result.Invited, 3)
	assert.Equal(t, "judge-strong", result.Invited[0].RecipientID)
	assert.Equal(t, 100, result.Invited[0].Score)
	assert.Equal(t, 1, result.Invited[0].RankPosition)
	assert.Equal(t, "judge-mid", result.Invited[1].RecipientID)
	assert.Equal(t, 33, result.Invited[1].Score)
	assert.Equal(t, "judge-none", result.Invited[2].RecipientID)
	assert.Equal(t, 0, result.Invited[2].Score)
	assert.Equal(t, 3, result.CandidatesConsidered)
	assert.Equal(t, "Case Competition", result.SubjectTitle)

	// One persisted invitation per selected candidate, pending.
	saved, err := stores.Invitation.FindBySubject(ctx, invitation.SubjectRef{
		Type: invitation.SubjectCompetition,
		ID:   shared.SubjectID("comp-1"),
	})
	require.NoError(t, err)
	assert.Len(t, saved, 3)
	for _, inv := range saved {
		assert.Equal(t, invitation.StatusPending, inv.Status)
	}

	assert.Len(t, publisher.ByType(shared.EventInvitationCreated), 3)
}

func TestInviteStakeholders_TopNDefaultsToFive(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	handler := NewInviteStakeholdersHandler(stores.Program, stores.Directory, stores.Invitation, &capturePublisher{})

	seedCompetition(t, stores, "comp-1", shared.NewSkillSet("Finance"))

	for _, id := range []string{"j1", "j2", "j3", "j4", "j5", "j6", "j7"} {
		require.NoError(t, stores.Directory.Create(ctx,
			mustProfile(t, id, "Judge "+id, directory.RoleSet{directory.RoleJudge}, shared.NewSkillSet("Finance"), 5)))
	}

	result, err := handler.Handle(ctx, InviteStakeholdersCommand{
		SubjectType: invitation.SubjectCompetition,
		SubjectID:   "comp-1",
	})
	require.NoError(t, err)

	assert.Len(t, result.Invited, 5)
	assert.Equal(t, 7, result.CandidatesConsidered)
}

func TestInviteStakeholders_SkipsExistingInvitations(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	handler := NewInviteStakeholdersHandler(stores.Program, stores.Directory, stores.Invitation, &capturePublisher{})

	seedCompetition(t, stores, "comp-1", shared.NewSkillSet("Finance"))
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "judge-1", "Judge One", directory.RoleSet{directory.RoleJudge}, shared.NewSkillSet("Finance"), 5)))

	cmd := InviteStakeholdersCommand{
		SubjectType: invitation.SubjectCompetition,
		SubjectID:   "comp-1",
	}

	first, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Len(t, first.Invited, 1)

	// Re-running the round must not create a second invitation for the pair.
	second, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Empty(t, second.Invited)
	assert.Equal(t, 1, second.SkippedExisting)

	saved, err := stores.Invitation.FindByRecipient(ctx, shared.ProfileID("judge-1"))
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestInviteStakeholders_MinScoreFilter(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	handler := NewInviteStakeholdersHandler(stores.Program, stores.Directory, stores.Invitation, &capturePublisher{})

	seedCompetition(t, stores, "comp-1", shared.NewSkillSet("Finance", "Strategy"))
	judges := directory.RoleSet{directory.RoleJudge}
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "judge-full", "Full Match", judges, shared.NewSkillSet("Finance", "Strategy"), 5)))
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "judge-half", "Half Match", judges, shared.NewSkillSet("Finance"), 5)))
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "judge-zero", "Zero Match", judges, shared.NewSkillSet("Poetry"), 5)))

	result, err := handler.Handle(ctx, InviteStakeholdersCommand{
		SubjectType: invitation.SubjectCompetition,
		SubjectID:   "comp-1",
		MinScore:    50,
	})
	require.NoError(t, err)

	require.Len(t, result.Invited, 2)
	assert.Equal(t, "judge-full", result.Invited[0].RecipientID)
	assert.Equal(t, "judge-half", result.Invited[1].RecipientID)
}

func TestInviteStakeholders_LectureFiltersByExperience(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	handler := NewInviteStakeholdersHandler(stores.Program, stores.Directory, stores.Invitation, &capturePublisher{})

	lecture, err := program.NewGuestLecture(program.NewLectureParams{
		ID:                 shared.SubjectID("lec-1"),
		Topic:              "Cloud Security",
		CourseName:         "MIS 430",
		ScheduledAt:        time.Date(2026, time.March, 18, 14, 0, 0, 0, time.UTC),
		RequiredSkills:     shared.NewSkillSet("Cybersecurity"),
		MinYearsExperience: 8,
	})
	require.NoError(t, err)
	require.NoError(t, stores.Program.CreateLecture(ctx, lecture))

	speakers := directory.RoleSet{directory.RoleSpeaker}
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "spk-senior", "Senior Speaker", speakers, shared.NewSkillSet("Cybersecurity"), 12)))
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "spk-junior", "Junior Speaker", speakers, shared.NewSkillSet("Cybersecurity"), 3)))

	result, err := handler.Handle(ctx, InviteStakeholdersCommand{
		SubjectType: invitation.SubjectLecture,
		SubjectID:   "lec-1",
	})
	require.NoError(t, err)

	require.Len(t, result.Invited, 1)
	assert.Equal(t, "spk-senior", result.Invited[0].RecipientID)
	assert.Equal(t, 1, result.CandidatesConsidered)
}

func TestInviteStakeholders_RoleMapping(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	handler := NewInviteStakeholdersHandler(stores.Program, stores.Directory, stores.Invitation, &capturePublisher{})

	event, err := program.NewEvent(program.NewEventParams{
		ID:             shared.SubjectID("evt-1"),
		Title:          "Networking Mixer",
		StartsAt:       time.Date(2026, time.February, 26, 18, 0, 0, 0, time.UTC),
		RequiredSkills: shared.NewSkillSet("Finance"),
	})
	require.NoError(t, err)
	require.NoError(t, stores.Program.CreateEvent(ctx, event))

	// Events invite alumni; a mentor-only profile stays out of the pool.
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "alum-1", "Alumni One", directory.RoleSet{directory.RoleAlumni}, shared.NewSkillSet("Finance"), 5)))
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "mentor-1", "Mentor One", directory.RoleSet{directory.RoleMentor}, shared.NewSkillSet("Finance"), 5)))

	result, err := handler.Handle(ctx, InviteStakeholdersCommand{
		SubjectType: invitation.SubjectEvent,
		SubjectID:   "evt-1",
	})
	require.NoError(t, err)

	require.Len(t, result.Invited, 1)
	assert.Equal(t, "alum-1", result.Invited[0].RecipientID)
}

func TestInviteStakeholders_ExperienceBreaksScoreTies(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	handler := NewInviteStakeholdersHandler(stores.Program, stores.Directory, stores.Invitation, &capturePublisher{})

	seedCompetition(t, stores, "comp-1", shared.NewSkillSet("Finance"))
	judges := directory.RoleSet{directory.RoleJudge}
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "judge-young", "Young Judge", judges, shared.NewSkillSet("Finance"), 3)))
	require.NoError(t, stores.Directory.Create(ctx,
		mustProfile(t, "judge-veteran", "Veteran Judge", judges, shared.NewSkillSet("Finance"), 20)))

	result, err := handler.Handle(ctx, InviteStakeholdersCommand{
		SubjectType: invitation.SubjectCompetition,
		SubjectID:   "comp-1",
		TopN:        1,
	})
	require.NoError(t, err)

	require.Len(t, result.Invited, 1)
	assert.Equal(t, "judge-veteran", result.Invited[0].RecipientID)
}

func TestInviteStakeholders_SubjectNotFound(t *testing.T) {
	stores := memory.NewStores()
	handler := NewInviteStakeholdersHandler(stores.Program, stores.Directory, stores.Invitation, &capturePublisher{})

	_, err := handler.Handle(context.Background(), InviteStakeholdersCommand{
		SubjectType: invitation.SubjectCompetition,
		SubjectID:   "missing",
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInviteStakeholdersCommand_Validate(t *testing.T) {
	cases := []struct {
		name string
		cmd  InviteStakeholdersCommand
	}{
		{"missing subject id", InviteStakeholdersCommand{SubjectType: invitation.SubjectEvent}},
		{"invalid subject type", InviteStakeholdersCommand{SubjectType: "seminar", SubjectID: "x"}},
		{"negative top n", InviteStakeholdersCommand{SubjectType: invitation.SubjectEvent, SubjectID: "x", TopN: -1}},
		{"min score above 100", InviteStakeholdersCommand{SubjectType: invitation.SubjectEvent, SubjectID: "x", MinScore: 101}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cmd.Validate())
		})
	}
}
