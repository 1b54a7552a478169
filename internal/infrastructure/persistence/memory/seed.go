package memory

import (
	"context"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/engagement"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/program"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// Stores bundles the in-memory repositories for development mode.
type Stores struct {
	Directory  *DirectoryRepository
	Program    *ProgramRepository
	Invitation *InvitationRepository
	Engagement *EngagementRepository
}

// NewStores creates empty in-memory stores.
func NewStores() *Stores {
	return &Stores{
		Directory:  NewDirectoryRepository(),
		Program:    NewProgramRepository(),
		Invitation: NewInvitationRepository(),
		Engagement: NewEngagementRepository(),
	}
}

// Seed loads the demo dataset: a stakeholder directory, a few program
// subjects, an engagement series with a visible decline, and feedback.
func (s *Stores) Seed(ctx context.Context) error {
	profiles := []directory.NewProfileParams{
		{
			ID:              shared.ProfileID("550e8400-e29b-41d4-a716-446655440001"),
			FullName:        "Dr. Sarah Chen",
			Email:           shared.Email("s.chen@example.com"),
			Roles:           directory.RoleSet{directory.RoleMentor, directory.RoleSpeaker},
			Skills:          shared.NewSkillSet("Data Analytics", "Python", "Machine Learning", "SQL"),
			Organization:    "Accenture",
			Title:           "Analytics Director",
			YearsExperience: 15,
		},
		{
			ID:              shared.ProfileID("550e8400-e29b-41d4-a716-446655440002"),
			FullName:        "James Rodriguez",
			Email:           shared.Email("j.rodriguez@example.com"),
			Roles:           directory.RoleSet{directory.RoleMentor, directory.RoleJudge, directory.RoleAlumni},
			Skills:          shared.NewSkillSet("Supply Chain", "Operations", "ERP", "SAP"),
			Organization:    "Dell Technologies",
			Title:           "Senior Operations Manager",
			YearsExperience: 12,
		},
		{
			ID:              shared.ProfileID("550e8400-e29b-41d4-a716-446655440003"),
			FullName:        "Priya Patel",
			Email:           shared.Email("p.patel@example.com"),
			Roles:           directory.RoleSet{directory.RoleJudge, directory.RoleSpeaker},
			Skills:          shared.NewSkillSet("Cybersecurity", "Cloud Computing", "Risk Management"),
			Organization:    "Deloitte",
			Title:           "Security Consultant",
			YearsExperience: 8,
		},
		{
			ID:              shared.ProfileID("550e8400-e29b-41d4-a716-446655440004"),
			FullName:        "Michael Okafor",
			Email:           shared.Email("m.okafor@example.com"),
			Roles:           directory.RoleSet{directory.RoleAlumni, directory.RoleMentor},
			Skills:          shared.NewSkillSet("Finance", "Valuation", "Data Analytics"),
			Organization:    "JPMorgan Chase",
			Title:           "Vice President",
			YearsExperience: 10,
		},
		{
			ID:              shared.ProfileID("550e8400-e29b-41d4-a716-446655440005"),
			FullName:        "Emily Tran",
			Email:           shared.Email("e.tran@example.com"),
			Roles:           directory.RoleSet{directory.RoleJudge, directory.RoleAlumni},
			Skills:          shared.NewSkillSet("Marketing", "Consumer Insights", "Data Analytics"),
			Organization:    "HEB",
			Title:           "Brand Manager",
			YearsExperience: 6,
		},
		{
			ID:              shared.ProfileID("550e8400-e29b-41d4-a716-446655440006"),
			FullName:        "David Kim",
			Email:           shared.Email("d.kim@example.com"),
			Roles:           directory.RoleSet{directory.RoleSpeaker},
			Skills:          shared.NewSkillSet("Entrepreneurship", "Venture Capital", "Strategy"),
			Organization:    "Austin Ventures",
			Title:           "Partner",
			YearsExperience: 18,
		},
	}

	for _, params := range profiles {
		profile, err := directory.NewStakeholderProfile(params)
		if err != nil {
			return err
		}
		if err := s.Directory.Create(ctx, profile); err != nil {
			return err
		}
	}

	competition, err := program.NewCompetition(program.NewCompetitionParams{
		ID:                   shared.SubjectID("comp-case-spring-2026"),
		Title:                "Spring Case Competition",
		CaseDomain:           "Retail Analytics",
		HeldAt:               time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC),
		RegistrationDeadline: time.Date(2026, time.March, 27, 23, 59, 0, 0, time.UTC),
		RequiredSkills:       shared.NewSkillSet("Data Analytics", "Strategy", "Finance"),
		JudgesNeeded:         5,
	})
	if err != nil {
		return err
	}
	if err := s.Program.CreateCompetition(ctx, competition); err != nil {
		return err
	}

	lecture, err := program.NewGuestLecture(program.NewLectureParams{
		ID:                 shared.SubjectID("lec-mis-430-security"),
		Topic:              "Enterprise Security in the Cloud Era",
		CourseName:         "MIS 430",
		ScheduledAt:        time.Date(2026, time.March, 18, 14, 0, 0, 0, time.UTC),
		RequiredSkills:     shared.NewSkillSet("Cybersecurity", "Cloud Computing"),
		MinYearsExperience: 5,
	})
	if err != nil {
		return err
	}
	if err := s.Program.CreateLecture(ctx, lecture); err != nil {
		return err
	}

	event, err := program.NewEvent(program.NewEventParams{
		ID:             shared.SubjectID("evt-networking-spring"),
		Title:          "Spring Networking Mixer",
		Description:    "Students meet alumni across industries.",
		Location:       "Wehner Building Atrium",
		StartsAt:       time.Date(2026, time.February, 26, 18, 0, 0, 0, time.UTC),
		RequiredSkills: shared.NewSkillSet("Finance", "Marketing", "Consulting"),
		Capacity:       120,
	})
	if err != nil {
		return err
	}
	if err := s.Program.CreateEvent(ctx, event); err != nil {
		return err
	}

	s.Engagement.SetSeries(engagement.Series{
		{Period: "Sep", Value: 82},
		{Period: "Oct", Value: 85},
		{Period: "Nov", Value: 88},
		{Period: "Dec", Value: 76},
		{Period: "Jan", Value: 71},
	})

	now := time.Now().UTC()
	s.Engagement.AddStudentFeedback(
		engagement.FeedbackEntry{
			ID:          "fb-001",
			SubjectID:   "evt-networking-spring",
			AuthorID:    "student-204",
			Rating:      4.5,
			Comments:    "Met three alumni in my target industry.",
			SubmittedAt: now.Add(-72 * time.Hour),
		},
		engagement.FeedbackEntry{
			ID:          "fb-002",
			SubjectID:   "evt-networking-spring",
			AuthorID:    "student-311",
			Rating:      4.0,
			SubmittedAt: now.Add(-70 * time.Hour),
		},
	)
	s.Engagement.AddJudgeFeedback(
		engagement.FeedbackEntry{
			ID:          "fb-101",
			SubjectID:   "comp-case-spring-2026",
			AuthorID:    "550e8400-e29b-41d4-a716-446655440002",
			Rating:      5.0,
			Comments:    "Strong analytical depth from the finalist teams.",
			SubmittedAt: now.Add(-48 * time.Hour),
		},
	)

	return nil
}
