package query

import (
	"context"
	"fmt"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/engagement"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/program"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PLATFORM ANALYTICS QUERY
// Обзорный дашборд админа: счётчики пользователей и активности,
// агрегаты отзывов, последние комментарии. Всё считается заново
// при каждом чтении.
// ══════════════════════════════════════════════════════════════════════════════

// GetPlatformAnalyticsQuery содержит параметры запроса.
type GetPlatformAnalyticsQuery struct {
	// RecentFeedbackLimit - сколько последних отзывов вернуть (по умолчанию 5).
	RecentFeedbackLimit int
}

// GetPlatformAnalyticsHandler обрабатывает GetPlatformAnalyticsQuery.
type GetPlatformAnalyticsHandler struct {
	directoryRepo  directory.Repository
	programRepo    program.Repository
	invitationRepo invitation.Repository
	engagementRepo engagement.Repository
}

// NewGetPlatformAnalyticsHandler создаёт новый обработчик.
func NewGetPlatformAnalyticsHandler(
	directoryRepo directory.Repository,
	programRepo program.Repository,
	invitationRepo invitation.Repository,
	engagementRepo engagement.Repository,
) *GetPlatformAnalyticsHandler {
	return &GetPlatformAnalyticsHandler{
		directoryRepo:  directoryRepo,
		programRepo:    programRepo,
		invitationRepo: invitationRepo,
		engagementRepo: engagementRepo,
	}
}

// Handle собирает аналитику платформы.
func (h *GetPlatformAnalyticsHandler) Handle(ctx context.Context, q GetPlatformAnalyticsQuery) (*engagement.PlatformAnalytics, error) {
	limit := q.RecentFeedbackLimit
	if limit <= 0 {
		limit = 5
	}

	profiles, err := h.directoryRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_platform_analytics: failed to load profiles: %w", err)
	}

	users := engagement.UserStats{TotalUsers: len(profiles)}
	for _, p := range profiles {
		if p.Roles.Has(directory.RoleAlumni) {
			users.TotalAlumni++
		}
		if p.CanServe(directory.RoleMentor) {
			users.ActiveMentors++
		}
	}

	events, lectures, competitions, err := h.programRepo.CountSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_platform_analytics: failed to count subjects: %w", err)
	}

	byStatus, err := h.invitationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_platform_analytics: failed to count invitations: %w", err)
	}

	activity := engagement.ActivityStats{
		TotalCompetitions:   competitions,
		TotalEvents:         events,
		TotalLectures:       lectures,
		AcceptedInvitations: byStatus[invitation.StatusAccepted],
	}

	studentFeedback, err := h.engagementRepo.StudentFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_platform_analytics: failed to load student feedback: %w", err)
	}
	judgeFeedback, err := h.engagementRepo.JudgeFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_platform_analytics: failed to load judge feedback: %w", err)
	}

	feedback := engagement.FeedbackStats{
		StudentAvg:    engagement.AverageRating(studentFeedback),
		EmployerAvg:   engagement.AverageRating(judgeFeedback),
		StudentCount:  len(studentFeedback),
		EmployerCount: len(judgeFeedback),
	}

	all := make([]engagement.FeedbackEntry, 0, len(studentFeedback)+len(judgeFeedback))
	all = append(all, studentFeedback...)
	all = append(all, judgeFeedback...)

	return &engagement.PlatformAnalytics{
		Users:          users,
		Activity:       activity,
		Feedback:       feedback,
		RecentFeedback: engagement.RecentCommented(all, limit),
	}, nil
}
