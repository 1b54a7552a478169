package engagement

import (
	"math"
	"sort"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLATFORM ANALYTICS
// Агрегаты для обзорного дашборда админа/факультета. Как и монитор —
// чистые функции над данными, пересчитываемые при каждом чтении.
// ══════════════════════════════════════════════════════════════════════════════

// UserStats содержит счётчики пользователей платформы.
type UserStats struct {
	TotalStudents int `json:"total_students"`
	TotalAlumni   int `json:"total_alumni"`
	TotalFaculty  int `json:"total_faculty"`
	ActiveMentors int `json:"active_mentors"`
	TotalUsers    int `json:"total_users"`
}

// ActivityStats содержит счётчики активности платформы.
type ActivityStats struct {
	TotalMentorshipSessions int `json:"total_mentorship_sessions"`
	TotalCompetitions       int `json:"total_competitions"`
	TotalEvents             int `json:"total_events"`
	TotalLectures           int `json:"total_lectures"`
	AcceptedInvitations     int `json:"accepted_invitations"`
}

// FeedbackStats содержит агрегаты отзывов.
type FeedbackStats struct {
	StudentAvg    float64 `json:"student_avg"`
	EmployerAvg   float64 `json:"employer_avg"`
	StudentCount  int     `json:"student_count"`
	EmployerCount int     `json:"employer_count"`
}

// PlatformAnalytics объединяет все агрегаты дашборда.
type PlatformAnalytics struct {
	Users          UserStats       `json:"users"`
	Activity       ActivityStats   `json:"activity"`
	Feedback       FeedbackStats   `json:"feedback"`
	RecentFeedback []FeedbackEntry `json:"recent_feedback"`
}

// AverageRating возвращает средний рейтинг с округлением до сотых.
// Пустой список → 0 (рейтинга ещё нет).
func AverageRating(entries []FeedbackEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += e.Rating
	}
	return math.Round(sum/float64(len(entries))*100) / 100
}

// RecentCommented возвращает последние limit отзывов с непустыми
// комментариями, от новых к старым.
func RecentCommented(entries []FeedbackEntry, limit int) []FeedbackEntry {
	commented := make([]FeedbackEntry, 0, len(entries))
	for _, e := range entries {
		if e.Comments != "" {
			commented = append(commented, e)
		}
	}
	sort.SliceStable(commented, func(i, j int) bool {
		return commented[i].SubmittedAt.After(commented[j].SubmittedAt)
	})
	if limit < len(commented) {
		commented = commented[:limit]
	}
	return commented
}
