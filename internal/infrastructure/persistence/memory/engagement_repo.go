package memory

import (
	"context"
	"sync"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/engagement"
)

// EngagementRepository is an in-memory engagement.Repository.
type EngagementRepository struct {
	mu              sync.RWMutex
	series          engagement.Series
	studentFeedback []engagement.FeedbackEntry
	judgeFeedback   []engagement.FeedbackEntry
}

// NewEngagementRepository creates an empty in-memory engagement store.
func NewEngagementRepository() *EngagementRepository {
	return &EngagementRepository{}
}

// CurrentSeries implements engagement.Repository.
func (r *EngagementRepository) CurrentSeries(_ context.Context) (engagement.Series, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(engagement.Series, len(r.series))
	copy(out, r.series)
	return out, nil
}

// StudentFeedback implements engagement.Repository.
func (r *EngagementRepository) StudentFeedback(_ context.Context) ([]engagement.FeedbackEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]engagement.FeedbackEntry, len(r.studentFeedback))
	copy(out, r.studentFeedback)
	return out, nil
}

// JudgeFeedback implements engagement.Repository.
func (r *EngagementRepository) JudgeFeedback(_ context.Context) ([]engagement.FeedbackEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]engagement.FeedbackEntry, len(r.judgeFeedback))
	copy(out, r.judgeFeedback)
	return out, nil
}

// SetSeries replaces the engagement series (seed and tests).
func (r *EngagementRepository) SetSeries(series engagement.Series) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.series = series
}

// AddStudentFeedback appends student feedback entries.
func (r *EngagementRepository) AddStudentFeedback(entries ...engagement.FeedbackEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.studentFeedback = append(r.studentFeedback, entries...)
}

// AddJudgeFeedback appends judge feedback entries.
func (r *EngagementRepository) AddJudgeFeedback(entries ...engagement.FeedbackEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.judgeFeedback = append(r.judgeFeedback, entries...)
}
