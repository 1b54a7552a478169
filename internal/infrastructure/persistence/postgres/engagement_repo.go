package postgres

import (
	"context"
	"fmt"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/engagement"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENGAGEMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// EngagementRepository implements engagement.Repository for PostgreSQL.
type EngagementRepository struct {
	conn *Connection
}

// NewEngagementRepository creates a new EngagementRepository.
func NewEngagementRepository(conn *Connection) *EngagementRepository {
	return &EngagementRepository{conn: conn}
}

// CurrentSeries returns the rolling engagement series in chronological order.
func (r *EngagementRepository) CurrentSeries(ctx context.Context) (engagement.Series, error) {
	query := `SELECT period, value FROM engagement_points ORDER BY position`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query engagement series: %w", err)
	}
	defer rows.Close()

	var series engagement.Series
	for rows.Next() {
		var p engagement.Point
		if err := rows.Scan(&p.Period, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan engagement point: %w", err)
		}
		series = append(series, p)
	}

	return series, rows.Err()
}

// AppendPoint records a new observation at the end of the series.
func (r *EngagementRepository) AppendPoint(ctx context.Context, point engagement.Point) error {
	query := `INSERT INTO engagement_points (period, value) VALUES ($1, $2)`

	if _, err := r.conn.Exec(ctx, query, point.Period, point.Value); err != nil {
		return fmt.Errorf("failed to append engagement point: %w", err)
	}

	return nil
}

// StudentFeedback returns student feedback about events.
func (r *EngagementRepository) StudentFeedback(ctx context.Context) ([]engagement.FeedbackEntry, error) {
	return r.feedbackBySource(ctx, "student")
}

// JudgeFeedback returns judge feedback about competitions.
func (r *EngagementRepository) JudgeFeedback(ctx context.Context) ([]engagement.FeedbackEntry, error) {
	return r.feedbackBySource(ctx, "judge")
}

// AddFeedback stores a feedback entry under a source ("student" or "judge").
func (r *EngagementRepository) AddFeedback(ctx context.Context, source string, entry engagement.FeedbackEntry) error {
	query := `
		INSERT INTO feedback_entries (id, source, subject_id, author_id, rating, comments, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		entry.ID,
		source,
		entry.SubjectID,
		entry.AuthorID,
		entry.Rating,
		entry.Comments,
		entry.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add feedback: %w", err)
	}

	return nil
}

func (r *EngagementRepository) feedbackBySource(ctx context.Context, source string) ([]engagement.FeedbackEntry, error) {
	query := `
		SELECT id, subject_id, author_id, rating, comments, submitted_at
		FROM feedback_entries
		WHERE source = $1
		ORDER BY submitted_at DESC
	`

	rows, err := r.conn.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var entries []engagement.FeedbackEntry
	for rows.Next() {
		var e engagement.FeedbackEntry
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.AuthorID, &e.Rating, &e.Comments, &e.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
