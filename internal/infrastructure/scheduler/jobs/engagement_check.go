package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENGAGEMENT CHECK JOB
// ══════════════════════════════════════════════════════════════════════════════

// EngagementCheckJob runs the engagement health monitor over the current
// series. When the monitor trips, the handler publishes a warning event
// and the alert chain emails the administrators — the whole point is that
// nobody has to stare at a dashboard to notice a decline.
type EngagementCheckJob struct {
	handler *query.GetEngagementHealthHandler
	logger  *slog.Logger

	lastCheck atomic.Value // *CheckStats
}

// CheckStats records the outcome of the last health check.
type CheckStats struct {
	RanAt   time.Time
	Healthy bool
	Level   string
	Message string
}

// NewEngagementCheckJob creates a new EngagementCheckJob.
func NewEngagementCheckJob(handler *query.GetEngagementHealthHandler, logger *slog.Logger) *EngagementCheckJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &EngagementCheckJob{
		handler: handler,
		logger:  logger,
	}
}

// Name returns the unique job name.
func (j *EngagementCheckJob) Name() string {
	return "engagement_check"
}

// Description returns a human-readable description.
func (j *EngagementCheckJob) Description() string {
	return "Checks the engagement series and alerts administrators on decline"
}

// Run executes one health check.
func (j *EngagementCheckJob) Run(ctx context.Context) error {
	health, err := j.handler.Handle(ctx, query.GetEngagementHealthQuery{EmitEvent: true})
	if err != nil {
		return err
	}

	j.lastCheck.Store(&CheckStats{
		RanAt:   time.Now().UTC(),
		Healthy: health.Healthy,
		Level:   health.Level,
		Message: health.Message,
	})

	if health.Healthy {
		j.logger.Info("engagement check passed", "points", len(health.Series))
	} else {
		j.logger.Warn("engagement check tripped",
			"level", health.Level,
			"message", health.Message,
		)
	}

	return nil
}

// LastCheck returns the stats of the last check, or nil before the first run.
func (j *EngagementCheckJob) LastCheck() *CheckStats {
	stats, _ := j.lastCheck.Load().(*CheckStats)
	return stats
}
