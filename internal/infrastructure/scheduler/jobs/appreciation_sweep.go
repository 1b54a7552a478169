package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/cmis-hub/cmis-engagement-hub/internal/application/command"
	"github.com/cmis-hub/cmis-engagement-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPRECIATION SWEEP JOB
// ══════════════════════════════════════════════════════════════════════════════

// AppreciationSweepJob thanks stakeholders who served at subjects that
// have since taken place. Runs daily; each concluded subject is
// thanked exactly once.
type AppreciationSweepJob struct {
	handler *command.SendAppreciationsHandler
	logger  *slog.Logger

	// SkipOutsideSendWindow suppresses sweeps outside campus email hours.
	SkipOutsideSendWindow bool

	lock    Locker
	lockTTL time.Duration

	lastStats atomic.Value // *AppreciationStats
}

// AppreciationStats records the outcome of the last sweep.
type AppreciationStats struct {
	RanAt            time.Time
	SubjectsExamined int
	SubjectsThanked  int
	ThankYousSent    int
	Failures         int
	Skipped          bool
}

// NewAppreciationSweepJob creates a new AppreciationSweepJob.
func NewAppreciationSweepJob(handler *command.SendAppreciationsHandler, logger *slog.Logger) *AppreciationSweepJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppreciationSweepJob{
		handler:               handler,
		logger:                logger,
		SkipOutsideSendWindow: true,
	}
}

// WithLock makes the sweep take a distributed lock before running,
// so two worker instances never double-thank participants.
func (j *AppreciationSweepJob) WithLock(lock Locker, ttl time.Duration) *AppreciationSweepJob {
	j.lock = lock
	j.lockTTL = ttl
	return j
}

// Name returns the unique job name.
func (j *AppreciationSweepJob) Name() string {
	return "appreciation_sweep"
}

// Description returns a human-readable description.
func (j *AppreciationSweepJob) Description() string {
	return "Sends thank-you emails for subjects that have concluded"
}

// Run executes one sweep.
func (j *AppreciationSweepJob) Run(ctx context.Context) error {
	now := time.Now().UTC()

	if j.SkipOutsideSendWindow && !timeutil.IsSafeNotificationTime(now) {
		j.logger.Info("appreciation sweep skipped outside send window",
			"next_window", timeutil.NextSafeNotificationTime(now).Format(time.RFC3339),
		)
		j.lastStats.Store(&AppreciationStats{RanAt: now, Skipped: true})
		return nil
	}

	if j.lock != nil {
		acquired, err := j.lock.Acquire(ctx, j.Name(), j.lockTTL)
		if err != nil {
			return err
		}
		if !acquired {
			j.logger.Info("appreciation sweep skipped, another worker holds the lock")
			j.lastStats.Store(&AppreciationStats{RanAt: now, Skipped: true})
			return nil
		}
		defer func() {
			if err := j.lock.Release(context.WithoutCancel(ctx), j.Name()); err != nil {
				j.logger.Warn("failed to release sweep lock", "error", err)
			}
		}()
	}

	result, err := j.handler.Handle(ctx, command.SendAppreciationsCommand{
		Now:           now,
		CorrelationID: uuid.NewString(),
	})
	if err != nil {
		return err
	}

	j.lastStats.Store(&AppreciationStats{
		RanAt:            now,
		SubjectsExamined: result.SubjectsExamined,
		SubjectsThanked:  result.SubjectsThanked,
		ThankYousSent:    result.ThankYousSent,
		Failures:         result.Failures,
	})

	j.logger.Info("appreciation sweep completed",
		"subjects_examined", result.SubjectsExamined,
		"subjects_thanked", result.SubjectsThanked,
		"thank_yous_sent", result.ThankYousSent,
		"failures", result.Failures,
	)

	return nil
}

// LastStats returns the stats of the last sweep, or nil before the first run.
func (j *AppreciationSweepJob) LastStats() *AppreciationStats {
	stats, _ := j.lastStats.Load().(*AppreciationStats)
	return stats
}
