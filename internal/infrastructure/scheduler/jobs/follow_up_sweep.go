// Package jobs contains implementations of scheduled jobs for CMIS Engagement Hub.
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
// FOLLOW-UP SWEEP JOB
// ══════════════════════════════════════════════════════════════════════════════

// Locker serializes a job across worker instances. Acquire returns
// false when another instance already holds the resource.
type Locker interface {
	Acquire(ctx context.Context, resource string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, resource string) error
}

// FollowUpSweepJob sends reminder emails for pending invitations.
// A stakeholder who never answered gets at most two gentle nudges,
// three days apart; after that the invitation just stays pending.
type FollowUpSweepJob struct {
	handler *command.SendFollowUpsHandler
	logger  *slog.Logger

	// SkipOutsideSendWindow suppresses sweeps outside campus email hours.
	SkipOutsideSendWindow bool

	lock    Locker
	lockTTL time.Duration

	lastStats atomic.Value // *SweepStats
}

// SweepStats records the outcome of the last sweep.
type SweepStats struct {
	RanAt         time.Time
	Examined      int
	RemindersSent int
	Failures      int
	Skipped       bool
}

// NewFollowUpSweepJob creates a new FollowUpSweepJob.
func NewFollowUpSweepJob(handler *command.SendFollowUpsHandler, logger *slog.Logger) *FollowUpSweepJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &FollowUpSweepJob{
		handler:               handler,
		logger:                logger,
		SkipOutsideSendWindow: true,
	}
}

// WithLock makes the sweep take a distributed lock before running,
// so two worker instances never double-send reminders.
func (j *FollowUpSweepJob) WithLock(lock Locker, ttl time.Duration) *FollowUpSweepJob {
	j.lock = lock
	j.lockTTL = ttl
	return j
}

// Name returns the unique job name.
func (j *FollowUpSweepJob) Name() string {
	return "follow_up_sweep"
}

// Description returns a human-readable description.
func (j *FollowUpSweepJob) Description() string {
	return "Sends reminder emails for invitations that are still pending"
}

// Run executes one sweep.
func (j *FollowUpSweepJob) Run(ctx context.Context) error {
	now := time.Now().UTC()

	if j.SkipOutsideSendWindow && !timeutil.IsSafeNotificationTime(now) {
		j.logger.Info("follow-up sweep skipped outside send window",
			"next_window", timeutil.NextSafeNotificationTime(now).Format(time.RFC3339),
		)
		j.lastStats.Store(&SweepStats{RanAt: now, Skipped: true})
		return nil
	}

	if j.lock != nil {
		acquired, err := j.lock.Acquire(ctx, j.Name(), j.lockTTL)
		if err != nil {
			return err
		}
		if !acquired {
			j.logger.Info("follow-up sweep skipped, another worker holds the lock")
			j.lastStats.Store(&SweepStats{RanAt: now, Skipped: true})
			return nil
		}
		defer func() {
			if err := j.lock.Release(context.WithoutCancel(ctx), j.Name()); err != nil {
				j.logger.Warn("failed to release sweep lock", "error", err)
			}
		}()
	}

	result, err := j.handler.Handle(ctx, command.SendFollowUpsCommand{
		Now:           now,
		CorrelationID: uuid.NewString(),
	})
	if err != nil {
		return err
	}

	j.lastStats.Store(&SweepStats{
		RanAt:         now,
		Examined:      result.Examined,
		RemindersSent: result.RemindersSent,
		Failures:      result.Failures,
	})

	j.logger.Info("follow-up sweep completed",
		"examined", result.Examined,
		"reminders_sent", result.RemindersSent,
		"failures", result.Failures,
	)

	return nil
}

// LastStats returns the stats of the last sweep, or nil before the first run.
func (j *FollowUpSweepJob) LastStats() *SweepStats {
	stats, _ := j.lastStats.Load().(*SweepStats)
	return stats
}
