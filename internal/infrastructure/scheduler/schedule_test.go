package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalSchedule(t *testing.T) {
	s := NewIntervalSchedule(30 * time.Minute)
	base := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, base.Add(30*time.Minute), s.Next(base))
	assert.Equal(t, "@every 30m0s", s.String())
}

func TestCronExpression_NightlyCheck(t *testing.T) {
	ce := MustParseCronExpression("0 7 * * *")

	// A quarter past six fires at seven the same morning.
	at := time.Date(2026, time.March, 5, 6, 15, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 5, 7, 0, 0, 0, time.UTC), ce.Next(at))

	// Exactly seven o'clock rolls over to the next day.
	at = time.Date(2026, time.March, 5, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 6, 7, 0, 0, 0, time.UTC), ce.Next(at))
}

func TestCronExpression_StepsAndRanges(t *testing.T) {
	every15 := MustParseCronExpression("*/15 * * * *")
	at := time.Date(2026, time.March, 5, 10, 3, 0, 0, time.UTC)
	assert.Equal(t, 15, every15.Next(at).Minute())

	weekdaysNoon := MustParseCronExpression("0 12 * * 1-5")
	// Saturday noon skips to Monday.
	saturday := time.Date(2026, time.March, 7, 11, 0, 0, 0, time.UTC)
	next := weekdaysNoon.Next(saturday)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, 12, next.Hour())
}

func TestParseCronExpression_Rejects(t *testing.T) {
	cases := []string{
		"0 7 * *",     // too few fields
		"0 25 * * *",  // hour out of range
		"61 * * * *",  // minute out of range
		"*/0 * * * *", // zero step
		"5-3 * * * *", // inverted range
		"x * * * *",   // not a number
	}
	for _, expr := range cases {
		_, err := ParseCronExpression(expr)
		assert.Error(t, err, expr)
	}
}

func TestScheduler_RejectsDuplicateNames(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	job := stubJob{name: "sweep"}

	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))
	assert.ErrorIs(t, s.Register(job, NewIntervalSchedule(time.Hour)), ErrDuplicateJob)
	assert.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Hour)), ErrNilJob)
	assert.ErrorIs(t, s.Register(stubJob{name: "other"}, nil), ErrNilSchedule)
}

func TestScheduler_JobsSnapshot(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	require.NoError(t, s.Register(stubJob{name: "sweep"}, NewIntervalSchedule(time.Hour)))

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "sweep", jobs[0].Name)
	assert.False(t, jobs[0].NextRun.IsZero())
}

type stubJob struct {
	name string
}

func (j stubJob) Name() string              { return j.name }
func (j stubJob) Description() string       { return "stub" }
func (j stubJob) Run(context.Context) error { return nil }
