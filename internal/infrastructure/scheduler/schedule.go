package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULES
// Interval для свипа напоминаний, cron для ночной проверки вовлечённости.
// ══════════════════════════════════════════════════════════════════════════════

// IntervalSchedule fires at a fixed period from the previous firing.
type IntervalSchedule struct {
	interval time.Duration
}

// NewIntervalSchedule creates a fixed-period schedule.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	return &IntervalSchedule{interval: interval}
}

func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.interval)
}

func (s *IntervalSchedule) String() string {
	return "@every " + s.interval.String()
}

// CronExpression is a parsed 5-field cron spec:
// minute hour day-of-month month day-of-week (0 = Sunday).
// Fields accept "*", "*/n", single values, "a-b" ranges and "a,b,c"
// lists. Each field is held as a bitmask, so matching a minute is one
// AND per field.
type CronExpression struct {
	raw      string
	minutes  uint64
	hours    uint64
	days     uint64
	months   uint64
	weekdays uint64
}

// ParseCronExpression parses expr or reports which field is broken.
func ParseCronExpression(expr string) (*CronExpression, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron expression %q: want 5 fields, got %d", expr, len(fields))
	}

	ce := &CronExpression{raw: expr}
	specs := []struct {
		name     string
		min, max int
		dst      *uint64
	}{
		{"minute", 0, 59, &ce.minutes},
		{"hour", 0, 23, &ce.hours},
		{"day", 1, 31, &ce.days},
		{"month", 1, 12, &ce.months},
		{"weekday", 0, 6, &ce.weekdays},
	}
	for i, spec := range specs {
		mask, err := parseCronField(fields[i], spec.min, spec.max)
		if err != nil {
			return nil, fmt.Errorf("cron %s field %q: %w", spec.name, fields[i], err)
		}
		*spec.dst = mask
	}
	return ce, nil
}

// MustParseCronExpression is ParseCronExpression for compile-time
// constants; it panics on a bad expression.
func MustParseCronExpression(expr string) *CronExpression {
	ce, err := ParseCronExpression(expr)
	if err != nil {
		panic(err)
	}
	return ce
}

func parseCronField(field string, min, max int) (uint64, error) {
	var mask uint64

	for _, part := range strings.Split(field, ",") {
		lo, hi, step := min, max, 1

		if slash := strings.IndexByte(part, '/'); slash >= 0 {
			n, err := strconv.Atoi(part[slash+1:])
			if err != nil || n <= 0 {
				return 0, fmt.Errorf("bad step %q", part[slash+1:])
			}
			step = n
			part = part[:slash]
		}

		switch {
		case part == "*":
			// Full range.
		case strings.ContainsRune(part, '-'):
			bounds := strings.SplitN(part, "-", 2)
			a, errA := strconv.Atoi(bounds[0])
			b, errB := strconv.Atoi(bounds[1])
			if errA != nil || errB != nil || a > b {
				return 0, fmt.Errorf("bad range %q", part)
			}
			lo, hi = a, b
		default:
			v, err := strconv.Atoi(part)
			if err != nil {
				return 0, fmt.Errorf("bad value %q", part)
			}
			lo, hi = v, v
		}

		if lo < min || hi > max {
			return 0, fmt.Errorf("out of range [%d-%d]", min, max)
		}
		for v := lo; v <= hi; v += step {
			mask |= 1 << uint(v)
		}
	}

	if mask == 0 {
		return 0, fmt.Errorf("empty field")
	}
	return mask, nil
}

func (ce *CronExpression) String() string {
	return ce.raw
}

// Next returns the first matching minute strictly after t. Scanning a
// minute at a time is fine here: the hub's expressions are daily or
// finer, so the loop terminates within a day of wall time.
func (ce *CronExpression) Next(t time.Time) time.Time {
	next := t.Truncate(time.Minute).Add(time.Minute)

	// A year of minutes bounds even a Feb-29-only expression.
	for i := 0; i < 366*24*60; i++ {
		if ce.matches(next) {
			return next
		}
		next = next.Add(time.Minute)
	}
	return time.Time{}
}

func (ce *CronExpression) matches(t time.Time) bool {
	return ce.minutes&(1<<uint(t.Minute())) != 0 &&
		ce.hours&(1<<uint(t.Hour())) != 0 &&
		ce.days&(1<<uint(t.Day())) != 0 &&
		ce.months&(1<<uint(t.Month())) != 0 &&
		ce.weekdays&(1<<uint(t.Weekday())) != 0
}
