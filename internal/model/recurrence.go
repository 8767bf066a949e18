package model

import (
	"errors"
	"fmt"
	"time"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

var (
	ErrInvalidFrequency = errors.New("model: invalid recurrence frequency")
	ErrInvalidInterval  = errors.New("model: invalid recurrence interval")
)

type Recurrence struct {
	Frequency Frequency
	Interval  int
	Until     *time.Time
}

func (r Recurrence) Validate() error {
	switch r.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, r.Frequency)
	}
	if r.Interval <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, r.Interval)
	}
	return nil
}

// NextAfter returns the first occurrence strictly after from, stepping from anchor.
// ok is false once the rule has passed its Until date.
func (r Recurrence) NextAfter(anchor, from time.Time) (next time.Time, ok bool, err error) {
	if err := r.Validate(); err != nil {
		return time.Time{}, false, err
	}
	next = anchor
	for k := 1; !next.After(from); k++ {
		next = r.nth(anchor, k)
	}
	if r.Until != nil && next.After(*r.Until) {
		return time.Time{}, false, nil
	}
	return next, true, nil
}

// Preview lists up to count upcoming occurrences after from.
func (r Recurrence) Preview(anchor, from time.Time, count int) ([]time.Time, error) {
	out := make([]time.Time, 0, max(count, 0))
	cursor := from
	for i := 0; i < count; i++ {
		next, ok, err := r.NextAfter(anchor, cursor)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, next)
		cursor = next
	}
	return out, nil
}

// nth is computed from the anchor each time so month-end clamping never drifts.
func (r Recurrence) nth(anchor time.Time, k int) time.Time {
	switch r.Frequency {
	case FrequencyWeekly:
		return anchor.AddDate(0, 0, 7*r.Interval*k)
	case FrequencyMonthly:
		return addMonthsClamped(anchor, r.Interval*k)
	default:
		return anchor.AddDate(0, 0, r.Interval*k)
	}
}

// addMonthsClamped keeps month-end anchors on the last day instead of overflowing.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()).AddDate(0, months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	ty, tm, _ := firstOfTarget.Date()
	return time.Date(ty, tm, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
