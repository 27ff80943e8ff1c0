// Package recurrence decides membership of dates in a recurrence pattern
// and enumerates occurrence dates within a bounding window.
//
// All interval counting is anchored to the range's start date: "every 2
// weeks" counts week buckets aligned to the anchor's weekday, not calendar
// weeks from a fixed Sunday or Monday. Date arithmetic runs on
// UTC-normalized civil dates so DST shifts in the input zone cannot skew
// day counting.
package recurrence

import (
	"time"

	"github.com/roomly/booking-calendar-backend/internal/model"
)

// InPattern reports whether candidate belongs to the pattern anchored at
// anchorStart. Dates strictly before the anchor never match, and an unknown
// pattern type matches nothing (fail closed, not an error).
func InPattern(candidate time.Time, pattern *model.RecurrencePattern, anchorStart time.Time) bool {
	if pattern == nil || pattern.Interval <= 0 {
		return false
	}

	c := dateOnly(candidate)
	anchor := dateOnly(anchorStart)
	if c.Before(anchor) {
		return false
	}

	days := daysBetween(anchor, c)

	switch pattern.Type {
	case model.PatternDaily:
		return days%pattern.Interval == 0

	case model.PatternWeekly:
		if !containsWeekday(pattern.DaysOfWeek, c.Weekday()) {
			return false
		}
		// Week buckets of 7 days counted from the anchor itself.
		return (days/7)%pattern.Interval == 0

	case model.PatternMonthly:
		if c.Day() != anchor.Day() {
			return false
		}
		months := (c.Year()-anchor.Year())*12 + int(c.Month()) - int(anchor.Month())
		return months%pattern.Interval == 0

	case model.PatternYearly:
		if c.Day() != anchor.Day() || c.Month() != anchor.Month() {
			return false
		}
		return (c.Year()-anchor.Year())%pattern.Interval == 0

	default:
		return false
	}
}

// Expand enumerates every date in [windowStart, windowEnd] matching the
// pattern and satisfying the range bound. The result is ascending,
// UTC-midnight dates. It is empty — never nil-panicking, never infinite —
// for empty windows, unknown pattern types, or exhausted numbered ranges.
//
// The range's EndDate bound is inclusive: an occurrence on EndDate itself
// is produced. A numbered range budgets occurrences from the anchor
// forward, so a window starting mid-sequence consumes budget for the
// occurrences it skips.
func Expand(pattern *model.RecurrencePattern, rng *model.RecurrenceRange, windowStart, windowEnd time.Time) []time.Time {
	if pattern == nil || rng == nil || pattern.Interval <= 0 {
		return nil
	}

	anchor := dateOnly(rng.StartDate)
	ws := dateOnly(windowStart)
	we := dateOnly(windowEnd)
	if we.Before(ws) {
		return nil
	}

	var out []time.Time

	switch rng.Type {
	case model.RangeNumbered:
		budget := rng.NumberOfOccurrences
		if budget <= 0 {
			return nil
		}
		for d := anchor; !d.After(we) && budget > 0; d = d.AddDate(0, 0, 1) {
			if !InPattern(d, pattern, anchor) {
				continue
			}
			budget--
			if !d.Before(ws) {
				out = append(out, d)
			}
		}

	case model.RangeEndDate:
		end := dateOnly(rng.EndDate)
		if end.Before(we) {
			we = end
		}
		out = expandWindow(pattern, anchor, ws, we)

	case model.RangeNoEnd:
		out = expandWindow(pattern, anchor, ws, we)

	default:
		return nil
	}

	return out
}

func expandWindow(pattern *model.RecurrencePattern, anchor, ws, we time.Time) []time.Time {
	if anchor.After(ws) {
		ws = anchor
	}

	var out []time.Time
	for d := ws; !d.After(we); d = d.AddDate(0, 0, 1) {
		if InPattern(d, pattern, anchor) {
			out = append(out, d)
		}
	}

	return out
}

// dateOnly normalizes a timestamp to its civil date at midnight UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

func containsWeekday(set []time.Weekday, wd time.Weekday) bool {
	for _, d := range set {
		if d == wd {
			return true
		}
	}
	return false
}
