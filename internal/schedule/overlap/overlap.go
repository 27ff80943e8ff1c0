// Package overlap implements interval intersection and conflict detection
// over booking time ranges. All intervals are half-open [start, end):
// touching endpoints are not an overlap.
package overlap

import (
	"time"

	"github.com/roomly/booking-calendar-backend/internal/model"
)

// Intersects reports whether [startA, endA) and [startB, endB) intersect.
func Intersects(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// EffectiveBounds returns the booking's interval extended by its setup and
// teardown buffers. The nominal From/To are never mutated; the buffers widen
// the window used for conflict detection only.
func EffectiveBounds(b *model.Booking) (start, end time.Time) {
	start = b.From.Add(-time.Duration(b.SetupMinutes) * time.Minute)
	end = b.To.Add(time.Duration(b.TeardownMinutes) * time.Minute)
	return start, end
}

// EffectiveIntersects reports whether the effective bounds of two bookings
// intersect. A booking with unusable timestamps intersects nothing.
func EffectiveIntersects(a, b *model.Booking) bool {
	if !a.HasValidBounds() || !b.HasValidBounds() {
		return false
	}

	aStart, aEnd := EffectiveBounds(a)
	bStart, bEnd := EffectiveBounds(b)
	return Intersects(aStart, aEnd, bStart, bEnd)
}

// Conflicting reports whether two bookings constitute a scheduling conflict:
// their effective bounds intersect and neither allows concurrent use. The
// zero value of AllowConcurrent is false, so bookings without an explicit
// flag conflict by default.
func Conflicting(a, b *model.Booking) bool {
	if a.AllowConcurrent || b.AllowConcurrent {
		return false
	}
	return EffectiveIntersects(a, b)
}

// Share locates the overlap window within one booking's own duration, for
// rendering a highlighted sub-region.
type Share struct {
	Percentage   float64
	StartPercent float64
	EndPercent   float64
}

// Percentages holds the overlap shares of both bookings, in argument order.
type Percentages struct {
	A Share
	B Share
}

// OverlapPercentages computes, over the nominal (not effective) bounds, how
// much of each booking's duration the mutual overlap covers. When the
// bookings do not overlap, the zero value is returned: all percentages are
// exactly 0.
func OverlapPercentages(a, b *model.Booking) Percentages {
	var res Percentages
	if !a.HasValidBounds() || !b.HasValidBounds() {
		return res
	}

	start := a.From
	if b.From.After(start) {
		start = b.From
	}
	end := a.To
	if b.To.Before(end) {
		end = b.To
	}
	if !start.Before(end) {
		return res
	}

	res.A = shareOf(a, start, end)
	res.B = shareOf(b, start, end)
	return res
}

func shareOf(b *model.Booking, start, end time.Time) Share {
	own := b.To.Sub(b.From)
	if own <= 0 {
		return Share{}
	}

	return Share{
		Percentage:   float64(end.Sub(start)) / float64(own) * 100,
		StartPercent: float64(start.Sub(b.From)) / float64(own) * 100,
		EndPercent:   float64(end.Sub(b.From)) / float64(own) * 100,
	}
}

// CountScope restricts overlap counting to bookings sharing attributes with
// the counted one. The scoping rule is caller context, not an engine
// constant: a view grouping by category passes SameCategory+SameLocation so
// cross-category overlaps do not show up as badges.
type CountScope struct {
	SameCategory bool
	SameLocation bool
}

// OverlapCount returns how many candidates' effective bounds overlap the
// given booking, honoring the scope. The booking itself (matched by ID) is
// never counted.
func OverlapCount(b *model.Booking, candidates []*model.Booking, scope CountScope) int {
	count := 0
	for _, c := range candidates {
		if c.ID == b.ID {
			continue
		}
		if scope.SameCategory && c.Category != b.Category {
			continue
		}
		if scope.SameLocation && c.Location != b.Location {
			continue
		}
		if EffectiveIntersects(b, c) {
			count++
		}
	}

	return count
}
