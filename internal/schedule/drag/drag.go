// Package drag converts pointer displacement into rescheduled booking times:
// pixel offsets become time offsets, snapped to a quarter-hour grid and
// clamped to the day being viewed. A small state machine owns the ephemeral
// per-drag adjustment so the hosting view stays free of mutable refs.
package drag

import (
	"time"

	"github.com/roomly/booking-calendar-backend/internal/model"
)

// Quantum is the snap step for dragged start times.
const Quantum = 15 * time.Minute

// Position is a candidate nominal interval for a dragged booking.
type Position struct {
	Start time.Time
	End   time.Time
}

// ComputePosition translates a horizontal/vertical pixel offset into a new
// booking position within the given day.
//
// The candidate start is the original start shifted by
// pixelOffset/pixelsPerHour hours, snapped to the nearest quarter hour
// (round half up at the 7.5-minute midpoint). The end preserves the
// original duration. The whole interval is then clamped into
// [dayStart, dayStart+24h): 24:00 is a valid end. A booking longer than the
// day is truncated to the full day rather than rejected; the result never
// has a negative duration.
func ComputePosition(originalStart, originalEnd time.Time, pixelOffset, pixelsPerHour float64, dayStart time.Time) Position {
	duration := originalEnd.Sub(originalStart)
	if duration < 0 {
		duration = 0
	}

	var offset time.Duration
	if pixelsPerHour > 0 {
		offset = time.Duration(pixelOffset / pixelsPerHour * float64(time.Hour))
	}

	candidate := originalStart.Add(offset)
	start := dayStart.Add(snapToQuantum(candidate.Sub(dayStart)))
	end := start.Add(duration)

	dayEnd := dayStart.Add(24 * time.Hour)
	if duration >= 24*time.Hour {
		return Position{Start: dayStart, End: dayEnd}
	}

	if start.Before(dayStart) {
		start = dayStart
		end = start.Add(duration)
	} else if end.After(dayEnd) {
		end = dayEnd
		start = end.Add(-duration)
	}

	return Position{Start: start, End: end}
}

// snapToQuantum rounds an offset from day start to the nearest quantum,
// half up: 7.5 minutes past a boundary rounds to the next one.
func snapToQuantum(d time.Duration) time.Duration {
	d += Quantum / 2
	q := d / Quantum
	if d%Quantum < 0 {
		q--
	}
	return q * Quantum
}

// Offsets captures the fixed durations between a booking's nominal bounds
// and its derived times at drag start. Re-applying them after the drag
// keeps setup/teardown durations and door lead/lag invariant under
// rescheduling even though the absolute times shift.
type Offsets struct {
	SetupMinutes    int
	TeardownMinutes int

	doorOpenLead time.Duration
	hasDoorOpen  bool
	doorCloseLag time.Duration
	hasDoorClose bool
}

// CaptureOffsets records the booking's derived-time offsets. Call once at
// drag start; the offsets are durations, not percentages.
func CaptureOffsets(b *model.Booking) Offsets {
	o := Offsets{
		SetupMinutes:    b.SetupMinutes,
		TeardownMinutes: b.TeardownMinutes,
	}

	if b.DoorOpen != nil {
		o.doorOpenLead = b.From.Sub(*b.DoorOpen)
		o.hasDoorOpen = true
	}
	if b.DoorClose != nil {
		o.doorCloseLag = b.DoorClose.Sub(b.To)
		o.hasDoorClose = true
	}

	return o
}

// Update is the committed result of a completed drag.
type Update struct {
	Start           time.Time
	End             time.Time
	SetupMinutes    int
	TeardownMinutes int
	DoorOpen        *time.Time
	DoorClose       *time.Time
}

// Apply re-derives the dependent times from a new nominal position.
func (o Offsets) Apply(p Position) *Update {
	u := &Update{
		Start:           p.Start,
		End:             p.End,
		SetupMinutes:    o.SetupMinutes,
		TeardownMinutes: o.TeardownMinutes,
	}

	if o.hasDoorOpen {
		doorOpen := p.Start.Add(-o.doorOpenLead)
		u.DoorOpen = &doorOpen
	}
	if o.hasDoorClose {
		doorClose := p.End.Add(o.doorCloseLag)
		u.DoorClose = &doorClose
	}

	return u
}
