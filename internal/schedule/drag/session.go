package drag

import (
	"time"

	"github.com/roomly/booking-calendar-backend/internal/model"
)

type State int

const (
	StateIdle State = iota
	StateDragging
)

// Adjustment is the ephemeral {start, end} override held for a dragged
// booking. The hosting view renders it instead of the booking's nominal
// position until it is cleared (typically by an external time-field edit)
// or committed through the caller's own persistence path.
type Adjustment struct {
	Start time.Time
	End   time.Time
}

// Session is the per-booking drag state machine:
//
//	Idle -> (Press) -> Dragging -> (Release) -> Idle
//
// While dragging, Move recomputes a preview position on every pointer event;
// the preview is cosmetic and never authoritative. Release emits a committed
// update, or nothing when the net displacement is zero. The session is
// single-user and UI-thread-affine; it needs no locking.
type Session struct {
	state State

	originalStart time.Time
	originalEnd   time.Time
	pixelsPerHour float64
	dayStart      time.Time
	primary       bool
	offsets       Offsets

	preview    Position
	adjustment *Adjustment
}

// Press starts a drag. For a primary booking (as opposed to a read-only
// conflicting one from another source) the derived-time offsets are captured
// once, here, and re-applied on release.
func (s *Session) Press(b *model.Booking, pixelsPerHour float64, dayStart time.Time, primary bool) {
	s.state = StateDragging
	s.originalStart = b.From
	s.originalEnd = b.To
	s.pixelsPerHour = pixelsPerHour
	s.dayStart = dayStart
	s.primary = primary
	if primary {
		s.offsets = CaptureOffsets(b)
	}
	s.preview = Position{Start: b.From, End: b.To}
}

// Move updates and returns the live preview position. Calling Move outside
// a drag returns the last known preview unchanged.
func (s *Session) Move(pixelOffset float64) Position {
	if s.state != StateDragging {
		return s.preview
	}

	s.preview = ComputePosition(s.originalStart, s.originalEnd, pixelOffset, s.pixelsPerHour, s.dayStart)
	return s.preview
}

// Release ends the drag. It returns the committed update, or (nil, false)
// when the booking did not actually move. For a primary booking the update
// carries the re-derived setup/teardown/door times; for a read-only one it
// carries the new nominal bounds only.
func (s *Session) Release() (*Update, bool) {
	if s.state != StateDragging {
		return nil, false
	}
	s.state = StateIdle

	if s.preview.Start.Equal(s.originalStart) && s.preview.End.Equal(s.originalEnd) {
		return nil, false
	}

	var u *Update
	if s.primary {
		u = s.offsets.Apply(s.preview)
	} else {
		u = &Update{Start: s.preview.Start, End: s.preview.End}
	}

	s.adjustment = &Adjustment{Start: u.Start, End: u.End}
	return u, true
}

// Cancel aborts an in-progress drag and discards the pending adjustment.
// An external time-field edit maps to Cancel followed by ClearAdjustment.
func (s *Session) Cancel() {
	s.state = StateIdle
	s.adjustment = nil
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool {
	return s.state == StateDragging
}

// Adjustment returns the override left by the last completed drag, if any.
func (s *Session) Adjustment() (Adjustment, bool) {
	if s.adjustment == nil {
		return Adjustment{}, false
	}
	return *s.adjustment, true
}

// ClearAdjustment drops the override, reverting the view to the booking's
// nominal position.
func (s *Session) ClearAdjustment() {
	s.adjustment = nil
}
