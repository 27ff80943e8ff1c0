package drag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomly/booking-calendar-backend/internal/model"
)

var dayStart = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return dayStart.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestComputePosition_SnapRoundHalfUp(t *testing.T) {
	cases := []struct {
		name        string
		pixelOffset float64
		wantStart   time.Time
	}{
		// 100 px/hour: 7 px = 4.2 min -> candidate 09:04:12, below the
		// 7.5-minute midpoint, snaps down.
		{"below midpoint snaps down", 7, at(9, 0)},
		// 13 px = 7.8 min -> candidate 09:07:48, above midpoint, snaps up.
		{"above midpoint snaps up", 13, at(9, 15)},
		// 12.5 px = exactly 7.5 min: half rounds up.
		{"exact midpoint rounds up", 12.5, at(9, 15)},
		{"negative below midpoint", -7, at(9, 0)},
		{"negative past midpoint", -13, at(8, 45)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos := ComputePosition(at(9, 0), at(10, 0), tc.pixelOffset, 100, dayStart)
			assert.Equal(t, tc.wantStart, pos.Start)
			assert.Equal(t, tc.wantStart.Add(time.Hour), pos.End, "duration is preserved")
		})
	}
}

func TestComputePosition_ClampAtDayStart(t *testing.T) {
	// 2-hour booking dragged far before midnight.
	pos := ComputePosition(at(1, 0), at(3, 0), -500, 100, dayStart)
	assert.Equal(t, dayStart, pos.Start)
	assert.Equal(t, dayStart.Add(2*time.Hour), pos.End)
}

func TestComputePosition_ClampAtDayEnd(t *testing.T) {
	// 2-hour booking dragged past midnight: 24:00 is a valid end.
	pos := ComputePosition(at(20, 0), at(22, 0), 500, 100, dayStart)
	dayEnd := dayStart.Add(24 * time.Hour)
	assert.Equal(t, dayEnd, pos.End)
	assert.Equal(t, dayEnd.Add(-2*time.Hour), pos.Start)
}

func TestComputePosition_DurationExceedsDay(t *testing.T) {
	// Degenerate case: a booking longer than the day truncates to the full
	// day and never yields a negative duration.
	pos := ComputePosition(at(9, 0), at(9, 0).Add(30*time.Hour), 50, 100, dayStart)
	assert.Equal(t, dayStart, pos.Start)
	assert.Equal(t, dayStart.Add(24*time.Hour), pos.End)
	assert.True(t, pos.End.After(pos.Start))
}

func TestComputePosition_ZeroPixelsPerHour(t *testing.T) {
	pos := ComputePosition(at(9, 0), at(10, 0), 300, 0, dayStart)
	assert.Equal(t, at(9, 0), pos.Start)
	assert.Equal(t, at(10, 0), pos.End)
}

func TestOffsets_DerivedDurationsInvariant(t *testing.T) {
	doorOpen := at(8, 30)
	doorClose := at(12, 30)
	b := &model.Booking{
		ID: "1",
		BookingCreate: model.BookingCreate{
			From:            at(9, 0),
			To:              at(12, 0),
			SetupMinutes:    30,
			TeardownMinutes: 15,
			DoorOpen:        &doorOpen,
			DoorClose:       &doorClose,
		},
	}

	offsets := CaptureOffsets(b)
	u := offsets.Apply(Position{Start: at(14, 0), End: at(17, 0)})

	assert.Equal(t, 30, u.SetupMinutes)
	assert.Equal(t, 15, u.TeardownMinutes)
	require.NotNil(t, u.DoorOpen)
	require.NotNil(t, u.DoorClose)
	assert.Equal(t, at(13, 30), *u.DoorOpen, "30-minute door lead is preserved")
	assert.Equal(t, at(17, 30), *u.DoorClose, "30-minute door lag is preserved")
}

func TestSession_PressMoveRelease(t *testing.T) {
	b := &model.Booking{
		ID: "1",
		BookingCreate: model.BookingCreate{
			From: at(9, 0),
			To:   at(10, 0),
		},
	}

	var s Session
	assert.False(t, s.Dragging())

	s.Press(b, 100, dayStart, true)
	assert.True(t, s.Dragging())

	// Pointer moves are cosmetic previews; the last one wins.
	pos := s.Move(50)
	assert.Equal(t, at(9, 30), pos.Start)
	pos = s.Move(100)
	assert.Equal(t, at(10, 0), pos.Start)

	u, ok := s.Release()
	require.True(t, ok)
	assert.Equal(t, at(10, 0), u.Start)
	assert.Equal(t, at(11, 0), u.End)
	assert.False(t, s.Dragging())

	adj, ok := s.Adjustment()
	require.True(t, ok)
	assert.Equal(t, at(10, 0), adj.Start)

	s.ClearAdjustment()
	_, ok = s.Adjustment()
	assert.False(t, ok)
}

func TestSession_ZeroDisplacementIsNoop(t *testing.T) {
	b := &model.Booking{
		ID: "1",
		BookingCreate: model.BookingCreate{
			From: at(9, 0),
			To:   at(10, 0),
		},
	}

	var s Session
	s.Press(b, 100, dayStart, true)
	s.Move(5) // snaps back to 09:00

	u, ok := s.Release()
	assert.False(t, ok)
	assert.Nil(t, u)
	_, hasAdj := s.Adjustment()
	assert.False(t, hasAdj)
}

func TestSession_CancelDiscardsAdjustment(t *testing.T) {
	b := &model.Booking{
		ID: "1",
		BookingCreate: model.BookingCreate{
			From: at(9, 0),
			To:   at(10, 0),
		},
	}

	var s Session
	s.Press(b, 100, dayStart, true)
	s.Move(100)
	s.Cancel()

	assert.False(t, s.Dragging())
	_, ok := s.Adjustment()
	assert.False(t, ok)

	u, released := s.Release()
	assert.False(t, released)
	assert.Nil(t, u)
}

func TestScrollSpeed_QuadraticEase(t *testing.T) {
	const (
		top    = 0.0
		bottom = 1000.0
		margin = 100.0
		max    = 40.0
	)

	// Outside both margins: exactly zero.
	assert.Zero(t, ScrollSpeed(500, top, bottom, margin, max))
	assert.Zero(t, ScrollSpeed(100, top, bottom, margin, max))
	assert.Zero(t, ScrollSpeed(900, top, bottom, margin, max))

	// Monotonic increase toward the bottom edge.
	prev := 0.0
	for y := 901.0; y <= 1000; y += 11 {
		speed := ScrollSpeed(y, top, bottom, margin, max)
		assert.Greater(t, speed, prev, "speed must increase toward the edge (y=%v)", y)
		prev = speed
	}
	assert.InDelta(t, max, ScrollSpeed(bottom, top, bottom, margin, max), 1e-9)

	// Capped past the edge.
	assert.InDelta(t, max, ScrollSpeed(bottom+50, top, bottom, margin, max), 1e-9)

	// Top edge mirrors with negative sign.
	assert.Negative(t, ScrollSpeed(50, top, bottom, margin, max))
	assert.InDelta(t, -max, ScrollSpeed(top, top, bottom, margin, max), 1e-9)
}
