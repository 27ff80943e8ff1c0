package overlap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomly/booking-calendar-backend/internal/model"
)

func day(h, m int) time.Time {
	return time.Date(2024, 3, 4, h, m, 0, 0, time.UTC)
}

func booking(id string, from, to time.Time) *model.Booking {
	return &model.Booking{
		ID: id,
		BookingCreate: model.BookingCreate{
			From: from,
			To:   to,
		},
	}
}

func TestIntersects_Symmetry(t *testing.T) {
	cases := []struct {
		name                           string
		startA, endA, startB, endB     time.Time
		want                           bool
	}{
		{"partial overlap", day(10, 0), day(12, 0), day(11, 0), day(13, 0), true},
		{"containment", day(9, 0), day(17, 0), day(11, 0), day(12, 0), true},
		{"disjoint", day(8, 0), day(9, 0), day(13, 0), day(14, 0), false},
		{"adjacent", day(10, 0), day(11, 0), day(11, 0), day(12, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Intersects(tc.startA, tc.endA, tc.startB, tc.endB))
			assert.Equal(t, tc.want, Intersects(tc.startB, tc.endB, tc.startA, tc.endA), "must be symmetric")
		})
	}
}

func TestIntersects_AdjacencyIsNotOverlap(t *testing.T) {
	assert.False(t, Intersects(day(10, 0), day(11, 0), day(11, 0), day(12, 0)))
}

func TestEffectiveBounds(t *testing.T) {
	b := booking("1", day(10, 0), day(12, 0))
	b.SetupMinutes = 30
	b.TeardownMinutes = 60

	start, end := EffectiveBounds(b)
	assert.Equal(t, day(9, 30), start)
	assert.Equal(t, day(13, 0), end)

	// Nominal bounds are untouched.
	assert.Equal(t, day(10, 0), b.From)
	assert.Equal(t, day(12, 0), b.To)
}

func TestConflicting_TeardownExtendsConflictWindow(t *testing.T) {
	a := booking("1", day(10, 0), day(12, 0))
	a.TeardownMinutes = 60
	b := booking("2", day(12, 30), day(13, 30))

	assert.True(t, Conflicting(a, b))
	assert.Equal(t, day(12, 0), a.To, "reported end must stay nominal")
}

func TestConflicting_RequiresMutualExclusivity(t *testing.T) {
	a := booking("1", day(10, 0), day(12, 0))
	b := booking("2", day(11, 0), day(13, 0))

	// Neither flagged: conservative default is a conflict.
	assert.True(t, Conflicting(a, b))

	a.AllowConcurrent = true
	assert.False(t, Conflicting(a, b))
	assert.False(t, Conflicting(b, a))
}

func TestConflicting_InvalidBoundsFailSafe(t *testing.T) {
	valid := booking("1", day(10, 0), day(12, 0))
	zero := booking("2", time.Time{}, day(12, 0))
	inverted := booking("3", day(13, 0), day(11, 0))

	assert.False(t, Conflicting(valid, zero))
	assert.False(t, Conflicting(valid, inverted))
	assert.False(t, EffectiveIntersects(zero, inverted))
}

func TestOverlapPercentages_Boundary(t *testing.T) {
	// Two 2-hour bookings overlapping for exactly 1 hour.
	a := booking("1", day(10, 0), day(12, 0))
	b := booking("2", day(11, 0), day(13, 0))

	res := OverlapPercentages(a, b)
	assert.InDelta(t, 50, res.A.Percentage, 1e-9)
	assert.InDelta(t, 50, res.B.Percentage, 1e-9)
	assert.InDelta(t, 50, res.A.StartPercent, 1e-9)
	assert.InDelta(t, 100, res.A.EndPercent, 1e-9)
	assert.InDelta(t, 0, res.B.StartPercent, 1e-9)
	assert.InDelta(t, 50, res.B.EndPercent, 1e-9)
}

func TestOverlapPercentages_ContainmentDirection(t *testing.T) {
	contained := booking("1", day(11, 0), day(13, 0))
	container := booking("2", day(9, 0), day(17, 0))

	res := OverlapPercentages(contained, container)
	assert.InDelta(t, 100, res.A.Percentage, 1e-9, "contained booking is fully covered")
	assert.InDelta(t, 25, res.B.Percentage, 1e-9, "container is only quarter covered")
}

func TestOverlapPercentages_NoOverlapIsZeroValue(t *testing.T) {
	a := booking("1", day(9, 0), day(10, 0))
	b := booking("2", day(10, 0), day(11, 0))

	res := OverlapPercentages(a, b)
	require.Equal(t, Percentages{}, res)
}

func TestOverlapCount_Scoped(t *testing.T) {
	b := booking("1", day(10, 0), day(12, 0))
	b.Category = "meeting"
	b.Location = "north wing"

	sameScope := booking("2", day(11, 0), day(13, 0))
	sameScope.Category = "meeting"
	sameScope.Location = "north wing"

	otherCategory := booking("3", day(11, 0), day(13, 0))
	otherCategory.Category = "maintenance"
	otherCategory.Location = "north wing"

	disjoint := booking("4", day(14, 0), day(15, 0))
	disjoint.Category = "meeting"
	disjoint.Location = "north wing"

	candidates := []*model.Booking{b, sameScope, otherCategory, disjoint}

	assert.Equal(t, 2, OverlapCount(b, candidates, CountScope{}))
	assert.Equal(t, 1, OverlapCount(b, candidates, CountScope{SameCategory: true, SameLocation: true}))
}
