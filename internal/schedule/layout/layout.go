// Package layout partitions bookings into overlap groups and computes the
// stacking metadata a timeline view needs to render them side by side.
package layout

import (
	"sort"
	"time"

	"github.com/roomly/booking-calendar-backend/internal/model"
	"github.com/roomly/booking-calendar-backend/internal/schedule/overlap"
)

// Group is a maximal set of bookings transitively connected by pairwise
// effective-interval overlap, ordered by effective start (longer first on
// ties). Groups are computed fresh on every call and never persisted.
type Group struct {
	Bookings []*model.Booking
}

// Item is one booking's placement within its group: the display column it
// occupies and the total number of columns the group needs.
type Item struct {
	Booking *model.Booking
	Column  int
	Columns int
}

// GroupOverlapping partitions bookings into connected components of the
// effective-overlap graph. Bookings are sorted by effective start (and
// descending effective duration on ties) before a single sweep that merges
// every booking starting before the running maximum effective end; for
// intervals this yields exact connected components, so transitively
// overlapping chains always end up in one group regardless of input order.
//
// Bookings with unusable timestamps overlap nothing and come back as
// singleton groups after all valid ones. Every input booking appears in
// exactly one group.
func GroupOverlapping(bookings []*model.Booking) []Group {
	valid := make([]*model.Booking, 0, len(bookings))
	var invalid []*model.Booking
	for _, b := range bookings {
		if b.HasValidBounds() {
			valid = append(valid, b)
		} else {
			invalid = append(invalid, b)
		}
	}

	sortByEffectiveStart(valid)

	var groups []Group
	var current []*model.Booking
	var maxEnd time.Time

	for _, b := range valid {
		start, end := overlap.EffectiveBounds(b)

		if len(current) != 0 && start.Before(maxEnd) {
			current = append(current, b)
			if end.After(maxEnd) {
				maxEnd = end
			}
			continue
		}

		if len(current) != 0 {
			groups = append(groups, Group{Bookings: current})
		}
		current = []*model.Booking{b}
		maxEnd = end
	}
	if len(current) != 0 {
		groups = append(groups, Group{Bookings: current})
	}

	for _, b := range invalid {
		groups = append(groups, Group{Bookings: []*model.Booking{b}})
	}

	return groups
}

// AssignColumns places each booking of a group in the lowest display column
// whose previous occupant has already ended (effective bounds, half-open:
// touching a column's end does not block it). Every item reports the group's
// final column count.
func AssignColumns(g Group) []Item {
	items := make([]Item, len(g.Bookings))
	var columnEnds []time.Time

	for i, b := range g.Bookings {
		start, end := overlap.EffectiveBounds(b)
		if !b.HasValidBounds() {
			start, end = b.From, b.To
		}

		column := -1
		for c, colEnd := range columnEnds {
			if !colEnd.After(start) {
				column = c
				break
			}
		}
		if column == -1 {
			column = len(columnEnds)
			columnEnds = append(columnEnds, end)
		} else {
			columnEnds[column] = end
		}

		items[i] = Item{Booking: b, Column: column}
	}

	for i := range items {
		items[i].Columns = len(columnEnds)
	}

	return items
}

// Layout groups the bookings and assigns columns in one pass.
func Layout(bookings []*model.Booking) [][]Item {
	groups := GroupOverlapping(bookings)
	res := make([][]Item, len(groups))
	for i, g := range groups {
		res[i] = AssignColumns(g)
	}

	return res
}

// NestedGroup is one entry of the nested display: a concurrent-friendly
// parent with the bookings sharing its effective window, or a single
// standalone booking.
type NestedGroup struct {
	Parent     *model.Booking
	Children   []*model.Booking
	Standalone bool
}

// GroupForNestedDisplay treats every booking with AllowConcurrent set as a
// candidate parent and attaches every other booking whose effective bounds
// overlap it as a child. A booking may be a child of several parents.
// Bookings that end up neither parent nor child are emitted as standalone
// entries. Parents come first in input order, then standalone bookings in
// input order; nothing is resorted.
func GroupForNestedDisplay(bookings []*model.Booking) []NestedGroup {
	var res []NestedGroup
	attached := make(map[string]struct{})

	for _, parent := range bookings {
		if !parent.AllowConcurrent {
			continue
		}

		entry := NestedGroup{Parent: parent}
		for _, other := range bookings {
			if other.ID == parent.ID {
				continue
			}
			if overlap.EffectiveIntersects(parent, other) {
				entry.Children = append(entry.Children, other)
				attached[other.ID] = struct{}{}
			}
		}

		attached[parent.ID] = struct{}{}
		res = append(res, entry)
	}

	for _, b := range bookings {
		if _, ok := attached[b.ID]; ok {
			continue
		}
		res = append(res, NestedGroup{Parent: b, Standalone: true})
	}

	return res
}

func sortByEffectiveStart(bookings []*model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		iStart, iEnd := overlap.EffectiveBounds(bookings[i])
		jStart, jEnd := overlap.EffectiveBounds(bookings[j])

		if !iStart.Equal(jStart) {
			return iStart.Before(jStart)
		}
		return iEnd.Sub(iStart) > jEnd.Sub(jStart)
	})
}
