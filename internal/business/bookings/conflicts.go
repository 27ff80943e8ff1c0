package bookings

import (
	"context"

	"github.com/roomly/booking-calendar-backend/internal/model"
	"github.com/roomly/booking-calendar-backend/internal/schedule/overlap"
)

// ConflictPair is two occurrences in the same room whose effective intervals
// collide and neither of which allows concurrent use.
type ConflictPair struct {
	A *model.Booking
	B *model.Booking
}

// ListConflicts reports every conflicting occurrence pair in the window.
// Each unordered pair appears once.
func (s *Service) ListConflicts(ctx context.Context, filter model.BookingsFilter) ([]ConflictPair, error) {
	occurrences, err := s.GetBookings(ctx, filter)
	if err != nil {
		return nil, err
	}

	var res []ConflictPair
	for i := range occurrences {
		for j := i + 1; j < len(occurrences); j++ {
			if occurrences[i].RoomID != occurrences[j].RoomID {
				continue
			}
			if overlap.Conflicting(occurrences[i], occurrences[j]) {
				res = append(res, ConflictPair{A: occurrences[i], B: occurrences[j]})
			}
		}
	}

	return res, nil
}

// OccurrenceOverlaps annotates an occurrence with how many other
// occurrences in the window overlap it under the given scope.
type OccurrenceOverlaps struct {
	Booking  *model.Booking
	Overlaps int
}

func (s *Service) CountOverlaps(ctx context.Context, filter model.BookingsFilter, scope overlap.CountScope) ([]OccurrenceOverlaps, error) {
	occurrences, err := s.GetBookings(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]OccurrenceOverlaps, len(occurrences))
	for i, o := range occurrences {
		res[i] = OccurrenceOverlaps{
			Booking:  o,
			Overlaps: overlap.OverlapCount(o, occurrences, scope),
		}
	}

	return res, nil
}
