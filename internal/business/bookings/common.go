package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/roomly/booking-calendar-backend/internal/model"
	"github.com/roomly/booking-calendar-backend/internal/schedule/overlap"
	"github.com/roomly/booking-calendar-backend/internal/schedule/recurrence"
)

// getRule serializes a recurrence pattern to an RRULE string for interop
// with external calendar tooling. Expansion itself goes through the
// recurrence package; the rule string is stored alongside the structured
// columns.
func getRule(pattern *model.RecurrencePattern, rng *model.RecurrenceRange, from time.Time) (string, error) {
	if pattern == nil {
		return "", nil
	}

	var freq rrule.Frequency
	switch pattern.Type {
	case model.PatternDaily:
		freq = rrule.DAILY
	case model.PatternWeekly:
		freq = rrule.WEEKLY
	case model.PatternMonthly:
		freq = rrule.MONTHLY
	case model.PatternYearly:
		freq = rrule.YEARLY
	default:
		return "", fmt.Errorf("unknown pattern type: %v", pattern.Type)
	}

	opt := rrule.ROption{
		Freq:     freq,
		Interval: pattern.Interval,
		Dtstart:  from.UTC(),
	}

	for _, wd := range pattern.DaysOfWeek {
		opt.Byweekday = append(opt.Byweekday, rruleWeekday(wd))
	}

	if rng != nil {
		switch rng.Type {
		case model.RangeEndDate:
			opt.Until = rng.EndDate.UTC()
		case model.RangeNumbered:
			opt.Count = rng.NumberOfOccurrences
		}
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("creating rule: %w", err)
	}

	return rule.String(), nil
}

func rruleWeekday(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}

// expandBooking materializes the occurrences of a stored booking that touch
// the [from, to) window. Non-recurring bookings yield at most their single
// occurrence; recurring ones get one occurrence per pattern date, skipping
// exceptions. Occurrence IDs are "<base id>_<occurrence unix>".
func expandBooking(base *model.Booking, from, to time.Time) []*model.Booking {
	if base.Pattern == nil {
		if !overlap.Intersects(base.From, base.To, from, to) {
			return nil
		}
		return []*model.Booking{occurrenceOf(base, base.From)}
	}

	duration := base.To.Sub(base.From)

	var res []*model.Booking
	for _, d := range recurrence.Expand(base.Pattern, base.Range, from, to) {
		start := time.Date(d.Year(), d.Month(), d.Day(),
			base.From.Hour(), base.From.Minute(), base.From.Second(), 0, base.From.Location())
		end := start.Add(duration)

		if to.Before(start) || end.Before(from) {
			continue
		}

		if _, ok := base.Exceptions[start.Unix()]; ok {
			continue
		}

		res = append(res, occurrenceOf(base, start))
	}

	return res
}

// occurrenceOf projects a stored booking onto a concrete occurrence start,
// shifting the derived door times by the same displacement.
func occurrenceOf(base *model.Booking, start time.Time) *model.Booking {
	diff := start.Sub(base.From)

	occ := &model.Booking{
		ID:             fmt.Sprintf("%v_%v", base.ID, start.Unix()),
		RecurrenceRule: base.RecurrenceRule,
		Exceptions:     base.Exceptions,
		BookingCreate:  base.BookingCreate,
	}
	occ.From = base.From.Add(diff)
	occ.To = base.To.Add(diff)

	if base.DoorOpen != nil {
		doorOpen := base.DoorOpen.Add(diff)
		occ.DoorOpen = &doorOpen
	}
	if base.DoorClose != nil {
		doorClose := base.DoorClose.Add(diff)
		occ.DoorClose = &doorClose
	}

	return occ
}

// checkConflicts expands the candidate series over the conflict horizon and
// rejects it if any occurrence conflicts with an occurrence of another
// booking in the same room. excludeID is the stored ID of the booking being
// updated, empty on create.
func (s *Service) checkConflicts(ctx context.Context, candidate *model.Booking, excludeID string) error {
	// The window reaches a day back so buffers of earlier bookings are seen.
	from := candidate.From.Add(-24 * time.Hour)
	to := candidate.From.Add(conflictHorizon)

	existing, err := s.bookingsRepository.GetBookings(ctx, s.db, model.BookingsFilter{
		From:    from,
		To:      to,
		RoomIDs: []int64{candidate.RoomID},
	})
	if err != nil {
		return fmt.Errorf("bookingsRepository.GetBookings: %w", err)
	}

	candidateOccs := expandBooking(candidate, from, to)

	for _, e := range existing {
		if e.ID == excludeID {
			continue
		}
		for _, eo := range expandBooking(e, from, to) {
			for _, co := range candidateOccs {
				if overlap.Conflicting(co, eo) {
					return model.ErrConflictingBooking
				}
			}
		}
	}

	return nil
}
