package bookings

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/roomly/booking-calendar-backend/internal/model"
	"github.com/roomly/booking-calendar-backend/internal/schedule/recurrence"
)

// GetBookings returns the materialized occurrences touching the filter
// window, ordered by start time. Results are served from the occurrence
// cache when a fresh window is available.
func (s *Service) GetBookings(ctx context.Context, filter model.BookingsFilter) ([]*model.Booking, error) {
	cached, ok, err := s.occurrenceCache.Get(ctx, filter)
	if err != nil {
		s.logger.Warnw("occurrence cache read failed", "err", err)
	} else if ok {
		return cached, nil
	}

	baseBookings, err := s.bookingsRepository.GetBookings(ctx, s.db, filter)
	if err != nil {
		return nil, fmt.Errorf("bookingsRepository.GetBookings: %w", err)
	}

	var res []*model.Booking
	for _, b := range baseBookings {
		res = append(res, expandBooking(b, filter.From, filter.To)...)
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].From.Before(res[j].From)
	})

	if err := s.occurrenceCache.Set(ctx, filter, res); err != nil {
		s.logger.Warnw("occurrence cache write failed", "err", err)
	}

	return res, nil
}

// GetBookingByID resolves a single occurrence of a stored booking: ts must
// be the exact occurrence start. Missing the pattern, landing on an
// exception, or a ts outside the range bound all yield model.ErrNoRecord.
func (s *Service) GetBookingByID(ctx context.Context, id int64, ts time.Time) (*model.Booking, error) {
	booking, err := s.bookingsRepository.GetBookingByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("bookingsRepository.GetBookingByID: %w", err)
	}

	if booking.Pattern == nil {
		if !booking.From.Equal(ts) {
			return nil, model.ErrNoRecord
		}
		return occurrenceOf(booking, booking.From), nil
	}

	start := time.Date(ts.Year(), ts.Month(), ts.Day(),
		booking.From.Hour(), booking.From.Minute(), booking.From.Second(), 0, booking.From.Location())
	if !start.Equal(ts) {
		return nil, model.ErrNoRecord
	}

	if len(recurrence.Expand(booking.Pattern, booking.Range, ts, ts)) == 0 {
		return nil, model.ErrNoRecord
	}

	if _, ok := booking.Exceptions[ts.Unix()]; ok {
		return nil, model.ErrNoRecord
	}

	return occurrenceOf(booking, start), nil
}
