package bookings

import (
	"context"
	"fmt"
	"time"
)

func (s *Service) DeleteBooking(ctx context.Context, id int64) error {
	if err := s.bookingsRepository.DeleteBooking(ctx, s.db, id); err != nil {
		return fmt.Errorf("bookingsRepository.DeleteBooking: %w", err)
	}

	s.invalidateOccurrences(ctx)

	return nil
}

// DeleteBookingOccurrence removes a single occurrence from a recurring
// booking by recording it as an exception; the series itself stays.
func (s *Service) DeleteBookingOccurrence(ctx context.Context, id int64, ts time.Time) error {
	oldBooking, err := s.bookingsRepository.GetBookingByID(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("get old booking: %w", err)
	}

	oldBooking.Exceptions[ts.Unix()] = struct{}{}
	if err := s.bookingsRepository.UpdateBooking(ctx, s.db, oldBooking); err != nil {
		return fmt.Errorf("bookingsRepository.UpdateBooking: %w", err)
	}

	s.invalidateOccurrences(ctx)

	return nil
}
