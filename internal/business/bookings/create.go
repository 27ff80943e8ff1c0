package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roomly/booking-calendar-backend/internal/model"
	"github.com/roomly/booking-calendar-backend/internal/pkg/metrics"
)

func (s *Service) CreateBooking(ctx context.Context, info *model.BookingCreate) (*model.Booking, error) {
	if _, err := s.roomsRepository.GetRoom(ctx, s.db, info.RoomID); err != nil {
		return nil, fmt.Errorf("roomsRepository.GetRoom: %w", err)
	}

	if info.Pattern != nil {
		if info.Range == nil {
			info.Range = &model.RecurrenceRange{Type: model.RangeNoEnd}
		}
		if info.Range.StartDate.IsZero() {
			info.Range.StartDate = info.From
		}
	}

	recurrenceRule, err := getRule(info.Pattern, info.Range, info.From)
	if err != nil {
		return nil, err
	}

	var endDate *time.Time
	if info.Pattern == nil {
		endDate = &info.To
	}

	booking := &model.Booking{
		RecurrenceRule: recurrenceRule,
		Exceptions:     map[int64]struct{}{},
		Until:          endDate,
		BookingCreate:  *info,
	}

	if err := s.checkConflicts(ctx, booking, ""); err != nil {
		if errors.Is(err, model.ErrConflictingBooking) {
			metrics.RecordBookingConflict()
		}
		return nil, err
	}

	id, err := s.bookingsRepository.CreateBooking(ctx, s.db, booking)
	if err != nil {
		return nil, fmt.Errorf("bookingsRepository.CreateBooking: %w", err)
	}

	metrics.RecordBookingCreated()
	s.invalidateOccurrences(ctx)

	booking.ID = fmt.Sprintf("%v_%v", id, info.From.Unix())
	return booking, nil
}
