package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/roomly/booking-calendar-backend/internal/model"
	"github.com/roomly/booking-calendar-backend/internal/schedule/drag"
)

// UpdateBooking shifts the whole series: ts names the occurrence the client
// edited, and the displacement between ts and info.From is applied to the
// stored start, the recurrence anchor and every exception.
func (s *Service) UpdateBooking(ctx context.Context, id int64, ts time.Time, info *model.BookingUpdate) error {
	oldBooking, err := s.bookingsRepository.GetBookingByID(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("get old booking: %w", err)
	}

	diff := info.From.Sub(ts)
	from := oldBooking.From.Add(diff)
	to := from.Add(info.To.Sub(info.From))

	rng := oldBooking.Range
	if oldBooking.Pattern != nil && diff != 0 {
		newRange := *oldBooking.Range
		newRange.StartDate = from
		rng = &newRange
	}

	recurrenceRule := oldBooking.RecurrenceRule
	if oldBooking.Pattern != nil && !oldBooking.From.Equal(from) {
		var err error
		recurrenceRule, err = getRule(oldBooking.Pattern, rng, from)
		if err != nil {
			return err
		}
	}

	exceptions := oldBooking.Exceptions
	if diff != 0 {
		newExceptions := make(map[int64]struct{}, len(oldBooking.Exceptions))
		for e := range oldBooking.Exceptions {
			newExceptions[time.Unix(e, 0).Add(diff).Unix()] = struct{}{}
		}

		exceptions = newExceptions
	}

	var endDate *time.Time
	if oldBooking.Pattern == nil {
		endDate = &to
	}

	booking := &model.Booking{
		ID:             oldBooking.ID,
		RecurrenceRule: recurrenceRule,
		Exceptions:     exceptions,
		Until:          endDate,
		BookingCreate: model.BookingCreate{
			RoomID:          info.RoomID,
			Title:           info.Title,
			Description:     info.Description,
			Category:        info.Category,
			Location:        info.Location,
			From:            from,
			To:              to,
			SetupMinutes:    info.SetupMinutes,
			TeardownMinutes: info.TeardownMinutes,
			DoorOpen:        info.DoorOpen,
			DoorClose:       info.DoorClose,
			AllowConcurrent: info.AllowConcurrent,
			Pattern:         oldBooking.Pattern,
			Range:           rng,
		},
	}

	if err := s.checkConflicts(ctx, booking, oldBooking.ID); err != nil {
		return err
	}

	if err := s.bookingsRepository.UpdateBooking(ctx, s.db, booking); err != nil {
		return fmt.Errorf("bookingsRepository.UpdateBooking: %w", err)
	}

	s.invalidateOccurrences(ctx)

	return nil
}

// UpdateBookingOccurrence detaches a single occurrence of a recurring
// booking: the occurrence becomes an exception on the series and a
// standalone booking is created with the new values, atomically.
func (s *Service) UpdateBookingOccurrence(ctx context.Context, id int64, ts time.Time, info *model.BookingUpdate) error {
	oldBooking, err := s.bookingsRepository.GetBookingByID(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("get old booking: %w", err)
	}

	detached := &model.Booking{
		RecurrenceRule: "",
		Exceptions:     map[int64]struct{}{},
		Until:          &info.To,
		BookingCreate: model.BookingCreate{
			RoomID:          info.RoomID,
			Title:           info.Title,
			Description:     info.Description,
			Category:        info.Category,
			Location:        info.Location,
			From:            info.From,
			To:              info.To,
			SetupMinutes:    info.SetupMinutes,
			TeardownMinutes: info.TeardownMinutes,
			DoorOpen:        info.DoorOpen,
			DoorClose:       info.DoorClose,
			AllowConcurrent: info.AllowConcurrent,
		},
	}

	if err := s.checkConflicts(ctx, detached, oldBooking.ID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx")
	}
	defer tx.Rollback(ctx)

	oldBooking.Exceptions[ts.Unix()] = struct{}{}
	if err := s.bookingsRepository.UpdateBooking(ctx, tx, oldBooking); err != nil {
		return fmt.Errorf("bookingsRepository.UpdateBooking: %w", err)
	}

	if _, err := s.bookingsRepository.CreateBooking(ctx, tx, detached); err != nil {
		return fmt.Errorf("bookingsRepository.CreateBooking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx")
	}

	s.invalidateOccurrences(ctx)

	return nil
}

// RescheduleBooking applies a completed drag to the occurrence at ts. The
// pixel displacement is snapped and clamped within the occurrence's own day,
// and the derived door and buffer times move with the booking. A drag that
// snaps back to the original position is a no-op.
func (s *Service) RescheduleBooking(ctx context.Context, id int64, ts time.Time, pixelOffset, pixelsPerHour float64) (*model.Booking, error) {
	occurrence, err := s.GetBookingByID(ctx, id, ts)
	if err != nil {
		return nil, err
	}

	y, m, d := occurrence.From.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, occurrence.From.Location())

	offsets := drag.CaptureOffsets(occurrence)
	pos := drag.ComputePosition(occurrence.From, occurrence.To, pixelOffset, pixelsPerHour, dayStart)

	if pos.Start.Equal(occurrence.From) && pos.End.Equal(occurrence.To) {
		return occurrence, nil
	}

	update := offsets.Apply(pos)
	info := &model.BookingUpdate{
		RoomID:          occurrence.RoomID,
		Title:           occurrence.Title,
		Description:     occurrence.Description,
		Category:        occurrence.Category,
		Location:        occurrence.Location,
		From:            update.Start,
		To:              update.End,
		SetupMinutes:    update.SetupMinutes,
		TeardownMinutes: update.TeardownMinutes,
		DoorOpen:        update.DoorOpen,
		DoorClose:       update.DoorClose,
		AllowConcurrent: occurrence.AllowConcurrent,
	}

	if occurrence.Pattern != nil {
		err = s.UpdateBookingOccurrence(ctx, id, ts, info)
	} else {
		err = s.UpdateBooking(ctx, id, ts, info)
	}
	if err != nil {
		return nil, err
	}

	occurrence.From = update.Start
	occurrence.To = update.End
	occurrence.DoorOpen = update.DoorOpen
	occurrence.DoorClose = update.DoorClose

	return occurrence, nil
}
