package bookings

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"

	"github.com/roomly/booking-calendar-backend/internal/database"
	"github.com/roomly/booking-calendar-backend/internal/model"
)

func (*Repository) GetBookingByID(ctx context.Context, q database.Queryable, id int64) (*model.Booking, error) {
	qb := baseQuery.
		Where(sq.Eq{"id": id})

	dto := &bookingDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToBooking(dto), nil
}

func (*Repository) GetBookings(ctx context.Context, q database.Queryable, filter model.BookingsFilter) ([]*model.Booking, error) {
	qb := baseQuery.
		Where(sq.Lt{"start_date": filter.To}).
		Where(sq.Or{sq.Eq{"end_date": nil}, sq.Gt{"end_date": filter.From}})

	if len(filter.RoomIDs) != 0 {
		qb = qb.Where(sq.Eq{"room_id": filter.RoomIDs})
	}

	var dtos []*bookingDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Booking, len(dtos))
	for i, d := range dtos {
		res[i] = mapToBooking(d)
	}

	return res, nil
}
