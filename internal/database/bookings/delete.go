package bookings

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/roomly/booking-calendar-backend/internal/database"
	"github.com/roomly/booking-calendar-backend/internal/model"
)

func (*Repository) DeleteBooking(ctx context.Context, q database.Queryable, id int64) error {
	qb := database.PSQL.
		Delete(database.BookingsTable).
		Where(sq.Eq{"id": id})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}
