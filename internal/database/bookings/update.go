package bookings

import (
	"context"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/roomly/booking-calendar-backend/internal/database"
	"github.com/roomly/booking-calendar-backend/internal/model"
)

func (*Repository) UpdateBooking(ctx context.Context, q database.Queryable, booking *model.Booking) error {
	id, err := strconv.ParseInt(booking.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid booking id %q: %w", booking.ID, err)
	}

	patternType, interval, days, rangeType, rangeEnd, count := patternColumns(booking)

	var endDate *time.Time
	if booking.Pattern == nil {
		endDate = &booking.To
	} else if rangeEnd != nil {
		endDate = rangeEnd
	}

	qb := database.PSQL.
		Update(database.BookingsTable).
		Set("room_id", booking.RoomID).
		Set("title", booking.Title).
		Set("description", booking.Description).
		Set("category", booking.Category).
		Set("location", booking.Location).
		Set("start_date", booking.From).
		Set("duration", booking.To.Sub(booking.From)).
		Set("end_date", endDate).
		Set("setup_minutes", booking.SetupMinutes).
		Set("teardown_minutes", booking.TeardownMinutes).
		Set("door_open", booking.DoorOpen).
		Set("door_close", booking.DoorClose).
		Set("allow_concurrent", booking.AllowConcurrent).
		Set("pattern_type", patternType).
		Set("pattern_interval", interval).
		Set("pattern_days", days).
		Set("range_type", rangeType).
		Set("range_end", rangeEnd).
		Set("occurrence_count", count).
		Set("recurrence_rule", booking.RecurrenceRule).
		Set("exceptions", exceptionsColumn(booking)).
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
