package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/roomly/booking-calendar-backend/internal/database"
	"github.com/roomly/booking-calendar-backend/internal/model"
)

func (*Repository) CreateBooking(ctx context.Context, q database.Queryable, booking *model.Booking) (int64, error) {
	patternType, interval, days, rangeType, rangeEnd, count := patternColumns(booking)

	var endDate *time.Time
	if booking.Pattern == nil {
		endDate = &booking.To
	} else if rangeEnd != nil {
		endDate = rangeEnd
	}

	qb := database.PSQL.
		Insert(database.BookingsTable).
		Columns(
			"room_id",
			"title",
			"description",
			"category",
			"location",
			"start_date",
			"duration",
			"end_date",
			"setup_minutes",
			"teardown_minutes",
			"door_open",
			"door_close",
			"allow_concurrent",
			"pattern_type",
			"pattern_interval",
			"pattern_days",
			"range_type",
			"range_end",
			"occurrence_count",
			"recurrence_rule",
			"exceptions",
		).
		Values(
			booking.RoomID,
			booking.Title,
			booking.Description,
			booking.Category,
			booking.Location,
			booking.From,
			booking.To.Sub(booking.From),
			endDate,
			booking.SetupMinutes,
			booking.TeardownMinutes,
			booking.DoorOpen,
			booking.DoorClose,
			booking.AllowConcurrent,
			patternType,
			interval,
			days,
			rangeType,
			rangeEnd,
			count,
			booking.RecurrenceRule,
			exceptionsColumn(booking),
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}
