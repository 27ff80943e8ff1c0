package bookings

import "github.com/roomly/booking-calendar-backend/internal/database"

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select("id",
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
	From(database.BookingsTable)
