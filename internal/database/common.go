package database

import (
	sq "github.com/Masterminds/squirrel"
)

// PSQL - query builder с postgres-плейсхолдерами.
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	BookingsTable     = "bookings"
	RoomsTable        = "rooms"
	RoomSettingsTable = "room_settings"
)
