package rooms

import "github.com/roomly/booking-calendar-backend/internal/database"

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select("id",
		"name",
		"location",
		"capacity",
	).
	From(database.RoomsTable)
