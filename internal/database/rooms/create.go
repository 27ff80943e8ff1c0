package rooms

import (
	"context"
	"fmt"

	"github.com/roomly/booking-calendar-backend/internal/database"
	"github.com/roomly/booking-calendar-backend/internal/model"
)

func (*Repository) CreateRoom(ctx context.Context, q database.Queryable, room *model.RoomCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.RoomsTable).
		Columns("name", "location", "capacity").
		Values(room.Name, room.Location, room.Capacity).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}
