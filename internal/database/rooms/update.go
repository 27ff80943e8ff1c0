package rooms

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/roomly/booking-calendar-backend/internal/database"
	"github.com/roomly/booking-calendar-backend/internal/model"
)

func (*Repository) UpdateRoom(ctx context.Context, q database.Queryable, room *model.Room) error {
	qb := database.PSQL.
		Update(database.RoomsTable).
		Set("name", room.Name).
		Set("location", room.Location).
		Set("capacity", room.Capacity).
		Where(sq.Eq{"id": room.ID})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}

func (*Repository) UpdateRoomSettings(ctx context.Context, q database.Queryable, settings *model.RoomSettings) error {
	qb := database.PSQL.
		Insert(database.RoomSettingsTable).
		Columns("room_id", "color", "visible").
		Values(settings.RoomID, settings.Color.ToHTML(), settings.Visible).
		Suffix("on conflict (room_id) do update set color = excluded.color, visible = excluded.visible")

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
