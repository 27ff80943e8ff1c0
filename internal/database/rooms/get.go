package rooms

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"

	"github.com/roomly/booking-calendar-backend/internal/database"
	"github.com/roomly/booking-calendar-backend/internal/model"
)

func (*Repository) GetRoom(ctx context.Context, q database.Queryable, id int64) (*model.Room, error) {
	qb := baseQuery.
		Where(sq.Eq{"id": id})

	dto := &roomDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToRoom(dto), nil
}

func (*Repository) GetRooms(ctx context.Context, q database.Queryable) ([]*model.Room, error) {
	var dtos []*roomDTO
	if err := q.Select(ctx, &dtos, baseQuery); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Room, len(dtos))
	for i, d := range dtos {
		res[i] = mapToRoom(d)
	}

	return res, nil
}

func (*Repository) GetRoomSettings(ctx context.Context, q database.Queryable, filter model.RoomSettingsFilter) ([]*model.RoomSettings, error) {
	qb := database.PSQL.
		Select("room_id", "color", "visible").
		From(database.RoomSettingsTable)

	if len(filter.RoomIDs) != 0 {
		qb = qb.Where(sq.Eq{"room_id": filter.RoomIDs})
	}

	var dtos []*settingsDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.RoomSettings, len(dtos))
	for i, d := range dtos {
		settings, err := mapToSettings(d)
		if err != nil {
			return nil, err
		}
		res[i] = settings
	}

	return res, nil
}
