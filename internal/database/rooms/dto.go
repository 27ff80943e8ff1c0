package rooms

import (
	"fmt"

	"github.com/gerow/go-color"

	"github.com/roomly/booking-calendar-backend/internal/model"
)

type roomDTO struct {
	ID       int64
	Name     string
	Location string
	Capacity int
}

type settingsDTO struct {
	RoomID  int64
	Color   string
	Visible bool
}

func mapToRoom(dto *roomDTO) *model.Room {
	return &model.Room{
		ID: dto.ID,
		RoomCreate: model.RoomCreate{
			Name:     dto.Name,
			Location: dto.Location,
			Capacity: dto.Capacity,
		},
	}
}

func mapToSettings(dto *settingsDTO) (*model.RoomSettings, error) {
	rgb, err := color.HTMLToRGB(dto.Color)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", dto.Color, err)
	}

	return &model.RoomSettings{
		RoomID:  dto.RoomID,
		Color:   rgb,
		Visible: dto.Visible,
	}, nil
}
