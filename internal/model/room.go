package model

import (
	"github.com/gerow/go-color"
)

type RoomCreate struct {
	Name     string
	Location string
	Capacity int
}

type Room struct {
	ID int64
	RoomCreate
}

type RoomSettings struct {
	RoomID  int64
	Color   color.RGB
	Visible bool
}

type RoomSettingsFilter struct {
	RoomIDs []int64
}
