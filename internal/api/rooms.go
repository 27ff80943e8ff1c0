package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gerow/go-color"
	"github.com/go-chi/chi/v5"

	"github.com/roomly/booking-calendar-backend/internal/model"
	"github.com/roomly/booking-calendar-backend/internal/pkg/validator"
)

type roomResp struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

func mapToRoomResp(room *model.Room) (*roomResp, error) {
	return &roomResp{
		ID:       room.ID,
		Name:     room.Name,
		Location: room.Location,
		Capacity: room.Capacity,
	}, nil
}

func (a *Api) createRoomHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Capacity int    `json:"capacity"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(len(req.Name) != 0, "name", "name must be provided")
	v.Check(req.Capacity >= 0, "capacity", "capacity must not be negative")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	info := &model.RoomCreate{
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
	}

	id, err := a.rooms.CreateRoom(r.Context(), a.db, info)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("create room: %w", err))
		return
	}

	resp, _ := mapToRoomResp(&model.Room{ID: id, RoomCreate: *info})
	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getRoomsHandler(w http.ResponseWriter, r *http.Request) {
	rooms, err := a.rooms.GetRooms(r.Context(), a.db)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get rooms: %w", err))
		return
	}

	resp, _ := mapSlice(rooms, mapToRoomResp)

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateRoomHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.badRequestResponse(w, r, fmt.Errorf("invalid room id"))
		return
	}

	req := &struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Capacity int    `json:"capacity"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(len(req.Name) != 0, "name", "name must be provided")
	v.Check(req.Capacity >= 0, "capacity", "capacity must not be negative")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	room := &model.Room{
		ID: id,
		RoomCreate: model.RoomCreate{
			Name:     req.Name,
			Location: req.Location,
			Capacity: req.Capacity,
		},
	}

	if err := a.rooms.UpdateRoom(r.Context(), a.db, room); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("update room: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

type roomSettingsResp struct {
	RoomID  int64  `json:"room_id"`
	Color   string `json:"color"`
	Visible bool   `json:"visible"`
}

func mapToRoomSettingsResp(settings *model.RoomSettings) (*roomSettingsResp, error) {
	return &roomSettingsResp{
		RoomID:  settings.RoomID,
		Color:   settings.Color.ToHTML(),
		Visible: settings.Visible,
	}, nil
}

func (a *Api) getRoomSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var err error

	filter := model.RoomSettingsFilter{}
	vals := r.URL.Query()["room_ids"]
	filter.RoomIDs = make([]int64, len(vals))
	for i, v := range vals {
		filter.RoomIDs[i], err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			a.badRequestResponse(w, r, fmt.Errorf("invalid room id %v", v))
			return
		}
	}

	settings, err := a.rooms.GetRoomSettings(r.Context(), a.db, filter)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get room settings: %w", err))
		return
	}

	resp, _ := mapSlice(settings, mapToRoomSettingsResp)

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateRoomSettingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.badRequestResponse(w, r, fmt.Errorf("invalid room id"))
		return
	}

	req := &struct {
		Color   string `json:"color"`
		Visible bool   `json:"visible"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	rgb, err := color.HTMLToRGB(req.Color)
	if err != nil {
		v := validator.New()
		v.AddError("color", "color must be a hex color")
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if _, err := a.rooms.GetRoom(r.Context(), a.db, id); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("get room: %w", err))
		}
		return
	}

	settings := &model.RoomSettings{
		RoomID:  id,
		Color:   rgb,
		Visible: req.Visible,
	}

	if err := a.rooms.UpdateRoomSettings(r.Context(), a.db, settings); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("update room settings: %w", err))
		return
	}

	w.WriteHeader(http.StatusOK)
}
