package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roomly/booking-calendar-backend/internal/model"
	"github.com/roomly/booking-calendar-backend/internal/pkg/validator"
	"github.com/roomly/booking-calendar-backend/internal/schedule/overlap"
)

type bookingReq struct {
	RoomID          int64       `json:"room_id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Category        string      `json:"category"`
	Location        string      `json:"location"`
	From            dateTime    `json:"from"`
	To              dateTime    `json:"to"`
	SetupMinutes    int         `json:"setup_minutes"`
	TeardownMinutes int         `json:"teardown_minutes"`
	DoorOpen        *dateTime   `json:"door_open"`
	DoorClose       *dateTime   `json:"door_close"`
	AllowConcurrent bool        `json:"allow_concurrent"`
	Pattern         *patternReq `json:"pattern"`
	Range           *rangeReq   `json:"range"`
}

func (a *Api) validateBookingReq(v *validator.Validator, req *bookingReq) {
	v.Check(req.RoomID != 0, "room_id", "room_id must be provided")
	v.Check(len(req.Title) != 0, "title", "title must be provided")
	v.Check(!time.Time(req.From).IsZero(), "from", "from must be provided")
	v.Check(!time.Time(req.To).IsZero(), "to", "to must be provided")
	v.Check(!time.Time(req.To).Before(time.Time(req.From)), "to", "to must not precede from")
	v.Check(req.SetupMinutes >= 0, "setup_minutes", "setup_minutes must not be negative")
	v.Check(req.TeardownMinutes >= 0, "teardown_minutes", "teardown_minutes must not be negative")

	if req.Pattern != nil {
		v.Check(req.Pattern.Interval >= 0, "pattern.interval", "interval must not be negative")
		if req.Pattern.Type == "weekly" {
			v.Check(len(req.Pattern.DaysOfWeek) != 0, "pattern.days_of_week", "weekly pattern requires days_of_week")
		}
	}
}

func (a *Api) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	req := &bookingReq{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	a.validateBookingReq(v, req)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	pattern, err := mapToPattern(req.Pattern)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}
	rng, err := mapToRange(req.Range, time.Time(req.From))
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	info := &model.BookingCreate{
		RoomID:          req.RoomID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Location:        req.Location,
		From:            time.Time(req.From),
		To:              time.Time(req.To),
		SetupMinutes:    req.SetupMinutes,
		TeardownMinutes: req.TeardownMinutes,
		DoorOpen:        (*time.Time)(req.DoorOpen),
		DoorClose:       (*time.Time)(req.DoorClose),
		AllowConcurrent: req.AllowConcurrent,
		Pattern:         pattern,
		Range:           rng,
	}

	created, err := a.bookings.CreateBooking(r.Context(), info)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrConflictingBooking):
			a.conflictResponse(w, r)
		case errors.Is(err, model.ErrNoRecord):
			a.clientErrorResponse(w, r, http.StatusUnprocessableEntity, "room does not exist")
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("create booking: %w", err))
		}
		return
	}

	resp, _ := mapToBookingResp(created)
	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getBookingsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseBookingsQuery(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	occurrences, err := a.bookings.GetBookings(r.Context(), *filter)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get bookings: %w", err))
		return
	}

	resp, _ := mapSlice(occurrences, mapToBookingResp)

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getBookingHandler(w http.ResponseWriter, r *http.Request) {
	id, ts, err := parseOccurrenceID(chi.URLParam(r, "id"))
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	occurrence, err := a.bookings.GetBookingByID(r.Context(), id, ts)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("get booking: %w", err))
		}
		return
	}

	resp, _ := mapToBookingResp(occurrence)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateBookingHandler(w http.ResponseWriter, r *http.Request) {
	a.updateBooking(w, r, a.bookings.UpdateBooking)
}

func (a *Api) updateBookingOccurrenceHandler(w http.ResponseWriter, r *http.Request) {
	a.updateBooking(w, r, a.bookings.UpdateBookingOccurrence)
}

func (a *Api) updateBooking(
	w http.ResponseWriter,
	r *http.Request,
	update func(ctx context.Context, id int64, ts time.Time, info *model.BookingUpdate) error,
) {
	id, ts, err := parseOccurrenceID(chi.URLParam(r, "id"))
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	req := &bookingReq{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	a.validateBookingReq(v, req)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	info := &model.BookingUpdate{
		RoomID:          req.RoomID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Location:        req.Location,
		From:            time.Time(req.From),
		To:              time.Time(req.To),
		SetupMinutes:    req.SetupMinutes,
		TeardownMinutes: req.TeardownMinutes,
		DoorOpen:        (*time.Time)(req.DoorOpen),
		DoorClose:       (*time.Time)(req.DoorClose),
		AllowConcurrent: req.AllowConcurrent,
	}

	if err := update(r.Context(), id, ts, info); err != nil {
		switch {
		case errors.Is(err, model.ErrConflictingBooking):
			a.conflictResponse(w, r)
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("update booking: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) deleteBookingHandler(w http.ResponseWriter, r *http.Request) {
	id, _, err := parseOccurrenceID(chi.URLParam(r, "id"))
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if err := a.bookings.DeleteBooking(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("delete booking: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) deleteBookingOccurrenceHandler(w http.ResponseWriter, r *http.Request) {
	id, ts, err := parseOccurrenceID(chi.URLParam(r, "id"))
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if err := a.bookings.DeleteBookingOccurrence(r.Context(), id, ts); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("delete booking occurrence: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) rescheduleBookingHandler(w http.ResponseWriter, r *http.Request) {
	id, ts, err := parseOccurrenceID(chi.URLParam(r, "id"))
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	req := &struct {
		PixelOffset   float64 `json:"pixel_offset"`
		PixelsPerHour float64 `json:"pixels_per_hour"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.PixelsPerHour > 0, "pixels_per_hour", "pixels_per_hour must be positive")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	moved, err := a.bookings.RescheduleBooking(r.Context(), id, ts, req.PixelOffset, req.PixelsPerHour)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrConflictingBooking):
			a.conflictResponse(w, r)
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("reschedule booking: %w", err))
		}
		return
	}

	resp, _ := mapToBookingResp(moved)
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getConflictsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseBookingsQuery(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	conflicts, err := a.bookings.ListConflicts(r.Context(), *filter)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("list conflicts: %w", err))
		return
	}

	type conflictResp struct {
		A *bookingResp `json:"a"`
		B *bookingResp `json:"b"`
	}

	resp := make([]conflictResp, len(conflicts))
	for i, c := range conflicts {
		first, _ := mapToBookingResp(c.A)
		second, _ := mapToBookingResp(c.B)
		resp[i] = conflictResp{A: first, B: second}
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getOverlapsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseBookingsQuery(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	scope := overlap.CountScope{
		SameCategory: r.URL.Query().Get("same_category") == "true",
		SameLocation: r.URL.Query().Get("same_location") == "true",
	}

	counts, err := a.bookings.CountOverlaps(r.Context(), *filter, scope)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("count overlaps: %w", err))
		return
	}

	type overlapResp struct {
		Booking  *bookingResp `json:"booking"`
		Overlaps int          `json:"overlaps"`
	}

	resp := make([]overlapResp, len(counts))
	for i, c := range counts {
		b, _ := mapToBookingResp(c.Booking)
		resp[i] = overlapResp{Booking: b, Overlaps: c.Overlaps}
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func parseBookingsQuery(r *http.Request) (*model.BookingsFilter, error) {
	var err error

	res := &model.BookingsFilter{}

	v := r.URL.Query().Get("from")
	if v == "" {
		return nil, fmt.Errorf("from must be provided")
	}
	res.From, err = time.Parse(dateTimeFormat, v)
	if err != nil {
		return nil, fmt.Errorf("invalid time format: %w", err)
	}

	v = r.URL.Query().Get("to")
	if v == "" {
		return nil, fmt.Errorf("to must be provided")
	}
	res.To, err = time.Parse(dateTimeFormat, v)
	if err != nil {
		return nil, fmt.Errorf("invalid time format: %w", err)
	}

	vals := r.URL.Query()["room_ids"]
	res.RoomIDs = make([]int64, len(vals))
	for i, v := range vals {
		res.RoomIDs[i], err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid room id %v", v)
		}
	}

	return res, nil
}
