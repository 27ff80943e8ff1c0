package api

import (
	"net/http"
	"time"

	"github.com/roomly/booking-calendar-backend/internal/config"
	"github.com/roomly/booking-calendar-backend/internal/pkg/validator"
	"github.com/roomly/booking-calendar-backend/internal/schedule/recurrence"
)

const dateFormat = "2006-01-02"

// previewRecurrenceHandler expands a pattern and range inside a window
// without persisting anything, so clients can show occurrence dates while
// the booking form is still being filled in.
func (a *Api) previewRecurrenceHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Pattern *patternReq `json:"pattern"`
		Range   *rangeReq   `json:"range"`
		From    dateTime    `json:"from"`
		To      dateTime    `json:"to"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.Pattern != nil, "pattern", "pattern must be provided")
	v.Check(req.Range != nil, "range", "range must be provided")
	v.Check(!time.Time(req.From).IsZero(), "from", "from must be provided")
	v.Check(!time.Time(req.To).IsZero(), "to", "to must be provided")
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

	dates := recurrence.Expand(pattern, rng, time.Time(req.From), time.Time(req.To))

	resp := make([]string, len(dates))
	for i, d := range dates {
		resp[i] = d.Format(dateFormat)
	}

	if err := a.writeJSON(w, http.StatusOK, map[string]interface{}{"dates": resp}, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

// graphRecurrenceHandler maps a pattern and range to the calendar-provider
// wire format.
func (a *Api) graphRecurrenceHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Pattern  *patternReq `json:"pattern"`
		Range    *rangeReq   `json:"range"`
		From     dateTime    `json:"from"`
		TimeZone string      `json:"time_zone"`
	}{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
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

	timeZone := req.TimeZone
	if timeZone == "" {
		timeZone = config.TimeZoneLabel()
	}

	graph := recurrence.ToGraph(pattern, rng, timeZone)
	if graph == nil {
		a.clientErrorResponse(w, r, http.StatusUnprocessableEntity, "recurrence cannot be represented")
		return
	}

	if err := a.writeJSON(w, http.StatusOK, graph, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
