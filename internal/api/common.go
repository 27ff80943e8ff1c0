package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roomly/booking-calendar-backend/internal/model"
)

const dateTimeFormat = time.RFC3339

// dateTime marshals to and from RFC3339 so clients exchange unambiguous
// zoned timestamps.
type dateTime time.Time

func (d dateTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Time(d).Format(dateTimeFormat))), nil
}

func (d *dateTime) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}

	t, err := time.Parse(dateTimeFormat, s)
	if err != nil {
		return fmt.Errorf("invalid time format: %w", err)
	}

	*d = dateTime(t)
	return nil
}

type patternReq struct {
	Type       string   `json:"type"`
	Interval   int      `json:"interval"`
	DaysOfWeek []string `json:"days_of_week,omitempty"`
}

type rangeReq struct {
	Type                string    `json:"type"`
	StartDate           *dateTime `json:"start_date,omitempty"`
	EndDate             *dateTime `json:"end_date,omitempty"`
	NumberOfOccurrences int       `json:"number_of_occurrences,omitempty"`
}

func mapToPattern(req *patternReq) (*model.RecurrencePattern, error) {
	if req == nil {
		return nil, nil
	}

	var t model.PatternType
	switch req.Type {
	case "daily":
		t = model.PatternDaily
	case "weekly":
		t = model.PatternWeekly
	case "monthly":
		t = model.PatternMonthly
	case "yearly":
		t = model.PatternYearly
	default:
		return nil, fmt.Errorf("unknown pattern type %q", req.Type)
	}

	interval := req.Interval
	if interval == 0 {
		interval = 1
	}

	days, err := mapSlice(req.DaysOfWeek, parseWeekday)
	if err != nil {
		return nil, err
	}

	return &model.RecurrencePattern{
		Type:       t,
		Interval:   interval,
		DaysOfWeek: days,
	}, nil
}

func mapToRange(req *rangeReq, from time.Time) (*model.RecurrenceRange, error) {
	if req == nil {
		return nil, nil
	}

	res := &model.RecurrenceRange{
		StartDate:           from,
		NumberOfOccurrences: req.NumberOfOccurrences,
	}

	switch req.Type {
	case "noEnd", "":
		res.Type = model.RangeNoEnd
	case "endDate":
		res.Type = model.RangeEndDate
	case "numbered":
		res.Type = model.RangeNumbered
	default:
		return nil, fmt.Errorf("unknown range type %q", req.Type)
	}

	if req.StartDate != nil {
		res.StartDate = time.Time(*req.StartDate)
	}
	if req.EndDate != nil {
		res.EndDate = time.Time(*req.EndDate)
	}

	return res, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	switch s {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("unknown weekday %q", s)
	}
}

func formatWeekday(wd time.Weekday) (string, error) {
	return strings.ToLower(wd.String()), nil
}

type patternResp struct {
	Type       string   `json:"type"`
	Interval   int      `json:"interval"`
	DaysOfWeek []string `json:"days_of_week,omitempty"`
}

type rangeResp struct {
	Type                string    `json:"type"`
	StartDate           dateTime  `json:"start_date"`
	EndDate             *dateTime `json:"end_date,omitempty"`
	NumberOfOccurrences int       `json:"number_of_occurrences,omitempty"`
}

type bookingResp struct {
	ID              string       `json:"id"`
	RoomID          int64        `json:"room_id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Category        string       `json:"category,omitempty"`
	Location        string       `json:"location,omitempty"`
	From            dateTime     `json:"from"`
	To              dateTime     `json:"to"`
	SetupMinutes    int          `json:"setup_minutes,omitempty"`
	TeardownMinutes int          `json:"teardown_minutes,omitempty"`
	DoorOpen        *dateTime    `json:"door_open,omitempty"`
	DoorClose       *dateTime    `json:"door_close,omitempty"`
	AllowConcurrent bool         `json:"allow_concurrent"`
	RecurrenceRule  string       `json:"recurrence_rule,omitempty"`
	Pattern         *patternResp `json:"pattern,omitempty"`
	Range           *rangeResp   `json:"range,omitempty"`
}

func mapToBookingResp(b *model.Booking) (*bookingResp, error) {
	res := &bookingResp{
		ID:              b.ID,
		RoomID:          b.RoomID,
		Title:           b.Title,
		Description:     b.Description,
		Category:        b.Category,
		Location:        b.Location,
		From:            dateTime(b.From),
		To:              dateTime(b.To),
		SetupMinutes:    b.SetupMinutes,
		TeardownMinutes: b.TeardownMinutes,
		AllowConcurrent: b.AllowConcurrent,
		RecurrenceRule:  b.RecurrenceRule,
	}

	if b.DoorOpen != nil {
		d := dateTime(*b.DoorOpen)
		res.DoorOpen = &d
	}
	if b.DoorClose != nil {
		d := dateTime(*b.DoorClose)
		res.DoorClose = &d
	}

	if b.Pattern != nil {
		days, _ := mapSlice(b.Pattern.DaysOfWeek, formatWeekday)
		var t string
		switch b.Pattern.Type {
		case model.PatternDaily:
			t = "daily"
		case model.PatternWeekly:
			t = "weekly"
		case model.PatternMonthly:
			t = "monthly"
		case model.PatternYearly:
			t = "yearly"
		}
		res.Pattern = &patternResp{
			Type:       t,
			Interval:   b.Pattern.Interval,
			DaysOfWeek: days,
		}
	}

	if b.Range != nil {
		r := &rangeResp{
			StartDate:           dateTime(b.Range.StartDate),
			NumberOfOccurrences: b.Range.NumberOfOccurrences,
		}
		switch b.Range.Type {
		case model.RangeNoEnd:
			r.Type = "noEnd"
		case model.RangeEndDate:
			r.Type = "endDate"
			d := dateTime(b.Range.EndDate)
			r.EndDate = &d
		case model.RangeNumbered:
			r.Type = "numbered"
		}
		res.Range = r
	}

	return res, nil
}

// parseOccurrenceID splits a composite occurrence ID "<base id>_<unix>" into
// the stored booking ID and the occurrence start.
func parseOccurrenceID(s string) (int64, time.Time, error) {
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 {
		return 0, time.Time{}, fmt.Errorf("invalid occurrence id %q", s)
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("invalid booking id %q", parts[0])
	}

	unix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("invalid occurrence timestamp %q", parts[1])
	}

	return id, time.Unix(unix, 0).UTC(), nil
}
