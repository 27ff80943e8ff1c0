package bookings

import (
	"strconv"
	"time"

	"github.com/roomly/booking-calendar-backend/internal/model"
)

type bookingDTO struct {
	ID              int64
	RoomID          int64
	Title           string
	Description     string
	Category        string
	Location        string
	StartDate       time.Time
	Duration        time.Duration
	EndDate         *time.Time
	SetupMinutes    int
	TeardownMinutes int
	DoorOpen        *time.Time
	DoorClose       *time.Time
	AllowConcurrent bool
	PatternType     int
	PatternInterval int
	PatternDays     []int32
	RangeType       int
	RangeEnd        *time.Time
	OccurrenceCount int
	RecurrenceRule  string
	Exceptions      []time.Time
}

func mapToBooking(dto *bookingDTO) *model.Booking {
	exceptions := make(map[int64]struct{}, len(dto.Exceptions))
	for _, e := range dto.Exceptions {
		exceptions[e.Unix()] = struct{}{}
	}

	var pattern *model.RecurrencePattern
	var rng *model.RecurrenceRange
	if model.PatternType(dto.PatternType) != model.PatternNone {
		pattern = &model.RecurrencePattern{
			Type:     model.PatternType(dto.PatternType),
			Interval: dto.PatternInterval,
		}
		for _, d := range dto.PatternDays {
			pattern.DaysOfWeek = append(pattern.DaysOfWeek, time.Weekday(d))
		}

		rng = &model.RecurrenceRange{
			Type:                model.RangeType(dto.RangeType),
			StartDate:           dto.StartDate,
			NumberOfOccurrences: dto.OccurrenceCount,
		}
		if dto.RangeEnd != nil {
			rng.EndDate = *dto.RangeEnd
		}
	}

	return &model.Booking{
		ID:             strconv.FormatInt(dto.ID, 10),
		RecurrenceRule: dto.RecurrenceRule,
		Exceptions:     exceptions,
		Until:          dto.EndDate,
		BookingCreate: model.BookingCreate{
			RoomID:          dto.RoomID,
			Title:           dto.Title,
			Description:     dto.Description,
			Category:        dto.Category,
			Location:        dto.Location,
			From:            dto.StartDate,
			To:              dto.StartDate.Add(dto.Duration),
			SetupMinutes:    dto.SetupMinutes,
			TeardownMinutes: dto.TeardownMinutes,
			DoorOpen:        dto.DoorOpen,
			DoorClose:       dto.DoorClose,
			AllowConcurrent: dto.AllowConcurrent,
			Pattern:         pattern,
			Range:           rng,
		},
	}
}

func patternColumns(b *model.Booking) (patternType, interval int, days []int32, rangeType int, rangeEnd *time.Time, count int) {
	if b.Pattern == nil {
		return int(model.PatternNone), 0, nil, int(model.RangeNoEnd), nil, 0
	}

	patternType = int(b.Pattern.Type)
	interval = b.Pattern.Interval
	for _, d := range b.Pattern.DaysOfWeek {
		days = append(days, int32(d))
	}

	if b.Range != nil {
		rangeType = int(b.Range.Type)
		if b.Range.Type == model.RangeEndDate {
			end := b.Range.EndDate
			rangeEnd = &end
		}
		count = b.Range.NumberOfOccurrences
	}

	return patternType, interval, days, rangeType, rangeEnd, count
}

func exceptionsColumn(b *model.Booking) []time.Time {
	res := make([]time.Time, 0, len(b.Exceptions))
	for e := range b.Exceptions {
		res = append(res, time.Unix(e, 0).UTC())
	}
	return res
}
