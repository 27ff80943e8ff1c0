package recurrence

import (
	"time"

	"github.com/roomly/booking-calendar-backend/internal/model"
)

const graphDateFormat = "2006-01-02"

// GraphRecurrence is the wire shape the Outlook Graph publisher consumes.
// The mapping is pure field renaming and timezone defaulting; no business
// logic lives here.
type GraphRecurrence struct {
	Pattern GraphPattern `json:"pattern"`
	Range   GraphRange   `json:"range"`
}

type GraphPattern struct {
	Type       string   `json:"type"`
	Interval   int      `json:"interval"`
	DaysOfWeek []string `json:"daysOfWeek,omitempty"`
}

type GraphRange struct {
	Type                string `json:"type"`
	StartDate           string `json:"startDate"`
	EndDate             string `json:"endDate,omitempty"`
	NumberOfOccurrences int    `json:"numberOfOccurrences,omitempty"`
	RecurrenceTimeZone  string `json:"recurrenceTimeZone"`
}

// ToGraph maps a pattern and range to the Graph wire object. An empty
// timezone label defaults to UTC. Unknown pattern or range types yield nil.
func ToGraph(pattern *model.RecurrencePattern, rng *model.RecurrenceRange, timeZone string) *GraphRecurrence {
	if pattern == nil || rng == nil {
		return nil
	}

	patternType, ok := graphPatternType(pattern.Type)
	if !ok {
		return nil
	}
	rangeType, ok := graphRangeType(rng.Type)
	if !ok {
		return nil
	}

	if timeZone == "" {
		timeZone = "UTC"
	}

	res := &GraphRecurrence{
		Pattern: GraphPattern{
			Type:     patternType,
			Interval: pattern.Interval,
		},
		Range: GraphRange{
			Type:               rangeType,
			StartDate:          rng.StartDate.Format(graphDateFormat),
			RecurrenceTimeZone: timeZone,
		},
	}

	for _, wd := range pattern.DaysOfWeek {
		res.Pattern.DaysOfWeek = append(res.Pattern.DaysOfWeek, graphWeekday(wd))
	}

	switch rng.Type {
	case model.RangeEndDate:
		res.Range.EndDate = rng.EndDate.Format(graphDateFormat)
	case model.RangeNumbered:
		res.Range.NumberOfOccurrences = rng.NumberOfOccurrences
	}

	return res
}

func graphPatternType(t model.PatternType) (string, bool) {
	switch t {
	case model.PatternDaily:
		return "daily", true
	case model.PatternWeekly:
		return "weekly", true
	case model.PatternMonthly:
		return "absoluteMonthly", true
	case model.PatternYearly:
		return "absoluteYearly", true
	default:
		return "", false
	}
}

func graphRangeType(t model.RangeType) (string, bool) {
	switch t {
	case model.RangeNoEnd:
		return "noEnd", true
	case model.RangeEndDate:
		return "endDate", true
	case model.RangeNumbered:
		return "numbered", true
	default:
		return "", false
	}
}

func graphWeekday(wd time.Weekday) string {
	switch wd {
	case time.Sunday:
		return "sunday"
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	default:
		return "saturday"
	}
}
