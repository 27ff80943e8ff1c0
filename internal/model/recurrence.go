package model

import "time"

type PatternType int

const (
	PatternNone PatternType = iota
	PatternDaily
	PatternWeekly
	PatternMonthly
	PatternYearly
)

// RecurrencePattern describes how a booking repeats. It is meaningless
// without an accompanying RecurrenceRange: the range's StartDate anchors
// interval counting ("every 2 weeks" counts weeks from StartDate, not from
// a calendar epoch).
type RecurrencePattern struct {
	Type     PatternType
	Interval int
	// DaysOfWeek applies to weekly patterns only. An empty set matches
	// nothing.
	DaysOfWeek []time.Weekday
}

type RangeType int

const (
	RangeNoEnd RangeType = iota
	RangeEndDate
	RangeNumbered
)

type RecurrenceRange struct {
	Type      RangeType
	StartDate time.Time
	// EndDate bounds RangeEndDate ranges, inclusive: an occurrence falling
	// exactly on EndDate is produced.
	EndDate             time.Time
	NumberOfOccurrences int
}
