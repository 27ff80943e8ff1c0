package model

import "time"

type BookingCreate struct {
	RoomID          int64
	Title           string
	Description     string
	Category        string
	Location        string
	From            time.Time
	To              time.Time
	SetupMinutes    int
	TeardownMinutes int
	DoorOpen        *time.Time
	DoorClose       *time.Time
	AllowConcurrent bool
	Pattern         *RecurrencePattern
	Range           *RecurrenceRange
}

// Booking is a stored booking. A recurring booking represents the whole
// series; occurrences are materialized on read with concrete From/To and a
// composite ID of the form "<base id>_<occurrence unix>".
type Booking struct {
	ID             string
	RecurrenceRule string
	Exceptions     map[int64]struct{}
	Until          *time.Time
	BookingCreate
}

type BookingUpdate struct {
	RoomID          int64
	Title           string
	Description     string
	Category        string
	Location        string
	From            time.Time
	To              time.Time
	SetupMinutes    int
	TeardownMinutes int
	DoorOpen        *time.Time
	DoorClose       *time.Time
	AllowConcurrent bool
}

type BookingsFilter struct {
	From    time.Time
	To      time.Time
	RoomIDs []int64
}

// HasValidBounds reports whether the booking carries usable timestamps.
// Bookings failing this check are excluded from overlap and layout
// computation entirely; surfacing the data-quality problem is the caller's
// concern.
func (b *Booking) HasValidBounds() bool {
	if b == nil {
		return false
	}
	return !b.From.IsZero() && !b.To.IsZero() && !b.To.Before(b.From)
}
