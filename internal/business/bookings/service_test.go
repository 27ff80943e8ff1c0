package bookings

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roomly/booking-calendar-backend/internal/database"
	"github.com/roomly/booking-calendar-backend/internal/model"
)

type fakePGX struct {
	database.PGX
}

func (fakePGX) BeginTx(_ context.Context, _ *pgx.TxOptions) (database.Tx, error) {
	return fakeTx{}, nil
}

type fakeTx struct {
	database.Tx
}

func (fakeTx) Commit(_ context.Context) error   { return nil }
func (fakeTx) Rollback(_ context.Context) error { return nil }

type fakeBookingsRepo struct {
	nextID   int64
	bookings map[int64]*model.Booking
}

func newFakeBookingsRepo() *fakeBookingsRepo {
	return &fakeBookingsRepo{nextID: 1, bookings: map[int64]*model.Booking{}}
}

func (r *fakeBookingsRepo) CreateBooking(_ context.Context, _ database.Queryable, booking *model.Booking) (int64, error) {
	id := r.nextID
	r.nextID++

	stored := *booking
	stored.ID = strconv.FormatInt(id, 10)
	r.bookings[id] = &stored

	return id, nil
}

func (r *fakeBookingsRepo) GetBookingByID(_ context.Context, _ database.Queryable, id int64) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return b, nil
}

func (r *fakeBookingsRepo) GetBookings(_ context.Context, _ database.Queryable, filter model.BookingsFilter) ([]*model.Booking, error) {
	var res []*model.Booking
	for _, b := range r.bookings {
		if !b.From.Before(filter.To) {
			continue
		}

		var end *time.Time
		if b.Pattern == nil {
			end = &b.To
		} else if b.Range != nil && b.Range.Type == model.RangeEndDate {
			end = &b.Range.EndDate
		}
		if end != nil && !end.After(filter.From) {
			continue
		}

		if len(filter.RoomIDs) != 0 {
			found := false
			for _, id := range filter.RoomIDs {
				if b.RoomID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}

		res = append(res, b)
	}
	return res, nil
}

func (r *fakeBookingsRepo) UpdateBooking(_ context.Context, _ database.Queryable, booking *model.Booking) error {
	id, err := strconv.ParseInt(booking.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid booking id %q: %w", booking.ID, err)
	}
	if _, ok := r.bookings[id]; !ok {
		return model.ErrNoRecord
	}
	stored := *booking
	r.bookings[id] = &stored
	return nil
}

func (r *fakeBookingsRepo) DeleteBooking(_ context.Context, _ database.Queryable, id int64) error {
	if _, ok := r.bookings[id]; !ok {
		return model.ErrNoRecord
	}
	delete(r.bookings, id)
	return nil
}

type fakeRoomsRepo struct {
	rooms map[int64]*model.Room
}

func (r *fakeRoomsRepo) GetRoom(_ context.Context, _ database.Queryable, id int64) (*model.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return room, nil
}

type fakeOccurrenceCache struct {
	invalidations int
}

func (c *fakeOccurrenceCache) Get(_ context.Context, _ model.BookingsFilter) ([]*model.Booking, bool, error) {
	return nil, false, nil
}

func (c *fakeOccurrenceCache) Set(_ context.Context, _ model.BookingsFilter, _ []*model.Booking) error {
	return nil
}

func (c *fakeOccurrenceCache) Invalidate(_ context.Context) error {
	c.invalidations++
	return nil
}

func newTestService() (*Service, *fakeBookingsRepo, *fakeOccurrenceCache) {
	repo := newFakeBookingsRepo()
	rooms := &fakeRoomsRepo{rooms: map[int64]*model.Room{
		1: {ID: 1, RoomCreate: model.RoomCreate{Name: "Main Hall", Capacity: 120}},
		2: {ID: 2, RoomCreate: model.RoomCreate{Name: "Studio", Capacity: 20}},
	}}
	cache := &fakeOccurrenceCache{}

	return NewService(fakePGX{}, zap.NewNop().Sugar(), repo, rooms, cache), repo, cache
}

func at(day int, hour, min int) time.Time {
	return time.Date(2024, time.March, day, hour, min, 0, 0, time.UTC)
}

func singleBooking(room int64, from, to time.Time) *model.BookingCreate {
	return &model.BookingCreate{
		RoomID: room,
		Title:  "rehearsal",
		From:   from,
		To:     to,
	}
}

func TestCreateBooking_UnknownRoom(t *testing.T) {
	s, _, _ := newTestService()

	_, err := s.CreateBooking(context.Background(), singleBooking(99, at(4, 10, 0), at(4, 11, 0)))
	assert.ErrorIs(t, err, model.ErrNoRecord)
}

func TestCreateBooking_AssignsCompositeID(t *testing.T) {
	s, _, cache := newTestService()

	created, err := s.CreateBooking(context.Background(), singleBooking(1, at(4, 10, 0), at(4, 11, 0)))
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("1_%v", at(4, 10, 0).Unix()), created.ID)
	assert.Equal(t, 1, cache.invalidations)
}

func TestCreateBooking_RejectsOverlapInSameRoom(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	_, err := s.CreateBooking(ctx, singleBooking(1, at(4, 10, 0), at(4, 11, 0)))
	require.NoError(t, err)

	_, err = s.CreateBooking(ctx, singleBooking(1, at(4, 10, 30), at(4, 11, 30)))
	assert.ErrorIs(t, err, model.ErrConflictingBooking)
}

func TestCreateBooking_AllowsOverlapInOtherRoom(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	_, err := s.CreateBooking(ctx, singleBooking(1, at(4, 10, 0), at(4, 11, 0)))
	require.NoError(t, err)

	_, err = s.CreateBooking(ctx, singleBooking(2, at(4, 10, 30), at(4, 11, 30)))
	assert.NoError(t, err)
}

func TestCreateBooking_AllowsAdjacent(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	_, err := s.CreateBooking(ctx, singleBooking(1, at(4, 10, 0), at(4, 11, 0)))
	require.NoError(t, err)

	_, err = s.CreateBooking(ctx, singleBooking(1, at(4, 11, 0), at(4, 12, 0)))
	assert.NoError(t, err)
}

func TestCreateBooking_TeardownBufferConflicts(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	first := singleBooking(1, at(4, 10, 0), at(4, 11, 0))
	first.TeardownMinutes = 30
	_, err := s.CreateBooking(ctx, first)
	require.NoError(t, err)

	_, err = s.CreateBooking(ctx, singleBooking(1, at(4, 11, 15), at(4, 12, 0)))
	assert.ErrorIs(t, err, model.ErrConflictingBooking)
}

func TestCreateBooking_ConcurrentFlagDisarmsConflict(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	first := singleBooking(1, at(4, 10, 0), at(4, 11, 0))
	first.AllowConcurrent = true
	_, err := s.CreateBooking(ctx, first)
	require.NoError(t, err)

	_, err = s.CreateBooking(ctx, singleBooking(1, at(4, 10, 30), at(4, 11, 30)))
	assert.NoError(t, err)
}

func TestCreateBooking_ConflictWithFutureOccurrence(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	series := singleBooking(1, at(4, 10, 0), at(4, 11, 0))
	series.Pattern = &model.RecurrencePattern{
		Type:       model.PatternWeekly,
		Interval:   1,
		DaysOfWeek: []time.Weekday{time.Monday},
	}
	_, err := s.CreateBooking(ctx, series)
	require.NoError(t, err)

	// Two Mondays later the series still occupies the slot.
	_, err = s.CreateBooking(ctx, singleBooking(1, at(18, 10, 30), at(18, 11, 30)))
	assert.ErrorIs(t, err, model.ErrConflictingBooking)
}

func TestGetBookings_ExpandsSeries(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	series := singleBooking(1, at(4, 9, 0), at(4, 10, 0))
	series.Pattern = &model.RecurrencePattern{Type: model.PatternDaily, Interval: 1}
	series.Range = &model.RecurrenceRange{
		Type:                model.RangeNumbered,
		NumberOfOccurrences: 3,
	}
	_, err := s.CreateBooking(ctx, series)
	require.NoError(t, err)

	res, err := s.GetBookings(ctx, model.BookingsFilter{From: at(1, 0, 0), To: at(31, 0, 0)})
	require.NoError(t, err)
	require.Len(t, res, 3)

	assert.Equal(t, at(4, 9, 0), res[0].From)
	assert.Equal(t, at(5, 9, 0), res[1].From)
	assert.Equal(t, at(6, 9, 0), res[2].From)
	assert.Equal(t, fmt.Sprintf("1_%v", at(5, 9, 0).Unix()), res[1].ID)
}

func TestGetBookings_ShiftsDoorTimes(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	doorOpen := at(4, 8, 30)
	series := singleBooking(1, at(4, 9, 0), at(4, 10, 0))
	series.DoorOpen = &doorOpen
	series.Pattern = &model.RecurrencePattern{Type: model.PatternDaily, Interval: 1}
	series.Range = &model.RecurrenceRange{
		Type:                model.RangeNumbered,
		NumberOfOccurrences: 2,
	}
	_, err := s.CreateBooking(ctx, series)
	require.NoError(t, err)

	res, err := s.GetBookings(ctx, model.BookingsFilter{From: at(5, 0, 0), To: at(6, 0, 0)})
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.NotNil(t, res[0].DoorOpen)
	assert.Equal(t, at(5, 8, 30), *res[0].DoorOpen)
}

func TestGetBookingByID_ResolvesOccurrence(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	series := singleBooking(1, at(4, 9, 0), at(4, 10, 0))
	series.Pattern = &model.RecurrencePattern{Type: model.PatternDaily, Interval: 1}
	_, err := s.CreateBooking(ctx, series)
	require.NoError(t, err)

	occ, err := s.GetBookingByID(ctx, 1, at(6, 9, 0))
	require.NoError(t, err)
	assert.Equal(t, at(6, 9, 0), occ.From)
	assert.Equal(t, at(6, 10, 0), occ.To)

	_, err = s.GetBookingByID(ctx, 1, at(6, 9, 30))
	assert.ErrorIs(t, err, model.ErrNoRecord)
}

func TestDeleteBookingOccurrence_SkipsException(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	series := singleBooking(1, at(4, 9, 0), at(4, 10, 0))
	series.Pattern = &model.RecurrencePattern{Type: model.PatternDaily, Interval: 1}
	series.Range = &model.RecurrenceRange{
		Type:                model.RangeNumbered,
		NumberOfOccurrences: 3,
	}
	_, err := s.CreateBooking(ctx, series)
	require.NoError(t, err)

	require.NoError(t, s.DeleteBookingOccurrence(ctx, 1, at(5, 9, 0)))

	res, err := s.GetBookings(ctx, model.BookingsFilter{From: at(1, 0, 0), To: at(31, 0, 0)})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, at(4, 9, 0), res[0].From)
	assert.Equal(t, at(6, 9, 0), res[1].From)
}

func TestRescheduleBooking_SnapsAndShiftsDoors(t *testing.T) {
	s, repo, _ := newTestService()
	ctx := context.Background()

	doorOpen := at(4, 8, 30)
	doorClose := at(4, 10, 30)
	info := singleBooking(1, at(4, 9, 0), at(4, 10, 0))
	info.DoorOpen = &doorOpen
	info.DoorClose = &doorClose
	_, err := s.CreateBooking(ctx, info)
	require.NoError(t, err)

	// 30px at 100px/hour is 18 minutes, snapping to the 09:15 slot.
	moved, err := s.RescheduleBooking(ctx, 1, at(4, 9, 0), 30, 100)
	require.NoError(t, err)

	assert.Equal(t, at(4, 9, 15), moved.From)
	assert.Equal(t, at(4, 10, 15), moved.To)
	require.NotNil(t, moved.DoorOpen)
	assert.Equal(t, at(4, 8, 45), *moved.DoorOpen)
	require.NotNil(t, moved.DoorClose)
	assert.Equal(t, at(4, 10, 45), *moved.DoorClose)

	stored := repo.bookings[1]
	assert.Equal(t, at(4, 9, 15), stored.From)
	assert.Equal(t, at(4, 10, 15), stored.To)
}

func TestRescheduleBooking_SnapBackIsNoop(t *testing.T) {
	s, repo, cache := newTestService()
	ctx := context.Background()

	_, err := s.CreateBooking(ctx, singleBooking(1, at(4, 9, 0), at(4, 10, 0)))
	require.NoError(t, err)
	invalidationsAfterCreate := cache.invalidations

	// 5px at 100px/hour is 3 minutes, which snaps back to 09:00.
	moved, err := s.RescheduleBooking(ctx, 1, at(4, 9, 0), 5, 100)
	require.NoError(t, err)

	assert.Equal(t, at(4, 9, 0), moved.From)
	assert.Equal(t, at(4, 9, 0), repo.bookings[1].From)
	assert.Equal(t, invalidationsAfterCreate, cache.invalidations)
}

func TestRescheduleBooking_DetachesOccurrence(t *testing.T) {
	s, repo, _ := newTestService()
	ctx := context.Background()

	series := singleBooking(1, at(4, 9, 0), at(4, 10, 0))
	series.Pattern = &model.RecurrencePattern{Type: model.PatternDaily, Interval: 1}
	_, err := s.CreateBooking(ctx, series)
	require.NoError(t, err)

	moved, err := s.RescheduleBooking(ctx, 1, at(6, 9, 0), 60, 60)
	require.NoError(t, err)
	assert.Equal(t, at(6, 10, 0), moved.From)

	require.Len(t, repo.bookings, 2)

	_, excepted := repo.bookings[1].Exceptions[at(6, 9, 0).Unix()]
	assert.True(t, excepted)

	detached := repo.bookings[2]
	require.NotNil(t, detached)
	assert.Nil(t, detached.Pattern)
	assert.Equal(t, at(6, 10, 0), detached.From)
	assert.Equal(t, at(6, 11, 0), detached.To)
}

func TestUpdateBooking_ShiftsSeriesAndExceptions(t *testing.T) {
	s, repo, _ := newTestService()
	ctx := context.Background()

	series := singleBooking(1, at(4, 9, 0), at(4, 10, 0))
	series.Pattern = &model.RecurrencePattern{Type: model.PatternDaily, Interval: 1}
	_, err := s.CreateBooking(ctx, series)
	require.NoError(t, err)
	require.NoError(t, s.DeleteBookingOccurrence(ctx, 1, at(5, 9, 0)))

	// Editing the March 6 occurrence an hour later shifts the whole series.
	info := &model.BookingUpdate{
		RoomID: 1,
		Title:  "rehearsal",
		From:   at(6, 10, 0),
		To:     at(6, 11, 0),
	}
	require.NoError(t, s.UpdateBooking(ctx, 1, at(6, 9, 0), info))

	stored := repo.bookings[1]
	assert.Equal(t, at(4, 10, 0), stored.From)
	assert.Equal(t, at(4, 11, 0), stored.To)
	assert.Equal(t, at(4, 10, 0), stored.Range.StartDate)

	_, shifted := stored.Exceptions[at(5, 10, 0).Unix()]
	assert.True(t, shifted)
}

func TestListConflicts_ReportsPairsOnce(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	first := singleBooking(1, at(4, 10, 0), at(4, 11, 0))
	first.AllowConcurrent = true
	_, err := s.CreateBooking(ctx, first)
	require.NoError(t, err)

	// The concurrent flag lets this one in; it still overlaps.
	second := singleBooking(1, at(4, 10, 30), at(4, 11, 30))
	second.AllowConcurrent = true
	_, err = s.CreateBooking(ctx, second)
	require.NoError(t, err)

	third := singleBooking(2, at(4, 10, 0), at(4, 11, 0))
	_, err = s.CreateBooking(ctx, third)
	require.NoError(t, err)

	conflicts, err := s.ListConflicts(ctx, model.BookingsFilter{From: at(4, 0, 0), To: at(5, 0, 0)})
	require.NoError(t, err)

	// Both overlapping bookings allow concurrency, so nothing conflicts.
	assert.Empty(t, conflicts)
}

func TestListConflicts_FindsRoomCollision(t *testing.T) {
	s, repo, _ := newTestService()
	ctx := context.Background()

	_, err := s.CreateBooking(ctx, singleBooking(1, at(4, 10, 0), at(4, 11, 0)))
	require.NoError(t, err)

	// Bypass the create-time check to simulate a legacy double booking.
	_, err = repo.CreateBooking(ctx, nil, &model.Booking{
		Exceptions:    map[int64]struct{}{},
		BookingCreate: *singleBooking(1, at(4, 10, 30), at(4, 11, 30)),
	})
	require.NoError(t, err)

	conflicts, err := s.ListConflicts(ctx, model.BookingsFilter{From: at(4, 0, 0), To: at(5, 0, 0)})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.NotEqual(t, conflicts[0].A.ID, conflicts[0].B.ID)
}
