package bookings

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/roomly/booking-calendar-backend/internal/database"
	"github.com/roomly/booking-calendar-backend/internal/model"
)

// conflictHorizon bounds how far ahead recurring series are expanded when a
// mutation is checked against existing bookings in the same room. Open-ended
// series past the horizon are assumed conflict-free until a later mutation
// re-checks them.
const conflictHorizon = 365 * 24 * time.Hour

type Service struct {
	db                 database.PGX
	logger             *zap.SugaredLogger
	bookingsRepository bookingsRepository
	roomsRepository    roomsRepository
	occurrenceCache    occurrenceCache
}

type bookingsRepository interface {
	CreateBooking(ctx context.Context, q database.Queryable, booking *model.Booking) (int64, error)
	GetBookingByID(ctx context.Context, q database.Queryable, id int64) (*model.Booking, error)
	GetBookings(ctx context.Context, q database.Queryable, filter model.BookingsFilter) ([]*model.Booking, error)
	UpdateBooking(ctx context.Context, q database.Queryable, booking *model.Booking) error
	DeleteBooking(ctx context.Context, q database.Queryable, id int64) error
}

type roomsRepository interface {
	GetRoom(ctx context.Context, q database.Queryable, id int64) (*model.Room, error)
}

type occurrenceCache interface {
	Get(ctx context.Context, filter model.BookingsFilter) ([]*model.Booking, bool, error)
	Set(ctx context.Context, filter model.BookingsFilter, occurrences []*model.Booking) error
	Invalidate(ctx context.Context) error
}

func NewService(
	db database.PGX,
	logger *zap.SugaredLogger,
	bookingsRepository bookingsRepository,
	roomsRepository roomsRepository,
	occurrenceCache occurrenceCache,
) *Service {
	return &Service{
		db:                 db,
		logger:             logger,
		bookingsRepository: bookingsRepository,
		roomsRepository:    roomsRepository,
		occurrenceCache:    occurrenceCache,
	}
}

// invalidateOccurrences drops cached occurrence windows after a mutation.
// A cache failure must not fail the mutation, stale windows expire by TTL.
func (s *Service) invalidateOccurrences(ctx context.Context) {
	if err := s.occurrenceCache.Invalidate(ctx); err != nil {
		s.logger.Warnw("failed to invalidate occurrence cache", "err", err)
	}
}
