package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/roomly/booking-calendar-backend/internal/business/bookings"
	"github.com/roomly/booking-calendar-backend/internal/database"
	"github.com/roomly/booking-calendar-backend/internal/model"
	"github.com/roomly/booking-calendar-backend/internal/pkg/metrics"
	"github.com/roomly/booking-calendar-backend/internal/schedule/overlap"
)

type Api struct {
	handler http.Handler
	logger  *zap.SugaredLogger

	db       database.PGX
	bookings bookingsService
	rooms    roomsRepository
}

type bookingsService interface {
	CreateBooking(ctx context.Context, info *model.BookingCreate) (*model.Booking, error)
	GetBookings(ctx context.Context, filter model.BookingsFilter) ([]*model.Booking, error)
	GetBookingByID(ctx context.Context, id int64, ts time.Time) (*model.Booking, error)
	UpdateBooking(ctx context.Context, id int64, ts time.Time, info *model.BookingUpdate) error
	UpdateBookingOccurrence(ctx context.Context, id int64, ts time.Time, info *model.BookingUpdate) error
	DeleteBooking(ctx context.Context, id int64) error
	DeleteBookingOccurrence(ctx context.Context, id int64, ts time.Time) error
	RescheduleBooking(ctx context.Context, id int64, ts time.Time, pixelOffset, pixelsPerHour float64) (*model.Booking, error)
	ListConflicts(ctx context.Context, filter model.BookingsFilter) ([]bookings.ConflictPair, error)
	CountOverlaps(ctx context.Context, filter model.BookingsFilter, scope overlap.CountScope) ([]bookings.OccurrenceOverlaps, error)
}

type roomsRepository interface {
	CreateRoom(ctx context.Context, q database.Queryable, room *model.RoomCreate) (int64, error)
	GetRoom(ctx context.Context, q database.Queryable, id int64) (*model.Room, error)
	GetRooms(ctx context.Context, q database.Queryable) ([]*model.Room, error)
	UpdateRoom(ctx context.Context, q database.Queryable, room *model.Room) error
	GetRoomSettings(ctx context.Context, q database.Queryable, filter model.RoomSettingsFilter) ([]*model.RoomSettings, error)
	UpdateRoomSettings(ctx context.Context, q database.Queryable, settings *model.RoomSettings) error
}

func NewApi(
	logger *zap.SugaredLogger,
	db database.PGX,
	bookings bookingsService,
	rooms roomsRepository,
) (*Api, error) {
	a := &Api{
		logger:   logger,
		db:       db,
		bookings: bookings,
		rooms:    rooms,
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes, metrics.Middleware)
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", a.createBookingHandler)
		r.Get("/", a.getBookingsHandler)
		r.Get("/layout", a.getLayoutHandler)
		r.Get("/conflicts", a.getConflictsHandler)
		r.Get("/overlaps", a.getOverlapsHandler)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.getBookingHandler)
			r.Put("/", a.updateBookingHandler)
			r.Delete("/", a.deleteBookingHandler)
			r.Put("/occurrence", a.updateBookingOccurrenceHandler)
			r.Delete("/occurrence", a.deleteBookingOccurrenceHandler)
			r.Post("/reschedule", a.rescheduleBookingHandler)
		})
	})

	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", a.createRoomHandler)
		r.Get("/", a.getRoomsHandler)
		r.Put("/{id}", a.updateRoomHandler)
		r.Get("/settings", a.getRoomSettingsHandler)
		r.Put("/settings/{id}", a.updateRoomSettingsHandler)
	})

	r.Route("/recurrence", func(r chi.Router) {
		r.Post("/preview", a.previewRecurrenceHandler)
		r.Post("/graph", a.graphRecurrenceHandler)
	})

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
