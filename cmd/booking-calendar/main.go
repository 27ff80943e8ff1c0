package main

import (
	"context"
	"log"
	"net/http"

	"github.com/xlab/closer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roomly/booking-calendar-backend/internal/api"
	bookings_service "github.com/roomly/booking-calendar-backend/internal/business/bookings"
	"github.com/roomly/booking-calendar-backend/internal/config"
	"github.com/roomly/booking-calendar-backend/internal/database"
	"github.com/roomly/booking-calendar-backend/internal/database/bookings"
	"github.com/roomly/booking-calendar-backend/internal/database/rooms"
	"github.com/roomly/booking-calendar-backend/internal/redis"
)

func main() {
	ctx := context.Background()

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}

	redisPool := redis.NewRedisPool(logger)
	occurrenceCache := redis.NewOccurrenceRepository(redisPool, logger)

	db, err := database.NewPGX(ctx)
	if err != nil {
		log.Fatalf("unable to initialize db: %v", err)
	}
	bookingsRepository := bookings.NewRepository()
	roomsRepository := rooms.NewRepository()

	bookingsService := bookings_service.NewService(db, logger, bookingsRepository, roomsRepository, occurrenceCache)

	api, err := api.NewApi(
		logger,
		db,
		bookingsService,
		roomsRepository,
	)
	if err != nil {
		logger.Fatalw("error initiating api", "err", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		logger.Fatalw("error initiating server logger", "err", err)
	}

	server := &http.Server{
		Addr:     ":" + config.Port(),
		Handler:  api,
		ErrorLog: errLogger,
	}

	logger.Infow("Started server", "port", config.Port())
	logger.Fatalw("server error", "err", server.ListenAndServe())
}

func initLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if config.Production() {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
