package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"github.com/roomly/booking-calendar-backend/internal/config"
	"github.com/roomly/booking-calendar-backend/internal/model"
	"github.com/roomly/booking-calendar-backend/internal/pkg/metrics"
)

const (
	occurrencePrefix = "bookings:occurrences"
	generationKey    = "bookings:generation"
)

// OccurrenceRepository caches expanded occurrence lists per view window.
// Keys carry a generation counter that every booking mutation bumps, so
// stale windows simply stop being addressed and expire by TTL; nothing is
// deleted eagerly.
type OccurrenceRepository struct {
	pool   *redis.Pool
	logger *zap.SugaredLogger
}

func NewOccurrenceRepository(pool *redis.Pool, logger *zap.SugaredLogger) *OccurrenceRepository {
	return &OccurrenceRepository{
		pool:   pool,
		logger: logger,
	}
}

func (r *OccurrenceRepository) Get(ctx context.Context, filter model.BookingsFilter) ([]*model.Booking, bool, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	key, err := r.key(conn, filter)
	if err != nil {
		return nil, false, err
	}

	data, err := redis.Bytes(conn.Do("GET", key))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			metrics.RecordCacheMiss()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("GET %v: %w", key, err)
	}

	var res []*model.Booking
	if err := json.Unmarshal(data, &res); err != nil {
		// Treat a malformed entry as a miss; it will be overwritten.
		r.logger.Warnw("dropping malformed occurrence cache entry", "key", key, "err", err)
		metrics.RecordCacheMiss()
		return nil, false, nil
	}

	metrics.RecordCacheHit()
	return res, true, nil
}

func (r *OccurrenceRepository) Set(ctx context.Context, filter model.BookingsFilter, occurrences []*model.Booking) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	key, err := r.key(conn, filter)
	if err != nil {
		return err
	}

	data, err := json.Marshal(occurrences)
	if err != nil {
		return fmt.Errorf("marshal occurrences: %w", err)
	}

	if _, err := conn.Do("SET", key, data, "EX", int(config.OccurrenceCacheTTL().Seconds())); err != nil {
		return fmt.Errorf("SET %v: %w", key, err)
	}

	return nil
}

// Invalidate bumps the generation counter, abandoning every cached window.
func (r *OccurrenceRepository) Invalidate(ctx context.Context) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("INCR", generationKey); err != nil {
		return fmt.Errorf("INCR %v: %w", generationKey, err)
	}

	return nil
}

func (r *OccurrenceRepository) key(conn redis.Conn, filter model.BookingsFilter) (string, error) {
	gen, err := redis.Int64(conn.Do("GET", generationKey))
	if err != nil && !errors.Is(err, redis.ErrNil) {
		return "", fmt.Errorf("GET %v: %w", generationKey, err)
	}

	rooms := make([]string, len(filter.RoomIDs))
	for i, id := range filter.RoomIDs {
		rooms[i] = fmt.Sprintf("%v", id)
	}

	return fmt.Sprintf("%v:%v:%v:%v:%v",
		occurrencePrefix,
		gen,
		filter.From.Unix(),
		filter.To.Unix(),
		strings.Join(rooms, ","),
	), nil
}
