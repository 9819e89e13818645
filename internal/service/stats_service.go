package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/checkin-service/internal/events"
	"github.com/spec-kit/checkin-service/internal/persistence"
	"github.com/spec-kit/checkin-service/internal/repository"
)

const dayCountCacheTTL = 30 * 24 * time.Hour

// StatsService keeps per-day check-in counters in Redis for cheap dashboard
// reads. Redis is advisory: on a miss or outage the count comes from
// Postgres and the cache is repaired best-effort.
type StatsService struct {
	redis   *persistence.Redis
	records repository.AttendanceRepository
	eventID string
	logger  *zap.Logger
}

// NewStatsService builds the service.
func NewStatsService(redis *persistence.Redis, records repository.AttendanceRepository, eventID string, logger *zap.Logger) *StatsService {
	return &StatsService{redis: redis, records: records, eventID: eventID, logger: logger}
}

// RegisterHandlers subscribes the counter updates to ledger events.
func (s *StatsService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventAttendanceRecorded, s.handleAttendanceRecorded)
}

func (s *StatsService) handleAttendanceRecorded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AttendanceRecordedPayload)
	if !ok {
		return nil
	}
	if s.redis == nil || s.redis.Client == nil {
		return nil
	}
	if err := s.redis.Client.Incr(ctx, s.dayKey(payload.Day)).Err(); err != nil {
		s.logger.Warn("day counter increment failed", zap.Int("day", payload.Day), zap.Error(err))
	}
	return nil
}

// DayCount returns the number of check-ins recorded for the day.
func (s *StatsService) DayCount(ctx context.Context, day int) (int64, error) {
	if s.redis != nil && s.redis.Client != nil {
		count, err := s.redis.Client.Get(ctx, s.dayKey(day)).Int64()
		if err == nil {
			return count, nil
		}
	}

	count, err := s.records.CountByDay(ctx, day)
	if err != nil {
		return 0, err
	}

	if s.redis != nil && s.redis.Client != nil {
		if err := s.redis.Client.Set(ctx, s.dayKey(day), count, dayCountCacheTTL).Err(); err != nil {
			s.logger.Warn("day counter backfill failed", zap.Int("day", day), zap.Error(err))
		}
	}
	return count, nil
}

func (s *StatsService) dayKey(day int) string {
	return fmt.Sprintf("checkin:%s:day:%d", s.eventID, day)
}
