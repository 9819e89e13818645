package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/checkin-service/internal/calendar"
	"github.com/spec-kit/checkin-service/internal/domain"
	"github.com/spec-kit/checkin-service/internal/events"
	"github.com/spec-kit/checkin-service/internal/repository"
)

// CheckinStatus is the outcome of a ledger check-in attempt.
type CheckinStatus string

const (
	CheckinAccepted        CheckinStatus = "ACCEPTED"
	CheckinAlreadyRecorded CheckinStatus = "ALREADY_RECORDED"
	CheckinEventInactive   CheckinStatus = "EVENT_INACTIVE"
)

// CheckinResult reports a check-in outcome. On AlreadyRecorded, Record is
// the original check-in so the operator can be told when it happened.
type CheckinResult struct {
	Status CheckinStatus
	Day    int
	Record *domain.AttendanceRecord
}

// CheckinService is the attendance ledger: the sole authority for the
// at-most-one-record-per-(attendee, day) invariant. Concurrent callers are
// serialized by the storage layer's unique constraint, not by any in-process
// lock; scanner devices share no state other than this ledger.
type CheckinService struct {
	cal            *calendar.Calendar
	records        repository.AttendanceRepository
	dispatcher     events.Dispatcher
	storageTimeout time.Duration
	logger         *zap.Logger
}

// NewCheckinService builds the ledger service. dispatcher may be nil.
func NewCheckinService(cal *calendar.Calendar, records repository.AttendanceRepository, dispatcher events.Dispatcher, storageTimeout time.Duration, logger *zap.Logger) *CheckinService {
	if storageTimeout <= 0 {
		storageTimeout = 5 * time.Second
	}
	return &CheckinService{
		cal:            cal,
		records:        records,
		dispatcher:     dispatcher,
		storageTimeout: storageTimeout,
		logger:         logger,
	}
}

// CheckIn records attendance for the attendee on the currently active event
// day. The calendar is re-evaluated on every call; outside the event window
// the operation fails before touching storage. A non-nil error means a
// transient storage failure and the call is safe to retry: the unique
// constraint makes repeats idempotent.
func (s *CheckinService) CheckIn(ctx context.Context, attendeeID, scannerID string) (*CheckinResult, error) {
	day := s.cal.CurrentDay(time.Now())
	if day == calendar.DayInactive {
		return &CheckinResult{Status: CheckinEventInactive, Day: day}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	record, created, err := s.records.CheckIn(ctx, attendeeID, day, scannerID)
	if err != nil {
		return nil, fmt.Errorf("check in attendee %s day %d: %w", attendeeID, day, err)
	}

	if !created {
		s.logger.Info("duplicate check-in",
			zap.String("attendee_id", attendeeID),
			zap.Int("day", day),
			zap.Time("first_scanned_at", record.ScannedAt),
		)
		return &CheckinResult{Status: CheckinAlreadyRecorded, Day: day, Record: record}, nil
	}

	s.logger.Info("attendance recorded",
		zap.String("attendee_id", attendeeID),
		zap.Int("day", day),
		zap.String("scanner_id", scannerID),
	)
	s.publishRecorded(ctx, record)

	return &CheckinResult{Status: CheckinAccepted, Day: day, Record: record}, nil
}

func (s *CheckinService) publishRecorded(ctx context.Context, record *domain.AttendanceRecord) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAttendanceRecorded,
		SubjectID: record.AttendeeID,
		Timestamp: time.Now(),
		Payload: events.AttendanceRecordedPayload{
			Day:       record.Day,
			ScannerID: record.ScannerID,
			ScannedAt: record.ScannedAt,
		},
	})
}
