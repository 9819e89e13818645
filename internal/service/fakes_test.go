package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/checkin-service/internal/calendar"
	"github.com/spec-kit/checkin-service/internal/domain"
	"github.com/spec-kit/checkin-service/internal/events"
	"github.com/spec-kit/checkin-service/internal/repository"
)

// fakeAttendanceRepo mimics the Postgres unique-constraint semantics of
// AttendanceRepository under a single mutex.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*domain.AttendanceRecord
	failErr error
	calls   int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*domain.AttendanceRecord)}
}

func attendanceKey(attendeeID string, day int) string {
	return fmt.Sprintf("%s|%d", attendeeID, day)
}

func (f *fakeAttendanceRepo) seed(record domain.AttendanceRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[attendanceKey(record.AttendeeID, record.Day)] = &record
}

func (f *fakeAttendanceRepo) checkInCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAttendanceRepo) CheckIn(_ context.Context, attendeeID string, day int, scannerID string) (*domain.AttendanceRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.failErr != nil {
		return nil, false, f.failErr
	}
	if existing, ok := f.records[attendanceKey(attendeeID, day)]; ok {
		copied := *existing
		return &copied, false, nil
	}

	record := &domain.AttendanceRecord{
		ID:         uuid.NewString(),
		AttendeeID: attendeeID,
		Day:        day,
		ScannerID:  scannerID,
		ScannedAt:  time.Now().UTC(),
	}
	f.records[attendanceKey(attendeeID, day)] = record
	copied := *record
	return &copied, true, nil
}

func (f *fakeAttendanceRepo) GetByAttendeeDay(_ context.Context, attendeeID string, day int) (*domain.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[attendanceKey(attendeeID, day)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *record
	return &copied, nil
}

func (f *fakeAttendanceRepo) ListByAttendee(_ context.Context, attendeeID string) ([]domain.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.AttendanceRecord
	for _, record := range f.records {
		if record.AttendeeID == attendeeID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (f *fakeAttendanceRepo) ListByDay(_ context.Context, day int) ([]repository.DayAttendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []repository.DayAttendance
	for _, record := range f.records {
		if record.Day == day {
			result = append(result, repository.DayAttendance{
				AttendeeID: record.AttendeeID,
				ScannerID:  record.ScannerID,
				ScannedAt:  record.ScannedAt,
			})
		}
	}
	return result, nil
}

func (f *fakeAttendanceRepo) CountByDay(_ context.Context, day int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, record := range f.records {
		if record.Day == day {
			count++
		}
	}
	return count, nil
}

// fakeAttendeeRepo is an in-memory AttendeeRepository.
type fakeAttendeeRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Attendee
	failErr error
}

func newFakeAttendeeRepo() *fakeAttendeeRepo {
	return &fakeAttendeeRepo{byID: make(map[string]*domain.Attendee)}
}

func (f *fakeAttendeeRepo) Create(_ context.Context, attendee *domain.Attendee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	if attendee.ID == "" {
		attendee.ID = uuid.NewString()
	}
	attendee.CreatedAt = time.Now().UTC()
	attendee.UpdatedAt = attendee.CreatedAt
	copied := *attendee
	f.byID[attendee.ID] = &copied
	return nil
}

func (f *fakeAttendeeRepo) GetByID(_ context.Context, id string) (*domain.Attendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	attendee, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *attendee
	return &copied, nil
}

func (f *fakeAttendeeRepo) GetByEmail(_ context.Context, email string) (*domain.Attendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	for _, attendee := range f.byID {
		if attendee.Email == email {
			copied := *attendee
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAttendeeRepo) List(_ context.Context, _, _ int) ([]domain.Attendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Attendee
	for _, attendee := range f.byID {
		result = append(result, *attendee)
	}
	return result, nil
}

func (f *fakeAttendeeRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

// recordingDispatcher counts published events per type.
type recordingDispatcher struct {
	mu        sync.Mutex
	published map[events.EventType]int
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{published: make(map[events.EventType]int)}
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published[event.Type]++
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) count(eventType events.EventType) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.published[eventType]
}

// activeCalendar places the current instant inside day 1 of a 3-day event.
func activeCalendar() *calendar.Calendar {
	return calendar.New(time.Now().Add(-12*time.Hour), 3)
}

// inactiveCalendar places the event entirely in the future.
func inactiveCalendar() *calendar.Calendar {
	return calendar.New(time.Now().Add(48*time.Hour), 3)
}
