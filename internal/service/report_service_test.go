package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/checkin-service/internal/domain"
	apperrors "github.com/spec-kit/checkin-service/pkg/util/errorutil"
)

func newReportFixture() (*ReportService, *fakeAttendanceRepo, *fakeAttendeeRepo) {
	attendance := newFakeAttendanceRepo()
	attendees := newFakeAttendeeRepo()
	stats := NewStatsService(nil, attendance, "GHIQS 2025", zap.NewNop())
	svc := NewReportService(attendance, attendees, stats, activeCalendar(), zap.NewNop())
	return svc, attendance, attendees
}

func TestReportDay_RejectsOutOfRangeDays(t *testing.T) {
	svc, _, _ := newReportFixture()

	for _, day := range []int{0, -1, 4} {
		_, err := svc.Day(context.Background(), day)
		require.Error(t, err)

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	}
}

func TestExportDayCSV(t *testing.T) {
	svc, attendance, _ := newReportFixture()

	scannedAt := time.Date(2025, 6, 25, 10, 30, 0, 0, time.UTC)
	attendance.seed(domain.AttendanceRecord{
		ID:         "rec-1",
		AttendeeID: "attendee-1",
		Day:        1,
		ScannerID:  "gate-a",
		ScannedAt:  scannedAt,
	})

	var buf bytes.Buffer
	require.NoError(t, svc.ExportDayCSV(context.Background(), 1, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"attendee_id", "full_name", "email", "organization", "scanner_id", "scanned_at"}, rows[0])
	assert.Equal(t, "attendee-1", rows[1][0])
	assert.Equal(t, "gate-a", rows[1][4])
	assert.Equal(t, "2025-06-25T10:30:00Z", rows[1][5])
}

func TestExportDayCSV_EmptyDayStillWritesHeader(t *testing.T) {
	svc, _, _ := newReportFixture()

	var buf bytes.Buffer
	require.NoError(t, svc.ExportDayCSV(context.Background(), 2, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestOverview(t *testing.T) {
	svc, attendance, attendees := newReportFixture()

	require.NoError(t, attendees.Create(context.Background(), &domain.Attendee{FullName: "Jane", Email: "jane@example.org"}))
	require.NoError(t, attendees.Create(context.Background(), &domain.Attendee{FullName: "John", Email: "john@example.org"}))

	attendance.seed(domain.AttendanceRecord{ID: "r1", AttendeeID: "a1", Day: 1, ScannedAt: time.Now()})
	attendance.seed(domain.AttendanceRecord{ID: "r2", AttendeeID: "a2", Day: 1, ScannedAt: time.Now()})
	attendance.seed(domain.AttendanceRecord{ID: "r3", AttendeeID: "a1", Day: 2, ScannedAt: time.Now()})

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.True(t, overview.Active)
	assert.Equal(t, 1, overview.CurrentDay)
	assert.Equal(t, int64(2), overview.TotalRegistered)
	require.Len(t, overview.Days, 3)
	assert.Equal(t, DayStat{Day: 1, CheckedIn: 2}, overview.Days[0])
	assert.Equal(t, DayStat{Day: 2, CheckedIn: 1}, overview.Days[1])
	assert.Equal(t, DayStat{Day: 3, CheckedIn: 0}, overview.Days[2])
}
