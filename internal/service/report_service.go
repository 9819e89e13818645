package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/checkin-service/internal/calendar"
	"github.com/spec-kit/checkin-service/internal/domain"
	"github.com/spec-kit/checkin-service/internal/repository"
	apperrors "github.com/spec-kit/checkin-service/pkg/util/errorutil"
)

// DayStat summarizes one event day.
type DayStat struct {
	Day       int   `json:"day"`
	CheckedIn int64 `json:"checked_in"`
}

// EventOverview is the dashboard summary.
type EventOverview struct {
	CurrentDay      int       `json:"current_day"`
	Active          bool      `json:"active"`
	TotalRegistered int64     `json:"total_registered"`
	Days            []DayStat `json:"days"`
}

// ReportService produces attendance views for organizers.
type ReportService struct {
	records   repository.AttendanceRepository
	attendees repository.AttendeeRepository
	stats     *StatsService
	cal       *calendar.Calendar
	logger    *zap.Logger
}

// NewReportService builds the service.
func NewReportService(records repository.AttendanceRepository, attendees repository.AttendeeRepository, stats *StatsService, cal *calendar.Calendar, logger *zap.Logger) *ReportService {
	return &ReportService{records: records, attendees: attendees, stats: stats, cal: cal, logger: logger}
}

// Day lists everyone checked in on the given event day, newest scan first.
func (s *ReportService) Day(ctx context.Context, day int) ([]repository.DayAttendance, error) {
	if err := s.validateDay(day); err != nil {
		return nil, err
	}
	return s.records.ListByDay(ctx, day)
}

// History returns an attendee's check-ins across the event.
func (s *ReportService) History(ctx context.Context, attendeeID string) ([]domain.AttendanceRecord, error) {
	return s.records.ListByAttendee(ctx, attendeeID)
}

// ExportDayCSV streams the day's attendance as CSV.
func (s *ReportService) ExportDayCSV(ctx context.Context, day int, w io.Writer) error {
	rows, err := s.Day(ctx, day)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"attendee_id", "full_name", "email", "organization", "scanner_id", "scanned_at"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.AttendeeID,
			row.FullName,
			row.Email,
			row.Organization,
			row.ScannerID,
			row.ScannedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Overview returns the dashboard summary: current day, total registrations,
// and a per-day check-in count.
func (s *ReportService) Overview(ctx context.Context) (*EventOverview, error) {
	total, err := s.attendees.Count(ctx)
	if err != nil {
		return nil, err
	}

	currentDay := s.cal.CurrentDay(time.Now())
	overview := &EventOverview{
		CurrentDay:      currentDay,
		Active:          currentDay != calendar.DayInactive,
		TotalRegistered: total,
		Days:            make([]DayStat, 0, s.cal.DurationDays()),
	}

	for day := 1; day <= s.cal.DurationDays(); day++ {
		count, err := s.stats.DayCount(ctx, day)
		if err != nil {
			return nil, err
		}
		overview.Days = append(overview.Days, DayStat{Day: day, CheckedIn: count})
	}
	return overview, nil
}

func (s *ReportService) validateDay(day int) error {
	if day < 1 || day > s.cal.DurationDays() {
		return apperrors.NewValidationError(
			fmt.Sprintf("day must be between 1 and %d", s.cal.DurationDays()),
			map[string]any{"day": strconv.Itoa(day)},
		)
	}
	return nil
}
