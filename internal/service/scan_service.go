package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/checkin-service/internal/credential"
	"github.com/spec-kit/checkin-service/internal/domain"
	"github.com/spec-kit/checkin-service/internal/repository"
)

// ScanStatus is the operator-facing outcome of a raw scan.
type ScanStatus string

const (
	ScanAccepted          ScanStatus = "ACCEPTED"
	ScanAlreadyRecorded   ScanStatus = "ALREADY_RECORDED"
	ScanInvalidCredential ScanStatus = "INVALID_CREDENTIAL"
	ScanIdentityMismatch  ScanStatus = "IDENTITY_MISMATCH"
	ScanEventInactive     ScanStatus = "EVENT_INACTIVE"
)

// ScanResult is surfaced to the operator after each scan.
type ScanResult struct {
	Status   ScanStatus               `json:"status"`
	Day      int                      `json:"day,omitempty"`
	Message  string                   `json:"message"`
	Attendee *domain.Attendee         `json:"-"`
	Record   *domain.AttendanceRecord `json:"-"`
}

// Success reports whether the scan resulted in a new attendance record.
func (r *ScanResult) Success() bool {
	return r != nil && r.Status == ScanAccepted
}

// ScanProcessor handles one raw scan payload end to end. Implemented by
// ScanService in-process and by HTTP clients on scanner devices.
type ScanProcessor interface {
	ProcessScan(ctx context.Context, payload, scannerID string) (*ScanResult, error)
}

// ScanService turns raw scan payloads into check-in attempts: decode and
// authenticate the credential, resolve the live registration record, then
// submit to the ledger. Every expected failure becomes a ScanResult; a
// non-nil error means transient storage trouble and is retryable.
type ScanService struct {
	codec     *credential.Codec
	attendees repository.AttendeeRepository
	checkins  *CheckinService
	logger    *zap.Logger
}

// NewScanService builds the orchestration service.
func NewScanService(codec *credential.Codec, attendees repository.AttendeeRepository, checkins *CheckinService, logger *zap.Logger) *ScanService {
	return &ScanService{codec: codec, attendees: attendees, checkins: checkins, logger: logger}
}

// ProcessScan implements ScanProcessor.
func (s *ScanService) ProcessScan(ctx context.Context, payload, scannerID string) (*ScanResult, error) {
	snap, err := s.codec.Decode(payload)
	if err != nil {
		s.logger.Warn("credential rejected", zap.Error(err))
		return &ScanResult{
			Status:  ScanInvalidCredential,
			Message: "Invalid QR code. Please ensure you are scanning a valid event QR code.",
		}, nil
	}

	// The credential proves who issued it, not that the registration still
	// exists unchanged. Resolve the live record and cross-check the email.
	attendee, err := s.attendees.GetByID(ctx, snap.AttendeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &ScanResult{
				Status:  ScanIdentityMismatch,
				Message: "Registration not found. Please contact event organizers.",
			}, nil
		}
		return nil, fmt.Errorf("resolve attendee %s: %w", snap.AttendeeID, err)
	}
	if !strings.EqualFold(attendee.Email, snap.Email) {
		s.logger.Warn("credential email mismatch",
			zap.String("attendee_id", attendee.ID),
		)
		return &ScanResult{
			Status:   ScanIdentityMismatch,
			Message:  "QR code validation failed. Email mismatch detected.",
			Attendee: attendee,
		}, nil
	}

	checkin, err := s.checkins.CheckIn(ctx, attendee.ID, scannerID)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{Day: checkin.Day, Attendee: attendee, Record: checkin.Record}
	switch checkin.Status {
	case CheckinAccepted:
		result.Status = ScanAccepted
		result.Message = fmt.Sprintf("Attendance marked successfully for Day %d!", checkin.Day)
	case CheckinAlreadyRecorded:
		result.Status = ScanAlreadyRecorded
		result.Message = fmt.Sprintf("Attendance already marked for Day %d at %s.",
			checkin.Day, checkin.Record.ScannedAt.Format("15:04"))
	case CheckinEventInactive:
		result.Status = ScanEventInactive
		result.Message = "Event is not currently active. Please check the event dates."
	}
	return result, nil
}
