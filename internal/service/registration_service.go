package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/checkin-service/internal/credential"
	"github.com/spec-kit/checkin-service/internal/domain"
	"github.com/spec-kit/checkin-service/internal/events"
	"github.com/spec-kit/checkin-service/internal/repository"
	apperrors "github.com/spec-kit/checkin-service/pkg/util/errorutil"
)

// RegistrationService handles attendee intake and credential issuance.
// Credentials are never stored; they are regenerated on demand from the
// registration record.
type RegistrationService struct {
	attendees  repository.AttendeeRepository
	codec      *credential.Codec
	dispatcher events.Dispatcher
	eventID    string
	logger     *zap.Logger
}

// NewRegistrationService builds the service. dispatcher may be nil.
func NewRegistrationService(attendees repository.AttendeeRepository, codec *credential.Codec, dispatcher events.Dispatcher, eventID string, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{
		attendees:  attendees,
		codec:      codec,
		dispatcher: dispatcher,
		eventID:    eventID,
		logger:     logger,
	}
}

// Register creates a new attendee and returns the signed credential to hand
// back to them. Emails are case-normalized and unique.
func (s *RegistrationService) Register(ctx context.Context, fullName, email, organization, position string) (*domain.Attendee, string, error) {
	fullName = strings.TrimSpace(fullName)
	email = NormalizeEmail(email)
	if fullName == "" || email == "" {
		return nil, "", apperrors.NewValidationError("full name and email are required", nil)
	}

	if _, err := s.attendees.GetByEmail(ctx, email); err == nil {
		return nil, "", apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", err
	}

	attendee := &domain.Attendee{
		FullName:     fullName,
		Email:        email,
		Organization: strings.TrimSpace(organization),
		Position:     strings.TrimSpace(position),
	}
	if err := s.attendees.Create(ctx, attendee); err != nil {
		return nil, "", err
	}

	token, err := s.issue(ctx, attendee)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("attendee registered", zap.String("attendee_id", attendee.ID))
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAttendeeRegistered,
		SubjectID: attendee.ID,
		Timestamp: time.Now(),
		Payload: events.AttendeeRegisteredPayload{
			FullName:     attendee.FullName,
			Email:        attendee.Email,
			Organization: attendee.Organization,
		},
	})

	return attendee, token, nil
}

// Credential regenerates the signed credential for an existing attendee.
func (s *RegistrationService) Credential(ctx context.Context, attendeeID string) (*domain.Attendee, string, error) {
	attendee, err := s.attendees.GetByID(ctx, attendeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.NewNotFound("attendee", map[string]any{"id": attendeeID})
		}
		return nil, "", err
	}

	token, err := s.issue(ctx, attendee)
	if err != nil {
		return nil, "", err
	}
	return attendee, token, nil
}

// List returns registered attendees, newest first.
func (s *RegistrationService) List(ctx context.Context, limit, offset int) ([]domain.Attendee, error) {
	return s.attendees.List(ctx, limit, offset)
}

func (s *RegistrationService) issue(ctx context.Context, attendee *domain.Attendee) (string, error) {
	token, err := s.codec.Issue(credential.Snapshot{
		AttendeeID: attendee.ID,
		Email:      attendee.Email,
		FullName:   attendee.FullName,
		EventID:    s.eventID,
	})
	if err != nil {
		return "", err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCredentialIssued,
		SubjectID: attendee.ID,
		Timestamp: time.Now(),
		Payload: events.CredentialIssuedPayload{
			Email:   attendee.Email,
			EventID: s.eventID,
		},
	})
	return token, nil
}

func (s *RegistrationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique constraint agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
