package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/checkin-service/internal/config"
	"github.com/spec-kit/checkin-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Template rendering and SMTP delivery live outside this service; it only
// decides what to send and logs the delivery intent.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAttendeeRegistered, n.handleAttendeeRegistered)
	n.dispatcher.Subscribe(events.EventCredentialIssued, n.handleCredentialIssued)
	n.dispatcher.Subscribe(events.EventAttendanceRecorded, n.handleAttendanceRecorded)
}

func (n *NotificationService) handleAttendeeRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("AttendeeRegistered", zap.String("attendee_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCredentialIssued(ctx context.Context, event events.Event) error {
	n.logger.Info("CredentialIssued", zap.String("attendee_id", event.SubjectID))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAttendanceRecorded(ctx context.Context, event events.Event) error {
	n.logger.Info("AttendanceRecorded", zap.String("attendee_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("attendee_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("attendee_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
