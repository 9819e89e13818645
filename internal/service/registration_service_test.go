package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/checkin-service/internal/credential"
	"github.com/spec-kit/checkin-service/internal/events"
	apperrors "github.com/spec-kit/checkin-service/pkg/util/errorutil"
)

func newRegistrationFixture() (*RegistrationService, *fakeAttendeeRepo, *credential.Codec, *recordingDispatcher) {
	codec := credential.NewCodec("registration-test-secret", "GHIQS 2025", 30*24*time.Hour, false)
	attendees := newFakeAttendeeRepo()
	dispatcher := newRecordingDispatcher()
	svc := NewRegistrationService(attendees, codec, dispatcher, "GHIQS 2025", zap.NewNop())
	return svc, attendees, codec, dispatcher
}

func TestRegister_IssuesDecodableCredential(t *testing.T) {
	svc, _, codec, dispatcher := newRegistrationFixture()

	attendee, token, err := svc.Register(context.Background(), "  Jane Doe  ", " Jane@Example.ORG ", "Acme", "Engineer")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", attendee.FullName)
	assert.Equal(t, "jane@example.org", attendee.Email, "emails are normalized on intake")
	assert.NotEmpty(t, attendee.ID)

	snap, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, attendee.ID, snap.AttendeeID)
	assert.Equal(t, attendee.Email, snap.Email)
	assert.Equal(t, "GHIQS 2025", snap.EventID)

	assert.Equal(t, 1, dispatcher.count(events.EventAttendeeRegistered))
	assert.Equal(t, 1, dispatcher.count(events.EventCredentialIssued))
}

func TestRegister_RejectsDuplicateEmailRegardlessOfCase(t *testing.T) {
	svc, _, _, _ := newRegistrationFixture()

	_, _, err := svc.Register(context.Background(), "Jane Doe", "jane@example.org", "", "")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "Jane Again", "JANE@example.org", "", "")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestRegister_RequiresNameAndEmail(t *testing.T) {
	svc, _, _, _ := newRegistrationFixture()

	for _, tc := range []struct{ name, email string }{
		{"", "jane@example.org"},
		{"Jane Doe", ""},
		{"   ", "   "},
	} {
		_, _, err := svc.Register(context.Background(), tc.name, tc.email, "", "")
		require.Error(t, err)

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	}
}

func TestCredential_RegeneratesForExistingAttendee(t *testing.T) {
	svc, _, codec, _ := newRegistrationFixture()

	registered, _, err := svc.Register(context.Background(), "Jane Doe", "jane@example.org", "", "")
	require.NoError(t, err)

	attendee, token, err := svc.Credential(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, attendee.ID)

	snap, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, snap.AttendeeID)
}

func TestCredential_UnknownAttendee(t *testing.T) {
	svc, _, _, _ := newRegistrationFixture()

	_, _, err := svc.Credential(context.Background(), "missing-id")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.org", NormalizeEmail("  Jane@Example.ORG "))
	assert.Equal(t, "", NormalizeEmail("   "))
}
