package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "event-checkin-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())

	assert.Equal(t, "GHIQS 2025", cfg.Event.ID)
	assert.Equal(t, time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC), cfg.Event.StartDate)
	assert.Equal(t, 3, cfg.Event.DurationDays)

	assert.Equal(t, 30*24*time.Hour, cfg.Credential.TTL())
	assert.False(t, cfg.Credential.AllowLegacyPlain)

	assert.Equal(t, 5*time.Second, cfg.Postgres.QueryTimeout())
	assert.Equal(t, 720, cfg.Auth.SessionTokenTTLMinutes)
}

func TestLoad_EventOverrides(t *testing.T) {
	t.Setenv("EVENT_ID", "Summit 2026")
	t.Setenv("EVENT_START_DATE", "2026-03-10")
	t.Setenv("EVENT_DURATION_DAYS", "5")
	t.Setenv("CREDENTIAL_ALLOW_LEGACY_PLAIN", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Summit 2026", cfg.Event.ID)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), cfg.Event.StartDate)
	assert.Equal(t, 5, cfg.Event.DurationDays)
	assert.True(t, cfg.Credential.AllowLegacyPlain)
}

func TestLoad_RejectsBadEventWindow(t *testing.T) {
	t.Run("unparseable start date", func(t *testing.T) {
		t.Setenv("EVENT_START_DATE", "25/06/2025")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("non-positive duration", func(t *testing.T) {
		t.Setenv("EVENT_DURATION_DAYS", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestCredentialTTL_FallsBackWhenUnset(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, CredentialConfig{}.TTL())
	assert.Equal(t, 48*time.Hour, CredentialConfig{TTLDays: 2}.TTL())
}
