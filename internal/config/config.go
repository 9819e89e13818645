package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service. It is built once
// at startup and passed to component constructors; business logic never
// reads the environment directly.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Event        EventConfig
	Credential   CredentialConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN                 string
	MaxConns            int32
	MinConns            int32
	RunMigrations       bool
	ConnMaxIdleSec      int32
	ConnMaxLifeSec      int32
	QueryTimeoutSeconds int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines staff authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	SessionTokenTTLMinutes  int
	PasswordResetTTLMinutes int
	BcryptCost              int
}

// EventConfig describes the event window. StartDate is the calendar date of
// day 1; any time within the first 24 hours after it maps to day 1.
type EventConfig struct {
	ID           string
	StartDate    time.Time
	DurationDays int
}

// CredentialConfig holds the attendee credential trust material. TTLDays is
// deliberately long; credentials stay valid for the whole event.
type CredentialConfig struct {
	Secret           string
	TTLDays          int
	AllowLegacyPlain bool
}

// NotificationConfig holds notification delivery endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	startDate, err := time.Parse("2006-01-02", getEnv("EVENT_START_DATE", "2025-06-25"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_START_DATE: %w", err)
	}

	durationDays := getEnvAsInt("EVENT_DURATION_DAYS", 3)
	if durationDays < 1 {
		return nil, fmt.Errorf("EVENT_DURATION_DAYS must be positive, got %d", durationDays)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "event-checkin-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:                 os.Getenv("POSTGRES_DSN"),
			MaxConns:            int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:            int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:       getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec:      int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:      int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			QueryTimeoutSeconds: getEnvAsInt("POSTGRES_QUERY_TIMEOUT_SECONDS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("AUTH_JWT_SECRET", "dev-secret"),
			SessionTokenTTLMinutes:  getEnvAsInt("AUTH_SESSION_TOKEN_TTL_MINUTES", 720),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Event: EventConfig{
			ID:           getEnv("EVENT_ID", "GHIQS 2025"),
			StartDate:    startDate,
			DurationDays: durationDays,
		},
		Credential: CredentialConfig{
			Secret:           getEnv("CREDENTIAL_SECRET", "dev-credential-secret"),
			TTLDays:          getEnvAsInt("CREDENTIAL_TTL_DAYS", 30),
			AllowLegacyPlain: getEnvAsBool("CREDENTIAL_ALLOW_LEGACY_PLAIN", false),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// QueryTimeout returns the bounded timeout applied to ledger storage calls.
func (p PostgresConfig) QueryTimeout() time.Duration {
	if p.QueryTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.QueryTimeoutSeconds) * time.Second
}

// TTL returns the credential lifetime.
func (c CredentialConfig) TTL() time.Duration {
	days := c.TTLDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
