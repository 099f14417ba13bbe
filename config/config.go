package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	Environment       string
	LogLevel          string
	DBUrl             string
	SupabaseUrl       string
	SupabaseJWTSecret string
	FrontendURL       string
	// Timezone used when neither the request nor the user carries one
	DefaultTimezone string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	RateLimitSlotThreshold int
	// Video room provider
	RoomProviderBaseURL   string
	RoomProviderAccessKey string
	RoomProviderSecret    string
	RoomProviderTimeout   time.Duration
	RoomTokenTTL          time.Duration
	// Recording exports (S3-compatible)
	RecordingsS3Region    string
	RecordingsS3Bucket    string
	RecordingsS3AccessKey string
	RecordingsS3SecretKey string
	RecordingsS3Endpoint  string // optional, for S3-compatible stores
	RecordingsURLTTL      time.Duration
	// Event pipeline
	KafkaBrokers             string
	NotifierGroupID          string
	CalendarSyncGroupID      string
	OutboxPollInterval       time.Duration
	OutboxBatchSize          int
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Google Calendar sync
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	GoogleCalendarID   string
	// Tracing
	OtelEnabled     bool
	OtelEndpoint    string
	OtelSampleRatio float64
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environments inject variables directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBUrl:             getEnv("DATABASE_URL", ""),
		SupabaseUrl:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", getEnv("SUPABASE_JWT_KEY", "")),
		FrontendURL:       strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		DefaultTimezone:   getEnv("DEFAULT_TIMEZONE", "UTC"),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),

		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitSlotThreshold: getEnvInt("RATE_LIMIT_SLOT_THRESHOLD", 60),

		RoomProviderBaseURL:   strings.TrimRight(getEnv("ROOM_PROVIDER_BASE_URL", "https://api.100ms.live/v2"), "/"),
		RoomProviderAccessKey: getEnv("ROOM_PROVIDER_ACCESS_KEY", ""),
		RoomProviderSecret:    getEnv("ROOM_PROVIDER_SECRET", ""),
		RoomProviderTimeout:   getEnvDuration("ROOM_PROVIDER_TIMEOUT", 10*time.Second),
		RoomTokenTTL:          getEnvDuration("ROOM_TOKEN_TTL", 24*time.Hour),

		RecordingsS3Region:    getEnv("RECORDINGS_S3_REGION", "us-east-1"),
		RecordingsS3Bucket:    getEnv("RECORDINGS_S3_BUCKET", ""),
		RecordingsS3AccessKey: getEnv("RECORDINGS_S3_ACCESS_KEY_ID", ""),
		RecordingsS3SecretKey: getEnv("RECORDINGS_S3_SECRET_ACCESS_KEY", ""),
		RecordingsS3Endpoint:  getEnv("RECORDINGS_S3_ENDPOINT", ""),
		RecordingsURLTTL:      getEnvDuration("RECORDINGS_URL_TTL", 15*time.Minute),

		KafkaBrokers:        getEnv("KAFKA_BROKERS", ""),
		NotifierGroupID:     getEnv("NOTIFIER_GROUP_ID", "scheduling-notifier"),
		CalendarSyncGroupID: getEnv("CALENDAR_SYNC_GROUP_ID", "scheduling-calendar-sync"),
		OutboxPollInterval:  getEnvDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:     getEnvInt("OUTBOX_BATCH_SIZE", 50),

		SMTPHost:      getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@scheduling.local"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GoogleCalendarID:   getEnv("GOOGLE_CALENDAR_ID", "primary"),

		OtelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OtelSampleRatio: getEnvFloat("OTEL_SAMPLING_RATIO", 1),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}
	if cfg.RoomProviderAccessKey == "" || cfg.RoomProviderSecret == "" {
		log.Println("WARNING: room provider credentials missing. Booking will fail at room creation.")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "5m")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
