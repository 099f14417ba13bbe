package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/scheduling")
	t.Setenv("ROOM_TOKEN_TTL", "2h")
	t.Setenv("OUTBOX_BATCH_SIZE", "not-a-number")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "UTC", cfg.DefaultTimezone)
	assert.Equal(t, 2*time.Hour, cfg.RoomTokenTTL)
	assert.Equal(t, 50, cfg.OutboxBatchSize, "invalid ints fall back")
	assert.Equal(t, "https://example.supabase.co", cfg.SupabaseUrl)
	assert.False(t, cfg.IsProduction())
}

func TestGetEnvDurationRejectsNonPositive(t *testing.T) {
	t.Setenv("SOME_TTL", "-5m")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_TTL", time.Minute))
}
