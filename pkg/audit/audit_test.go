package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("joe@example.com"))
	assert.Equal(t, "***", MaskEmail("@example.com"))
	assert.Equal(t, "***", MaskEmail("x"))
}

func TestHashValue(t *testing.T) {
	h := HashValue("user-1")
	assert.Len(t, h, 16)
	assert.Equal(t, h, HashValue("user-1"))
	assert.NotEqual(t, h, HashValue("user-2"))
}

func TestLogLevelsAndMasking(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core), "scheduler", "test")

	l.AccessDenied(context.Background(), "user-1", "interview:42", "req-1")
	l.RateLimitTriggered(context.Background(), "10.0.0.1", "curl", "req-2", "/v1/availability/public/:token/slots")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, string(EventAccessDenied), entries[0].Message)
	assert.Equal(t, HashValue("user-1"), entries[0].ContextMap()["subject_value"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "10.0.0.1", entries[1].ContextMap()["subject_value"])
	assert.Contains(t, entries[1].ContextMap()["details"], "/v1/availability/public/:token/slots")
}

func TestDefaultIsSafeBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Default().Log(context.Background(), Event{Event: EventTokenRejected})
	})
}
