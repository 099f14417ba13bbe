package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go-interview-scheduler/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func probe(err error) func(context.Context) error {
	return func(context.Context) error { return err }
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		checks []usecase.HealthCheck
		status string
	}{
		{name: "no checks", status: "ok"},
		{
			name:   "all healthy",
			checks: []usecase.HealthCheck{{Name: "database", Probe: probe(nil)}, {Name: "redis", Optional: true, Probe: probe(nil)}},
			status: "ok",
		},
		{
			name:   "optional failure degrades",
			checks: []usecase.HealthCheck{{Name: "database", Probe: probe(nil)}, {Name: "redis", Optional: true, Probe: probe(errors.New("timeout"))}},
			status: "degraded",
		},
		{
			name:   "required failure is down",
			checks: []usecase.HealthCheck{{Name: "database", Probe: probe(errors.New("refused"))}, {Name: "redis", Optional: true, Probe: probe(errors.New("timeout"))}},
			status: "down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, components := usecase.NewHealthUsecase(tt.checks...).Check(context.Background())
			assert.Equal(t, tt.status, status)
			assert.Len(t, components, len(tt.checks))
		})
	}
}
