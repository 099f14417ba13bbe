package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type windowPayload struct {
	StartTime    string  `validate:"required,time_of_day"`
	EndTime      string  `validate:"required,time_of_day"`
	Weekday      *int    `validate:"omitempty,weekday"`
	SpecificDate *string `validate:"omitempty,civil_date"`
	Timezone     string  `validate:"omitempty,iana_tz"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidator()
	monday := 1
	date := "29-02-2028"

	tests := []struct {
		name    string
		payload windowPayload
		wantErr bool
	}{
		{"valid recurring", windowPayload{StartTime: "09:00:00", EndTime: "17:00:00", Weekday: &monday, Timezone: "Europe/Berlin"}, false},
		{"valid leap day", windowPayload{StartTime: "09:00:00", EndTime: "10:00:00", SpecificDate: &date}, false},
		{"short time", windowPayload{StartTime: "9:00", EndTime: "17:00:00"}, true},
		{"hour 24", windowPayload{StartTime: "24:00:00", EndTime: "17:00:00"}, true},
		{"weekday 7", windowPayload{StartTime: "09:00:00", EndTime: "17:00:00", Weekday: intPtr(7)}, true},
		{"iso date", windowPayload{StartTime: "09:00:00", EndTime: "17:00:00", SpecificDate: strPtr("2026-10-12")}, true},
		{"unknown zone", windowPayload{StartTime: "09:00:00", EndTime: "17:00:00", Timezone: "Mars/Olympus"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	v := newValidator()
	err := v.Struct(windowPayload{StartTime: "25:00:00", Timezone: "Nowhere"})
	require.Error(t, err)

	messages := FormatValidationErrors(err)
	assert.Contains(t, messages, "Start time: must use the HH:mm:ss format")
	assert.Contains(t, messages, "End time: is required")
	assert.Contains(t, messages, "Timezone: unknown IANA timezone")
}

func TestFormatValidationErrorsPassesOtherErrors(t *testing.T) {
	assert.Equal(t, []string{"boom"}, FormatValidationErrors(errors.New("boom")))
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
