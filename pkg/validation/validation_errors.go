package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to labels shown to users
var FieldLabels = map[string]string{
	"Title":           "Title",
	"Timezone":        "Timezone",
	"StartTime":       "Start time",
	"EndTime":         "End time",
	"Weekday":         "Weekday",
	"SpecificDate":    "Specific date",
	"Date":            "Date",
	"DurationMinutes": "Duration",
	"EventID":         "Event",
	"ApplicationID":   "Application",
	"Invitee":         "Invitee",
	"Status":          "Status",
	"Questions":       "Questions",
	"Key":             "Question key",
	"Label":           "Question label",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s: invalid email format", label)
	case "time_of_day":
		return fmt.Sprintf("%s: must use the HH:mm:ss format", label)
	case "civil_date":
		return fmt.Sprintf("%s: must be a valid DD-MM-YYYY date", label)
	case "iana_tz":
		return fmt.Sprintf("%s: unknown IANA timezone", label)
	case "weekday":
		return fmt.Sprintf("%s: must be between 0 (Sunday) and 6 (Saturday)", label)
	case "excluded_with":
		return fmt.Sprintf("%s: cannot be combined with %s", label, getFieldLabel(param))
	case "required_without":
		return fmt.Sprintf("%s: is required when %s is missing", label, getFieldLabel(param))
	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
