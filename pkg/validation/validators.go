package validation

import (
	"go-interview-scheduler/internal/timezone"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("time_of_day", TimeOfDay)
	_ = v.RegisterValidation("civil_date", CivilDate)
	_ = v.RegisterValidation("iana_tz", IANATimezone)
	_ = v.RegisterValidation("weekday", Weekday)
}

// TimeOfDay accepts "HH:mm:ss". Empty passes; combine with required if needed.
func TimeOfDay(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := timezone.ParseTimeOfDay(val)
	return err == nil
}

// CivilDate accepts "DD-MM-YYYY" dates that exist on the calendar
func CivilDate(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := timezone.ParseCivilDate(val)
	return err == nil
}

// IANATimezone accepts names resolvable from the tz database
func IANATimezone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return timezone.ValidTimezone(val)
}

// Weekday accepts 0 (Sunday) through 6
func Weekday(fl validator.FieldLevel) bool {
	day := fl.Field().Int()
	return day >= 0 && day <= 6
}
