// Package timezone converts between civil times in named IANA zones and UTC instants.
//
// Civil times of day use the "HH:mm:ss" layout and civil dates the "DD-MM-YYYY" layout.
// All functions are pure apart from CivilTimeToUTC, which reads the wall clock.
package timezone

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	TimeOfDayLayout = "15:04:05"
	CivilDateLayout = "02-01-2006"
)

var (
	ErrInvalidTimeFormat        = errors.New("invalid time format")
	ErrInvalidTimezoneOrInstant = errors.New("invalid timezone or instant")
)

var (
	timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)
	civilDatePattern = regexp.MustCompile(`^[0-9]{2}-[0-9]{2}-[0-9]{4}$`)
)

// TimeOfDay is a parsed "HH:mm:ss" value.
type TimeOfDay struct {
	Hour, Minute, Second int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Seconds returns the offset from midnight in seconds.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// CivilDate is a calendar date without a zone.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
}

// AddDays moves the date by n calendar days.
func (d CivilDate) AddDays(n int) CivilDate {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// Weekday returns the day of week of the date (0 = Sunday).
func (d CivilDate) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) CivilDate {
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// LoadLocation resolves an IANA zone name. Empty names and "Local" are rejected
// so results never depend on the host configuration.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: timezone %q", ErrInvalidTimezoneOrInstant, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q", ErrInvalidTimezoneOrInstant, name)
	}
	return loc, nil
}

// ValidTimezone reports whether name resolves to a known zone.
func ValidTimezone(name string) bool {
	_, err := LoadLocation(name)
	return err == nil
}

// ParseTimeOfDay parses exactly "HH:mm:ss".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	if !timeOfDayPattern.MatchString(value) {
		return TimeOfDay{}, fmt.Errorf("%w: %q, expected HH:mm:ss", ErrInvalidTimeFormat, value)
	}
	h, _ := strconv.Atoi(value[0:2])
	m, _ := strconv.Atoi(value[3:5])
	s, _ := strconv.Atoi(value[6:8])
	return TimeOfDay{Hour: h, Minute: m, Second: s}, nil
}

// ParseCivilDate parses exactly "DD-MM-YYYY" and rejects impossible dates such as 31-02-2026.
func ParseCivilDate(value string) (CivilDate, error) {
	if !civilDatePattern.MatchString(value) {
		return CivilDate{}, fmt.Errorf("%w: %q, expected DD-MM-YYYY", ErrInvalidTimeFormat, value)
	}
	t, err := time.Parse(CivilDateLayout, value)
	if err != nil {
		return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}
	return DateOf(t), nil
}

// Compose builds the instant for a civil date and time in loc. Local times that do not
// exist (DST spring-forward gaps) fail with ErrInvalidTimezoneOrInstant.
func Compose(date CivilDate, tod TimeOfDay, loc *time.Location) (time.Time, error) {
	t := time.Date(date.Year, date.Month, date.Day, tod.Hour, tod.Minute, tod.Second, 0, loc)
	if DateOf(t) != date || t.Hour() != tod.Hour || t.Minute() != tod.Minute || t.Second() != tod.Second {
		return time.Time{}, fmt.Errorf("%w: %s %s does not exist in %s", ErrInvalidTimezoneOrInstant, date, tod, loc)
	}
	return t, nil
}

// CivilTimeToUTC anchors timeOfDay on the current date in civilTimezone and returns the UTC instant.
func CivilTimeToUTC(timeOfDay, civilTimezone string) (time.Time, error) {
	return CivilTimeToUTCAt(timeOfDay, civilTimezone, time.Now())
}

// CivilTimeToUTCAt is CivilTimeToUTC with an explicit "now".
func CivilTimeToUTCAt(timeOfDay, civilTimezone string, now time.Time) (time.Time, error) {
	tod, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	loc, err := LoadLocation(civilTimezone)
	if err != nil {
		return time.Time{}, err
	}
	t, err := Compose(DateOf(now.In(loc)), tod, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// UTCToCivilTime formats instant as "HH:mm:ss" in civilTimezone.
func UTCToCivilTime(instant time.Time, civilTimezone string) (string, error) {
	loc, err := LoadLocation(civilTimezone)
	if err != nil {
		return "", err
	}
	return instant.In(loc).Format(TimeOfDayLayout), nil
}

// ConvertCivilDateTime composes date ("DD-MM-YYYY") and timeOfDay in fromTz and
// re-expresses the instant in toTz.
func ConvertCivilDateTime(date, timeOfDay, fromTz, toTz string) (time.Time, error) {
	d, err := ParseCivilDate(date)
	if err != nil {
		return time.Time{}, err
	}
	tod, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	from, err := LoadLocation(fromTz)
	if err != nil {
		return time.Time{}, err
	}
	to, err := LoadLocation(toTz)
	if err != nil {
		return time.Time{}, err
	}
	t, err := Compose(d, tod, from)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(to), nil
}

// StartOfDay returns the first instant whose local date in loc is date or later.
// That is local midnight on ordinary days, the first existing instant when a
// transition swallows midnight, and the start of the next existing day when the
// zone skipped date entirely.
func StartOfDay(date CivilDate, loc *time.Location) time.Time {
	base := time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, time.UTC)
	// no zone is ahead of UTC by more than a day, so this is still on an earlier date
	t := base.Add(-26 * time.Hour).In(loc)
	for i := 0; i < 64; i++ {
		_, offset := t.Zone()
		_, end := t.ZoneBounds()
		c := base.Add(-time.Duration(offset) * time.Second)
		if c.Before(t) {
			c = t
		}
		if end.IsZero() || c.Before(end) {
			return c.In(loc)
		}
		t = end.In(loc)
	}
	return time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, loc)
}

// DayExists reports whether date occurs on the local calendar of loc. A few zones
// skipped whole days when they crossed the date line.
func DayExists(date CivilDate, loc *time.Location) bool {
	return DateOf(StartOfDay(date, loc)) == date
}
