// Package slots turns stored availability windows into bookable local-time slots for one date.
package slots

import (
	"fmt"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/timezone"
)

const endOfDayLayout = "23:59:59"

// occurrence is one concrete instance of a window on a source-zone calendar date.
type occurrence struct {
	window domain.TimeWindow
	start  time.Time
	end    time.Time
}

// Derive returns the slots of windows that fall on queryDate ("DD-MM-YYYY") in requesterTz.
// sourceTz is the timezone the windows' civil times were written in.
//
// Specific-date windows are collected first and recurring windows second; the two sets are
// never merged, and both are returned even when they overlap. A window that crosses local
// midnight is split into [start, 23:59:59] and [00:00:00, end]. Only fragments whose local
// date equals queryDate are kept. The result is unsorted.
func Derive(queryDate, requesterTz, sourceTz string, windows []domain.TimeWindow) ([]domain.AdjustedSlot, error) {
	date, err := timezone.ParseCivilDate(queryDate)
	if err != nil {
		return nil, err
	}
	reqLoc, err := timezone.LoadLocation(requesterTz)
	if err != nil {
		return nil, err
	}
	srcLoc, err := timezone.LoadLocation(sourceTz)
	if err != nil {
		return nil, err
	}

	if !timezone.DayExists(date, reqLoc) {
		return nil, fmt.Errorf("%w: %s does not exist in %s", timezone.ErrInvalidTimezoneOrInstant, date, requesterTz)
	}
	dayStart := timezone.StartOfDay(date, reqLoc)
	dayEnd := timezone.StartOfDay(date.AddDays(1), reqLoc)

	// Source-zone dates whose occurrences can touch the requested day. The extra
	// leading day catches overnight windows that began the evening before.
	first := timezone.DateOf(dayStart.In(srcLoc)).AddDays(-1)
	last := timezone.DateOf(dayEnd.Add(-time.Second).In(srcLoc))
	candidates := dateRange(first, last)

	var occurrences []occurrence

	for _, w := range windows {
		if w.SpecificDate == nil || w.Weekday != nil {
			continue
		}
		specific, err := timezone.ParseCivilDate(*w.SpecificDate)
		if err != nil {
			continue
		}
		if !contains(candidates, specific) {
			continue
		}
		if occ, ok := materialize(w, specific, srcLoc); ok {
			occurrences = append(occurrences, occ)
		}
	}

	for _, w := range windows {
		if w.Weekday == nil || w.SpecificDate != nil {
			continue
		}
		for _, d := range candidates {
			if int(d.Weekday()) != *w.Weekday {
				continue
			}
			if occ, ok := materialize(w, d, srcLoc); ok {
				occurrences = append(occurrences, occ)
			}
		}
	}

	slots := make([]domain.AdjustedSlot, 0, len(occurrences))
	for _, occ := range occurrences {
		fragments := split(occ.start.In(reqLoc), occ.end.In(reqLoc), reqLoc)
		for _, f := range fragments {
			if timezone.DateOf(f.start) != date {
				continue
			}
			slots = append(slots, toSlot(occ.window, f, date, requesterTz, len(fragments) > 1))
		}
	}
	return slots, nil
}

// materialize places w on date in loc using the window's civil times in that zone.
// An end at or before the start means the window ends on the following day.
func materialize(w domain.TimeWindow, date timezone.CivilDate, loc *time.Location) (occurrence, bool) {
	startTOD, err := timezone.ParseTimeOfDay(w.StartTime.In(loc).Format(timezone.TimeOfDayLayout))
	if err != nil {
		return occurrence{}, false
	}
	endTOD, err := timezone.ParseTimeOfDay(w.EndTime.In(loc).Format(timezone.TimeOfDayLayout))
	if err != nil {
		return occurrence{}, false
	}
	if startTOD == endTOD {
		return occurrence{}, false
	}

	endDate := date
	if endTOD.Seconds() < startTOD.Seconds() {
		endDate = date.AddDays(1)
	}

	// time.Date shifts nonexistent local times forward across DST gaps
	start := time.Date(date.Year, date.Month, date.Day, startTOD.Hour, startTOD.Minute, startTOD.Second, 0, loc)
	end := time.Date(endDate.Year, endDate.Month, endDate.Day, endTOD.Hour, endTOD.Minute, endTOD.Second, 0, loc)
	if !end.After(start) {
		return occurrence{}, false
	}
	return occurrence{window: w, start: start, end: end}, true
}

type fragment struct {
	start time.Time
	end   time.Time
	// closesDay marks fragments cut at local midnight, rendered as 23:59:59
	closesDay bool
}

// split cuts [start, end) at every local midnight in loc.
func split(start, end time.Time, loc *time.Location) []fragment {
	var out []fragment
	cur := start
	for {
		next := timezone.StartOfDay(timezone.DateOf(cur).AddDays(1), loc)
		if !next.After(cur) {
			// local clock fell back across midnight
			out = append(out, fragment{start: cur, end: end})
			return out
		}
		if !end.After(next) {
			out = append(out, fragment{start: cur, end: end, closesDay: end.Equal(next)})
			return out
		}
		out = append(out, fragment{start: cur, end: next, closesDay: true})
		cur = next
	}
}

func toSlot(w domain.TimeWindow, f fragment, date timezone.CivilDate, tz string, split bool) domain.AdjustedSlot {
	endText := f.end.Format(timezone.TimeOfDayLayout)
	endsAt := f.end
	if f.closesDay {
		endText = endOfDayLayout
		endsAt = f.end.Add(-time.Second)
	}
	return domain.AdjustedSlot{
		WindowID:     w.ID,
		Date:         date.String(),
		StartTime:    f.start.Format(timezone.TimeOfDayLayout),
		EndTime:      endText,
		Timezone:     tz,
		StartsAt:     f.start.UTC(),
		EndsAt:       endsAt.UTC(),
		Weekday:      w.Weekday,
		SpecificDate: w.SpecificDate,
		Split:        split,
	}
}

func dateRange(first, last timezone.CivilDate) []timezone.CivilDate {
	var out []timezone.CivilDate
	for d := first; ; d = d.AddDays(1) {
		out = append(out, d)
		if d == last || len(out) > 3 {
			return out
		}
	}
}

func contains(dates []timezone.CivilDate, d timezone.CivilDate) bool {
	for _, x := range dates {
		if x == d {
			return true
		}
	}
	return false
}
