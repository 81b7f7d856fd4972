package practice

import (
	"time"

	"github.com/teambition/rrule-go"
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// StartOfDay normalizes t to 00:00:00.000 UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay normalizes t to 23:59:59.999 UTC, making date ranges inclusive.
func EndOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// Expand expands a schedule specification into the ordered list of calendar
// dates (at midnight UTC) on which a practice takes place.
//
// It is pure and never errors on malformed-but-well-typed input: an inverted
// date range or an empty weekday set under the weekly pattern yield an empty
// sequence. Upstream validation is responsible for rejecting those before
// submission; this is only a defensive fallback.
func Expand(spec ScheduleSpec) []time.Time {
	start := StartOfDay(spec.StartDate)
	if spec.ScheduleType != ScheduleMultiple {
		return []time.Time{start}
	}

	end := EndOfDay(spec.EndDate)
	if end.Before(start) {
		return []time.Time{}
	}

	opt := rrule.ROption{Dtstart: start, Until: end}
	switch spec.RepeatPattern {
	case RepeatDaily:
		opt.Freq = rrule.DAILY
	case RepeatWeekly:
		opt.Freq = rrule.WEEKLY
		for _, day := range spec.PracticeDays {
			if wd, ok := ParseWeekday(day); ok {
				opt.Byweekday = append(opt.Byweekday, rruleWeekdays[wd])
			}
		}
		if len(opt.Byweekday) == 0 {
			return []time.Time{}
		}
	default:
		return []time.Time{}
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return []time.Time{}
	}
	return rule.All()
}

// Count reports how many practices a schedule specification expands to.
func Count(spec ScheduleSpec) int {
	return len(Expand(spec))
}
