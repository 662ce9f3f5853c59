package domain

import (
	"sort"
	"time"
)

// RecurrenceRule describes a repeating booking: which weekdays it repeats
// on, how many weeks apart, and when the series stops. Exactly one
// terminator applies: MaxAdditional when Until is zero, Until otherwise.
type RecurrenceRule struct {
	Weekdays      []time.Weekday
	IntervalWeeks int
	MaxAdditional int       // occurrences to generate beyond the anchor
	Until         time.Time // inclusive series end date
}

// Occurrences generates the future dates of the series, strictly after the
// anchor, sorted ascending and deduplicated.
//
// The scan walks one calendar day at a time starting the day after the
// anchor. A candidate qualifies when its weekday is in the target set and
// the whole-week distance from the anchor, floor-divided, is congruent to
// zero modulo the interval. The interval therefore stays pinned to the
// anchor's own week: "every 2 weeks on Tue/Thu" anchored on a Tuesday
// emits the remaining Thu of week 0, skips week 1 entirely, and resumes in
// week 2.
func (r RecurrenceRule) Occurrences(anchor time.Time) []time.Time {
	if len(r.Weekdays) == 0 {
		return nil
	}

	interval := r.IntervalWeeks
	if interval < 1 {
		interval = 1
	}

	counted := r.Until.IsZero()
	if counted && r.MaxAdditional <= 0 {
		return nil
	}

	anchorDay := NormalizeDate(anchor)
	var until time.Time
	if !counted {
		until = NormalizeDate(r.Until)
		if until.Before(anchorDay) {
			return nil
		}
	}

	// Out-of-range weekdays can never match a calendar day; dropping
	// them keeps the scan finite for rules built from raw integers.
	targets := make(map[time.Weekday]bool, len(r.Weekdays))
	for _, wd := range r.Weekdays {
		if wd >= time.Sunday && wd <= time.Saturday {
			targets[wd] = true
		}
	}
	if len(targets) == 0 {
		return nil
	}

	var out []time.Time
	for day := anchorDay.AddDate(0, 0, 1); ; day = day.AddDate(0, 0, 1) {
		if counted {
			if len(out) >= r.MaxAdditional {
				break
			}
		} else if day.After(until) {
			break
		}

		weeks := int(day.Sub(anchorDay)/(24*time.Hour)) / 7
		if targets[day.Weekday()] && weeks%interval == 0 {
			out = append(out, day)
		}
	}

	return sortedUniqueDates(out)
}

// sortedUniqueDates sorts ascending and removes duplicates. The day scan
// cannot produce duplicates on its own; this guards future merged inputs.
func sortedUniqueDates(dates []time.Time) []time.Time {
	if len(dates) == 0 {
		return dates
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	out := dates[:1]
	for _, d := range dates[1:] {
		if !d.Equal(out[len(out)-1]) {
			out = append(out, d)
		}
	}
	return out
}
