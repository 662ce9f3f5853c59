package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
)

// DayHours describes whether an office is open on a given weekday and,
// when open, between which clock times.
type DayHours struct {
	Open  bool
	Start sharedDomain.TimeOfDay
	End   sharedDomain.TimeOfDay
}

// DefaultDayHours is the practice-wide fallback of 08:00 to 17:00 used
// when a location has not declared hours for a weekday.
func DefaultDayHours() DayHours {
	return DayHours{
		Open:  true,
		Start: sharedDomain.MustTimeOfDay("08:00"),
		End:   sharedDomain.MustTimeOfDay("17:00"),
	}
}

// MergedHours is the envelope across a set of locations for one day: open
// when at least one location is open, spanning the earliest open to the
// latest close among the open ones.
type MergedHours struct {
	Open  bool
	Start sharedDomain.TimeOfDay
	End   sharedDomain.TimeOfDay
}

// OpenRange returns the merged window as decimal hours, the unit the
// layout math works in.
func (m MergedHours) OpenRange() (startHour, endHour float64) {
	return m.Start.Hours(), m.End.Hours()
}

// MergedHoursFor resolves the merged envelope for a date across the given
// locations. When every location is closed the result carries the first
// location's declared range with Open false, so a closed day still renders
// a frame. An empty location set yields the default day marked closed.
func MergedHoursFor(date time.Time, locations []*Location) MergedHours {
	day := date.Weekday()

	if len(locations) == 0 {
		d := DefaultDayHours()
		return MergedHours{Open: false, Start: d.Start, End: d.End}
	}

	merged := MergedHours{}
	for _, loc := range locations {
		h := loc.HoursOn(day)
		if !h.Open {
			continue
		}
		if !merged.Open {
			merged = MergedHours{Open: true, Start: h.Start, End: h.End}
			continue
		}
		if h.Start.Before(merged.Start) {
			merged.Start = h.Start
		}
		if h.End.After(merged.End) {
			merged.End = h.End
		}
	}
	if merged.Open {
		return merged
	}

	first := locations[0].HoursOn(day)
	return MergedHours{Open: false, Start: first.Start, End: first.End}
}
