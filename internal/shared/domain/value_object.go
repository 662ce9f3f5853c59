package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidClockTime indicates a malformed HH:MM wall-clock value.
var ErrInvalidClockTime = errors.New("invalid clock time, expected HH:MM")

// TimeOfDay is a wall-clock time with minute precision, shared across
// bounded contexts. The zero value is midnight.
type TimeOfDay struct {
	minutes int
}

// ParseTimeOfDay parses a zero-padded "HH:MM" string. Anything else,
// including trailing text, is rejected.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return TimeOfDay{}, ErrInvalidClockTime
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return TimeOfDay{}, ErrInvalidClockTime
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return TimeOfDay{}, ErrInvalidClockTime
	}
	return TimeOfDay{minutes: h*60 + m}, nil
}

// MustTimeOfDay parses an "HH:MM" string and panics on failure.
// Intended for constants and tests.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeOfDayFromMinutes builds a TimeOfDay from minutes since midnight.
func TimeOfDayFromMinutes(minutes int) TimeOfDay {
	return TimeOfDay{minutes: minutes}
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.minutes }

// Hours returns the time as a decimal hour (08:30 -> 8.5).
func (t TimeOfDay) Hours() float64 { return float64(t.minutes) / 60 }

// String renders the time as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// MarshalJSON renders the time as a quoted "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON parses a quoted "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ErrInvalidClockTime
	}
	parsed, err := ParseTimeOfDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Before reports whether t is earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool { return t.minutes < other.minutes }

// After reports whether t is later than other.
func (t TimeOfDay) After(other TimeOfDay) bool { return t.minutes > other.minutes }

// Equals reports whether two times are the same minute.
func (t TimeOfDay) Equals(other TimeOfDay) bool { return t.minutes == other.minutes }
