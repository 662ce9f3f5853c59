package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
)

// Location represents one office of the practice. The key is the stable
// identifier bookings reference; the name is what staff see.
type Location struct {
	sharedDomain.BaseEntity
	key    string
	name   string
	weekly WeeklyHours
}

// WeeklyHours maps a weekday to its declared hours. Days with no entry
// fall back to the practice default.
type WeeklyHours map[time.Weekday]DayHours

// NewLocation creates a location with the given key and display name.
func NewLocation(key, name string, weekly WeeklyHours) (*Location, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrLocationKeyRequired
	}
	if strings.TrimSpace(name) == "" {
		name = key
	}
	if weekly == nil {
		weekly = WeeklyHours{}
	}
	return &Location{
		BaseEntity: sharedDomain.NewBaseEntity(),
		key:        key,
		name:       name,
		weekly:     weekly,
	}, nil
}

// RehydrateLocation reconstructs a location from persistence.
func RehydrateLocation(id uuid.UUID, key, name string, weekly WeeklyHours, createdAt, updatedAt time.Time) *Location {
	if weekly == nil {
		weekly = WeeklyHours{}
	}
	return &Location{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		key:        key,
		name:       name,
		weekly:     weekly,
	}
}

func (l *Location) Key() string         { return l.key }
func (l *Location) Name() string        { return l.name }
func (l *Location) Weekly() WeeklyHours { return l.weekly }

// HoursOn resolves the location's hours for a weekday. A weekday with no
// declared entry counts as open for the default day.
func (l *Location) HoursOn(day time.Weekday) DayHours {
	if h, ok := l.weekly[day]; ok {
		return h
	}
	return DefaultDayHours()
}

// SetHours declares or replaces the hours for one weekday.
func (l *Location) SetHours(day time.Weekday, hours DayHours) {
	l.weekly[day] = hours
	l.Touch()
}

// Rename changes the display name.
func (l *Location) Rename(name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	l.name = name
	l.Touch()
}
