package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/praxis/internal/location/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, key string, weekly domain.WeeklyHours) *domain.Location {
	t.Helper()
	loc, err := domain.NewLocation(key, key, weekly)
	require.NoError(t, err)
	return loc
}

func hours(open bool, start, end string) domain.DayHours {
	return domain.DayHours{
		Open:  open,
		Start: sharedDomain.MustTimeOfDay(start),
		End:   sharedDomain.MustTimeOfDay(end),
	}
}

func TestMergedHoursFor_OneClosedOneOpen(t *testing.T) {
	monday := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)

	a := mustLocation(t, "a", domain.WeeklyHours{
		time.Monday: hours(false, "08:00", "17:00"),
	})
	b := mustLocation(t, "b", domain.WeeklyHours{
		time.Monday: hours(true, "09:00", "18:00"),
	})

	merged := domain.MergedHoursFor(monday, []*domain.Location{a, b})

	assert.True(t, merged.Open)
	assert.Equal(t, "09:00", merged.Start.String())
	assert.Equal(t, "18:00", merged.End.String())

	start, end := merged.OpenRange()
	assert.InDelta(t, 9.0, start, 1e-9)
	assert.InDelta(t, 18.0, end, 1e-9)
}

func TestMergedHoursFor_EnvelopeSpansAllOpenLocations(t *testing.T) {
	tuesday := time.Date(2025, time.November, 11, 0, 0, 0, 0, time.UTC)

	a := mustLocation(t, "a", domain.WeeklyHours{
		time.Tuesday: hours(true, "07:30", "12:00"),
	})
	b := mustLocation(t, "b", domain.WeeklyHours{
		time.Tuesday: hours(true, "10:00", "19:00"),
	})

	merged := domain.MergedHoursFor(tuesday, []*domain.Location{a, b})

	assert.True(t, merged.Open)
	assert.Equal(t, "07:30", merged.Start.String())
	assert.Equal(t, "19:00", merged.End.String())
}

func TestMergedHoursFor_UndeclaredWeekdayDefaultsOpen(t *testing.T) {
	wednesday := time.Date(2025, time.November, 12, 0, 0, 0, 0, time.UTC)

	// No Wednesday entry at all: the location counts as open 08:00-17:00.
	a := mustLocation(t, "a", domain.WeeklyHours{
		time.Monday: hours(false, "08:00", "17:00"),
	})

	merged := domain.MergedHoursFor(wednesday, []*domain.Location{a})

	assert.True(t, merged.Open)
	assert.Equal(t, "08:00", merged.Start.String())
	assert.Equal(t, "17:00", merged.End.String())
}

func TestMergedHoursFor_AllClosedKeepsFirstRange(t *testing.T) {
	sunday := time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC)

	a := mustLocation(t, "a", domain.WeeklyHours{
		time.Sunday: hours(false, "10:00", "14:00"),
	})
	b := mustLocation(t, "b", domain.WeeklyHours{
		time.Sunday: hours(false, "09:00", "13:00"),
	})

	merged := domain.MergedHoursFor(sunday, []*domain.Location{a, b})

	assert.False(t, merged.Open)
	assert.Equal(t, "10:00", merged.Start.String())
	assert.Equal(t, "14:00", merged.End.String())
}

func TestMergedHoursFor_NoLocations(t *testing.T) {
	day := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)

	merged := domain.MergedHoursFor(day, nil)

	assert.False(t, merged.Open)
	assert.Equal(t, "08:00", merged.Start.String())
	assert.Equal(t, "17:00", merged.End.String())
}

func TestNewLocation_RequiresKey(t *testing.T) {
	_, err := domain.NewLocation("  ", "North", nil)
	assert.ErrorIs(t, err, domain.ErrLocationKeyRequired)
}

func TestLocation_SetHours(t *testing.T) {
	loc := mustLocation(t, "north", nil)

	loc.SetHours(time.Friday, hours(true, "08:30", "15:00"))

	got := loc.HoursOn(time.Friday)
	assert.True(t, got.Open)
	assert.Equal(t, "08:30", got.Start.String())
	assert.Equal(t, "15:00", got.End.String())

	assert.Equal(t, domain.DefaultDayHours(), loc.HoursOn(time.Thursday))
}
