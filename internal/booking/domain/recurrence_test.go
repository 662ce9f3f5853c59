package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOccurrences_WeeklyMondays(t *testing.T) {
	// Anchor is itself a Monday; the anchor date is never emitted.
	rule := domain.RecurrenceRule{
		Weekdays:      []time.Weekday{time.Monday},
		IntervalWeeks: 1,
		MaxAdditional: 3,
	}

	got := rule.Occurrences(date(2025, time.November, 10))

	require.Len(t, got, 3)
	assert.Equal(t, date(2025, time.November, 17), got[0])
	assert.Equal(t, date(2025, time.November, 24), got[1])
	assert.Equal(t, date(2025, time.December, 1), got[2])
}

func TestOccurrences_BiweeklyTueThu(t *testing.T) {
	// Anchored on a Tuesday: the Thursday of the anchor's own week still
	// belongs to week 0, week 1 is skipped entirely, week 2 resumes.
	rule := domain.RecurrenceRule{
		Weekdays:      []time.Weekday{time.Tuesday, time.Thursday},
		IntervalWeeks: 2,
		MaxAdditional: 3,
	}

	anchor := date(2025, time.November, 4)
	got := rule.Occurrences(anchor)

	require.Len(t, got, 3)
	assert.Equal(t, date(2025, time.November, 6), got[0])
	assert.Equal(t, date(2025, time.November, 18), got[1])
	assert.Equal(t, date(2025, time.November, 20), got[2])

	for i, d := range got {
		assert.True(t, d.After(anchor), "occurrence %d must be after the anchor", i)
		weeks := int(d.Sub(anchor)/(24*time.Hour)) / 7
		assert.Zero(t, weeks%2, "occurrence %d must land in an even week offset", i)
	}
}

func TestOccurrences_UntilTerminator(t *testing.T) {
	rule := domain.RecurrenceRule{
		Weekdays:      []time.Weekday{time.Friday},
		IntervalWeeks: 1,
		Until:         date(2025, time.November, 28), // inclusive
	}

	got := rule.Occurrences(date(2025, time.November, 10))

	require.Len(t, got, 3)
	assert.Equal(t, date(2025, time.November, 14), got[0])
	assert.Equal(t, date(2025, time.November, 21), got[1])
	assert.Equal(t, date(2025, time.November, 28), got[2])
}

func TestOccurrences_StrictlyIncreasingNoDuplicates(t *testing.T) {
	rule := domain.RecurrenceRule{
		Weekdays:      []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		IntervalWeeks: 3,
		MaxAdditional: 20,
	}

	got := rule.Occurrences(date(2025, time.November, 5))

	require.Len(t, got, 20)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].After(got[i-1]), "dates must be strictly increasing")
	}
}

func TestOccurrences_EdgeCases(t *testing.T) {
	anchor := date(2025, time.November, 10)

	t.Run("empty weekday set", func(t *testing.T) {
		rule := domain.RecurrenceRule{IntervalWeeks: 1, MaxAdditional: 5}
		assert.Empty(t, rule.Occurrences(anchor))
	})

	t.Run("zero max additional", func(t *testing.T) {
		rule := domain.RecurrenceRule{
			Weekdays:      []time.Weekday{time.Monday},
			IntervalWeeks: 1,
		}
		assert.Empty(t, rule.Occurrences(anchor))
	})

	t.Run("until before anchor", func(t *testing.T) {
		rule := domain.RecurrenceRule{
			Weekdays:      []time.Weekday{time.Monday},
			IntervalWeeks: 1,
			Until:         date(2025, time.November, 3),
		}
		assert.Empty(t, rule.Occurrences(anchor))
	})

	t.Run("interval coerced to one", func(t *testing.T) {
		rule := domain.RecurrenceRule{
			Weekdays:      []time.Weekday{time.Monday},
			IntervalWeeks: 0,
			MaxAdditional: 2,
		}
		got := rule.Occurrences(anchor)
		require.Len(t, got, 2)
		assert.Equal(t, date(2025, time.November, 17), got[0])
		assert.Equal(t, date(2025, time.November, 24), got[1])
	})
}

func TestOccurrences_OutOfRangeWeekdaysIgnored(t *testing.T) {
	anchor := date(2025, time.November, 10)

	t.Run("only invalid weekdays", func(t *testing.T) {
		// No calendar day can ever match; the scan must still terminate.
		rule := domain.RecurrenceRule{
			Weekdays:      []time.Weekday{time.Weekday(9)},
			IntervalWeeks: 1,
			MaxAdditional: 1,
		}
		assert.Empty(t, rule.Occurrences(anchor))
	})

	t.Run("mixed valid and invalid", func(t *testing.T) {
		rule := domain.RecurrenceRule{
			Weekdays:      []time.Weekday{time.Weekday(-1), time.Monday, time.Weekday(7)},
			IntervalWeeks: 1,
			MaxAdditional: 2,
		}
		got := rule.Occurrences(anchor)
		require.Len(t, got, 2)
		assert.Equal(t, date(2025, time.November, 17), got[0])
		assert.Equal(t, date(2025, time.November, 24), got[1])
	})
}
