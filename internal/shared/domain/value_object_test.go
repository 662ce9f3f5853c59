package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := domain.ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, 510, got.Minutes())
	assert.Equal(t, 8.5, got.Hours())
	assert.Equal(t, "08:30", got.String())
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, input := range []string{"", "25:00", "08:60", "abc", "-1:30", "09:30xyz", "9:30", "9:3", "+1:30", "09-30"} {
		_, err := domain.ParseTimeOfDay(input)
		assert.ErrorIs(t, err, domain.ErrInvalidClockTime, "input %q", input)
	}
}

func TestTimeOfDay_Ordering(t *testing.T) {
	nine := domain.MustTimeOfDay("09:00")
	ten := domain.MustTimeOfDay("10:00")

	assert.True(t, nine.Before(ten))
	assert.True(t, ten.After(nine))
	assert.False(t, nine.After(nine))
	assert.True(t, nine.Equals(domain.TimeOfDayFromMinutes(540)))
}
