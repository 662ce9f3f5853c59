package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	"github.com/felixgeelhaar/praxis/internal/export"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteICS(t *testing.T) {
	day := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)

	appt, err := domain.NewAppointment(
		uuid.New(), uuid.New(),
		"north", "Wellness Exam", "#FF6B6B",
		day, sharedDomain.MustTimeOfDay("09:00"), sharedDomain.MustTimeOfDay("09:30"),
	)
	require.NoError(t, err)
	appt.SetNote("first visit")

	block, err := domain.NewBlock(uuid.Nil, "north", "Lunch", day,
		sharedDomain.MustTimeOfDay("12:00"), sharedDomain.MustTimeOfDay("13:00"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteICS(&buf, []*domain.Booking{appt, block}))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Wellness Exam")
	assert.Contains(t, out, "SUMMARY:Blocked: Lunch")
	assert.Contains(t, out, "DTSTART:20251110T090000Z")
	assert.Contains(t, out, "DTEND:20251110T093000Z")
	assert.Contains(t, out, "LOCATION:north")
	assert.Contains(t, out, "DESCRIPTION:first visit")
	assert.Contains(t, out, appt.ID().String()+"@praxis")
}

func TestWriteICS_EmptySchedule(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteICS(&buf, nil))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "VERSION:2.0")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
