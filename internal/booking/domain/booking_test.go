package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppointment(t *testing.T) {
	providerID := uuid.New()
	patientID := uuid.New()

	b, err := domain.NewAppointment(
		providerID, patientID,
		"north", "Wellness Exam", "#FF6B6B",
		date(2025, time.November, 10),
		sharedDomain.MustTimeOfDay("09:00"),
		sharedDomain.MustTimeOfDay("09:30"),
	)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, domain.KindAppointment, b.Kind())
	assert.Equal(t, providerID, b.ProviderID())
	assert.Equal(t, patientID, b.PatientID())
	assert.Equal(t, "north", b.Location())
	assert.Equal(t, domain.StatusPending, b.Status())
	assert.Equal(t, 30*time.Minute, b.Duration())
	assert.False(t, b.IsBlock())
	require.Len(t, b.DomainEvents(), 1)
}

func TestNewAppointment_Validation(t *testing.T) {
	providerID := uuid.New()
	patientID := uuid.New()
	day := date(2025, time.November, 10)
	nine := sharedDomain.MustTimeOfDay("09:00")
	ten := sharedDomain.MustTimeOfDay("10:00")

	_, err := domain.NewAppointment(providerID, patientID, "north", "Exam", "", day, ten, nine)
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)

	_, err = domain.NewAppointment(providerID, patientID, "north", "Exam", "", day, nine, nine)
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)

	_, err = domain.NewAppointment(providerID, patientID, "", "Exam", "", day, nine, ten)
	assert.ErrorIs(t, err, domain.ErrLocationRequired)

	_, err = domain.NewAppointment(uuid.Nil, patientID, "north", "Exam", "", day, nine, ten)
	assert.ErrorIs(t, err, domain.ErrProviderRequired)

	_, err = domain.NewAppointment(providerID, uuid.Nil, "north", "Exam", "", day, nine, ten)
	assert.ErrorIs(t, err, domain.ErrPatientRequired)
}

func TestNewBlock_AllProviders(t *testing.T) {
	b, err := domain.NewBlock(
		uuid.Nil, "south", "Lunch",
		date(2025, time.November, 10),
		sharedDomain.MustTimeOfDay("12:00"),
		sharedDomain.MustTimeOfDay("13:00"),
	)

	require.NoError(t, err)
	assert.True(t, b.IsBlock())
	assert.True(t, b.BlocksAllProviders())
	assert.Equal(t, uuid.Nil, b.PatientID())
}

func TestBooking_OverlapsWith(t *testing.T) {
	providerID := uuid.New()
	day := date(2025, time.November, 10)

	mk := func(start, end string) *domain.Booking {
		b, err := domain.NewAppointment(
			providerID, uuid.New(), "north", "Exam", "",
			day, sharedDomain.MustTimeOfDay(start), sharedDomain.MustTimeOfDay(end),
		)
		require.NoError(t, err)
		return b
	}

	a := mk("09:00", "10:00")
	assert.True(t, a.OverlapsWith(mk("09:30", "10:30")))
	assert.True(t, a.OverlapsWith(mk("08:30", "09:15")))
	assert.False(t, a.OverlapsWith(mk("10:00", "11:00")), "touching ranges do not overlap")

	other, err := domain.NewAppointment(
		uuid.New(), uuid.New(), "north", "Exam", "",
		day, sharedDomain.MustTimeOfDay("09:00"), sharedDomain.MustTimeOfDay("10:00"),
	)
	require.NoError(t, err)
	assert.False(t, a.OverlapsWith(other), "different providers never conflict")
}

func TestBooking_Reschedule(t *testing.T) {
	b, err := domain.NewAppointment(
		uuid.New(), uuid.New(), "north", "Exam", "",
		date(2025, time.November, 10),
		sharedDomain.MustTimeOfDay("09:00"),
		sharedDomain.MustTimeOfDay("10:00"),
	)
	require.NoError(t, err)

	err = b.Reschedule(date(2025, time.November, 12),
		sharedDomain.MustTimeOfDay("14:00"), sharedDomain.MustTimeOfDay("15:00"))
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.November, 12), b.Date())
	assert.Equal(t, "14:00", b.Start().String())

	err = b.Reschedule(b.Date(),
		sharedDomain.MustTimeOfDay("15:00"), sharedDomain.MustTimeOfDay("14:00"))
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestBooking_AttachRecurrence(t *testing.T) {
	b, err := domain.NewAppointment(
		uuid.New(), uuid.New(), "north", "Exam", "",
		date(2025, time.November, 10),
		sharedDomain.MustTimeOfDay("09:00"),
		sharedDomain.MustTimeOfDay("10:00"),
	)
	require.NoError(t, err)

	err = b.AttachRecurrence(domain.RecurrenceRule{
		Weekdays:      []time.Weekday{time.Monday},
		IntervalWeeks: 1,
		Until:         date(2025, time.November, 3), // before the booking
	})
	assert.ErrorIs(t, err, domain.ErrRecurrenceEndsEarly)

	err = b.AttachRecurrence(domain.RecurrenceRule{
		Weekdays:      []time.Weekday{time.Weekday(9)},
		IntervalWeeks: 1,
		MaxAdditional: 3,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRecurrenceWeekday)

	err = b.AttachRecurrence(domain.RecurrenceRule{
		Weekdays:      []time.Weekday{time.Monday},
		IntervalWeeks: 1,
		MaxAdditional: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, b.Recurrence())
}

func TestBooking_StatusWorkflow(t *testing.T) {
	b, err := domain.NewBlock(
		uuid.New(), "north", "Admin",
		date(2025, time.November, 10),
		sharedDomain.MustTimeOfDay("08:00"),
		sharedDomain.MustTimeOfDay("09:00"),
	)
	require.NoError(t, err)

	require.NoError(t, b.SetStatus(domain.StatusInRoom, "309B"))
	assert.Equal(t, "309B", b.Room())

	require.NoError(t, b.SetStatus(domain.StatusSeen, ""))
	assert.Empty(t, b.Room(), "room clears when leaving in_room")

	assert.ErrorIs(t, b.SetStatus(domain.Status("bogus"), ""), domain.ErrInvalidStatus)
}

func TestRejectionError_Message(t *testing.T) {
	rej := domain.NewOverlapRejection()
	assert.Equal(t, 409, rej.StatusCode)
	assert.Contains(t, rej.Error(), "overlaps with another appointment")
}
