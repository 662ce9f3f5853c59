package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/application/commands"
	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, b *domain.Booking, allowOverlap bool) error {
	args := m.Called(ctx, b, allowOverlap)
	return args.Error(0)
}

func (m *mockStore) Update(ctx context.Context, b *domain.Booking, allowOverlap bool) error {
	args := m.Called(ctx, b, allowOverlap)
	return args.Error(0)
}

func (m *mockStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockStore) List(ctx context.Context, f domain.Filter) ([]*domain.Booking, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func appointmentCommand() commands.CreateBookingCommand {
	return commands.CreateBookingCommand{
		Kind:            domain.KindAppointment,
		ProviderID:      uuid.New(),
		PatientID:       uuid.New(),
		Location:        "north",
		LocationName:    "North Office",
		AppointmentType: "Wellness Exam",
		ColorCode:       "#FF6B6B",
		Date:            time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC),
		Start:           sharedDomain.MustTimeOfDay("09:00"),
		End:             sharedDomain.MustTimeOfDay("09:30"),
	}
}

func TestCreateBooking_FirstAttemptSucceeds(t *testing.T) {
	store := new(mockStore)
	store.On("Create", mock.Anything, mock.Anything, false).Return(nil).Once()

	confirmCalls := 0
	confirm := func(ctx context.Context, msg string) (bool, error) {
		confirmCalls++
		return true, nil
	}

	h := commands.NewCreateBookingHandler(store, confirm, nil, nil)
	res, err := h.Handle(context.Background(), appointmentCommand())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.BookingID)
	assert.False(t, res.OverlapApproved)
	assert.Zero(t, confirmCalls, "no prompt without a classified overlap")
	store.AssertExpectations(t)
}

func TestCreateBooking_OverlapApprovedRetriesWithOverride(t *testing.T) {
	store := new(mockStore)
	store.On("Create", mock.Anything, mock.Anything, false).Return(domain.NewOverlapRejection()).Once()
	store.On("Create", mock.Anything, mock.Anything, true).Return(nil).Once()

	confirmCalls := 0
	confirm := func(ctx context.Context, msg string) (bool, error) {
		confirmCalls++
		assert.Contains(t, msg, "Double Booking Detected")
		assert.Contains(t, msg, "North Office")
		return true, nil
	}

	h := commands.NewCreateBookingHandler(store, confirm, nil, nil)
	res, err := h.Handle(context.Background(), appointmentCommand())

	require.NoError(t, err)
	assert.True(t, res.OverlapApproved)
	assert.Equal(t, 1, confirmCalls, "confirm runs exactly once per overlap")
	store.AssertExpectations(t)
}

func TestCreateBooking_OverlapDeclinedAborts(t *testing.T) {
	store := new(mockStore)
	store.On("Create", mock.Anything, mock.Anything, false).Return(domain.NewOverlapRejection()).Once()

	confirm := func(ctx context.Context, msg string) (bool, error) { return false, nil }

	h := commands.NewCreateBookingHandler(store, confirm, nil, nil)
	_, err := h.Handle(context.Background(), appointmentCommand())

	assert.ErrorIs(t, err, domain.ErrOverlapDeclined)
	store.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateBooking_GenericRejectionNeverPrompts(t *testing.T) {
	store := new(mockStore)
	rejection := &domain.RejectionError{
		StatusCode: 400,
		Messages:   []string{"Patient is required unless creating a block time."},
	}
	store.On("Create", mock.Anything, mock.Anything, false).Return(rejection).Once()

	confirmCalls := 0
	confirm := func(ctx context.Context, msg string) (bool, error) {
		confirmCalls++
		return true, nil
	}

	h := commands.NewCreateBookingHandler(store, confirm, nil, nil)
	_, err := h.Handle(context.Background(), appointmentCommand())

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrOverlapDeclined)
	assert.Zero(t, confirmCalls)
	store.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateBooking_TransportErrorIsNotRetried(t *testing.T) {
	store := new(mockStore)
	store.On("Create", mock.Anything, mock.Anything, false).
		Return(errors.New("connection refused")).Once()

	h := commands.NewCreateBookingHandler(store, nil, nil, nil)
	_, err := h.Handle(context.Background(), appointmentCommand())

	require.Error(t, err)
	store.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateBooking_ValidationFailsBeforeStore(t *testing.T) {
	store := new(mockStore)

	cmd := appointmentCommand()
	cmd.Start = sharedDomain.MustTimeOfDay("10:00")
	cmd.End = sharedDomain.MustTimeOfDay("09:00")

	h := commands.NewCreateBookingHandler(store, nil, nil, nil)
	_, err := h.Handle(context.Background(), cmd)

	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
	store.AssertNotCalled(t, "Create")
}

func TestCreateBooking_RecurrenceEndBeforeStartRejected(t *testing.T) {
	store := new(mockStore)

	cmd := appointmentCommand()
	cmd.Recurrence = &domain.RecurrenceRule{
		Weekdays:      []time.Weekday{time.Monday},
		IntervalWeeks: 1,
		Until:         cmd.Date.AddDate(0, 0, -7),
	}

	h := commands.NewCreateBookingHandler(store, nil, nil, nil)
	_, err := h.Handle(context.Background(), cmd)

	assert.ErrorIs(t, err, domain.ErrRecurrenceEndsEarly)
	store.AssertNotCalled(t, "Create")
}
