package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/application/queries"
	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	"github.com/felixgeelhaar/praxis/internal/layout"
	locationDomain "github.com/felixgeelhaar/praxis/internal/location/domain"
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

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Save(ctx context.Context, loc *locationDomain.Location) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *mockDirectory) FindByKey(ctx context.Context, key string) (*locationDomain.Location, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*locationDomain.Location), args.Error(1)
}

func (m *mockDirectory) FindByKeys(ctx context.Context, keys []string) ([]*locationDomain.Location, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*locationDomain.Location), args.Error(1)
}

func (m *mockDirectory) List(ctx context.Context) ([]*locationDomain.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*locationDomain.Location), args.Error(1)
}

func (m *mockDirectory) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newAppointment(t *testing.T, providerID uuid.UUID, location string, date time.Time, start, end string) *domain.Booking {
	t.Helper()
	b, err := domain.NewAppointment(
		providerID, uuid.New(),
		location, "Exam", "#FF6B6B",
		date, sharedDomain.MustTimeOfDay(start), sharedDomain.MustTimeOfDay(end),
	)
	require.NoError(t, err)
	return b
}

func TestGetDaySchedule_MergesHoursAndPositionsColumns(t *testing.T) {
	monday := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)
	providerID := uuid.New()

	north, err := locationDomain.NewLocation("north", "North Office", locationDomain.WeeklyHours{
		time.Monday: {Open: false},
	})
	require.NoError(t, err)
	south, err := locationDomain.NewLocation("south", "South Office", locationDomain.WeeklyHours{
		time.Monday: {
			Open:  true,
			Start: sharedDomain.MustTimeOfDay("09:00"),
			End:   sharedDomain.MustTimeOfDay("18:00"),
		},
	})
	require.NoError(t, err)

	directory := new(mockDirectory)
	directory.On("FindByKeys", mock.Anything, []string{"north", "south"}).
		Return([]*locationDomain.Location{north, south}, nil)

	store := new(mockStore)
	store.On("List", mock.Anything, mock.MatchedBy(func(f domain.Filter) bool {
		return f.ProviderID == providerID && f.From.Equal(monday) && f.To.Equal(monday)
	})).Return([]*domain.Booking{
		newAppointment(t, providerID, "south", monday, "09:00", "09:30"),
		newAppointment(t, providerID, "south", monday, "09:15", "10:00"),
	}, nil)

	h := queries.NewGetDayScheduleHandler(store, directory)
	schedule, err := h.Handle(context.Background(), queries.GetDayScheduleQuery{
		Date:         monday,
		ProviderID:   providerID,
		LocationKeys: []string{"north", "south"},
		SlotMinutes:  30,
	})

	require.NoError(t, err)
	assert.True(t, schedule.Hours.Open)
	assert.InDelta(t, 9.0, schedule.Grid.OpenHour, 1e-9)
	assert.InDelta(t, 18.0, schedule.Grid.CloseHour, 1e-9)

	// Open at 09:00 inside the 08:00 display window shades the first hour.
	require.Len(t, schedule.Overlays, 1)
	assert.InDelta(t, 0.0, schedule.Overlays[0].TopPx, 1e-9)

	require.Len(t, schedule.Columns, 2)
	assert.Equal(t, "North Office", schedule.Columns[0].LocationName)
	assert.Empty(t, schedule.Columns[0].Column.Boxes)

	southCol := schedule.Columns[1].Column
	require.Len(t, southCol.Boxes, 2)
	want := (100.0 - layout.SliverPercent) / 2.0
	assert.InDelta(t, want, southCol.Boxes[0].WidthPercent, 1e-9)
	assert.InDelta(t, 0.0, southCol.Boxes[0].TopPx, 1e-9)
}

func TestGetDaySchedule_EmptyKeysUsesWholeDirectory(t *testing.T) {
	monday := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)

	north, err := locationDomain.NewLocation("north", "North Office", nil)
	require.NoError(t, err)

	directory := new(mockDirectory)
	directory.On("List", mock.Anything).Return([]*locationDomain.Location{north}, nil)

	store := new(mockStore)
	store.On("List", mock.Anything, mock.Anything).Return([]*domain.Booking{}, nil)

	h := queries.NewGetDayScheduleHandler(store, directory)
	schedule, err := h.Handle(context.Background(), queries.GetDayScheduleQuery{
		Date:        monday,
		SlotMinutes: 30,
	})

	require.NoError(t, err)
	require.Len(t, schedule.Columns, 1)
	assert.Equal(t, "north", schedule.Columns[0].LocationKey)
	directory.AssertNotCalled(t, "FindByKeys")
}
