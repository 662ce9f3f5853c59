package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	"github.com/felixgeelhaar/praxis/internal/layout"
	locationDomain "github.com/felixgeelhaar/praxis/internal/location/domain"
	"github.com/google/uuid"
)

// GetDayScheduleQuery requests the positioned day view for one provider
// across a set of locations. An empty LocationKeys selects every location
// in the directory.
type GetDayScheduleQuery struct {
	Date         time.Time
	ProviderID   uuid.UUID
	LocationKeys []string
	SlotMinutes  int
}

// LocationColumn is one location's positioned column in the day view.
type LocationColumn struct {
	LocationKey  string
	LocationName string
	Column       layout.Column
}

// DaySchedule is the fully resolved day view: the merged open envelope,
// the grid geometry derived from it, closed-hours overlays, and one
// positioned column per location.
type DaySchedule struct {
	Date     time.Time
	Hours    locationDomain.MergedHours
	Grid     layout.Grid
	Overlays []layout.Overlay
	Columns  []LocationColumn
}

// HoursResolver resolves the merged open envelope for a date. A caching
// implementation can front the direct computation.
type HoursResolver interface {
	MergedHoursFor(ctx context.Context, date time.Time, locations []*locationDomain.Location) (locationDomain.MergedHours, error)
}

// GetDayScheduleHandler handles the GetDayScheduleQuery.
type GetDayScheduleHandler struct {
	store     domain.Store
	directory locationDomain.Directory
	hours     HoursResolver
}

// NewGetDayScheduleHandler creates a new GetDayScheduleHandler.
func NewGetDayScheduleHandler(store domain.Store, directory locationDomain.Directory) *GetDayScheduleHandler {
	return &GetDayScheduleHandler{store: store, directory: directory}
}

// WithHoursResolver installs a resolver used instead of computing the
// envelope directly.
func (h *GetDayScheduleHandler) WithHoursResolver(hours HoursResolver) *GetDayScheduleHandler {
	h.hours = hours
	return h
}

// Handle executes the GetDayScheduleQuery.
func (h *GetDayScheduleHandler) Handle(ctx context.Context, query GetDayScheduleQuery) (*DaySchedule, error) {
	date := domain.NormalizeDate(query.Date)

	locations, err := h.resolveLocations(ctx, query.LocationKeys)
	if err != nil {
		return nil, err
	}

	var hours locationDomain.MergedHours
	if h.hours != nil {
		if hours, err = h.hours.MergedHoursFor(ctx, date, locations); err != nil {
			return nil, fmt.Errorf("resolve hours: %w", err)
		}
	} else {
		hours = locationDomain.MergedHoursFor(date, locations)
	}
	openHour, closeHour := hours.OpenRange()
	grid := layout.NewGrid(query.SlotMinutes, openHour, closeHour)

	keys := make([]string, len(locations))
	for i, loc := range locations {
		keys[i] = loc.Key()
	}
	bookings, err := h.store.List(ctx, domain.Filter{
		ProviderID: query.ProviderID,
		Locations:  keys,
		From:       date,
		To:         date,
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	byLocation := make(map[string][]layout.Item)
	for _, b := range bookings {
		byLocation[b.Location()] = append(byLocation[b.Location()], layout.Item{
			ID:           b.ID(),
			Location:     b.Location(),
			Label:        b.AppointmentType(),
			StartMinutes: b.Start().Minutes(),
			EndMinutes:   b.End().Minutes(),
		})
	}

	schedule := &DaySchedule{
		Date:     date,
		Hours:    hours,
		Grid:     grid,
		Overlays: layout.Overlays(grid),
	}
	for _, loc := range locations {
		schedule.Columns = append(schedule.Columns, LocationColumn{
			LocationKey:  loc.Key(),
			LocationName: loc.Name(),
			Column:       layout.BuildColumn(grid, byLocation[loc.Key()]),
		})
	}
	return schedule, nil
}

func (h *GetDayScheduleHandler) resolveLocations(ctx context.Context, keys []string) ([]*locationDomain.Location, error) {
	if len(keys) == 0 {
		locations, err := h.directory.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list locations: %w", err)
		}
		return locations, nil
	}
	locations, err := h.directory.FindByKeys(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("resolve locations: %w", err)
	}
	return locations, nil
}
