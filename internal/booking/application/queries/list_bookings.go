package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	"github.com/google/uuid"
)

// ListBookingsQuery filters bookings by provider, locations, and a date
// range. Zero values leave the corresponding dimension unfiltered.
type ListBookingsQuery struct {
	ProviderID uuid.UUID
	Locations  []string
	From       time.Time
	To         time.Time
}

// ListBookingsHandler handles the ListBookingsQuery.
type ListBookingsHandler struct {
	store domain.Store
}

// NewListBookingsHandler creates a new ListBookingsHandler.
func NewListBookingsHandler(store domain.Store) *ListBookingsHandler {
	return &ListBookingsHandler{store: store}
}

// Handle executes the ListBookingsQuery.
func (h *ListBookingsHandler) Handle(ctx context.Context, query ListBookingsQuery) ([]*domain.Booking, error) {
	bookings, err := h.store.List(ctx, domain.Filter{
		ProviderID: query.ProviderID,
		Locations:  query.Locations,
		From:       query.From,
		To:         query.To,
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
