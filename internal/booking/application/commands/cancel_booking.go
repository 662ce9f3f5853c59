package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	"github.com/felixgeelhaar/praxis/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// CancelBookingCommand removes a booking from the schedule.
type CancelBookingCommand struct {
	BookingID uuid.UUID
}

// CancelBookingHandler handles the CancelBookingCommand.
type CancelBookingHandler struct {
	store     domain.Store
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCancelBookingHandler creates a new CancelBookingHandler.
func NewCancelBookingHandler(store domain.Store, publisher eventbus.Publisher, logger *slog.Logger) *CancelBookingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CancelBookingHandler{store: store, publisher: publisher, logger: logger}
}

// Handle executes the CancelBookingCommand.
func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) error {
	booking, err := h.store.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return domain.ErrBookingNotFound
	}

	booking.Cancel()
	if err := h.store.Delete(ctx, cmd.BookingID); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	eventbus.PublishAll(ctx, h.publisher, h.logger, booking.DomainEvents())
	booking.ClearDomainEvents()
	return nil
}
