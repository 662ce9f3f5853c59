package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/application/conflict"
	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/felixgeelhaar/praxis/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// RescheduleBookingCommand moves an existing booking to a new time range.
type RescheduleBookingCommand struct {
	BookingID    uuid.UUID
	LocationName string
	Date         time.Time
	Start        sharedDomain.TimeOfDay
	End          sharedDomain.TimeOfDay
}

// RescheduleBookingHandler handles the RescheduleBookingCommand with the
// same classify/confirm/retry protocol used on create.
type RescheduleBookingHandler struct {
	store     domain.Store
	confirm   conflict.ConfirmFunc
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewRescheduleBookingHandler creates a new RescheduleBookingHandler.
func NewRescheduleBookingHandler(store domain.Store, confirm conflict.ConfirmFunc, publisher eventbus.Publisher, logger *slog.Logger) *RescheduleBookingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RescheduleBookingHandler{
		store:     store,
		confirm:   confirm,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the RescheduleBookingCommand.
func (h *RescheduleBookingHandler) Handle(ctx context.Context, cmd RescheduleBookingCommand) error {
	booking, err := h.store.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return domain.ErrBookingNotFound
	}

	if err := booking.Reschedule(cmd.Date, cmd.Start, cmd.End); err != nil {
		return err
	}

	err = h.store.Update(ctx, booking, false)
	if err == nil {
		h.finish(ctx, booking)
		return nil
	}

	res := conflict.Classify(err)
	if !res.Overlap {
		return fmt.Errorf("reschedule booking: %w", err)
	}

	if h.confirm == nil {
		return domain.ErrOverlapDeclined
	}
	approved, cerr := h.confirm(ctx, conflict.ConfirmMessage(cmd.LocationName))
	if cerr != nil {
		return fmt.Errorf("confirm overlap: %w", cerr)
	}
	if !approved {
		return domain.ErrOverlapDeclined
	}

	if err := h.store.Update(ctx, booking, true); err != nil {
		return fmt.Errorf("reschedule booking with override: %w", err)
	}
	h.finish(ctx, booking)
	return nil
}

func (h *RescheduleBookingHandler) finish(ctx context.Context, booking *domain.Booking) {
	eventbus.PublishAll(ctx, h.publisher, h.logger, booking.DomainEvents())
	booking.ClearDomainEvents()
}
