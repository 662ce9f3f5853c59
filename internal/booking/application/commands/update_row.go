package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	"github.com/google/uuid"
)

// UpdateRowCommand patches the per-row workflow fields of a booking:
// status (with optional room), intake state, and the staff note. The time
// range is untouched, so the overlap constraint cannot newly fire; the
// update runs with the override set to skip re-checking a range that was
// already accepted.
type UpdateRowCommand struct {
	BookingID uuid.UUID
	Status    *domain.Status
	Room      string
	Intake    *domain.IntakeStatus
	Note      *string
}

// UpdateRowHandler handles the UpdateRowCommand.
type UpdateRowHandler struct {
	store domain.Store
}

// NewUpdateRowHandler creates a new UpdateRowHandler.
func NewUpdateRowHandler(store domain.Store) *UpdateRowHandler {
	return &UpdateRowHandler{store: store}
}

// Handle executes the UpdateRowCommand.
func (h *UpdateRowHandler) Handle(ctx context.Context, cmd UpdateRowCommand) error {
	booking, err := h.store.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return domain.ErrBookingNotFound
	}

	if cmd.Status != nil {
		if err := booking.SetStatus(*cmd.Status, cmd.Room); err != nil {
			return err
		}
	}
	if cmd.Intake != nil {
		booking.SetIntake(*cmd.Intake)
	}
	if cmd.Note != nil {
		booking.SetNote(*cmd.Note)
	}

	if err := h.store.Update(ctx, booking, true); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return nil
}
