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

// CreateBookingCommand contains the data needed to create a booking.
// There is intentionally no overlap-override field: a first attempt always
// runs with the override off, and only a store rejection classified as an
// overlap plus an explicit user confirmation can elevate the retry.
type CreateBookingCommand struct {
	Kind            domain.Kind
	ProviderID      uuid.UUID
	PatientID       uuid.UUID
	Location        string
	LocationName    string // display name for the confirmation prompt
	AppointmentType string
	ColorCode       string
	Note            string
	Date            time.Time
	Start           sharedDomain.TimeOfDay
	End             sharedDomain.TimeOfDay
	Recurrence      *domain.RecurrenceRule
}

// CreateBookingResult contains the result of creating a booking.
type CreateBookingResult struct {
	BookingID       uuid.UUID
	OverlapApproved bool
}

// CreateBookingHandler handles the CreateBookingCommand, driving the
// classify/confirm/retry protocol against the booking store.
type CreateBookingHandler struct {
	store     domain.Store
	confirm   conflict.ConfirmFunc
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCreateBookingHandler creates a new CreateBookingHandler.
func NewCreateBookingHandler(store domain.Store, confirm conflict.ConfirmFunc, publisher eventbus.Publisher, logger *slog.Logger) *CreateBookingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateBookingHandler{
		store:     store,
		confirm:   confirm,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the CreateBookingCommand.
func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	booking, err := buildBooking(cmd)
	if err != nil {
		return nil, err
	}
	if cmd.Note != "" {
		booking.SetNote(cmd.Note)
	}
	if cmd.Recurrence != nil {
		if err := booking.AttachRecurrence(*cmd.Recurrence); err != nil {
			return nil, err
		}
	}

	// First attempt, override off.
	err = h.store.Create(ctx, booking, false)
	if err == nil {
		h.finish(ctx, booking)
		return &CreateBookingResult{BookingID: booking.ID()}, nil
	}

	res := conflict.Classify(err)
	if !res.Overlap {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if h.confirm == nil {
		return nil, domain.ErrOverlapDeclined
	}
	approved, cerr := h.confirm(ctx, conflict.ConfirmMessage(cmd.LocationName))
	if cerr != nil {
		return nil, fmt.Errorf("confirm overlap: %w", cerr)
	}
	if !approved {
		return nil, domain.ErrOverlapDeclined
	}

	// Same payload, override on. At most this one retry.
	if err := h.store.Create(ctx, booking, true); err != nil {
		return nil, fmt.Errorf("create booking with override: %w", err)
	}

	h.logger.Info("booking created with overlap override",
		"booking_id", booking.ID(),
		"location", booking.Location(),
	)
	h.finish(ctx, booking)
	return &CreateBookingResult{BookingID: booking.ID(), OverlapApproved: true}, nil
}

func (h *CreateBookingHandler) finish(ctx context.Context, booking *domain.Booking) {
	eventbus.PublishAll(ctx, h.publisher, h.logger, booking.DomainEvents())
	booking.ClearDomainEvents()
}

func buildBooking(cmd CreateBookingCommand) (*domain.Booking, error) {
	switch cmd.Kind {
	case domain.KindAppointment:
		return domain.NewAppointment(
			cmd.ProviderID, cmd.PatientID,
			cmd.Location, cmd.AppointmentType, cmd.ColorCode,
			cmd.Date, cmd.Start, cmd.End,
		)
	case domain.KindBlock:
		return domain.NewBlock(
			cmd.ProviderID,
			cmd.Location, cmd.AppointmentType,
			cmd.Date, cmd.Start, cmd.End,
		)
	default:
		return nil, domain.ErrInvalidKind
	}
}
