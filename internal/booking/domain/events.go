package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "booking"

// BookingScheduled is emitted when a booking is created.
type BookingScheduled struct {
	sharedDomain.BaseEvent
	ProviderID uuid.UUID
	Location   string
	BookingKind string
	Date       time.Time
	Start      string
	End        string
}

// NewBookingScheduled creates a BookingScheduled event.
func NewBookingScheduled(b *Booking) *BookingScheduled {
	return &BookingScheduled{
		BaseEvent:   sharedDomain.NewBaseEvent(b.ID(), aggregateType, "booking.scheduled"),
		ProviderID:  b.ProviderID(),
		Location:    b.Location(),
		BookingKind: string(b.Kind()),
		Date:        b.Date(),
		Start:       b.Start().String(),
		End:         b.End().String(),
	}
}

// BookingRescheduled is emitted when a booking moves to a new time.
type BookingRescheduled struct {
	sharedDomain.BaseEvent
	OldDate  time.Time
	OldStart string
	OldEnd   string
	NewDate  time.Time
	NewStart string
	NewEnd   string
}

// NewBookingRescheduled creates a BookingRescheduled event.
func NewBookingRescheduled(b *Booking, oldDate time.Time, oldStart, oldEnd sharedDomain.TimeOfDay) *BookingRescheduled {
	return &BookingRescheduled{
		BaseEvent: sharedDomain.NewBaseEvent(b.ID(), aggregateType, "booking.rescheduled"),
		OldDate:   oldDate,
		OldStart:  oldStart.String(),
		OldEnd:    oldEnd.String(),
		NewDate:   b.Date(),
		NewStart:  b.Start().String(),
		NewEnd:    b.End().String(),
	}
}

// BookingCancelled is emitted when a booking is cancelled.
type BookingCancelled struct {
	sharedDomain.BaseEvent
	ProviderID uuid.UUID
	Location   string
	Date       time.Time
}

// NewBookingCancelled creates a BookingCancelled event.
func NewBookingCancelled(b *Booking) *BookingCancelled {
	return &BookingCancelled{
		BaseEvent:  sharedDomain.NewBaseEvent(b.ID(), aggregateType, "booking.cancelled"),
		ProviderID: b.ProviderID(),
		Location:   b.Location(),
		Date:       b.Date(),
	}
}
