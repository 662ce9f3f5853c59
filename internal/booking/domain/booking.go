package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
)

// Booking represents a scheduled occupation of a provider's time: either a
// patient appointment or a block of reserved time. Two bookings with
// distinct (provider, date, start, end) are independent entities; time
// overlap between them is a constraint enforced by the store, not an
// identity relation.
type Booking struct {
	sharedDomain.BaseAggregateRoot
	kind            Kind
	providerID      uuid.UUID // uuid.Nil on a block means "all providers"
	patientID       uuid.UUID
	location        string
	appointmentType string
	colorCode       string
	note            string
	date            time.Time // calendar day, UTC midnight
	start           sharedDomain.TimeOfDay
	end             sharedDomain.TimeOfDay
	status          Status
	room            string
	intake          IntakeStatus
	recurrence      *RecurrenceRule // set on the anchor of a repeating series
}

// NormalizeDate truncates a timestamp to its UTC calendar day.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewAppointment creates a patient appointment.
func NewAppointment(
	providerID, patientID uuid.UUID,
	location, appointmentType, colorCode string,
	date time.Time,
	start, end sharedDomain.TimeOfDay,
) (*Booking, error) {
	if providerID == uuid.Nil {
		return nil, ErrProviderRequired
	}
	if patientID == uuid.Nil {
		return nil, ErrPatientRequired
	}
	return newBooking(KindAppointment, providerID, patientID, location, appointmentType, colorCode, date, start, end)
}

// NewBlock creates a block-time booking. providerID may be uuid.Nil to
// block the slot for all providers at the location.
func NewBlock(
	providerID uuid.UUID,
	location, label string,
	date time.Time,
	start, end sharedDomain.TimeOfDay,
) (*Booking, error) {
	return newBooking(KindBlock, providerID, uuid.Nil, location, label, "#737373", date, start, end)
}

func newBooking(
	kind Kind,
	providerID, patientID uuid.UUID,
	location, appointmentType, colorCode string,
	date time.Time,
	start, end sharedDomain.TimeOfDay,
) (*Booking, error) {
	if location == "" {
		return nil, ErrLocationRequired
	}
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}

	b := &Booking{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		kind:              kind,
		providerID:        providerID,
		patientID:         patientID,
		location:          location,
		appointmentType:   appointmentType,
		colorCode:         colorCode,
		date:              NormalizeDate(date),
		start:             start,
		end:               end,
		status:            StatusPending,
		intake:            IntakeNotSubmitted,
	}
	b.AddDomainEvent(NewBookingScheduled(b))
	return b, nil
}

// Getters
func (b *Booking) Kind() Kind                          { return b.kind }
func (b *Booking) ProviderID() uuid.UUID               { return b.providerID }
func (b *Booking) PatientID() uuid.UUID                { return b.patientID }
func (b *Booking) Location() string                    { return b.location }
func (b *Booking) AppointmentType() string             { return b.appointmentType }
func (b *Booking) ColorCode() string                   { return b.colorCode }
func (b *Booking) Note() string                        { return b.note }
func (b *Booking) Date() time.Time                     { return b.date }
func (b *Booking) Start() sharedDomain.TimeOfDay       { return b.start }
func (b *Booking) End() sharedDomain.TimeOfDay         { return b.end }
func (b *Booking) Status() Status                      { return b.status }
func (b *Booking) Room() string                        { return b.room }
func (b *Booking) Intake() IntakeStatus                { return b.intake }
func (b *Booking) Recurrence() *RecurrenceRule         { return b.recurrence }

// IsBlock reports whether this booking reserves time without a patient.
func (b *Booking) IsBlock() bool { return b.kind == KindBlock }

// BlocksAllProviders reports whether a block applies to every provider.
func (b *Booking) BlocksAllProviders() bool {
	return b.kind == KindBlock && b.providerID == uuid.Nil
}

// Duration returns the booked duration.
func (b *Booking) Duration() time.Duration {
	return time.Duration(b.end.Minutes()-b.start.Minutes()) * time.Minute
}

// OverlapsWith reports whether two bookings collide: same provider, same
// calendar day, intersecting time ranges.
func (b *Booking) OverlapsWith(other *Booking) bool {
	if b.providerID != other.providerID {
		return false
	}
	if !b.date.Equal(other.date) {
		return false
	}
	return b.start.Before(other.end) && other.start.Before(b.end)
}

// Reschedule moves the booking to a new day and time range.
func (b *Booking) Reschedule(date time.Time, start, end sharedDomain.TimeOfDay) error {
	if !end.After(start) {
		return ErrInvalidTimeRange
	}
	oldDate, oldStart, oldEnd := b.date, b.start, b.end
	b.date = NormalizeDate(date)
	b.start = start
	b.end = end
	b.Touch()
	b.AddDomainEvent(NewBookingRescheduled(b, oldDate, oldStart, oldEnd))
	return nil
}

// AttachRecurrence marks this booking as the anchor of a repeating series.
func (b *Booking) AttachRecurrence(rule RecurrenceRule) error {
	for _, wd := range rule.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return ErrInvalidRecurrenceWeekday
		}
	}
	if !rule.Until.IsZero() && NormalizeDate(rule.Until).Before(b.date) {
		return ErrRecurrenceEndsEarly
	}
	b.recurrence = &rule
	b.Touch()
	return nil
}

// SetNote replaces the internal staff note.
func (b *Booking) SetNote(note string) {
	b.note = note
	b.Touch()
}

// SetStatus moves the booking through the appointments-tab workflow. Room
// only applies to the in-room status and is cleared otherwise.
func (b *Booking) SetStatus(status Status, room string) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	b.status = status
	if status == StatusInRoom {
		b.room = room
	} else {
		b.room = ""
	}
	b.Touch()
	return nil
}

// SetIntake updates the intake form state.
func (b *Booking) SetIntake(intake IntakeStatus) {
	b.intake = intake
	b.Touch()
}

// Cancel marks the booking cancelled and records the event.
func (b *Booking) Cancel() {
	b.status = StatusCancelled
	b.Touch()
	b.AddDomainEvent(NewBookingCancelled(b))
}

// RehydrateBooking recreates a booking from persisted state.
func RehydrateBooking(
	id uuid.UUID,
	kind Kind,
	providerID, patientID uuid.UUID,
	location, appointmentType, colorCode, note string,
	date time.Time,
	start, end sharedDomain.TimeOfDay,
	status Status,
	room string,
	intake IntakeStatus,
	recurrence *RecurrenceRule,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		kind:            kind,
		providerID:      providerID,
		patientID:       patientID,
		location:        location,
		appointmentType: appointmentType,
		colorCode:       colorCode,
		note:            note,
		date:            NormalizeDate(date),
		start:           start,
		end:             end,
		status:          status,
		room:            room,
		intake:          intake,
		recurrence:      recurrence,
	}
}
