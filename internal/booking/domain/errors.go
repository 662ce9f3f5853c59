package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTimeRange         = errors.New("end time must be after start time")
	ErrLocationRequired         = errors.New("booking requires a location")
	ErrProviderRequired         = errors.New("appointment requires a provider")
	ErrPatientRequired          = errors.New("appointment requires a patient")
	ErrInvalidKind              = errors.New("unknown booking kind")
	ErrInvalidStatus            = errors.New("unknown booking status")
	ErrRecurrenceEndsEarly      = errors.New("recurrence end date is before the booking date")
	ErrInvalidRecurrenceWeekday = errors.New("recurrence weekday must be between Sunday (0) and Saturday (6)")
	ErrBookingNotFound          = errors.New("booking not found")
	ErrOverlapDeclined          = errors.New("overlap declined by user")
)

// OverlapMessage is the rejection text the store emits when a create or
// update collides with an existing booking for the same provider and date.
// Callers classify rejections by containment of "overlaps with another
// appointment" within this message.
const OverlapMessage = "This time overlaps with another appointment or block time."

// RejectionError is a structured rejection from the booking store. It
// carries the human-readable validation messages so callers can decide
// whether the rejection is an overlap violation or something else.
type RejectionError struct {
	StatusCode int
	Messages   []string
}

func (e *RejectionError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("booking rejected (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("booking rejected: %s", strings.Join(e.Messages, "; "))
}

// NewOverlapRejection builds the rejection the store returns on a
// double-booking violation.
func NewOverlapRejection() *RejectionError {
	return &RejectionError{StatusCode: 409, Messages: []string{OverlapMessage}}
}
