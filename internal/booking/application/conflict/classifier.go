// Package conflict classifies booking-store rejections and builds the
// double-booking confirmation prompt. It never retries anything itself; it
// only tells the caller whether a retry with the overlap override is
// authorized.
package conflict

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
)

// overlapMarker is the substring the store guarantees to include in a
// double-booking rejection. Matching is case-insensitive containment so
// wording around the marker may evolve without breaking classification.
const overlapMarker = "overlaps with another appointment"

// Result is the outcome of classifying a store error.
type Result struct {
	Overlap bool
	// StoreMessage is the matched rejection message, set when Overlap.
	StoreMessage string
}

// Classify inspects an error returned by the booking store. Only a
// structured rejection whose messages contain the overlap marker counts as
// an overlap; transport failures and every other rejection are NotOverlap
// and must be surfaced as generic failures with no retry.
func Classify(err error) Result {
	if err == nil {
		return Result{}
	}

	var rej *domain.RejectionError
	if !errors.As(err, &rej) {
		return Result{}
	}

	for _, msg := range rej.Messages {
		if strings.Contains(strings.ToLower(msg), overlapMarker) {
			return Result{Overlap: true, StoreMessage: msg}
		}
	}
	return Result{}
}

// ConfirmMessage builds the deterministic prompt shown to the user before
// an overlap override. The location name is included when known.
func ConfirmMessage(location string) string {
	at := ""
	if location != "" {
		at = fmt.Sprintf(" in %s", location)
	}
	return fmt.Sprintf(
		"Double Booking Detected\n\n"+
			"An existing appointment already occupies this time range%s.\n\n"+
			"Do you want to allow this overlap and continue?", at)
}

// ConfirmFunc is the externally supplied yes/no prompt. It is called
// exactly once per rejected-and-classified-overlap attempt.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)
