package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
)

// CreateRecurringCommand creates the follow-up occurrences of a repeating
// booking whose anchor has already been persisted.
type CreateRecurringCommand struct {
	Kind            domain.Kind
	ProviderID      uuid.UUID
	PatientID       uuid.UUID
	Location        string
	AppointmentType string
	ColorCode       string
	AnchorDate      time.Time
	Start           sharedDomain.TimeOfDay
	End             sharedDomain.TimeOfDay
	Rule            domain.RecurrenceRule
	// AllowOverlap carries forward an override the user already approved
	// for the anchor; occurrences of an approved series do not re-prompt.
	AllowOverlap bool
}

// BatchResult aggregates the outcome of a recurrence batch. Succeeded
// dates are never rolled back when others fail.
type BatchResult struct {
	Requested   int
	Succeeded   int
	Failed      int
	FailedDates []time.Time
}

// Message renders the user-facing aggregate report. The count includes the
// anchor, matching what the user sees as the full series.
func (r BatchResult) Message() string {
	if r.Requested == 0 {
		return ""
	}
	if r.Failed == 0 {
		return fmt.Sprintf("Created %d recurring appointments", r.Succeeded+1)
	}
	return fmt.Sprintf("Created %d of %d recurring appointments; %d failed", r.Succeeded, r.Requested, r.Failed)
}

// CreateRecurringHandler handles the CreateRecurringCommand.
type CreateRecurringHandler struct {
	store  domain.Store
	logger *slog.Logger
}

// NewCreateRecurringHandler creates a new CreateRecurringHandler.
func NewCreateRecurringHandler(store domain.Store, logger *slog.Logger) *CreateRecurringHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateRecurringHandler{store: store, logger: logger}
}

// Handle generates the occurrence dates and issues one independent create
// per date. Requests run concurrently and are awaited together; a partial
// failure is reported in the aggregate result, not as an error.
func (h *CreateRecurringHandler) Handle(ctx context.Context, cmd CreateRecurringCommand) (*BatchResult, error) {
	dates := cmd.Rule.Occurrences(cmd.AnchorDate)
	result := &BatchResult{Requested: len(dates)}
	if len(dates) == 0 {
		return result, nil
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, occurrence := range dates {
		wg.Add(1)
		go func(day time.Time) {
			defer wg.Done()
			err := h.createOccurrence(ctx, cmd, day)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.FailedDates = append(result.FailedDates, day)
				h.logger.Error("recurrence occurrence failed",
					"date", day.Format("2006-01-02"),
					"error", err,
				)
				return
			}
			result.Succeeded++
		}(occurrence)
	}
	wg.Wait()

	sort.Slice(result.FailedDates, func(i, j int) bool {
		return result.FailedDates[i].Before(result.FailedDates[j])
	})
	return result, nil
}

func (h *CreateRecurringHandler) createOccurrence(ctx context.Context, cmd CreateRecurringCommand, day time.Time) error {
	occurrence, err := buildBooking(CreateBookingCommand{
		Kind:            cmd.Kind,
		ProviderID:      cmd.ProviderID,
		PatientID:       cmd.PatientID,
		Location:        cmd.Location,
		AppointmentType: cmd.AppointmentType,
		ColorCode:       cmd.ColorCode,
		Date:            day,
		Start:           cmd.Start,
		End:             cmd.End,
	})
	if err != nil {
		return err
	}
	return h.store.Create(ctx, occurrence, cmd.AllowOverlap)
}
