package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/application/commands"
	"github.com/felixgeelhaar/praxis/internal/booking/application/queries"
	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	"github.com/felixgeelhaar/praxis/internal/export"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/felixgeelhaar/praxis/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

const dayFormat = "2006-01-02"

// BookingHandler serves the bookings API. The server enforces the
// overlap constraint itself and answers a collision with 409 plus the
// rejection messages; clients that want to force the overlap repeat the
// request with allow_overlap=true.
type BookingHandler struct {
	store       domain.Store
	recurring   *commands.CreateRecurringHandler
	updateRow   *commands.UpdateRowHandler
	cancel      *commands.CancelBookingHandler
	daySchedule *queries.GetDayScheduleHandler
	list        *queries.ListBookingsHandler
	publisher   eventbus.Publisher
	logger      *slog.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(
	store domain.Store,
	recurring *commands.CreateRecurringHandler,
	updateRow *commands.UpdateRowHandler,
	cancel *commands.CancelBookingHandler,
	daySchedule *queries.GetDayScheduleHandler,
	list *queries.ListBookingsHandler,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *BookingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingHandler{
		store:       store,
		recurring:   recurring,
		updateRow:   updateRow,
		cancel:      cancel,
		daySchedule: daySchedule,
		list:        list,
		publisher:   publisher,
		logger:      logger,
	}
}

type recurrenceRequest struct {
	Weekdays      []int  `json:"weekdays"`
	IntervalWeeks int    `json:"interval_weeks"`
	MaxAdditional int    `json:"max_additional,omitempty"`
	Until         string `json:"until,omitempty"`
}

type createBookingRequest struct {
	Kind            string             `json:"kind"`
	ProviderID      string             `json:"provider_id"`
	PatientID       string             `json:"patient_id"`
	Location        string             `json:"location"`
	AppointmentType string             `json:"appointment_type"`
	ColorCode       string             `json:"color_code"`
	Note            string             `json:"note"`
	Date            string             `json:"date"`
	Start           string             `json:"start"`
	End             string             `json:"end"`
	Recurrence      *recurrenceRequest `json:"recurrence,omitempty"`
}

type batchResponse struct {
	Requested   int      `json:"requested"`
	Succeeded   int      `json:"succeeded"`
	Failed      int      `json:"failed"`
	FailedDates []string `json:"failed_dates,omitempty"`
	Message     string   `json:"message"`
}

// Create handles POST /api/v1/bookings. With a recurrence attached the
// anchor is created first and the follow-up occurrences fan out in one
// concurrent batch whose report rides along in the response.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	allowOverlap := r.URL.Query().Get("allow_overlap") == "true"

	booking, rule, err := buildFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Create(r.Context(), booking, allowOverlap); err != nil {
		h.writeStoreError(w, err)
		return
	}
	eventbus.PublishAll(r.Context(), h.publisher, h.logger, booking.DomainEvents())
	booking.ClearDomainEvents()

	response := map[string]any{"booking": toBookingResponse(booking)}
	if rule != nil {
		batch, err := h.recurring.Handle(r.Context(), commands.CreateRecurringCommand{
			Kind:            booking.Kind(),
			ProviderID:      booking.ProviderID(),
			PatientID:       booking.PatientID(),
			Location:        booking.Location(),
			AppointmentType: booking.AppointmentType(),
			ColorCode:       booking.ColorCode(),
			AnchorDate:      booking.Date(),
			Start:           booking.Start(),
			End:             booking.End(),
			Rule:            *rule,
			AllowOverlap:    allowOverlap,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		response["batch"] = toBatchResponse(batch)
	}
	writeJSON(w, http.StatusCreated, response)
}

// CreateRecurring handles POST /api/v1/bookings/recurring for an anchor
// that already exists.
func (h *BookingHandler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Recurrence == nil {
		writeError(w, http.StatusBadRequest, "recurrence is required")
		return
	}

	booking, rule, err := buildFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := h.recurring.Handle(r.Context(), commands.CreateRecurringCommand{
		Kind:            booking.Kind(),
		ProviderID:      booking.ProviderID(),
		PatientID:       booking.PatientID(),
		Location:        booking.Location(),
		AppointmentType: booking.AppointmentType(),
		ColorCode:       booking.ColorCode(),
		AnchorDate:      booking.Date(),
		Start:           booking.Start(),
		End:             booking.End(),
		Rule:            *rule,
		AllowOverlap:    r.URL.Query().Get("allow_overlap") == "true",
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponse(batch))
}

// Get handles GET /api/v1/bookings/{bookingID}.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("bookingID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	booking, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if booking == nil {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

// List handles GET /api/v1/bookings.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	query := queries.ListBookingsQuery{
		Locations: r.URL.Query()["location"],
	}
	if raw := r.URL.Query().Get("provider_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid provider id")
			return
		}
		query.ProviderID = id
	}
	var err error
	if query.From, err = parseOptionalDay(r.URL.Query().Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date")
		return
	}
	if query.To, err = parseOptionalDay(r.URL.Query().Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date")
		return
	}

	bookings, err := h.list.Handle(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

type rescheduleRequest struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Reschedule handles PUT /api/v1/bookings/{bookingID}.
func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("bookingID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, start, end, err := parseTimeRange(req.Date, req.Start, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if booking == nil {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err := booking.Reschedule(date, start, end); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	allowOverlap := r.URL.Query().Get("allow_overlap") == "true"
	if err := h.store.Update(r.Context(), booking, allowOverlap); err != nil {
		h.writeStoreError(w, err)
		return
	}
	eventbus.PublishAll(r.Context(), h.publisher, h.logger, booking.DomainEvents())
	booking.ClearDomainEvents()

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

type updateRowRequest struct {
	Status *string `json:"status,omitempty"`
	Room   string  `json:"room,omitempty"`
	Intake *string `json:"intake,omitempty"`
	Note   *string `json:"note,omitempty"`
}

// UpdateRow handles PATCH /api/v1/bookings/{bookingID}/row.
func (h *BookingHandler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("bookingID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req updateRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := commands.UpdateRowCommand{BookingID: id, Room: req.Room, Note: req.Note}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		cmd.Status = &status
	}
	if req.Intake != nil {
		intake := domain.IntakeStatus(*req.Intake)
		cmd.Intake = &intake
	}

	if err := h.updateRow.Handle(r.Context(), cmd); err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			writeError(w, http.StatusNotFound, "booking not found")
		case errors.Is(err, domain.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/bookings/{bookingID}.
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("bookingID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	if err := h.cancel.Handle(r.Context(), commands.CancelBookingCommand{BookingID: id}); err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DaySchedule handles GET /api/v1/schedule/day.
func (h *BookingHandler) DaySchedule(w http.ResponseWriter, r *http.Request) {
	query, err := parseDayQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	schedule, err := h.daySchedule.Handle(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// ExportDay handles GET /api/v1/schedule/day/export, streaming the day's
// bookings as an iCalendar document.
func (h *BookingHandler) ExportDay(w http.ResponseWriter, r *http.Request) {
	query, err := parseDayQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bookings, err := h.list.Handle(r.Context(), queries.ListBookingsQuery{
		ProviderID: query.ProviderID,
		Locations:  query.LocationKeys,
		From:       query.Date,
		To:         query.Date,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.ics"`)
	if err := export.WriteICS(w, bookings); err != nil {
		h.logger.Error("ics export failed", "error", err)
	}
}

func (h *BookingHandler) writeStoreError(w http.ResponseWriter, err error) {
	var rejection *domain.RejectionError
	if errors.As(err, &rejection) {
		writeMessages(w, rejection.StatusCode, rejection.Messages)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func parseDayQuery(r *http.Request) (queries.GetDayScheduleQuery, error) {
	query := queries.GetDayScheduleQuery{
		LocationKeys: r.URL.Query()["location"],
		SlotMinutes:  30,
	}
	date, err := parseOptionalDay(r.URL.Query().Get("date"))
	if err != nil || date.IsZero() {
		return query, errors.New("a valid date is required")
	}
	query.Date = date

	if raw := r.URL.Query().Get("provider_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return query, errors.New("invalid provider id")
		}
		query.ProviderID = id
	}
	if raw := r.URL.Query().Get("slot_minutes"); raw != "" {
		slot, err := strconv.Atoi(raw)
		if err != nil || slot <= 0 {
			return query, errors.New("invalid slot_minutes")
		}
		query.SlotMinutes = slot
	}
	return query, nil
}

func parseOptionalDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dayFormat, raw, time.UTC)
}

func parseTimeRange(date, start, end string) (time.Time, sharedDomain.TimeOfDay, sharedDomain.TimeOfDay, error) {
	day, err := time.ParseInLocation(dayFormat, date, time.UTC)
	if err != nil {
		return time.Time{}, sharedDomain.TimeOfDay{}, sharedDomain.TimeOfDay{}, errors.New("invalid date")
	}
	startTime, err := sharedDomain.ParseTimeOfDay(start)
	if err != nil {
		return time.Time{}, sharedDomain.TimeOfDay{}, sharedDomain.TimeOfDay{}, errors.New("invalid start time")
	}
	endTime, err := sharedDomain.ParseTimeOfDay(end)
	if err != nil {
		return time.Time{}, sharedDomain.TimeOfDay{}, sharedDomain.TimeOfDay{}, errors.New("invalid end time")
	}
	return day, startTime, endTime, nil
}

func buildFromRequest(req createBookingRequest) (*domain.Booking, *domain.RecurrenceRule, error) {
	date, start, end, err := parseTimeRange(req.Date, req.Start, req.End)
	if err != nil {
		return nil, nil, err
	}

	providerID := uuid.Nil
	if req.ProviderID != "" {
		if providerID, err = uuid.Parse(req.ProviderID); err != nil {
			return nil, nil, errors.New("invalid provider id")
		}
	}

	var booking *domain.Booking
	switch domain.Kind(req.Kind) {
	case domain.KindAppointment:
		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			return nil, nil, errors.New("invalid patient id")
		}
		booking, err = domain.NewAppointment(providerID, patientID,
			req.Location, req.AppointmentType, req.ColorCode, date, start, end)
		if err != nil {
			return nil, nil, err
		}
	case domain.KindBlock:
		booking, err = domain.NewBlock(providerID, req.Location, req.AppointmentType, date, start, end)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, domain.ErrInvalidKind
	}

	if req.Note != "" {
		booking.SetNote(req.Note)
	}

	var rule *domain.RecurrenceRule
	if req.Recurrence != nil {
		rule = &domain.RecurrenceRule{
			IntervalWeeks: req.Recurrence.IntervalWeeks,
			MaxAdditional: req.Recurrence.MaxAdditional,
		}
		for _, wd := range req.Recurrence.Weekdays {
			rule.Weekdays = append(rule.Weekdays, time.Weekday(wd))
		}
		if req.Recurrence.Until != "" {
			until, err := time.ParseInLocation(dayFormat, req.Recurrence.Until, time.UTC)
			if err != nil {
				return nil, nil, errors.New("invalid recurrence until date")
			}
			rule.Until = until
		}
		if err := booking.AttachRecurrence(*rule); err != nil {
			return nil, nil, err
		}
	}
	return booking, rule, nil
}

type bookingResponse struct {
	ID              string             `json:"id"`
	Kind            string             `json:"kind"`
	ProviderID      string             `json:"provider_id"`
	PatientID       string             `json:"patient_id,omitempty"`
	Location        string             `json:"location"`
	AppointmentType string             `json:"appointment_type"`
	ColorCode       string             `json:"color_code"`
	Note            string             `json:"note,omitempty"`
	Date            string             `json:"date"`
	Start           string             `json:"start"`
	End             string             `json:"end"`
	Status          string             `json:"status"`
	Room            string             `json:"room,omitempty"`
	Intake          string             `json:"intake"`
	Recurrence      *recurrenceRequest `json:"recurrence,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              b.ID().String(),
		Kind:            string(b.Kind()),
		ProviderID:      b.ProviderID().String(),
		Location:        b.Location(),
		AppointmentType: b.AppointmentType(),
		ColorCode:       b.ColorCode(),
		Note:            b.Note(),
		Date:            b.Date().Format(dayFormat),
		Start:           b.Start().String(),
		End:             b.End().String(),
		Status:          string(b.Status()),
		Room:            b.Room(),
		Intake:          string(b.Intake()),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
	if b.PatientID() != uuid.Nil {
		resp.PatientID = b.PatientID().String()
	}
	if rule := b.Recurrence(); rule != nil {
		rec := &recurrenceRequest{
			IntervalWeeks: rule.IntervalWeeks,
			MaxAdditional: rule.MaxAdditional,
		}
		for _, wd := range rule.Weekdays {
			rec.Weekdays = append(rec.Weekdays, int(wd))
		}
		if !rule.Until.IsZero() {
			rec.Until = rule.Until.Format(dayFormat)
		}
		resp.Recurrence = rec
	}
	return resp
}

func toBatchResponse(batch *commands.BatchResult) batchResponse {
	resp := batchResponse{
		Requested: batch.Requested,
		Succeeded: batch.Succeeded,
		Failed:    batch.Failed,
		Message:   batch.Message(),
	}
	for _, day := range batch.FailedDates {
		resp.FailedDates = append(resp.FailedDates, day.Format(dayFormat))
	}
	return resp
}
