// Package rest implements the booking store against a remote practice
// server's JSON API. Calls run through a circuit breaker so a flapping
// backend fails fast instead of hanging every scheduling action.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

const dayFormat = "2006-01-02"

// Client implements domain.Store over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

// NewClient creates a client for the given base URL, for example
// "https://practice.example.com".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    "booking-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

// Create posts a booking. The overlap override travels as a query flag;
// a 409 with the overlap message comes back as a RejectionError for the
// classifier.
func (c *Client) Create(ctx context.Context, b *domain.Booking, allowOverlap bool) error {
	u := fmt.Sprintf("%s/api/v1/bookings?allow_overlap=%t", c.baseURL, allowOverlap)
	return c.send(ctx, http.MethodPost, u, toPayload(b), nil)
}

// Update puts a booking by id.
func (c *Client) Update(ctx context.Context, b *domain.Booking, allowOverlap bool) error {
	u := fmt.Sprintf("%s/api/v1/bookings/%s?allow_overlap=%t", c.baseURL, b.ID(), allowOverlap)
	return c.send(ctx, http.MethodPut, u, toPayload(b), nil)
}

// FindByID fetches a booking, returning nil on 404.
func (c *Client) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var payload bookingPayload
	err := c.send(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/bookings/%s", c.baseURL, id), nil, &payload)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromPayload(payload)
}

// List fetches bookings matching the filter.
func (c *Client) List(ctx context.Context, f domain.Filter) ([]*domain.Booking, error) {
	params := url.Values{}
	if f.ProviderID != uuid.Nil {
		params.Set("provider_id", f.ProviderID.String())
	}
	for _, loc := range f.Locations {
		params.Add("location", loc)
	}
	if !f.From.IsZero() {
		params.Set("from", f.From.Format(dayFormat))
	}
	if !f.To.IsZero() {
		params.Set("to", f.To.Format(dayFormat))
	}

	u := c.baseURL + "/api/v1/bookings"
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var payloads []bookingPayload
	if err := c.send(ctx, http.MethodGet, u, nil, &payloads); err != nil {
		return nil, err
	}
	bookings := make([]*domain.Booking, 0, len(payloads))
	for _, p := range payloads {
		b, err := fromPayload(p)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// Delete removes a booking by id.
func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.send(ctx, http.MethodDelete, fmt.Sprintf("%s/api/v1/bookings/%s", c.baseURL, id), nil, nil)
	if isNotFound(err) {
		return domain.ErrBookingNotFound
	}
	return err
}

func (c *Client) send(ctx context.Context, method, u string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		return fmt.Errorf("booking store request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseRejection(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseRejection turns an error response into a RejectionError carrying
// the server's messages verbatim, so overlap classification sees exactly
// what the server said.
func parseRejection(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var body struct {
		Messages []string `json:"messages"`
		Error    string   `json:"error"`
	}
	rejection := &domain.RejectionError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(data, &body); err == nil {
		rejection.Messages = body.Messages
		if len(rejection.Messages) == 0 && body.Error != "" {
			rejection.Messages = []string{body.Error}
		}
	}
	if len(rejection.Messages) == 0 {
		rejection.Messages = []string{http.StatusText(resp.StatusCode)}
	}
	return rejection
}

func isNotFound(err error) bool {
	var rejection *domain.RejectionError
	return errors.As(err, &rejection) && rejection.StatusCode == http.StatusNotFound
}

type bookingPayload struct {
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
	Recurrence      *recurrencePayload `json:"recurrence,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type recurrencePayload struct {
	Weekdays      []int  `json:"weekdays"`
	IntervalWeeks int    `json:"interval_weeks"`
	MaxAdditional int    `json:"max_additional,omitempty"`
	Until         string `json:"until,omitempty"`
}

func toPayload(b *domain.Booking) bookingPayload {
	p := bookingPayload{
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
		p.PatientID = b.PatientID().String()
	}
	if rule := b.Recurrence(); rule != nil {
		rp := &recurrencePayload{IntervalWeeks: rule.IntervalWeeks, MaxAdditional: rule.MaxAdditional}
		for _, wd := range rule.Weekdays {
			rp.Weekdays = append(rp.Weekdays, int(wd))
		}
		if !rule.Until.IsZero() {
			rp.Until = rule.Until.Format(dayFormat)
		}
		p.Recurrence = rp
	}
	return p
}

func fromPayload(p bookingPayload) (*domain.Booking, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, fmt.Errorf("parse booking id: %w", err)
	}
	providerID, err := uuid.Parse(p.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("parse provider id: %w", err)
	}
	patientID := uuid.Nil
	if p.PatientID != "" {
		if patientID, err = uuid.Parse(p.PatientID); err != nil {
			return nil, fmt.Errorf("parse patient id: %w", err)
		}
	}
	date, err := time.ParseInLocation(dayFormat, p.Date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse booking date: %w", err)
	}
	start, err := sharedDomain.ParseTimeOfDay(p.Start)
	if err != nil {
		return nil, fmt.Errorf("parse booking start: %w", err)
	}
	end, err := sharedDomain.ParseTimeOfDay(p.End)
	if err != nil {
		return nil, fmt.Errorf("parse booking end: %w", err)
	}

	var rule *domain.RecurrenceRule
	if p.Recurrence != nil {
		rule = &domain.RecurrenceRule{
			IntervalWeeks: p.Recurrence.IntervalWeeks,
			MaxAdditional: p.Recurrence.MaxAdditional,
		}
		for _, wd := range p.Recurrence.Weekdays {
			rule.Weekdays = append(rule.Weekdays, time.Weekday(wd))
		}
		if p.Recurrence.Until != "" {
			until, err := time.ParseInLocation(dayFormat, p.Recurrence.Until, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("parse recurrence until: %w", err)
			}
			rule.Until = until
		}
	}

	return domain.RehydrateBooking(
		id, domain.Kind(p.Kind), providerID, patientID,
		p.Location, p.AppointmentType, p.ColorCode, p.Note,
		date, start, end,
		domain.Status(p.Status), p.Room, domain.IntakeStatus(p.Intake), rule,
		p.CreatedAt, p.UpdatedAt,
	), nil
}
