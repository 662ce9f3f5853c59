// Package persistence provides storage implementations of the booking
// store: an embedded SQLite database and a PostgreSQL pool for shared
// deployments.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const bookingSchema = `
CREATE TABLE IF NOT EXISTS bookings (
	id               TEXT PRIMARY KEY,
	kind             TEXT NOT NULL,
	provider_id      TEXT NOT NULL,
	patient_id       TEXT NOT NULL,
	location         TEXT NOT NULL,
	appointment_type TEXT NOT NULL,
	color_code       TEXT NOT NULL,
	note             TEXT NOT NULL DEFAULT '',
	day              TEXT NOT NULL,
	start_minutes    INTEGER NOT NULL,
	end_minutes      INTEGER NOT NULL,
	status           TEXT NOT NULL,
	room             TEXT NOT NULL DEFAULT '',
	intake           TEXT NOT NULL,
	recurrence       TEXT,
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookings_provider_day ON bookings(provider_id, day);
CREATE INDEX IF NOT EXISTS idx_bookings_location_day ON bookings(location, day);
`

const dayFormat = "2006-01-02"

// SQLiteBookingRepository implements domain.Store on an embedded SQLite
// database. The overlap constraint is enforced here with a pre-insert
// range query, matched by the rejection the remote store would return.
type SQLiteBookingRepository struct {
	db *sql.DB
}

// NewSQLiteBookingRepository creates the repository and ensures the
// schema exists.
func NewSQLiteBookingRepository(db *sql.DB) (*SQLiteBookingRepository, error) {
	if _, err := db.Exec(bookingSchema); err != nil {
		return nil, fmt.Errorf("ensure bookings schema: %w", err)
	}
	return &SQLiteBookingRepository{db: db}, nil
}

// Create inserts a booking. With allowOverlap false a colliding range for
// the same provider and day rejects the insert.
func (r *SQLiteBookingRepository) Create(ctx context.Context, b *domain.Booking, allowOverlap bool) error {
	if !allowOverlap {
		if err := r.checkOverlap(ctx, b, uuid.Nil); err != nil {
			return err
		}
	}

	recurrence, err := marshalRecurrence(b.Recurrence())
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO bookings (
			id, kind, provider_id, patient_id, location, appointment_type,
			color_code, note, day, start_minutes, end_minutes,
			status, room, intake, recurrence, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID().String(), string(b.Kind()), b.ProviderID().String(), b.PatientID().String(),
		b.Location(), b.AppointmentType(), b.ColorCode(), b.Note(),
		b.Date().Format(dayFormat), b.Start().Minutes(), b.End().Minutes(),
		string(b.Status()), b.Room(), string(b.Intake()), recurrence,
		b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// Update rewrites a booking. With allowOverlap false the new range is
// checked against every other booking of the same provider and day.
func (r *SQLiteBookingRepository) Update(ctx context.Context, b *domain.Booking, allowOverlap bool) error {
	if !allowOverlap {
		if err := r.checkOverlap(ctx, b, b.ID()); err != nil {
			return err
		}
	}

	recurrence, err := marshalRecurrence(b.Recurrence())
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET
			kind = ?, provider_id = ?, patient_id = ?, location = ?,
			appointment_type = ?, color_code = ?, note = ?,
			day = ?, start_minutes = ?, end_minutes = ?,
			status = ?, room = ?, intake = ?, recurrence = ?, updated_at = ?
		WHERE id = ?`,
		string(b.Kind()), b.ProviderID().String(), b.PatientID().String(), b.Location(),
		b.AppointmentType(), b.ColorCode(), b.Note(),
		b.Date().Format(dayFormat), b.Start().Minutes(), b.End().Minutes(),
		string(b.Status()), b.Room(), string(b.Intake()), recurrence, b.UpdatedAt(),
		b.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if rows == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// FindByID returns the booking with the given id, or nil when absent.
func (r *SQLiteBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx, selectBookings+` WHERE id = ?`, id.String())
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return b, nil
}

// List returns bookings matching the filter, ordered by day then start.
func (r *SQLiteBookingRepository) List(ctx context.Context, f domain.Filter) ([]*domain.Booking, error) {
	query := selectBookings + ` WHERE 1=1`
	var args []any

	if f.ProviderID != uuid.Nil {
		query += ` AND (provider_id = ? OR provider_id = ?)`
		args = append(args, f.ProviderID.String(), uuid.Nil.String())
	}
	if len(f.Locations) > 0 {
		query += ` AND location IN (?` + strings.Repeat(",?", len(f.Locations)-1) + `)`
		for _, loc := range f.Locations {
			args = append(args, loc)
		}
	}
	if !f.From.IsZero() {
		query += ` AND day >= ?`
		args = append(args, domain.NormalizeDate(f.From).Format(dayFormat))
	}
	if !f.To.IsZero() {
		query += ` AND day <= ?`
		args = append(args, domain.NormalizeDate(f.To).Format(dayFormat))
	}
	query += ` ORDER BY day, start_minutes, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("list bookings: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// Delete removes a booking by id.
func (r *SQLiteBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if rows == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// checkOverlap rejects a range that intersects another booking of the
// same provider on the same day. excludeID skips the booking itself on
// updates.
func (r *SQLiteBookingRepository) checkOverlap(ctx context.Context, b *domain.Booking, excludeID uuid.UUID) error {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE provider_id = ? AND day = ?
		  AND start_minutes < ? AND end_minutes > ?
		  AND id <> ?`,
		b.ProviderID().String(), b.Date().Format(dayFormat),
		b.End().Minutes(), b.Start().Minutes(),
		excludeID.String(),
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if count > 0 {
		return domain.NewOverlapRejection()
	}
	return nil
}

const selectBookings = `
	SELECT id, kind, provider_id, patient_id, location, appointment_type,
	       color_code, note, day, start_minutes, end_minutes,
	       status, room, intake, recurrence, created_at, updated_at
	FROM bookings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		idStr, kind, providerStr, patientStr   string
		location, appointmentType, color, note string
		day                                    string
		startMinutes, endMinutes               int
		status, room, intake                   string
		recurrenceJSON                         sql.NullString
		createdAt, updatedAt                   time.Time
	)
	if err := row.Scan(
		&idStr, &kind, &providerStr, &patientStr,
		&location, &appointmentType, &color, &note,
		&day, &startMinutes, &endMinutes,
		&status, &room, &intake, &recurrenceJSON, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse booking id: %w", err)
	}
	providerID, err := uuid.Parse(providerStr)
	if err != nil {
		return nil, fmt.Errorf("parse provider id: %w", err)
	}
	patientID, err := uuid.Parse(patientStr)
	if err != nil {
		return nil, fmt.Errorf("parse patient id: %w", err)
	}
	date, err := time.ParseInLocation(dayFormat, day, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse booking day: %w", err)
	}
	rule, err := unmarshalRecurrence(recurrenceJSON)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateBooking(
		id, domain.Kind(kind), providerID, patientID,
		location, appointmentType, color, note,
		date,
		sharedDomain.TimeOfDayFromMinutes(startMinutes), sharedDomain.TimeOfDayFromMinutes(endMinutes),
		domain.Status(status), room, domain.IntakeStatus(intake), rule,
		createdAt, updatedAt,
	), nil
}

type recurrenceRecord struct {
	Weekdays      []int  `json:"weekdays"`
	IntervalWeeks int    `json:"interval_weeks"`
	MaxAdditional int    `json:"max_additional,omitempty"`
	Until         string `json:"until,omitempty"`
}

func marshalRecurrence(rule *domain.RecurrenceRule) (sql.NullString, error) {
	if rule == nil {
		return sql.NullString{}, nil
	}
	rec := recurrenceRecord{IntervalWeeks: rule.IntervalWeeks, MaxAdditional: rule.MaxAdditional}
	for _, wd := range rule.Weekdays {
		rec.Weekdays = append(rec.Weekdays, int(wd))
	}
	if !rule.Until.IsZero() {
		rec.Until = rule.Until.Format(dayFormat)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal recurrence: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalRecurrence(raw sql.NullString) (*domain.RecurrenceRule, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var rec recurrenceRecord
	if err := json.Unmarshal([]byte(raw.String), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal recurrence: %w", err)
	}
	rule := &domain.RecurrenceRule{
		IntervalWeeks: rec.IntervalWeeks,
		MaxAdditional: rec.MaxAdditional,
	}
	for _, wd := range rec.Weekdays {
		rule.Weekdays = append(rule.Weekdays, time.Weekday(wd))
	}
	if rec.Until != "" {
		until, err := time.ParseInLocation(dayFormat, rec.Until, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse recurrence until: %w", err)
		}
		rule.Until = until
	}
	return rule, nil
}
