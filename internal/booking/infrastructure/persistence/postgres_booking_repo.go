package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgresBookingRepository implements domain.Store on a pgx pool for
// shared multi-workstation deployments. Recurrence lives in dedicated
// columns with the weekday set as an integer array.
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository.
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

// Migrate ensures the bookings schema exists.
func (r *PostgresBookingRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bookings (
			id                    UUID PRIMARY KEY,
			kind                  TEXT NOT NULL,
			provider_id           UUID NOT NULL,
			patient_id            UUID NOT NULL,
			location              TEXT NOT NULL,
			appointment_type      TEXT NOT NULL,
			color_code            TEXT NOT NULL,
			note                  TEXT NOT NULL DEFAULT '',
			day                   DATE NOT NULL,
			start_minutes         INT NOT NULL,
			end_minutes           INT NOT NULL,
			status                TEXT NOT NULL,
			room                  TEXT NOT NULL DEFAULT '',
			intake                TEXT NOT NULL,
			recur_weekdays        INT[],
			recur_interval_weeks  INT,
			recur_max_additional  INT,
			recur_until           DATE,
			created_at            TIMESTAMPTZ NOT NULL,
			updated_at            TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_bookings_provider_day ON bookings(provider_id, day);
		CREATE INDEX IF NOT EXISTS idx_bookings_location_day ON bookings(location, day);
	`)
	if err != nil {
		return fmt.Errorf("ensure bookings schema: %w", err)
	}
	return nil
}

// Create inserts a booking, enforcing the overlap constraint unless the
// override is set.
func (r *PostgresBookingRepository) Create(ctx context.Context, b *domain.Booking, allowOverlap bool) error {
	if !allowOverlap {
		if err := r.checkOverlap(ctx, b, uuid.Nil); err != nil {
			return err
		}
	}

	weekdays, interval, maxAdditional, until := recurrenceColumns(b.Recurrence())
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bookings (
			id, kind, provider_id, patient_id, location, appointment_type,
			color_code, note, day, start_minutes, end_minutes,
			status, room, intake,
			recur_weekdays, recur_interval_weeks, recur_max_additional, recur_until,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		b.ID(), string(b.Kind()), b.ProviderID(), b.PatientID(),
		b.Location(), b.AppointmentType(), b.ColorCode(), b.Note(),
		b.Date(), b.Start().Minutes(), b.End().Minutes(),
		string(b.Status()), b.Room(), string(b.Intake()),
		weekdays, interval, maxAdditional, until,
		b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// Update rewrites a booking, re-checking the overlap constraint unless
// the override is set.
func (r *PostgresBookingRepository) Update(ctx context.Context, b *domain.Booking, allowOverlap bool) error {
	if !allowOverlap {
		if err := r.checkOverlap(ctx, b, b.ID()); err != nil {
			return err
		}
	}

	weekdays, interval, maxAdditional, until := recurrenceColumns(b.Recurrence())
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings SET
			kind = $1, provider_id = $2, patient_id = $3, location = $4,
			appointment_type = $5, color_code = $6, note = $7,
			day = $8, start_minutes = $9, end_minutes = $10,
			status = $11, room = $12, intake = $13,
			recur_weekdays = $14, recur_interval_weeks = $15,
			recur_max_additional = $16, recur_until = $17,
			updated_at = $18
		WHERE id = $19`,
		string(b.Kind()), b.ProviderID(), b.PatientID(), b.Location(),
		b.AppointmentType(), b.ColorCode(), b.Note(),
		b.Date(), b.Start().Minutes(), b.End().Minutes(),
		string(b.Status()), b.Room(), string(b.Intake()),
		weekdays, interval, maxAdditional, until,
		b.UpdatedAt(), b.ID(),
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// FindByID returns the booking with the given id, or nil when absent.
func (r *PostgresBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	rows, err := r.pool.Query(ctx, selectBookingsPG+` WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("find booking: %w", err)
		}
		return nil, nil
	}
	return scanBookingPG(rows)
}

// List returns bookings matching the filter, ordered by day then start.
func (r *PostgresBookingRepository) List(ctx context.Context, f domain.Filter) ([]*domain.Booking, error) {
	query := selectBookingsPG + ` WHERE 1=1`
	var args []any

	if f.ProviderID != uuid.Nil {
		args = append(args, f.ProviderID, uuid.Nil)
		query += fmt.Sprintf(` AND (provider_id = $%d OR provider_id = $%d)`, len(args)-1, len(args))
	}
	if len(f.Locations) > 0 {
		args = append(args, pq.Array(f.Locations))
		query += fmt.Sprintf(` AND location = ANY($%d)`, len(args))
	}
	if !f.From.IsZero() {
		args = append(args, domain.NormalizeDate(f.From))
		query += fmt.Sprintf(` AND day >= $%d`, len(args))
	}
	if !f.To.IsZero() {
		args = append(args, domain.NormalizeDate(f.To))
		query += fmt.Sprintf(` AND day <= $%d`, len(args))
	}
	query += ` ORDER BY day, start_minutes, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBookingPG(rows)
		if err != nil {
			return nil, fmt.Errorf("list bookings: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// Delete removes a booking by id.
func (r *PostgresBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *PostgresBookingRepository) checkOverlap(ctx context.Context, b *domain.Booking, excludeID uuid.UUID) error {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE provider_id = $1 AND day = $2
		  AND start_minutes < $3 AND end_minutes > $4
		  AND id <> $5`,
		b.ProviderID(), b.Date(), b.End().Minutes(), b.Start().Minutes(), excludeID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if count > 0 {
		return domain.NewOverlapRejection()
	}
	return nil
}

const selectBookingsPG = `
	SELECT id, kind, provider_id, patient_id, location, appointment_type,
	       color_code, note, day, start_minutes, end_minutes,
	       status, room, intake,
	       recur_weekdays, recur_interval_weeks, recur_max_additional, recur_until,
	       created_at, updated_at
	FROM bookings`

func scanBookingPG(rows pgx.Rows) (*domain.Booking, error) {
	var (
		id, providerID, patientID       uuid.UUID
		kind, location, appointmentType string
		color, note                     string
		day                             time.Time
		startMinutes, endMinutes        int
		status, room, intake            string
		weekdays                        []int32
		intervalWeeks, maxAdditional    *int
		until                           *time.Time
		createdAt, updatedAt            time.Time
	)
	if err := rows.Scan(
		&id, &kind, &providerID, &patientID, &location, &appointmentType,
		&color, &note, &day, &startMinutes, &endMinutes,
		&status, &room, &intake,
		&weekdays, &intervalWeeks, &maxAdditional, &until,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var rule *domain.RecurrenceRule
	if len(weekdays) > 0 && intervalWeeks != nil {
		rule = &domain.RecurrenceRule{IntervalWeeks: *intervalWeeks}
		for _, wd := range weekdays {
			rule.Weekdays = append(rule.Weekdays, time.Weekday(wd))
		}
		if maxAdditional != nil {
			rule.MaxAdditional = *maxAdditional
		}
		if until != nil {
			rule.Until = domain.NormalizeDate(*until)
		}
	}

	return domain.RehydrateBooking(
		id, domain.Kind(kind), providerID, patientID,
		location, appointmentType, color, note,
		domain.NormalizeDate(day),
		sharedDomain.TimeOfDayFromMinutes(startMinutes), sharedDomain.TimeOfDayFromMinutes(endMinutes),
		domain.Status(status), room, domain.IntakeStatus(intake), rule,
		createdAt, updatedAt,
	), nil
}

func recurrenceColumns(rule *domain.RecurrenceRule) (weekdays any, interval, maxAdditional *int, until *time.Time) {
	if rule == nil {
		return nil, nil, nil, nil
	}
	days := make([]int32, 0, len(rule.Weekdays))
	for _, wd := range rule.Weekdays {
		days = append(days, int32(wd))
	}
	interval = &rule.IntervalWeeks
	if rule.MaxAdditional > 0 {
		maxAdditional = &rule.MaxAdditional
	}
	if !rule.Until.IsZero() {
		u := rule.Until
		until = &u
	}
	return pq.Array(days), interval, maxAdditional, until
}
