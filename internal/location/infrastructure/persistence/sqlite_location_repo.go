// Package persistence stores the location directory in SQLite alongside
// the bookings database.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/praxis/internal/location/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const locationSchema = `
CREATE TABLE IF NOT EXISTS locations (
	key        TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	name       TEXT NOT NULL,
	weekly     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// SQLiteLocationRepository implements domain.Directory on SQLite. Weekly
// hours are stored as a JSON object keyed by weekday number.
type SQLiteLocationRepository struct {
	db *sql.DB
}

// NewSQLiteLocationRepository creates the repository and ensures the
// schema exists.
func NewSQLiteLocationRepository(db *sql.DB) (*SQLiteLocationRepository, error) {
	if _, err := db.Exec(locationSchema); err != nil {
		return nil, fmt.Errorf("ensure locations schema: %w", err)
	}
	return &SQLiteLocationRepository{db: db}, nil
}

// Save inserts or replaces a location by key.
func (r *SQLiteLocationRepository) Save(ctx context.Context, loc *domain.Location) error {
	weekly, err := marshalWeekly(loc.Weekly())
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO locations (key, id, name, weekly, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			weekly = excluded.weekly,
			updated_at = excluded.updated_at`,
		loc.Key(), loc.ID().String(), loc.Name(), weekly, loc.CreatedAt(), loc.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save location: %w", err)
	}
	return nil
}

// FindByKey returns the location with the given key, or nil when absent.
func (r *SQLiteLocationRepository) FindByKey(ctx context.Context, key string) (*domain.Location, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT key, id, name, weekly, created_at, updated_at FROM locations WHERE key = ?`, key)
	loc, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find location: %w", err)
	}
	return loc, nil
}

// FindByKeys resolves keys in request order, skipping unknown ones.
func (r *SQLiteLocationRepository) FindByKeys(ctx context.Context, keys []string) ([]*domain.Location, error) {
	locations := make([]*domain.Location, 0, len(keys))
	for _, key := range keys {
		loc, err := r.FindByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if loc != nil {
			locations = append(locations, loc)
		}
	}
	return locations, nil
}

// List returns all locations ordered by key.
func (r *SQLiteLocationRepository) List(ctx context.Context) ([]*domain.Location, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, id, name, weekly, created_at, updated_at FROM locations ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []*domain.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("list locations: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// Delete removes a location by key.
func (r *SQLiteLocationRepository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if rows == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (*domain.Location, error) {
	var (
		key, idStr, name, weeklyJSON string
		createdAt, updatedAt         time.Time
	)
	if err := row.Scan(&key, &idStr, &name, &weeklyJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse location id: %w", err)
	}
	weekly, err := unmarshalWeekly(weeklyJSON)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateLocation(id, key, name, weekly, createdAt, updatedAt), nil
}

type dayHoursRecord struct {
	Open  bool   `json:"open"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func marshalWeekly(weekly domain.WeeklyHours) (string, error) {
	records := make(map[time.Weekday]dayHoursRecord, len(weekly))
	for day, h := range weekly {
		records[day] = dayHoursRecord{Open: h.Open, Start: h.Start.String(), End: h.End.String()}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshal weekly hours: %w", err)
	}
	return string(data), nil
}

func unmarshalWeekly(raw string) (domain.WeeklyHours, error) {
	var records map[time.Weekday]dayHoursRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("unmarshal weekly hours: %w", err)
	}
	weekly := make(domain.WeeklyHours, len(records))
	for day, rec := range records {
		start, err := sharedDomain.ParseTimeOfDay(rec.Start)
		if err != nil {
			return nil, fmt.Errorf("weekly hours start: %w", err)
		}
		end, err := sharedDomain.ParseTimeOfDay(rec.End)
		if err != nil {
			return nil, fmt.Errorf("weekly hours end: %w", err)
		}
		weekly[day] = domain.DayHours{Open: rec.Open, Start: start, End: end}
	}
	return weekly, nil
}
