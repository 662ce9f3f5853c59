// Package cache fronts the location directory with Redis so day-view
// renders do not hit the database for every hours lookup.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/praxis/internal/location/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/redis/go-redis/v9"
)

const hoursKeyPrefix = "praxis:hours:"

// HoursCache is a read-through cache for merged daily hours. Cache
// failures degrade to the underlying resolver; they never fail a lookup.
type HoursCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewHoursCache creates a cache with the given entry TTL.
func NewHoursCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *HoursCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &HoursCache{client: client, ttl: ttl, logger: logger}
}

type mergedHoursRecord struct {
	Open  bool   `json:"open"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// MergedHoursFor returns the cached merged envelope for the date and
// location set, resolving and caching on a miss.
func (c *HoursCache) MergedHoursFor(ctx context.Context, date time.Time, locations []*domain.Location) (domain.MergedHours, error) {
	key := c.key(date, locations)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var rec mergedHoursRecord
		if jerr := json.Unmarshal([]byte(raw), &rec); jerr == nil {
			if hours, derr := recordToHours(rec); derr == nil {
				return hours, nil
			}
		}
		// Fall through and recompute on a corrupt entry.
	} else if err != redis.Nil {
		c.logger.Warn("hours cache read failed", "key", key, "error", err)
	}

	hours := domain.MergedHoursFor(date, locations)
	c.store(ctx, key, hours)
	return hours, nil
}

// Invalidate drops every cached envelope, called when a location's hours
// change.
func (c *HoursCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, hoursKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("hours cache scan failed", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("hours cache invalidate failed", "error", err)
	}
}

func (c *HoursCache) store(ctx context.Context, key string, hours domain.MergedHours) {
	rec := mergedHoursRecord{Open: hours.Open, Start: hours.Start.String(), End: hours.End.String()}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("hours cache write failed", "key", key, "error", err)
	}
}

func (c *HoursCache) key(date time.Time, locations []*domain.Location) string {
	key := hoursKeyPrefix + date.Format("2006-01-02")
	for _, loc := range locations {
		key += ":" + loc.Key()
	}
	return key
}

func recordToHours(rec mergedHoursRecord) (domain.MergedHours, error) {
	start, err := sharedDomain.ParseTimeOfDay(rec.Start)
	if err != nil {
		return domain.MergedHours{}, fmt.Errorf("cached hours start: %w", err)
	}
	end, err := sharedDomain.ParseTimeOfDay(rec.End)
	if err != nil {
		return domain.MergedHours{}, fmt.Errorf("cached hours end: %w", err)
	}
	return domain.MergedHours{Open: rec.Open, Start: start, End: end}, nil
}
