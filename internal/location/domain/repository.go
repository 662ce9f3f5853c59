package domain

import "context"

// Directory provides read and write access to the practice's locations.
type Directory interface {
	// Save persists a location, inserting or replacing by key.
	Save(ctx context.Context, loc *Location) error
	// FindByKey returns the location with the given key, or nil when absent.
	FindByKey(ctx context.Context, key string) (*Location, error)
	// FindByKeys resolves a set of keys, preserving the request order.
	// Unknown keys are skipped.
	FindByKeys(ctx context.Context, keys []string) ([]*Location, error)
	// List returns all locations ordered by key.
	List(ctx context.Context) ([]*Location, error)
	// Delete removes a location by key.
	Delete(ctx context.Context, key string) error
}
