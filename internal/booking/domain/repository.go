package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows a booking listing.
type Filter struct {
	ProviderID uuid.UUID // uuid.Nil matches all providers
	Locations  []string  // empty matches all locations
	From       time.Time // inclusive; zero means unbounded
	To         time.Time // exclusive; zero means unbounded
}

// Store is the booking persistence collaborator. Create and Update enforce
// the double-booking constraint server-side: a colliding time range for
// the same provider and date is rejected with a *RejectionError carrying
// OverlapMessage, unless allowOverlap is set. allowOverlap must only ever
// be set after a prior rejection was confirmed by the user.
type Store interface {
	Create(ctx context.Context, b *Booking, allowOverlap bool) error
	Update(ctx context.Context, b *Booking, allowOverlap bool) error
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, f Filter) ([]*Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
