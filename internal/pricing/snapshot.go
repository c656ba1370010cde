package pricing

import (
	"context"
	"fmt"

	"villetta/internal/models"
)

// Store is the read-only view of the rule/interval backend the engine needs.
// *database.DB satisfies it; tests supply mocks.
type Store interface {
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	ListActiveRules(ctx context.Context, propertyID int64) ([]models.RateRule, error)
	ListActiveBlackouts(ctx context.Context, propertyID int64) ([]models.BlackoutInterval, error)
	ListConfirmedBookings(ctx context.Context, propertyID int64) ([]models.BookingInterval, error)
	ListExternalBookings(ctx context.Context, propertyID int64) ([]models.BookingInterval, error)
}

// Snapshot is an immutable per-call view of everything the engine reads for
// one property: its rules, blackouts and occupancy intervals. It is fetched
// once per request and never mutated, so a long calendar projection works on
// consistent data and needs no locking.
type Snapshot struct {
	Property  *models.Property
	Rules     []models.RateRule
	Blackouts []models.BlackoutInterval
	Bookings  []models.BookingInterval
	External  []models.BookingInterval
}

// loadSnapshot batch-fetches all engine inputs for a property. The property
// fetch is mandatory; a failure in any of the remaining reads is reported so
// the caller can decide to degrade instead of aborting.
func loadSnapshot(ctx context.Context, store Store, property *models.Property) (*Snapshot, error) {
	rules, err := store.ListActiveRules(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	blackouts, err := store.ListActiveBlackouts(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("load blackouts: %w", err)
	}
	bookings, err := store.ListConfirmedBookings(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	external, err := store.ListExternalBookings(ctx, property.ID)
	if err != nil {
		return nil, fmt.Errorf("load external bookings: %w", err)
	}

	return &Snapshot{
		Property:  property,
		Rules:     rules,
		Blackouts: blackouts,
		Bookings:  bookings,
		External:  external,
	}, nil
}
