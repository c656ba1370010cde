package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"villetta/internal/metrics"
	"villetta/internal/models"
)

// Engine resolves availability and prices for candidate stays. It is a pure
// computation over per-call snapshots: no shared mutable state, no locking.
type Engine struct {
	store  Store
	logger *zerolog.Logger

	// now is swappable so lead-time predicates are testable.
	now func() time.Time

	// nightPricer prices one synthetic 1-night stay during calendar
	// projection. Overridable in tests to exercise the partial-failure path.
	nightPricer func(snap *Snapshot, date time.Time) (int64, error)
}

// New creates a pricing engine on top of a rule/interval store.
func New(store Store, logger *zerolog.Logger) *Engine {
	e := &Engine{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	e.nightPricer = e.priceNight
	return e
}

// CheckAvailability reports whether the half-open stay [checkIn, checkOut)
// is bookable. The reason is non-empty when unavailable; blackouts surface
// their configured reason text.
func (e *Engine) CheckAvailability(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) (bool, string, error) {
	checkIn, checkOut = models.DateOnly(checkIn), models.DateOnly(checkOut)
	if !checkOut.After(checkIn) {
		return false, "", ErrInvalidRange
	}

	property, err := e.store.GetProperty(ctx, propertyID)
	if err != nil {
		return false, "", err
	}

	snap, err := loadSnapshot(ctx, e.store, property)
	if err != nil {
		return false, "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	available, reason := checkAvailability(snap, checkIn, checkOut)
	return available, reason, nil
}

// GetAvailabilityCalendar returns a date->available map for every date in
// the inclusive [start, end] window. It never errors on overlaps; the map is
// the whole answer.
func (e *Engine) GetAvailabilityCalendar(ctx context.Context, propertyID int64, start, end time.Time) (map[string]bool, error) {
	start, end = models.DateOnly(start), models.DateOnly(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	property, err := e.store.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(ctx, e.store, property)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return availabilityCalendar(snap, start, end), nil
}

// CalculatePricing prices a whole stay: one aggregate nightly rate applied to
// every night. Unavailability comes back inside the result, not as an error;
// a backend failure degrades to base_price * nights with an empty rule log so
// the caller's booking flow keeps moving.
func (e *Engine) CalculatePricing(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) (*models.PricingResult, error) {
	checkIn, checkOut = models.DateOnly(checkIn), models.DateOnly(checkOut)
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidRange
	}
	nights := int(checkOut.Sub(checkIn).Hours() / 24)

	property, err := e.store.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	result := &models.PricingResult{
		PropertyID:   property.ID,
		Currency:     property.Currency,
		BasePrice:    property.BasePriceCents,
		Nights:       nights,
		AppliedRules: []models.AppliedRule{},
	}

	snap, err := loadSnapshot(ctx, e.store, property)
	if err != nil {
		// Degraded mode: the booking flow still gets a price.
		e.logger.Warn().Err(err).Int64("property_id", propertyID).
			Msg("rule backend unavailable, falling back to base price")
		metrics.IncFallback()
		metrics.IncQuote("fallback")
		result.PricePerNight = property.BasePriceCents
		result.TotalPrice = property.BasePriceCents * int64(nights)
		result.IsAvailable = true
		result.Degraded = true
		return result, nil
	}

	available, reason := checkAvailability(snap, checkIn, checkOut)
	result.IsAvailable = available
	if !available {
		result.BlackoutReason = reason
	}

	st := stay{
		propertyID: property.ID,
		checkIn:    checkIn,
		checkOut:   checkOut,
		nights:     nights,
		bookedAt:   e.now(),
	}
	matched := selectApplicableRules(snap.Rules, st, false)

	perNight, applied, conflict, err := applyRules(property.BasePriceCents, matched)
	if err != nil {
		metrics.IncQuote("error")
		return nil, err
	}
	if conflict {
		e.logger.Warn().Int64("property_id", propertyID).Str("check_in", models.DateKey(checkIn)).
			Msg("multiple absolute_price rules matched the same stay; priority order decided")
		metrics.IncRuleConflict()
	}

	result.PricePerNight = perNight
	result.TotalPrice = perNight * int64(nights)
	result.AppliedRules = applied

	if available {
		metrics.IncQuote("ok")
	} else {
		metrics.IncQuote("unavailable")
	}
	return result, nil
}

// GetPricingCalendar returns a date->nightly-price map for the inclusive
// [start, end] window. Each date is priced as a synthetic 1-night stay with
// min/max-night rule bounds ignored, so the calendar shows the rate a guest
// would see for that day in isolation. A failure on one day prices that day
// as 0 and never aborts the rest; cancellation is honored between days.
func (e *Engine) GetPricingCalendar(ctx context.Context, propertyID int64, start, end time.Time) (map[string]int64, error) {
	start, end = models.DateOnly(start), models.DateOnly(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	property, err := e.store.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	calendar := make(map[string]int64)

	snap, err := loadSnapshot(ctx, e.store, property)
	if err != nil {
		// Same degraded contract as single-stay pricing: base price for
		// every day beats an empty calendar.
		e.logger.Warn().Err(err).Int64("property_id", propertyID).
			Msg("rule backend unavailable, calendar falls back to base price")
		metrics.IncFallback()
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			calendar[models.DateKey(d)] = property.BasePriceCents
		}
		return calendar, nil
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return calendar, err
		}

		price, err := e.nightPricer(snap, d)
		if err != nil {
			e.logger.Warn().Err(err).Int64("property_id", propertyID).Str("date", models.DateKey(d)).
				Msg("failed to price calendar day")
			metrics.IncCalendarDay("error")
			calendar[models.DateKey(d)] = 0
			continue
		}
		calendar[models.DateKey(d)] = price
		metrics.IncCalendarDay("ok")
	}

	return calendar, nil
}

// priceNight is the default nightPricer: resolve and apply the rule chain for
// a 1-night stay starting on date.
func (e *Engine) priceNight(snap *Snapshot, date time.Time) (int64, error) {
	st := stay{
		propertyID: snap.Property.ID,
		checkIn:    date,
		checkOut:   date.AddDate(0, 0, 1),
		nights:     1,
		bookedAt:   e.now(),
	}
	matched := selectApplicableRules(snap.Rules, st, true)

	perNight, _, conflict, err := applyRules(snap.Property.BasePriceCents, matched)
	if err != nil {
		return 0, err
	}
	if conflict {
		metrics.IncRuleConflict()
	}
	return perNight, nil
}
