package models

import (
	"fmt"
	"time"
)

// RuleKind classifies what a rate rule reacts to.
type RuleKind string

const (
	RuleSeasonal       RuleKind = "seasonal"
	RuleWeekend        RuleKind = "weekend"
	RuleHoliday        RuleKind = "holiday"
	RuleMinimumStay    RuleKind = "minimum_stay"
	RuleAdvanceBooking RuleKind = "advance_booking"
	RuleLastMinute     RuleKind = "last_minute"
	RuleCustom         RuleKind = "custom"
)

// ModifierType is the arithmetic mode of a rate rule. The set is closed;
// price application rejects values outside it.
type ModifierType string

const (
	// ModifierPercentage adjusts the running price by price_modifier percent.
	ModifierPercentage ModifierType = "percentage"
	// ModifierFixedAmount adds price_modifier (major units) to the running price.
	ModifierFixedAmount ModifierType = "fixed_amount"
	// ModifierAbsolutePrice replaces the running price with price_modifier (major units).
	ModifierAbsolutePrice ModifierType = "absolute_price"
)

// Valid reports whether t is one of the known modifier types.
func (t ModifierType) Valid() bool {
	switch t {
	case ModifierPercentage, ModifierFixedAmount, ModifierAbsolutePrice:
		return true
	}
	return false
}

func (t ModifierType) String() string { return string(t) }

// RateRule is a configured modifier stacked onto a property's base nightly price.
//
// PriceModifier is expressed in percent for ModifierPercentage and in MAJOR
// currency units (euros, not cents) for ModifierFixedAmount and
// ModifierAbsolutePrice. The stored convention is inherited from the pricing
// backend and must be scaled at application time.
type RateRule struct {
	ID                 int64             `json:"id"`
	Name               string            `json:"name"`
	PropertyID         *int64            `json:"property_id,omitempty"` // nil = applies to all properties
	Kind               RuleKind          `json:"kind"`
	StartDate          *time.Time        `json:"start_date,omitempty"` // inclusive
	EndDate            *time.Time        `json:"end_date,omitempty"`   // inclusive
	Weekdays           []int             `json:"weekdays,omitempty"`   // 0=Sunday .. 6=Saturday
	PriceModifier      float64           `json:"price_modifier"`
	ModifierType       ModifierType      `json:"modifier_type"`
	MinNights          *int              `json:"min_nights,omitempty"`
	MaxNights          *int              `json:"max_nights,omitempty"`
	AdvanceBookingDays *int              `json:"advance_booking_days,omitempty"`
	IsActive           bool              `json:"is_active"`
	Priority           int               `json:"priority"` // lower applies first
	Conditions         map[string]string `json:"conditions,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// AppliesToProperty reports whether the rule is scoped to the given property.
// A nil PropertyID means the rule is global.
func (r *RateRule) AppliesToProperty(propertyID int64) bool {
	return r.PropertyID == nil || *r.PropertyID == propertyID
}

// HasDateRange reports whether both range endpoints are set.
func (r *RateRule) HasDateRange() bool {
	return r.StartDate != nil && r.EndDate != nil
}

// ContainsDate checks the inclusive [StartDate, EndDate] range against a date.
// Rules without a full range match any date.
func (r *RateRule) ContainsDate(date time.Time) bool {
	if !r.HasDateRange() {
		return true
	}
	d := DateOnly(date)
	return !d.Before(DateOnly(*r.StartDate)) && !d.After(DateOnly(*r.EndDate))
}

// MatchesWeekday checks the weekday set against a date. Rules without a
// weekday set match any day.
func (r *RateRule) MatchesWeekday(date time.Time) bool {
	if len(r.Weekdays) == 0 {
		return true
	}
	wd := int(date.Weekday())
	for _, w := range r.Weekdays {
		if w == wd {
			return true
		}
	}
	return false
}

// Validate checks structural invariants on the rule.
func (r *RateRule) Validate() error {
	if !r.ModifierType.Valid() {
		return fmt.Errorf("unknown modifier type %q", r.ModifierType)
	}
	if r.HasDateRange() && r.EndDate.Before(*r.StartDate) {
		return fmt.Errorf("rule %d: end_date before start_date", r.ID)
	}
	for _, w := range r.Weekdays {
		if w < 0 || w > 6 {
			return fmt.Errorf("rule %d: weekday %d out of range", r.ID, w)
		}
	}
	return nil
}

// DateOnly truncates a timestamp to midnight UTC. All date arithmetic in the
// engine runs on day granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date the way calendar maps and the API expose it.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
