package models

// AppliedRule is one entry in the audit log of a pricing computation: which
// rule fired and what the running nightly price was after it.
type AppliedRule struct {
	RuleID         int64        `json:"rule_id"`
	RuleName       string       `json:"rule_name"`
	ModifierType   ModifierType `json:"modifier_type"`
	ResultingPrice int64        `json:"resulting_price"` // minor units, after this rule
}

// PricingResult is the outcome of a single-stay pricing call. It is computed
// fresh per invocation and never persisted. All monetary fields are minor
// currency units.
type PricingResult struct {
	PropertyID     int64         `json:"property_id"`
	Currency       string        `json:"currency"`
	BasePrice      int64         `json:"base_price"`      // nightly base, minor units
	PricePerNight  int64         `json:"price_per_night"` // nightly rate after rules
	TotalPrice     int64         `json:"total_price"`     // price_per_night * nights
	Nights         int           `json:"nights"`
	AppliedRules   []AppliedRule `json:"applied_rules"`
	IsAvailable    bool          `json:"is_available"`
	BlackoutReason string        `json:"blackout_reason,omitempty"`
	// Degraded is set when the rule backend was unreachable and the price
	// fell back to base_price * nights with no rules applied.
	Degraded bool `json:"degraded,omitempty"`
}
