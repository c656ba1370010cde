package pricing

import (
	"fmt"
	"math"

	"villetta/internal/models"
)

// applyRules stacks the ordered rule chain onto a base nightly price. The
// rules must already be in application order (ascending priority); each step
// is appended to the audit log with the price it produced.
//
// conflict reports that more than one absolute_price rule fired for the same
// stay. The outcome is still deterministic (the last one in the chain wins,
// discarding everything before it) but a double override almost always means
// a misconfigured rule set, so callers log it.
func applyRules(basePriceCents int64, rules []models.RateRule) (finalPriceCents int64, applied []models.AppliedRule, conflict bool, err error) {
	current := basePriceCents
	applied = make([]models.AppliedRule, 0, len(rules))
	absoluteSeen := 0

	for i := range rules {
		rule := &rules[i]
		switch rule.ModifierType {
		case models.ModifierPercentage:
			current = int64(math.Round(float64(current) * (1 + rule.PriceModifier/100)))
		case models.ModifierFixedAmount:
			// PriceModifier arrives in major units and is scaled to cents
			// before adding. Stored contract, see RateRule.
			current += int64(math.Round(rule.PriceModifier * 100))
		case models.ModifierAbsolutePrice:
			// Replaces the running total outright, discarding every prior
			// adjustment in the chain.
			current = int64(math.Round(rule.PriceModifier * 100))
			absoluteSeen++
		default:
			return 0, nil, false, fmt.Errorf("rule %d: %w: %q", rule.ID, ErrUnknownModifier, rule.ModifierType)
		}

		applied = append(applied, models.AppliedRule{
			RuleID:         rule.ID,
			RuleName:       rule.Name,
			ModifierType:   rule.ModifierType,
			ResultingPrice: current,
		})
	}

	return current, applied, absoluteSeen > 1, nil
}
