package pricing

import (
	"sort"
	"time"

	"villetta/internal/models"
)

// stay carries the per-call facts the rule predicates test against.
type stay struct {
	propertyID int64
	checkIn    time.Time
	checkOut   time.Time
	nights     int
	bookedAt   time.Time // when the quote is being made; drives lead-time rules
}

// leadDays is the number of whole days between booking time and arrival.
func (s stay) leadDays() int {
	return int(s.checkIn.Sub(models.DateOnly(s.bookedAt)).Hours() / 24)
}

// selectApplicableRules filters a snapshot's rules down to the ones matching
// the stay and returns them in application order: ascending priority, ties
// broken by creation time. Lower-priority rules apply earlier in the chain and
// are therefore overridden by later ones, which matters most for
// absolute_price rules.
//
// ignoreNightBounds drops the min_nights/max_nights predicates; calendar
// projection prices synthetic 1-night stays and would otherwise never show
// rules gated on stay length.
func selectApplicableRules(rules []models.RateRule, st stay, ignoreNightBounds bool) []models.RateRule {
	matched := make([]models.RateRule, 0, len(rules))
	for i := range rules {
		if ruleMatches(&rules[i], st, ignoreNightBounds) {
			matched = append(matched, rules[i])
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority < matched[j].Priority
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched
}

// ruleMatches requires every present predicate to hold. The date-range and
// weekday predicates test only the arrival date: a stay that starts inside a
// seasonal window is priced under that window for all its nights even when it
// ends outside it.
func ruleMatches(r *models.RateRule, st stay, ignoreNightBounds bool) bool {
	if !r.IsActive {
		return false
	}
	if !r.AppliesToProperty(st.propertyID) {
		return false
	}
	if !r.ContainsDate(st.checkIn) {
		return false
	}
	if !r.MatchesWeekday(st.checkIn) {
		return false
	}
	if !ignoreNightBounds {
		if r.MinNights != nil && st.nights < *r.MinNights {
			return false
		}
		if r.MaxNights != nil && st.nights > *r.MaxNights {
			return false
		}
	}
	if r.AdvanceBookingDays != nil {
		lead := st.leadDays()
		// The rule's own kind decides the direction of the comparison:
		// last-minute rules fire on short lead times, advance-booking rules
		// (and anything else carrying the field) on long ones.
		if r.Kind == models.RuleLastMinute {
			if lead > *r.AdvanceBookingDays {
				return false
			}
		} else {
			if lead < *r.AdvanceBookingDays {
				return false
			}
		}
	}
	return true
}
