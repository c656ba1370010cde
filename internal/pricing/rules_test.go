package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"villetta/internal/models"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(year int, month time.Month, d int) *time.Time {
	t := day(year, month, d)
	return &t
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func testStay(checkIn time.Time, nights int) stay {
	return stay{
		propertyID: 1,
		checkIn:    checkIn,
		checkOut:   checkIn.AddDate(0, 0, nights),
		nights:     nights,
		bookedAt:   checkIn.AddDate(0, 0, -14),
	}
}

func TestRuleMatches_PropertyScope(t *testing.T) {
	st := testStay(day(2025, 7, 10), 3)

	scoped := rule(1, "scoped", models.ModifierPercentage, 10)
	scoped.PropertyID = int64Ptr(1)
	assert.True(t, ruleMatches(&scoped, st, false))

	other := rule(2, "other property", models.ModifierPercentage, 10)
	other.PropertyID = int64Ptr(99)
	assert.False(t, ruleMatches(&other, st, false))

	global := rule(3, "global", models.ModifierPercentage, 10)
	assert.True(t, ruleMatches(&global, st, false))
}

func TestRuleMatches_Inactive(t *testing.T) {
	st := testStay(day(2025, 7, 10), 3)
	r := rule(1, "disabled", models.ModifierPercentage, 10)
	r.IsActive = false
	assert.False(t, ruleMatches(&r, st, false))
}

func TestRuleMatches_DateRangeArrivalOnly(t *testing.T) {
	r := rule(1, "high season", models.ModifierPercentage, 25)
	r.StartDate = dayPtr(2025, 7, 1)
	r.EndDate = dayPtr(2025, 7, 31)

	tests := []struct {
		name    string
		checkIn time.Time
		nights  int
		want    bool
	}{
		{"arrival inside range", day(2025, 7, 10), 3, true},
		{"arrival on start boundary", day(2025, 7, 1), 3, true},
		{"arrival on end boundary", day(2025, 7, 31), 3, true},
		{"arrival before range", day(2025, 6, 28), 3, false},
		{"arrival after range", day(2025, 8, 1), 3, false},
		// Only the arrival date is tested: a stay starting inside the range
		// but ending well outside it still matches.
		{"arrival inside, departure outside", day(2025, 7, 30), 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testStay(tt.checkIn, tt.nights)
			assert.Equal(t, tt.want, ruleMatches(&r, st, false))
		})
	}
}

func TestRuleMatches_Weekdays(t *testing.T) {
	r := rule(1, "weekend uplift", models.ModifierPercentage, 15)
	r.Kind = models.RuleWeekend
	r.Weekdays = []int{5, 6} // Fri, Sat

	friday := day(2025, 7, 11)
	assert.Equal(t, time.Friday, friday.Weekday())
	assert.True(t, ruleMatches(&r, testStay(friday, 2), false))

	monday := day(2025, 7, 7)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.False(t, ruleMatches(&r, testStay(monday, 2), false))
}

func TestRuleMatches_NightBounds(t *testing.T) {
	r := rule(1, "weekly discount", models.ModifierPercentage, -10)
	r.MinNights = intPtr(3)

	assert.False(t, ruleMatches(&r, testStay(day(2025, 7, 10), 2), false))
	assert.True(t, ruleMatches(&r, testStay(day(2025, 7, 10), 3), false))

	capped := rule(2, "short stay only", models.ModifierPercentage, 5)
	capped.MaxNights = intPtr(4)
	assert.True(t, ruleMatches(&capped, testStay(day(2025, 7, 10), 4), false))
	assert.False(t, ruleMatches(&capped, testStay(day(2025, 7, 10), 5), false))
}

func TestRuleMatches_IgnoreNightBounds(t *testing.T) {
	// Calendar projection prices 1-night synthetic stays and skips the
	// night-count predicates entirely.
	r := rule(1, "weekly discount", models.ModifierPercentage, -10)
	r.MinNights = intPtr(3)

	assert.True(t, ruleMatches(&r, testStay(day(2025, 7, 10), 1), true))
}

func TestRuleMatches_LeadTimeDirection(t *testing.T) {
	lastMinute := rule(1, "last minute deal", models.ModifierPercentage, -20)
	lastMinute.Kind = models.RuleLastMinute
	lastMinute.AdvanceBookingDays = intPtr(3)

	early := rule(2, "early bird", models.ModifierPercentage, -10)
	early.Kind = models.RuleAdvanceBooking
	early.AdvanceBookingDays = intPtr(30)

	checkIn := day(2025, 7, 10)

	shortLead := stay{propertyID: 1, checkIn: checkIn, checkOut: checkIn.AddDate(0, 0, 2), nights: 2, bookedAt: day(2025, 7, 8)}
	longLead := stay{propertyID: 1, checkIn: checkIn, checkOut: checkIn.AddDate(0, 0, 2), nights: 2, bookedAt: day(2025, 5, 1)}

	// last_minute fires when the lead time is at most the threshold.
	assert.True(t, ruleMatches(&lastMinute, shortLead, false))
	assert.False(t, ruleMatches(&lastMinute, longLead, false))

	// advance_booking fires when the lead time is at least the threshold.
	assert.False(t, ruleMatches(&early, shortLead, false))
	assert.True(t, ruleMatches(&early, longLead, false))
}

func TestSelectApplicableRules_Ordering(t *testing.T) {
	created := day(2025, 1, 1)

	high := rule(1, "override", models.ModifierAbsolutePrice, 80)
	high.Priority = 10
	high.CreatedAt = created

	low := rule(2, "base uplift", models.ModifierPercentage, 20)
	low.Priority = 1
	low.CreatedAt = created

	tieOld := rule(3, "tie old", models.ModifierFixedAmount, 5)
	tieOld.Priority = 5
	tieOld.CreatedAt = created

	tieNew := rule(4, "tie new", models.ModifierFixedAmount, 5)
	tieNew.Priority = 5
	tieNew.CreatedAt = created.AddDate(0, 0, 1)

	st := testStay(day(2025, 7, 10), 2)
	ordered := selectApplicableRules([]models.RateRule{high, tieNew, low, tieOld}, st, false)

	ids := make([]int64, len(ordered))
	for i, r := range ordered {
		ids[i] = r.ID
	}
	// Ascending priority, creation order breaking the tie.
	assert.Equal(t, []int64{2, 3, 4, 1}, ids)
}

func TestSelectApplicableRules_FiltersNonMatching(t *testing.T) {
	matching := rule(1, "global", models.ModifierPercentage, 10)

	wrongProperty := rule(2, "other", models.ModifierPercentage, 10)
	wrongProperty.PropertyID = int64Ptr(99)

	tooShort := rule(3, "weekly", models.ModifierPercentage, -10)
	tooShort.MinNights = intPtr(7)

	st := testStay(day(2025, 7, 10), 2)
	ordered := selectApplicableRules([]models.RateRule{matching, wrongProperty, tooShort}, st, false)

	assert.Len(t, ordered, 1)
	assert.Equal(t, int64(1), ordered[0].ID)
}
