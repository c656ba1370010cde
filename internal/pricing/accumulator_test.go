package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"villetta/internal/models"
)

func rule(id int64, name string, mt models.ModifierType, modifier float64) models.RateRule {
	return models.RateRule{
		ID:            id,
		Name:          name,
		ModifierType:  mt,
		PriceModifier: modifier,
		IsActive:      true,
	}
}

func TestApplyRules_Percentage(t *testing.T) {
	final, applied, conflict, err := applyRules(10000, []models.RateRule{
		rule(1, "summer +20%", models.ModifierPercentage, 20),
	})

	assert.NoError(t, err)
	assert.False(t, conflict)
	assert.Equal(t, int64(12000), final)
	assert.Len(t, applied, 1)
	assert.Equal(t, int64(12000), applied[0].ResultingPrice)
}

func TestApplyRules_FixedAmount(t *testing.T) {
	// price_modifier is in major units (euros) and scaled to cents.
	final, _, _, err := applyRules(10000, []models.RateRule{
		rule(1, "cleaning surcharge", models.ModifierFixedAmount, 15),
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(11500), final)
}

func TestApplyRules_AbsoluteDiscardsPriorAdjustments(t *testing.T) {
	// An absolute_price rule later in the chain replaces the running total,
	// regardless of what percentage/fixed rules did before it.
	final, applied, _, err := applyRules(10000, []models.RateRule{
		rule(1, "summer +20%", models.ModifierPercentage, 20),
		rule(2, "promo override", models.ModifierAbsolutePrice, 80),
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(8000), final)
	assert.Len(t, applied, 2)
	assert.Equal(t, int64(12000), applied[0].ResultingPrice)
	assert.Equal(t, int64(8000), applied[1].ResultingPrice)
}

func TestApplyRules_OrderDependence(t *testing.T) {
	abs := rule(1, "override", models.ModifierAbsolutePrice, 80)
	pct := rule(2, "+20%", models.ModifierPercentage, 20)

	absFirst, _, _, err := applyRules(10000, []models.RateRule{abs, pct})
	assert.NoError(t, err)

	absLast, _, _, err := applyRules(10000, []models.RateRule{pct, abs})
	assert.NoError(t, err)

	// abs then pct: 8000 * 1.2 = 9600; pct then abs: 8000.
	assert.Equal(t, int64(9600), absFirst)
	assert.Equal(t, int64(8000), absLast)
	assert.NotEqual(t, absFirst, absLast)
}

func TestApplyRules_NegativeModifiers(t *testing.T) {
	tests := []struct {
		name  string
		rules []models.RateRule
		want  int64
	}{
		{
			name:  "percentage discount",
			rules: []models.RateRule{rule(1, "-10%", models.ModifierPercentage, -10)},
			want:  9000,
		},
		{
			name:  "fixed discount",
			rules: []models.RateRule{rule(1, "-5 eur", models.ModifierFixedAmount, -5)},
			want:  9500,
		},
		{
			name: "stacked",
			rules: []models.RateRule{
				rule(1, "+10%", models.ModifierPercentage, 10),
				rule(2, "-20 eur", models.ModifierFixedAmount, -20),
			},
			want: 9000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, _, _, err := applyRules(10000, tt.rules)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, final)
		})
	}
}

func TestApplyRules_FractionalRounding(t *testing.T) {
	// 10000 * 1.155 = 11550, then +0.5 euro = 11600.
	final, _, _, err := applyRules(10000, []models.RateRule{
		rule(1, "+15.5%", models.ModifierPercentage, 15.5),
		rule(2, "+0.5 eur", models.ModifierFixedAmount, 0.5),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(11600), final)
}

func TestApplyRules_AbsoluteConflictFlag(t *testing.T) {
	_, _, conflict, err := applyRules(10000, []models.RateRule{
		rule(1, "override A", models.ModifierAbsolutePrice, 80),
		rule(2, "override B", models.ModifierAbsolutePrice, 90),
	})

	assert.NoError(t, err)
	assert.True(t, conflict)
}

func TestApplyRules_UnknownModifier(t *testing.T) {
	_, _, _, err := applyRules(10000, []models.RateRule{
		rule(1, "bogus", models.ModifierType("multiplier"), 2),
	})

	assert.ErrorIs(t, err, ErrUnknownModifier)
}

func TestApplyRules_EmptyChain(t *testing.T) {
	final, applied, conflict, err := applyRules(10000, nil)

	assert.NoError(t, err)
	assert.False(t, conflict)
	assert.Equal(t, int64(10000), final)
	assert.Empty(t, applied)
}
