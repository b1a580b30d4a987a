package engine

import (
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputeFreeQtyPolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule domain.Scheme
		qty  float64
		want float64
	}{
		{
			name: "fixed within bounds",
			rule: domain.Scheme{PriceOrProductDiscount: domain.ProductDiscount, FreeQtyType: domain.FreeQtyFixed, FreeQty: 2, MinQty: domain.Float(10), MaxQty: domain.Float(50)},
			qty:  30,
			want: 2,
		},
		{
			name: "percentage truncates to one decimal",
			rule: domain.Scheme{PriceOrProductDiscount: domain.ProductDiscount, FreeQtyType: domain.FreeQtyPercentage, FreeQty: 10},
			qty:  37,
			want: 3.7,
		},
		{
			name: "percentage drops second decimal",
			rule: domain.Scheme{PriceOrProductDiscount: domain.ProductDiscount, FreeQtyType: domain.FreeQtyPercentage, FreeQty: 10},
			qty:  37.99,
			want: 3.7,
		},
		{
			name: "recursive tiers truncated",
			rule: domain.Scheme{PriceOrProductDiscount: domain.ProductDiscount, IsRecursive: true, RecurseFor: 5, FreeQty: 1},
			qty:  23,
			want: 4.6,
		},
		{
			name: "recursive multiplies per-tier quantity",
			rule: domain.Scheme{PriceOrProductDiscount: domain.ProductDiscount, IsRecursive: true, RecurseFor: 10, FreeQty: 3},
			qty:  25,
			want: 7.5,
		},
		{
			name: "recursive without interval grants nothing",
			rule: domain.Scheme{PriceOrProductDiscount: domain.ProductDiscount, IsRecursive: true, FreeQty: 1},
			qty:  23,
			want: 0,
		},
		{
			name: "price schemes grant nothing",
			rule: domain.Scheme{PriceOrProductDiscount: domain.PriceDiscount, FreeQty: 4},
			qty:  23,
			want: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.want, ComputeFreeQty(tc.qty, tc.rule), 1e-9)
		})
	}
}

func TestScenarioFixedRuleIsApplicable(t *testing.T) {
	t.Parallel()

	rule := domain.Scheme{
		PriceOrProductDiscount: domain.ProductDiscount,
		FreeQtyType:            domain.FreeQtyFixed,
		FreeQty:                2,
		MinQty:                 domain.Float(10),
		MaxQty:                 domain.Float(50),
	}
	assert.True(t, IsApplicable(30, 0, rule))
	assert.Equal(t, 2.0, EntitledFreeQty(30, 0, rule))
	assert.Equal(t, 0.0, EntitledFreeQty(51, 0, rule))
}

func TestComputeFreeQtyIsMonotonic(t *testing.T) {
	t.Parallel()

	rules := map[string]domain.Scheme{
		"fixed":      {PriceOrProductDiscount: domain.ProductDiscount, FreeQtyType: domain.FreeQtyFixed, FreeQty: 2},
		"percentage": {PriceOrProductDiscount: domain.ProductDiscount, FreeQtyType: domain.FreeQtyPercentage, FreeQty: 12.5},
		"recursive":  {PriceOrProductDiscount: domain.ProductDiscount, IsRecursive: true, RecurseFor: 4, FreeQty: 1},
	}

	for name, rule := range rules {
		prev := ComputeFreeQty(0, rule)
		for i := 1; i <= 400; i++ {
			qty := float64(i) * 0.25
			got := ComputeFreeQty(qty, rule)
			assert.GreaterOrEqual(t, got, prev, "%s at qty %.2f", name, qty)
			prev = got
		}
	}
}

func TestRecursiveGrowsInTierSteps(t *testing.T) {
	t.Parallel()

	rule := domain.Scheme{PriceOrProductDiscount: domain.ProductDiscount, IsRecursive: true, RecurseFor: 5, FreeQty: 1}

	// A tenth of a tier is 0.5 units: quantities inside one step share a value.
	assert.InDelta(t, ComputeFreeQty(20, rule), ComputeFreeQty(20.4, rule), 1e-9)
	assert.InDelta(t, 4.1, ComputeFreeQty(20.5, rule), 1e-9)
}
