package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/shopspring/decimal"
)

var ten = decimal.NewFromInt(10)

// ComputeFreeQty returns the free quantity a Product scheme grants for the
// given aggregate quantity. Price schemes grant nothing.
//
// Percentage and recursive entitlements are truncated to one decimal place.
func ComputeFreeQty(qty float64, rule domain.Scheme) float64 {
	if !rule.IsProduct() {
		return 0
	}

	aggregate := decimal.NewFromFloat(qty)
	free := decimal.NewFromFloat(rule.FreeQty)

	switch {
	case rule.FreeQtyType == domain.FreeQtyPercentage:
		// floor(qty * pct / 10) / 10
		return aggregate.Mul(free).Div(ten).Floor().Div(ten).InexactFloat64()
	case rule.IsRecursive:
		if rule.RecurseFor <= 0 {
			return 0
		}
		tiers := aggregate.Mul(ten).Div(decimal.NewFromFloat(rule.RecurseFor)).Floor().Div(ten)
		return free.Mul(tiers).InexactFloat64()
	default:
		return rule.FreeQty
	}
}

// EntitledFreeQty is ComputeFreeQty guarded by eligibility: an ineligible
// aggregate is entitled to nothing.
func EntitledFreeQty(qty, amount float64, rule domain.Scheme) float64 {
	if !IsApplicable(qty, amount, rule) {
		return 0
	}
	return ComputeFreeQty(qty, rule)
}
