package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
)

// IsApplicable tests the scheme's quantity and amount bounds. An unset or
// zero bound places no constraint on its side.
func IsApplicable(qty, amount float64, rule domain.Scheme) bool {
	if min, ok := bound(rule.MinQty); ok && qty < min {
		return false
	}
	if max, ok := bound(rule.MaxQty); ok && qty > max {
		return false
	}
	if min, ok := bound(rule.MinAmt); ok && amount < min {
		return false
	}
	if max, ok := bound(rule.MaxAmt); ok && amount > max {
		return false
	}
	return true
}

// CheckApplicable is IsApplicable reported as an INELIGIBLE error carrying
// the current aggregates and the bounds they were checked against.
func CheckApplicable(qty, amount float64, rule domain.Scheme) error {
	if IsApplicable(qty, amount, rule) {
		return nil
	}
	return pkgerrors.Newf(pkgerrors.CodeIneligible,
		"scheme %s (%s) is no longer applicable: criteria not met", rule.ID, rule.Title).
		WithDetails(boundsDetails(rule, qty, amount))
}

func bound(v *float64) (float64, bool) {
	if v == nil || *v == 0 {
		return 0, false
	}
	return *v, true
}
