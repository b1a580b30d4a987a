package engine

import (
	"math"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
)

// FreeQtyTolerance is the largest accepted gap between the selected free
// quantity and the computed entitlement.
const FreeQtyTolerance = 0.1

// SelectedFreeQty sums the chosen free items: plain quantity for Stock
// schemes, unit weight times quantity for Weight schemes. Unit weights come
// from the scheme, never from the caller.
func SelectedFreeQty(selected []domain.FreeItemSelection, rule domain.Scheme) float64 {
	total := 0.0
	for _, sel := range selected {
		if rule.QtyBasedOn == domain.QtyBasedOnWeight {
			fi, _ := rule.FreeItemByCode(sel.ItemCode)
			total += fi.UnitWeight * sel.Qty
			continue
		}
		total += sel.Qty
	}
	return total
}

// ValidateFreeItems rejects free items the scheme does not offer and
// negative quantities.
func ValidateFreeItems(selected []domain.FreeItemSelection, rule domain.Scheme) error {
	for _, sel := range selected {
		if _, ok := rule.FreeItemByCode(sel.ItemCode); !ok {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "item %s is not a free item of scheme %s", sel.ItemCode, rule.ID)
		}
		if sel.Qty < 0 {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "free item %s has a negative quantity", sel.ItemCode)
		}
	}
	return nil
}

func MatchesEntitlement(selected, computed float64) bool {
	return math.Abs(selected-computed) < FreeQtyTolerance
}

// CheckSelection returns a SELECTION_MISMATCH error when the selected free
// quantity differs from the entitlement by the tolerance or more.
func CheckSelection(selected, computed float64) error {
	if MatchesEntitlement(selected, computed) {
		return nil
	}
	return pkgerrors.Newf(pkgerrors.CodeSelectionMismatch,
		"Please select exactly %.2f free items, you have selected %.2f.", computed, selected).
		WithDetails(map[string]any{
			"required": math.Round(computed*100) / 100,
			"selected": math.Round(selected*100) / 100,
		})
}

// FreeSelectionFromLines rebuilds the free-item selection recorded on the
// order for a scheme.
func FreeSelectionFromLines(order *domain.Order, schemeID string) []domain.FreeItemSelection {
	var out []domain.FreeItemSelection
	for _, line := range order.Lines {
		if line.IsFreeItem && line.SchemeID == schemeID {
			out = append(out, domain.FreeItemSelection{ItemCode: line.ItemCode, Qty: line.Qty})
		}
	}
	return out
}
