package engine

import (
	"context"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
)

type lockedField struct {
	label string
	get   func(domain.OrderLine) float64
}

var lockedFields = []lockedField{
	{"Quantity", func(l domain.OrderLine) float64 { return l.Qty }},
	{"Rate", func(l domain.OrderLine) float64 { return l.Rate }},
	{"Discount (%)", func(l domain.OrderLine) float64 { return l.DiscountPercentage }},
	{"Discount Amount", func(l domain.OrderLine) float64 { return l.DiscountAmount }},
	{"Price List Rate", func(l domain.OrderLine) float64 { return l.PriceListRate }},
}

// CheckLockedLines rejects edits to the pricing fields of lines whose scheme
// did not change between before and after. Free lines are locked the same way.
func CheckLockedLines(before, after *domain.Order) error {
	for _, line := range after.Lines {
		if line.SchemeID == "" {
			continue
		}
		old := before.Line(line.Name)
		if old == nil || old.SchemeID != line.SchemeID {
			continue
		}
		for _, f := range lockedFields {
			if f.get(*old) != f.get(line) {
				return pkgerrors.Newf(pkgerrors.CodeValidation,
					"Row #%d: %s cannot be edited as scheme is already applied.", line.Idx, f.label).
					WithDetails(map[string]any{"row": line.Name, "field": f.label})
			}
		}
	}
	return nil
}

// CheckSchemeFields rejects order edits that touch what only an application
// or a removal may write: line scheme tags, free-item and skip flags, and the
// order-level scheme with its discount. before is nil for a new order.
func CheckSchemeFields(before, after *domain.Order) error {
	prev := &domain.Order{}
	if before != nil {
		prev = before
	}

	if after.SchemeID != prev.SchemeID ||
		after.ApplyDiscountOn != prev.ApplyDiscountOn ||
		after.AdditionalDiscountPercentage != prev.AdditionalDiscountPercentage ||
		after.DiscountAmount != prev.DiscountAmount {
		return pkgerrors.New(pkgerrors.CodeValidation,
			"The order-level discount can only be changed by applying or removing a scheme.")
	}

	kept := make(map[string]struct{}, len(after.Lines))
	for _, line := range after.Lines {
		var old domain.OrderLine
		if o := prev.Line(line.Name); o != nil {
			old = *o
			kept[line.Name] = struct{}{}
		}
		if line.SchemeID != old.SchemeID || line.IsFreeItem != old.IsFreeItem || line.SkipAutoApply != old.SkipAutoApply {
			return pkgerrors.Newf(pkgerrors.CodeValidation,
				"Row #%d: scheme fields can only be changed by applying or removing a scheme.", line.Idx).
				WithDetails(map[string]any{"row": line.Name})
		}
	}
	for _, old := range prev.Lines {
		if _, ok := kept[old.Name]; ok || old.SchemeID == "" {
			continue
		}
		return pkgerrors.Newf(pkgerrors.CodeValidation,
			"Row #%d: remove scheme %s before deleting the row.", old.Idx, old.SchemeID).
			WithDetails(map[string]any{"row": old.Name})
	}
	return nil
}

// ValidateAppliedSchemes re-checks every scheme applied to the order against
// its current state. Item schemes are checked per tagged line, or across all
// covered lines when the scheme uses mixed conditions.
func ValidateAppliedSchemes(ctx context.Context, order *domain.Order, defs map[string]domain.Scheme, cond ConditionEvaluator) error {
	for _, line := range order.Lines {
		if line.IsFreeItem || line.SchemeID == "" {
			continue
		}
		rule, ok := defs[line.SchemeID]
		if !ok {
			return pkgerrors.Newf(pkgerrors.CodeIneligible, "Row #%d: Pricing Rule %s no longer exists.", line.Idx, line.SchemeID)
		}
		if !partyMatches(rule, order) || !conditionHolds(ctx, cond, rule, order) {
			return lineIneligible(rule, line)
		}
		qty, amount := measure(line.Aggregate(), rule.QtyBasedOn), line.Amount
		if rule.MixedConditions {
			qty, amount = MixedAggregate(order, rule, rule.ID)
		}
		if !IsApplicable(qty, amount, rule) {
			return lineIneligible(rule, line).WithDetails(boundsDetails(rule, qty, amount))
		}
	}

	if order.SchemeID == "" {
		return nil
	}
	rule, ok := defs[order.SchemeID]
	if !ok {
		return pkgerrors.Newf(pkgerrors.CodeIneligible, "Pricing Rule %s no longer exists.", order.SchemeID)
	}
	if !partyMatches(rule, order) || !conditionHolds(ctx, cond, rule, order) {
		return orderIneligible(rule)
	}
	qty, amount := Aggregate(order, rule, nil)
	if !IsApplicable(qty, amount, rule) {
		return orderIneligible(rule).WithDetails(boundsDetails(rule, qty, amount))
	}
	return nil
}

func lineIneligible(rule domain.Scheme, line domain.OrderLine) *pkgerrors.Error {
	return pkgerrors.Newf(pkgerrors.CodeIneligible,
		"Row #%d: Pricing Rule %s(%s) is not applicable.", line.Idx, rule.ID, rule.Title)
}

func orderIneligible(rule domain.Scheme) *pkgerrors.Error {
	return pkgerrors.Newf(pkgerrors.CodeIneligible,
		"Pricing Rule %s(%s) is not applicable for the transaction.", rule.ID, rule.Title)
}

func boundsDetails(rule domain.Scheme, qty, amount float64) map[string]any {
	return map[string]any{
		"schemeId": rule.ID,
		"quantity": qty,
		"amount":   amount,
		"minQty":   rule.MinQty,
		"maxQty":   rule.MaxQty,
		"minAmt":   rule.MinAmt,
		"maxAmt":   rule.MaxAmt,
	}
}
