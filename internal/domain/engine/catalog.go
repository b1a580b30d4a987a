package engine

import (
	"context"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
)

// BuildCatalog computes the schemes currently offered for an order from the
// full set of definitions. Item schemes list the untagged, non-free lines
// they cover and whose advisory aggregates pass the bounds; Transaction
// schemes are offered when the order totals pass.
func BuildCatalog(ctx context.Context, order *domain.Order, defs []domain.Scheme, cond ConditionEvaluator) *domain.Catalog {
	catalog := domain.NewCatalog()
	titles := make(map[string]string, len(defs))

	var itemRules, txRules []domain.Scheme
	for _, rule := range defs {
		titles[rule.ID] = rule.Title
		if rule.Disabled || !partyMatches(rule, order) {
			continue
		}
		if !conditionHolds(ctx, cond, rule, order) {
			continue
		}
		if rule.IsTransaction() {
			txRules = append(txRules, rule)
		} else {
			itemRules = append(itemRules, rule)
		}
	}

	for _, line := range order.Lines {
		if line.IsFreeItem || line.SchemeID != "" || line.ItemCode == "" {
			continue
		}
		catalog.Items[line.Name] = line.Aggregate()

		for _, rule := range itemRules {
			if !rule.Matches(line) {
				continue
			}
			qty, amount := advisoryAggregate(order, rule, line)
			if !IsApplicable(qty, amount, rule) {
				continue
			}
			entry, ok := catalog.Rules[rule.ID]
			if !ok {
				entry = rule
				entry.ApplicableItems = nil
			}
			entry.ApplicableItems = append(entry.ApplicableItems, line.Name)
			catalog.Rules[rule.ID] = entry
		}
	}

	for _, rule := range txRules {
		if order.SchemeID == rule.ID {
			continue
		}
		qty, amount := Aggregate(order, rule, nil)
		if IsApplicable(qty, amount, rule) {
			catalog.Rules[rule.ID] = rule
		}
	}

	catalog.AppliedSchemes = AppliedSchemeIndex(order, titles)
	return catalog
}

func advisoryAggregate(order *domain.Order, rule domain.Scheme, line domain.OrderLine) (float64, float64) {
	if rule.MixedConditions {
		return MixedAggregate(order, rule, "")
	}
	return measure(line.Aggregate(), rule.QtyBasedOn), line.Amount
}

// MixedAggregate sums every non-free line the scheme covers. Lines tagged
// with a scheme are skipped unless the tag is validateFor. Amounts are taken
// at the price list rate when one is set.
func MixedAggregate(order *domain.Order, rule domain.Scheme, validateFor string) (qty, amount float64) {
	for _, line := range order.Lines {
		if line.IsFreeItem {
			continue
		}
		if line.SchemeID != "" && line.SchemeID != validateFor {
			continue
		}
		if !rule.Matches(line) {
			continue
		}
		qty += measure(line.Aggregate(), rule.QtyBasedOn)
		if line.PriceListRate != 0 {
			amount += line.PriceListRate * line.Qty
		} else {
			amount += line.Amount
		}
	}
	return qty, amount
}

// ResolveForOrder prepares a scheme definition for an authoritative
// application attempt against the order's current state. Party filters and
// the condition must hold. Applicable lines are the untagged, non-free lines
// the scheme covers that pass the same per-line bounds BuildCatalog applies.
func ResolveForOrder(ctx context.Context, order *domain.Order, rule domain.Scheme, cond ConditionEvaluator) (domain.Scheme, error) {
	if rule.Disabled {
		return domain.Scheme{}, pkgerrors.Newf(pkgerrors.CodeIneligible, "scheme %s (%s) is disabled", rule.ID, rule.Title)
	}
	if !partyMatches(rule, order) || !conditionHolds(ctx, cond, rule, order) {
		return domain.Scheme{}, pkgerrors.Newf(pkgerrors.CodeIneligible, "scheme %s (%s) is not applicable to order %s", rule.ID, rule.Title, order.ID).
			WithDetails(map[string]any{"schemeId": rule.ID})
	}

	rule.ApplicableItems = nil
	if rule.IsTransaction() {
		return rule, nil
	}
	for _, line := range order.Lines {
		if line.IsFreeItem || line.SchemeID != "" || !rule.Matches(line) {
			continue
		}
		if qty, amount := advisoryAggregate(order, rule, line); IsApplicable(qty, amount, rule) {
			rule.ApplicableItems = append(rule.ApplicableItems, line.Name)
		}
	}
	return rule, nil
}
