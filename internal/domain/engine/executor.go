package engine

import (
	"context"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

// ConditionEvaluator evaluates a scheme's free-form condition against an
// order.
type ConditionEvaluator interface {
	Evaluate(ctx context.Context, condition map[string]any, order *domain.Order) (bool, error)
}

// conditionHolds reports whether the scheme's condition passes. A scheme
// without a condition always passes; one with a condition fails when no
// evaluator is available or evaluation errors.
func conditionHolds(ctx context.Context, cond ConditionEvaluator, rule domain.Scheme, order *domain.Order) bool {
	if len(rule.Condition) == 0 {
		return true
	}
	if cond == nil {
		return false
	}
	ok, err := cond.Evaluate(ctx, rule.Condition, order)
	return err == nil && ok
}

func partyMatches(rule domain.Scheme, order *domain.Order) bool {
	if rule.Customer != "" && rule.Customer != order.Customer {
		return false
	}
	if rule.CustomerGroup != "" && rule.CustomerGroup != order.CustomerGroup {
		return false
	}
	if rule.Territory != "" && rule.Territory != order.Territory {
		return false
	}
	return true
}
