package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	core "github.com/Victor-armando18/pricing-scheme/internal/domain/engine"
)

// Types shared with host applications that embed the engine.
type (
	Order             = domain.Order
	OrderLine         = domain.OrderLine
	Scheme            = domain.Scheme
	FreeItem          = domain.FreeItem
	Catalog           = domain.Catalog
	AppliedScheme     = domain.AppliedScheme
	Selection         = domain.Selection
	FreeItemSelection = domain.FreeItemSelection

	ApplyResult   = core.ApplyResult
	ExecutionStep = core.ExecutionStep
	State         = core.State
)

const (
	StateCommitted = core.StateCommitted
	StateRejected  = core.StateRejected
)

// IsApplicable reports whether the aggregates satisfy every bound the scheme
// sets.
func IsApplicable(qty, amount float64, rule Scheme) bool {
	return core.IsApplicable(qty, amount, rule)
}

// FreeQty is the free quantity a Product scheme grants for an aggregate
// quantity.
func FreeQty(aggregateQty float64, rule Scheme) float64 {
	return core.ComputeFreeQty(aggregateQty, rule)
}

// AppliedSchemes maps each applied scheme id to the lines carrying it.
func AppliedSchemes(order *Order) map[string][]string {
	return core.AppliedSchemes(order)
}
