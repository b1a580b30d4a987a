package interfaces

import (
	"context"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/domain/engine"
)

// RuleCatalogSource supplies scheme definitions and the per-order catalog.
type RuleCatalogSource interface {
	FetchRules(ctx context.Context, order *domain.Order) (*domain.Catalog, error)
	Definitions(ctx context.Context) ([]domain.Scheme, error)
}

// SchemeRemover reverts a scheme on a stored order. Callers reload the order
// after a successful removal.
type SchemeRemover interface {
	RemoveScheme(ctx context.Context, orderID, schemeID string) error
}

// OrderRepository is the line mutation sink. Save persists the whole order
// atomically.
type OrderRepository interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) error
}

// OrderPatcher applies an RFC 6902 patch to a copy of the order.
type OrderPatcher func(original domain.Order, patch []byte) (domain.Order, error)

// ReleaseFunc ends an application guarded by ApplicationGuard.
type ReleaseFunc func()

// ApplicationGuard admits at most one application per order at a time.
// Acquire fails with CONCURRENT_APPLICATION while another is in flight.
type ApplicationGuard interface {
	Acquire(ctx context.Context, orderID string) (ReleaseFunc, error)
}

// ConditionEvaluator evaluates scheme conditions against an order.
type ConditionEvaluator = engine.ConditionEvaluator

// SchemeFacade is the entry point exposed to transports.
type SchemeFacade interface {
	SaveOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	PatchOrder(ctx context.Context, orderID string, patch []byte) (*domain.Order, error)
	AvailableSchemes(ctx context.Context, orderID string) (*domain.Catalog, error)
	ApplyScheme(ctx context.Context, orderID string, sel domain.Selection) (*engine.ApplyResult, error)
	AutoApply(ctx context.Context, orderID string) (*domain.Order, error)
	RemoveScheme(ctx context.Context, orderID, schemeID string) (*domain.Order, error)
	HasEligibleUnappliedSchemes(ctx context.Context, orderID string) (bool, error)
	Submit(ctx context.Context, orderID string, bypass bool) (*domain.Order, error)
}
