package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/diff"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/guard"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/remover"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/store"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	"github.com/Victor-armando18/pricing-scheme/internal/usecase"
	"github.com/Victor-armando18/pricing-scheme/pkg/logger"
	"github.com/Victor-armando18/pricing-scheme/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Options configures an embedded engine. Orders are kept in memory.
type Options struct {
	// SchemesPath is a JSON or YAML scheme file. Schemes wins when both are set.
	SchemesPath string
	Schemes     []Scheme
	Logger      *logger.Logger
	Registerer  prometheus.Registerer
}

// Engine is the scheme facade bound to in-process collaborators.
type Engine struct {
	interfaces.SchemeFacade
}

func New(opts Options) *Engine {
	conditions := infrastructure.NewJsonLogicExecutor()

	var catalog interfaces.RuleCatalogSource
	if len(opts.Schemes) > 0 || opts.SchemesPath == "" {
		catalog = &infrastructure.StaticCatalogSource{Schemes: opts.Schemes, Conditions: conditions}
	} else {
		catalog = infrastructure.NewFileCatalogSource(opts.SchemesPath, conditions)
	}

	orders := store.NewMemoryStore()
	return &Engine{
		SchemeFacade: usecase.NewSchemeService(usecase.Deps{
			Catalog:    catalog,
			Conditions: conditions,
			Orders:     orders,
			Guard:      guard.NewMemoryGuard(),
			Remover:    remover.New(orders),
			Patch:      infrastructure.ApplyOrderPatch,
			Differ:     &diff.Differ{},
			Logger:     opts.Logger,
			Metrics:    metrics.NewApplyMetrics(opts.Registerer),
		}),
	}
}
