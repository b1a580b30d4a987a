package usecase

import (
	"context"
	"fmt"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/domain/engine"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	"github.com/Victor-armando18/pricing-scheme/internal/usecase/applyscheme"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"github.com/Victor-armando18/pricing-scheme/pkg/logger"
	"github.com/Victor-armando18/pricing-scheme/pkg/metrics"
	"github.com/google/uuid"
)

// Deps are the collaborators of SchemeService. Catalog, Orders, Guard,
// Remover and Patch are required.
type Deps struct {
	Catalog    interfaces.RuleCatalogSource
	Conditions interfaces.ConditionEvaluator
	Orders     interfaces.OrderRepository
	Guard      interfaces.ApplicationGuard
	Remover    interfaces.SchemeRemover
	Patch      interfaces.OrderPatcher
	Differ     applyscheme.Differ
	Logger     *logger.Logger
	Metrics    *metrics.ApplyMetrics
	NewRowName func() string
}

type SchemeService struct {
	catalog    interfaces.RuleCatalogSource
	conditions interfaces.ConditionEvaluator
	orders     interfaces.OrderRepository
	guard      interfaces.ApplicationGuard
	remover    interfaces.SchemeRemover
	patch      interfaces.OrderPatcher
	apply      *applyscheme.UseCase
	logg       *logger.Logger
	metrics    *metrics.ApplyMetrics
	newRowName func() string
}

func NewSchemeService(d Deps) interfaces.SchemeFacade {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.NewRowName == nil {
		d.NewRowName = uuid.NewString
	}
	applier := &engine.Applier{NewRowName: d.NewRowName}

	return &SchemeService{
		catalog:    d.Catalog,
		conditions: d.Conditions,
		orders:     d.Orders,
		guard:      d.Guard,
		remover:    d.Remover,
		patch:      d.Patch,
		logg:       d.Logger,
		metrics:    d.Metrics,
		newRowName: d.NewRowName,
		apply: &applyscheme.UseCase{
			Catalog:    d.Catalog,
			Conditions: d.Conditions,
			Orders:     d.Orders,
			Guard:      d.Guard,
			Applier:    applier,
			Differ:     d.Differ,
			Logger:     d.Logger,
			Metrics:    d.Metrics,
		},
	}
}

func (s *SchemeService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orders.Get(ctx, orderID)
}

// SaveOrder creates or replaces a draft order. Lines without a name get one,
// totals are recomputed, and scheme tags, free lines and lines carrying a
// scheme are left exactly as the engine wrote them.
func (s *SchemeService) SaveOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	if order.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	existing, err := s.orders.Get(ctx, order.ID)
	if err != nil && !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		if !existing.IsDraft() {
			return nil, invalidState(existing)
		}
		order.DocStatus = existing.DocStatus
	}
	if order.DocStatus == "" {
		order.DocStatus = domain.DocStatusDraft
	}
	if !order.IsDraft() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "orders are created as %s", domain.DocStatusDraft)
	}
	return s.persist(ctx, existing, &order)
}

func (s *SchemeService) PatchOrder(ctx context.Context, orderID string, patch []byte) (*domain.Order, error) {
	existing, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !existing.IsDraft() {
		return nil, invalidState(existing)
	}
	updated, err := s.patch(*existing, patch)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, existing, &updated)
}

func (s *SchemeService) persist(ctx context.Context, existing, order *domain.Order) (*domain.Order, error) {
	seen := make(map[string]struct{}, len(order.Lines))
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.ItemCode == "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Row #%d: item code is required", i+1)
		}
		if line.Qty < 0 {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Row #%d: quantity cannot be negative", i+1)
		}
		if line.Name == "" {
			line.Name = s.newRowName()
		}
		if _, dup := seen[line.Name]; dup {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Row #%d: duplicate row name %s", i+1, line.Name)
		}
		seen[line.Name] = struct{}{}
	}
	order.Reindex()
	order.Recalculate()

	if err := engine.CheckSchemeFields(existing, order); err != nil {
		return nil, err
	}
	if existing != nil {
		if err := engine.CheckLockedLines(existing, order); err != nil {
			return nil, err
		}
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// AvailableSchemes returns the advisory catalog for an order. When the rule
// source fails the catalog is empty apart from the applied schemes and the
// error carries CATALOG_UNAVAILABLE.
func (s *SchemeService) AvailableSchemes(ctx context.Context, orderID string) (*domain.Catalog, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.fetch(ctx, order)
	if err != nil {
		empty := domain.NewCatalog()
		empty.AppliedSchemes = engine.AppliedSchemeIndex(order, nil)
		return empty, pkgerrors.Wrap(pkgerrors.CodeCatalogUnavailable, err, "no schemes available")
	}
	return catalog, nil
}

func (s *SchemeService) ApplyScheme(ctx context.Context, orderID string, sel domain.Selection) (*engine.ApplyResult, error) {
	return s.apply.Run(ctx, orderID, sel)
}

// AutoApply applies every scheme flagged for automatic application and saves
// the order when anything changed.
func (s *SchemeService) AutoApply(ctx context.Context, orderID string) (*domain.Order, error) {
	release, err := s.guard.Acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsDraft() {
		return nil, invalidState(order)
	}
	catalog, err := s.fetch(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCatalogUnavailable, err, "no schemes available")
	}

	changed := engine.AutoApply(order, catalog)
	if len(changed) == 0 {
		return order, nil
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(s.logg.WithOrderID(ctx, orderID), map[string]any{"lines": changed}), "auto-applied schemes")
	return order, nil
}

// RemoveScheme delegates the revert to the remover and returns the reloaded
// order.
func (s *SchemeService) RemoveScheme(ctx context.Context, orderID, schemeID string) (*domain.Order, error) {
	release, err := s.guard.Acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.remover.RemoveScheme(ctx, orderID, schemeID); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithSchemeID(s.logg.WithOrderID(ctx, orderID), schemeID), "scheme removed")
	return s.orders.Get(ctx, orderID)
}

// HasEligibleUnappliedSchemes is the submission gate predicate. An
// unavailable catalog offers nothing, so it reports false.
func (s *SchemeService) HasEligibleUnappliedSchemes(ctx context.Context, orderID string) (bool, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return false, err
	}
	return s.hasEligible(ctx, order), nil
}

func (s *SchemeService) hasEligible(ctx context.Context, order *domain.Order) bool {
	catalog, err := s.fetch(ctx, order)
	if err != nil {
		return false
	}
	return !catalog.IsEmpty()
}

// Submit finalizes a draft order. Eligible but unapplied schemes block it
// unless bypass is set, and every applied scheme must still hold.
func (s *SchemeService) Submit(ctx context.Context, orderID string, bypass bool) (*domain.Order, error) {
	release, err := s.guard.Acquire(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsDraft() {
		return nil, invalidState(order)
	}
	if !bypass && s.hasEligible(ctx, order) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"order %s has eligible schemes that were not applied", order.ID)
	}

	if engine.HasAppliedScheme(order) {
		defs, err := s.catalog.Definitions(ctx)
		if err != nil {
			s.metrics.IncCatalogFailure()
			return nil, err
		}
		byID := make(map[string]domain.Scheme, len(defs))
		for _, d := range defs {
			byID[d.ID] = d
		}
		if err := engine.ValidateAppliedSchemes(ctx, order, byID, s.conditions); err != nil {
			return nil, err
		}
	}

	order.DocStatus = domain.DocStatusSubmitted
	order.Recalculate()
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithOrderID(ctx, orderID), fmt.Sprintf("order submitted (bypass=%t)", bypass))
	return order, nil
}

func (s *SchemeService) fetch(ctx context.Context, order *domain.Order) (*domain.Catalog, error) {
	catalog, err := s.catalog.FetchRules(ctx, order)
	if err != nil {
		s.metrics.IncCatalogFailure()
		s.logg.Warn(s.logg.WithOrderID(ctx, order.ID), "scheme catalog unavailable: "+err.Error())
		return nil, err
	}
	return catalog, nil
}

func invalidState(order *domain.Order) error {
	return pkgerrors.Newf(pkgerrors.CodeInvalidDocumentState, "order %s is %s", order.ID, order.DocStatus).
		WithDetails(map[string]any{"docstatus": order.DocStatus})
}
