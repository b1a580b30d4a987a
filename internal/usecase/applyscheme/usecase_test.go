package applyscheme

import (
	"context"
	"fmt"
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/domain/engine"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/diff"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/guard"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/store"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"github.com/Victor-armando18/pricing-scheme/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder() *domain.Order {
	order := &domain.Order{
		ID:        "SO-1",
		DocStatus: domain.DocStatusDraft,
		Lines: []domain.OrderLine{
			{Name: "row-1", Idx: 1, ItemCode: "ITEM-A", ItemGroup: "Beverages", Qty: 10, PriceListRate: 10, Rate: 10},
			{Name: "row-2", Idx: 2, ItemCode: "ITEM-B", ItemGroup: "Snacks", Qty: 20, PriceListRate: 5, Rate: 5},
		},
	}
	order.Recalculate()
	return order
}

func freeScheme(freeType domain.FreeQtyType, qty float64) domain.Scheme {
	return domain.Scheme{
		ID:                     "PR-FREE",
		Title:                  "Free samples",
		ApplyOn:                domain.ApplyOnItem,
		ItemCodes:              []string{"ITEM-A"},
		QtyBasedOn:             domain.QtyBasedOnStock,
		MinQty:                 domain.Float(5),
		PriceOrProductDiscount: domain.ProductDiscount,
		FreeQtyType:            freeType,
		FreeQty:                qty,
		FreeItems:              []domain.FreeItem{{ItemCode: "FREE-1", UOM: "Nos", UnitWeight: 1}},
	}
}

func orderRateScheme() domain.Scheme {
	return domain.Scheme{
		ID:                     "PR-RATE",
		Title:                  "Order rate",
		ApplyOn:                domain.ApplyOnTransaction,
		PriceOrProductDiscount: domain.PriceDiscount,
		RateOrDiscount:         domain.Rate,
		Rate:                   5,
	}
}

type fixture struct {
	uc     *UseCase
	orders *store.MemoryStore
	guard  *guard.MemoryGuard
	reg    *prometheus.Registry
}

func newFixture(t *testing.T, schemes ...domain.Scheme) fixture {
	t.Helper()

	orders := store.NewMemoryStore()
	require.NoError(t, orders.Save(context.Background(), seedOrder()))

	n := 0
	g := guard.NewMemoryGuard()
	reg := prometheus.NewRegistry()
	return fixture{
		uc: &UseCase{
			Catalog: &infrastructure.StaticCatalogSource{Schemes: schemes},
			Orders:  orders,
			Guard:   g,
			Applier: &engine.Applier{NewRowName: func() string {
				n++
				return fmt.Sprintf("free-%d", n)
			}},
			Differ:  &diff.Differ{},
			Metrics: metrics.NewApplyMetrics(reg),
		},
		orders: orders,
		guard:  g,
		reg:    reg,
	}
}

func (f fixture) stored(t *testing.T) *domain.Order {
	t.Helper()
	order, err := f.orders.Get(context.Background(), "SO-1")
	require.NoError(t, err)
	return order
}

func TestRunCommitsProductScheme(t *testing.T) {
	t.Parallel()

	f := newFixture(t, freeScheme(domain.FreeQtyFixed, 2))

	res, err := f.uc.Run(context.Background(), "SO-1", domain.Selection{
		SchemeID:   "PR-FREE",
		SchemeRows: []string{"row-1"},
		FreeItems:  []domain.FreeItemSelection{{ItemCode: "FREE-1", Qty: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, engine.StateCommitted, res.State)
	assert.True(t, res.RequiresSave)
	assert.Equal(t, 10.0, res.Quantity)
	assert.Equal(t, 2.0, res.FreeQty)
	assert.Equal(t, []string{"free-1"}, res.AddedLines)
	assert.NotEmpty(t, res.Delta)
	require.Len(t, res.ExecutionLog, 3)
	assert.Equal(t, engine.StateValidating, res.ExecutionLog[0].Phase)

	stored := f.stored(t)
	require.Len(t, stored.Lines, 3)
	assert.True(t, stored.Line("free-1").IsFreeItem)
	assert.Equal(t, "PR-FREE", stored.Line("row-1").SchemeID)
	assert.False(t, f.guard.InFlight("SO-1"))

	assert.Equal(t, 1.0, outcomeCount(t, f.reg, "committed"))
}

func TestRunRejectsWhileApplicationInFlight(t *testing.T) {
	t.Parallel()

	f := newFixture(t, freeScheme(domain.FreeQtyFixed, 2))
	release, err := f.guard.Acquire(context.Background(), "SO-1")
	require.NoError(t, err)
	defer release()

	_, err = f.uc.Run(context.Background(), "SO-1", domain.Selection{
		SchemeID:   "PR-FREE",
		SchemeRows: []string{"row-1"},
		FreeItems:  []domain.FreeItemSelection{{ItemCode: "FREE-1", Qty: 2}},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConcurrentApplication))
	assert.Equal(t, seedOrder(), f.stored(t))
}

func TestRunRejectsSelectionMismatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t, freeScheme(domain.FreeQtyPercentage, 32))

	_, err := f.uc.Run(context.Background(), "SO-1", domain.Selection{
		SchemeID:   "PR-FREE",
		SchemeRows: []string{"row-1"},
		FreeItems:  []domain.FreeItemSelection{{ItemCode: "FREE-1", Qty: 3}},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeSelectionMismatch))
	assert.Equal(t, 1.0, outcomeCount(t, f.reg, "selection_mismatch"))
	assert.Equal(t, "Please select exactly 3.20 free items, you have selected 3.00.", pkgerrors.As(err).Message())
	assert.Equal(t, seedOrder(), f.stored(t))
	assert.False(t, f.guard.InFlight("SO-1"))
}

func TestRunRejectsIneligibleOrder(t *testing.T) {
	t.Parallel()

	scheme := freeScheme(domain.FreeQtyFixed, 2)
	scheme.MinQty = domain.Float(50)
	f := newFixture(t, scheme)

	_, err := f.uc.Run(context.Background(), "SO-1", domain.Selection{
		SchemeID:   "PR-FREE",
		SchemeRows: []string{"row-1"},
		FreeItems:  []domain.FreeItemSelection{{ItemCode: "FREE-1", Qty: 2}},
	})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeIneligible))
	assert.Equal(t, seedOrder(), f.stored(t))
}

func TestRunSkipsTransactionRate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, orderRateScheme())

	res, err := f.uc.Run(context.Background(), "SO-1", domain.Selection{SchemeID: "PR-RATE"})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.False(t, res.RequiresSave)
	assert.Nil(t, res.Delta)
	assert.Equal(t, engine.StateCommitted, res.State)
	assert.Equal(t, seedOrder(), f.stored(t))
}

func TestRunPreconditions(t *testing.T) {
	t.Parallel()

	f := newFixture(t, freeScheme(domain.FreeQtyFixed, 2))

	_, err := f.uc.Run(context.Background(), "SO-1", domain.Selection{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = f.uc.Run(context.Background(), "SO-1", domain.Selection{SchemeID: "PR-MISSING"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = f.uc.Run(context.Background(), "SO-404", domain.Selection{SchemeID: "PR-FREE"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	submitted := seedOrder()
	submitted.DocStatus = domain.DocStatusSubmitted
	require.NoError(t, f.orders.Save(context.Background(), submitted))
	_, err = f.uc.Run(context.Background(), "SO-1", domain.Selection{SchemeID: "PR-FREE", SchemeRows: []string{"row-1"}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidDocumentState))
	assert.False(t, pkgerrors.Recoverable(pkgerrors.CodeOf(err)))
}

func outcomeCount(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "scheme_applications_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" && lp.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
