package remover

import (
	"context"
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure/store"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appliedOrder() *domain.Order {
	order := &domain.Order{
		ID:        "SO-1",
		DocStatus: domain.DocStatusDraft,
		Lines: []domain.OrderLine{
			{Name: "a", ItemCode: "ITEM-A", Qty: 10, PriceListRate: 10, SchemeID: "PR-1"},
			{Name: "b", ItemCode: "ITEM-B", Qty: 2, Rate: 5, PriceListRate: 5},
			{Name: "free", ItemCode: "FREE-1", Qty: 2, PriceListRate: 3, IsFreeItem: true, SchemeID: "PR-1"},
		},
	}
	order.Lines[0].SetDiscountPercentage(10)
	order.Reindex()
	order.Recalculate()
	return order
}

func TestRevertItemScheme(t *testing.T) {
	t.Parallel()

	order := appliedOrder()
	require.True(t, Revert(order, "PR-1"))

	require.Len(t, order.Lines, 2)
	line := order.Line("a")
	assert.Empty(t, line.SchemeID)
	assert.True(t, line.SkipAutoApply)
	assert.Equal(t, 10.0, line.Rate)
	assert.Zero(t, line.DiscountPercentage)
	assert.Nil(t, order.Line("free"))
	assert.Equal(t, 2, order.Line("b").Idx)
	assert.InDelta(t, 110, order.NetTotal, 1e-9)

	assert.False(t, Revert(order, "PR-1"))
}

func TestRevertTransactionScheme(t *testing.T) {
	t.Parallel()

	order := appliedOrder()
	order.SchemeID = "PR-ORDER"
	order.ApplyDiscountOn = "Grand Total"
	order.DiscountAmount = 20
	order.Recalculate()

	require.True(t, Revert(order, "PR-ORDER"))
	assert.Empty(t, order.SchemeID)
	assert.Empty(t, order.ApplyDiscountOn)
	assert.Zero(t, order.DiscountAmount)
	assert.Equal(t, order.NetTotal, order.GrandTotal)
	assert.Equal(t, "PR-1", order.Line("a").SchemeID)
}

func TestRemoveSchemePersists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	orders := store.NewMemoryStore()
	require.NoError(t, orders.Save(ctx, appliedOrder()))

	r := New(orders)
	require.NoError(t, r.RemoveScheme(ctx, "SO-1", "PR-1"))

	got, err := orders.Get(ctx, "SO-1")
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2)

	err = r.RemoveScheme(ctx, "SO-1", "PR-1")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestRemoveSchemeRequiresDraft(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	orders := store.NewMemoryStore()
	order := appliedOrder()
	order.DocStatus = domain.DocStatusSubmitted
	require.NoError(t, orders.Save(ctx, order))

	err := New(orders).RemoveScheme(ctx, "SO-1", "PR-1")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidDocumentState))
}
