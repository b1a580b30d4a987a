package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedEngineAppliesScheme(t *testing.T) {
	t.Parallel()

	eng := New(Options{Schemes: []Scheme{{
		ID:                     "PR-10",
		Title:                  "Ten percent",
		ApplyOn:                "Item",
		ItemCodes:              []string{"SKU-1"},
		PriceOrProductDiscount: "Price",
		RateOrDiscount:         "Discount Percentage",
		DiscountPercentage:     10,
	}}})

	ctx := context.Background()
	_, err := eng.SaveOrder(ctx, Order{
		ID:    "SO-1",
		Lines: []OrderLine{{Name: "r1", ItemCode: "SKU-1", Qty: 2, PriceListRate: 50, Rate: 50}},
	})
	require.NoError(t, err)

	res, err := eng.ApplyScheme(ctx, "SO-1", Selection{SchemeID: "PR-10", SchemeRows: []string{"r1"}})
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, res.State)

	order, err := eng.GetOrder(ctx, "SO-1")
	require.NoError(t, err)
	assert.InDelta(t, 90, order.NetTotal, 1e-9)
	assert.Equal(t, map[string][]string{"PR-10": {"r1"}}, AppliedSchemes(order))
}

func TestFreeQtyAndApplicability(t *testing.T) {
	t.Parallel()

	lo, hi := 10.0, 50.0
	rule := Scheme{MinQty: &lo, MaxQty: &hi, PriceOrProductDiscount: "Product", FreeQtyType: "Fixed", FreeQty: 2}
	assert.True(t, IsApplicable(30, 0, rule))
	assert.Equal(t, 2.0, FreeQty(30, rule))
}
