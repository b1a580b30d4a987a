package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateDerivesTotals(t *testing.T) {
	t.Parallel()

	order := Order{
		ID: "SO-1",
		Lines: []OrderLine{
			{Name: "r1", ItemCode: "A", Qty: 2, ConversionFactor: 12, WeightPerUnit: 0.5, PriceListRate: 100, Rate: 100},
			{Name: "r2", ItemCode: "B", Qty: 3, WeightPerUnit: 2, PriceListRate: 10, Rate: 8},
		},
		AdditionalDiscountPercentage: 10,
	}
	order.Recalculate()

	assert.InDelta(t, 24.0, order.Lines[0].StockQty, 1e-9)
	assert.InDelta(t, 12.0, order.Lines[0].Weight, 1e-9)
	assert.InDelta(t, 200.0, order.Lines[0].Amount, 1e-9)
	assert.InDelta(t, 5.0, order.TotalQty, 1e-9)
	assert.InDelta(t, 18.0, order.TotalNetWeight, 1e-9)
	assert.InDelta(t, 224.0, order.NetTotal, 1e-9)
	assert.InDelta(t, 201.6, order.GrandTotal, 1e-9)
}

func TestRecalculateNormalizesFreeLines(t *testing.T) {
	t.Parallel()

	order := Order{Lines: []OrderLine{{Name: "f", Qty: 2, PriceListRate: 50, Rate: 50, IsFreeItem: true}}}
	order.Recalculate()

	line := order.Lines[0]
	assert.Zero(t, line.Rate)
	assert.Zero(t, line.Amount)
	assert.Equal(t, 100.0, line.DiscountPercentage)
}

func TestLineDiscountCascades(t *testing.T) {
	t.Parallel()

	line := OrderLine{Qty: 4, PriceListRate: 200, Rate: 200}

	line.SetDiscountPercentage(15)
	assert.InDelta(t, 30.0, line.DiscountAmount, 1e-9)
	assert.InDelta(t, 170.0, line.Rate, 1e-9)
	assert.InDelta(t, 680.0, line.Amount, 1e-9)

	line.SetRate(150)
	assert.InDelta(t, 50.0, line.DiscountAmount, 1e-9)
	assert.InDelta(t, 25.0, line.DiscountPercentage, 1e-9)

	line.SetDiscountAmount(20)
	assert.InDelta(t, 180.0, line.Rate, 1e-9)
	assert.InDelta(t, 10.0, line.DiscountPercentage, 1e-9)

	line.ResetPricing()
	assert.InDelta(t, 200.0, line.Rate, 1e-9)
	assert.Zero(t, line.DiscountPercentage)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	order := Order{ID: "SO-1", Lines: []OrderLine{{Name: "r1", Qty: 1}}}
	clone := order.Clone()
	clone.Lines[0].Qty = 9
	clone.AppendLine(OrderLine{Name: "r2"})

	require.Len(t, order.Lines, 1)
	assert.Equal(t, 1.0, order.Lines[0].Qty)
	assert.Equal(t, 2, clone.Lines[1].Idx)
}
