package diff

import (
	"encoding/json"
	"testing"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseOrder() domain.Order {
	order := domain.Order{
		ID: "SO-1",
		Lines: []domain.OrderLine{
			{Name: "a", ItemCode: "ITEM-A", Qty: 2, Rate: 10, PriceListRate: 10},
			{Name: "b", ItemCode: "ITEM-B", Qty: 1, Rate: 5, PriceListRate: 5},
		},
	}
	order.Recalculate()
	return order
}

func TestDeltaNoChange(t *testing.T) {
	t.Parallel()

	d := &Differ{}
	order := baseOrder()
	delta, err := d.Delta(order, order.Clone())
	require.NoError(t, err)
	assert.Nil(t, delta)
}

func TestDeltaOrderLevelChange(t *testing.T) {
	t.Parallel()

	d := &Differ{}
	before := baseOrder()
	after := before.Clone()
	after.SchemeID = "PR-ORDER"
	after.DiscountAmount = 5
	after.Recalculate()

	delta, err := d.Delta(before, after)
	require.NoError(t, err)

	var patch map[string]any
	require.NoError(t, json.Unmarshal(delta, &patch))
	assert.Equal(t, "PR-ORDER", patch["schemeId"])
	assert.Equal(t, 5.0, patch["discountAmount"])
	assert.Equal(t, 20.0, patch["grandTotal"])
	assert.NotContains(t, patch, "lines")
}

func TestLines(t *testing.T) {
	t.Parallel()

	d := &Differ{}
	before := baseOrder()
	after := before.Clone()
	after.Lines[0].SchemeID = "PR-1"
	after.Lines = append(after.Lines[:1], domain.OrderLine{Name: "free", IsFreeItem: true})

	changes := d.Lines(before, after)
	assert.Equal(t, []string{"free"}, changes.Added)
	assert.Equal(t, []string{"b"}, changes.Removed)
	assert.Equal(t, []string{"a"}, changes.Changed)
	assert.False(t, changes.Empty())

	assert.True(t, d.Lines(before, before.Clone()).Empty())
}
