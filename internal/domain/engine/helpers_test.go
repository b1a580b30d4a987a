package engine

import (
	"context"
	"fmt"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

// sampleOrder has three lines of amount 100 each: net total 300, total
// quantity 35.
func sampleOrder() *domain.Order {
	order := &domain.Order{
		ID:            "SO-0001",
		Customer:      "CUST-1",
		CustomerGroup: "Retail",
		Territory:     "North",
		DocStatus:     domain.DocStatusDraft,
		Lines: []domain.OrderLine{
			{Name: "row-1", Idx: 1, ItemCode: "ITEM-A", ItemGroup: "Beverages", Qty: 10, PriceListRate: 10, Rate: 10, WeightPerUnit: 0.5},
			{Name: "row-2", Idx: 2, ItemCode: "ITEM-B", ItemGroup: "Snacks", Qty: 20, PriceListRate: 5, Rate: 5},
			{Name: "row-3", Idx: 3, ItemCode: "ITEM-C", ItemGroup: "Beverages", Qty: 5, PriceListRate: 20, Rate: 20},
		},
	}
	order.Recalculate()
	return order
}

func productRule() domain.Scheme {
	return domain.Scheme{
		ID:                     "PR-FREE",
		Title:                  "Buy A get free",
		ApplyOn:                domain.ApplyOnItem,
		ItemCodes:              []string{"ITEM-A"},
		QtyBasedOn:             domain.QtyBasedOnStock,
		MinQty:                 domain.Float(5),
		PriceOrProductDiscount: domain.ProductDiscount,
		FreeQtyType:            domain.FreeQtyFixed,
		FreeQty:                2,
		FreeItemUOM:            "Box",
		FreeItems: []domain.FreeItem{
			{ItemCode: "FREE-1", ItemName: "Sample", UOM: "Nos", UnitWeight: 1.5},
			{ItemCode: "FREE-2", ItemName: "Sticker", UOM: "Nos", UnitWeight: 0.5},
		},
	}
}

func groupDiscountRule() domain.Scheme {
	return domain.Scheme{
		ID:                     "PR-BEV",
		Title:                  "Beverages 10%",
		ApplyOn:                domain.ApplyOnItem,
		ItemGroups:             []string{"Beverages"},
		QtyBasedOn:             domain.QtyBasedOnStock,
		PriceOrProductDiscount: domain.PriceDiscount,
		RateOrDiscount:         domain.DiscountPercentage,
		DiscountPercentage:     5,
		ItemGroupWiseDiscounts: map[string]float64{"Beverages": 10},
	}
}

func transactionRule(kind domain.RateOrDiscount) domain.Scheme {
	return domain.Scheme{
		ID:                     "PR-ORDER",
		Title:                  "Order discount",
		ApplyOn:                domain.ApplyOnTransaction,
		QtyBasedOn:             domain.QtyBasedOnStock,
		MinAmt:                 domain.Float(200),
		PriceOrProductDiscount: domain.PriceDiscount,
		RateOrDiscount:         kind,
		Rate:                   7,
		DiscountPercentage:     5,
		DiscountAmount:         20,
		ApplyDiscountOn:        "Grand Total",
	}
}

type stubCondition struct {
	result bool
	err    error
	calls  int
}

func (s *stubCondition) Evaluate(_ context.Context, _ map[string]any, _ *domain.Order) (bool, error) {
	s.calls++
	return s.result, s.err
}

func sequentialNames() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("free-%d", n)
	}
}
