package remover

import (
	"context"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
)

// OrderSchemeRemover reverts an applied scheme on a stored order and saves
// the result.
type OrderSchemeRemover struct {
	orders interfaces.OrderRepository
}

func New(orders interfaces.OrderRepository) *OrderSchemeRemover {
	return &OrderSchemeRemover{orders: orders}
}

func (r *OrderSchemeRemover) RemoveScheme(ctx context.Context, orderID, schemeID string) error {
	order, err := r.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.IsDraft() {
		return pkgerrors.Newf(pkgerrors.CodeInvalidDocumentState, "order %s is %s", order.ID, order.DocStatus)
	}
	if !Revert(order, schemeID) {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "scheme %s is not applied to order %s", schemeID, orderID)
	}
	return r.orders.Save(ctx, order)
}

// Revert removes schemeID from the order. Free lines it granted are dropped;
// lines it discounted go back to the price list rate and are opted out of
// automatic re-application; an order-level discount is cleared. It reports
// whether anything was applied.
func Revert(order *domain.Order, schemeID string) bool {
	found := false
	lines := order.Lines[:0:0]
	for _, line := range order.Lines {
		if line.SchemeID != schemeID {
			lines = append(lines, line)
			continue
		}
		found = true
		if line.IsFreeItem {
			continue
		}
		line.SchemeID = ""
		line.SkipAutoApply = true
		line.ResetPricing()
		lines = append(lines, line)
	}
	order.Lines = lines
	order.Reindex()

	if order.SchemeID == schemeID {
		found = true
		order.SchemeID = ""
		order.ApplyDiscountOn = ""
		order.AdditionalDiscountPercentage = 0
		order.DiscountAmount = 0
	}
	if found {
		order.Recalculate()
	}
	return found
}
