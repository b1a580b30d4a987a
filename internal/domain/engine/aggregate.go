package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
)

// Aggregate returns the quantity and amount a scheme's bounds are checked
// against. Transaction schemes use the order totals; Item schemes sum the
// given rows.
func Aggregate(order *domain.Order, rule domain.Scheme, rows []domain.ItemAggregate) (qty, amount float64) {
	if rule.IsTransaction() {
		if rule.QtyBasedOn == domain.QtyBasedOnWeight {
			return order.TotalNetWeight, order.NetTotal
		}
		return order.TotalQty, order.NetTotal
	}

	for _, row := range rows {
		qty += measure(row, rule.QtyBasedOn)
		amount += row.Amount
	}
	return qty, amount
}

func measure(row domain.ItemAggregate, basis domain.QtyBasedOn) float64 {
	if basis == domain.QtyBasedOnWeight {
		return row.Weight
	}
	return row.StockQty
}

// SelectedRows resolves the chosen scheme rows against the order's current
// lines, so that aggregates reflect any edit made after the catalog was
// fetched.
func SelectedRows(order *domain.Order, rule domain.Scheme, names []string) ([]domain.ItemAggregate, error) {
	rows := make([]domain.ItemAggregate, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		line := order.Line(name)
		if line == nil {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "row %s does not exist on order %s", name, order.ID)
		}
		if line.IsFreeItem {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "row #%d is a free item", line.Idx)
		}
		if line.SchemeID != "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "row #%d already has scheme %s applied", line.Idx, line.SchemeID)
		}
		if !rule.AppliesTo(name) {
			if rule.Matches(*line) {
				qty, amount := advisoryAggregate(order, rule, *line)
				return nil, pkgerrors.Newf(pkgerrors.CodeIneligible, "row #%d (%s) does not meet the conditions of scheme %s", line.Idx, line.ItemCode, rule.ID).
					WithDetails(boundsDetails(rule, qty, amount))
			}
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "row #%d (%s) is not applicable for scheme %s", line.Idx, line.ItemCode, rule.ID)
		}
		rows = append(rows, line.Aggregate())
	}
	return rows, nil
}

// CatalogRows returns the precomputed aggregates of the given rows from the
// catalog snapshot. Used for advisory evaluation only.
func CatalogRows(catalog *domain.Catalog, names []string) []domain.ItemAggregate {
	rows := make([]domain.ItemAggregate, 0, len(names))
	for _, name := range names {
		if item, ok := catalog.Items[name]; ok {
			rows = append(rows, item)
		}
	}
	return rows
}
