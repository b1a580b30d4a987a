package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
	"github.com/google/uuid"
)

// Evaluation is the authoritative check of a selection against the order's
// current state.
type Evaluation struct {
	Rows            []domain.ItemAggregate
	Quantity        float64
	Amount          float64
	FreeQty         float64
	SelectedFreeQty float64
}

// Evaluate re-runs aggregation, eligibility and, for Product schemes, the
// free-quantity match for a selection. It never mutates the order.
func Evaluate(order *domain.Order, rule domain.Scheme, sel domain.Selection) (Evaluation, error) {
	var ev Evaluation

	if rule.IsTransaction() {
		if order.SchemeID == rule.ID {
			return ev, pkgerrors.Newf(pkgerrors.CodeConflict, "scheme %s is already applied to order %s", rule.ID, order.ID)
		}
		if order.SchemeID != "" {
			return ev, pkgerrors.Newf(pkgerrors.CodeConflict, "order %s already has scheme %s applied", order.ID, order.SchemeID)
		}
	} else {
		if len(sel.SchemeRows) == 0 {
			return ev, pkgerrors.New(pkgerrors.CodeValidation, "select at least one row for the scheme")
		}
		rows, err := SelectedRows(order, rule, sel.SchemeRows)
		if err != nil {
			return ev, err
		}
		ev.Rows = rows
	}

	if !rule.IsProduct() {
		if _, ok := FieldFor(rule.RateOrDiscount); !ok {
			return ev, pkgerrors.Newf(pkgerrors.CodeValidation, "scheme %s has unknown rate or discount kind %q", rule.ID, rule.RateOrDiscount)
		}
	}

	ev.Quantity, ev.Amount = Aggregate(order, rule, ev.Rows)
	if err := CheckApplicable(ev.Quantity, ev.Amount, rule); err != nil {
		return ev, err
	}

	if rule.IsProduct() {
		if err := ValidateFreeItems(sel.FreeItems, rule); err != nil {
			return ev, err
		}
		ev.FreeQty = ComputeFreeQty(ev.Quantity, rule)
		ev.SelectedFreeQty = SelectedFreeQty(sel.FreeItems, rule)
		if err := CheckSelection(ev.SelectedFreeQty, ev.FreeQty); err != nil {
			return ev, err
		}
	}
	return ev, nil
}

// Applier writes a validated selection onto an order.
type Applier struct {
	NewRowName func() string
}

func NewApplier() *Applier {
	return &Applier{NewRowName: uuid.NewString}
}

// Apply mutates the order for a selection that passed Evaluate. Every value
// is resolved before the first write so a failure leaves the order intact.
func (a *Applier) Apply(order *domain.Order, rule domain.Scheme, sel domain.Selection) (Mutation, error) {
	var (
		m   Mutation
		err error
	)
	switch {
	case rule.IsProduct():
		m = a.applyFreeItems(order, rule, sel)
	case rule.IsTransaction():
		m = applyTransactionDiscount(order, rule)
	default:
		m, err = applyItemDiscount(order, rule, sel.SchemeRows)
	}
	if err != nil {
		return Mutation{}, err
	}
	if !m.Skipped {
		order.Recalculate()
	}
	return m, nil
}

func (a *Applier) applyFreeItems(order *domain.Order, rule domain.Scheme, sel domain.Selection) Mutation {
	newName := a.NewRowName
	if newName == nil {
		newName = uuid.NewString
	}

	var m Mutation
	for _, chosen := range sel.FreeItems {
		if chosen.Qty <= 0 {
			continue
		}
		fi, _ := rule.FreeItemByCode(chosen.ItemCode)
		uom := fi.UOM
		if rule.FreeItemUOM != "" {
			uom = rule.FreeItemUOM
		}
		line := order.AppendLine(domain.OrderLine{
			Name:               newName(),
			ItemCode:           fi.ItemCode,
			ItemName:           fi.ItemName,
			UOM:                uom,
			ConversionFactor:   1,
			Qty:                chosen.Qty,
			WeightPerUnit:      fi.UnitWeight,
			Rate:               0,
			DiscountPercentage: 100,
			IsFreeItem:         true,
			SchemeID:           rule.ID,
		})
		m.AddedLines = append(m.AddedLines, line.Name)
	}

	if rule.IsTransaction() {
		order.SchemeID = rule.ID
		m.OrderLevel = true
		return m
	}
	for _, name := range dedupe(sel.SchemeRows) {
		if line := order.Line(name); line != nil {
			line.SchemeID = rule.ID
			m.TaggedLines = append(m.TaggedLines, name)
		}
	}
	return m
}

func applyItemDiscount(order *domain.Order, rule domain.Scheme, rows []string) (Mutation, error) {
	names := dedupe(rows)
	adjustments := make(map[string]Adjustment, len(names))
	for _, name := range names {
		line := order.Line(name)
		if line == nil {
			return Mutation{}, pkgerrors.Newf(pkgerrors.CodeValidation, "row %s does not exist on order %s", name, order.ID)
		}
		adj, err := ResolveDiscount(*line, rule)
		if err != nil {
			return Mutation{}, err
		}
		adjustments[name] = adj
	}

	m := Mutation{Adjustments: adjustments}
	for _, name := range names {
		line := order.Line(name)
		line.SchemeID = rule.ID
		adjustments[name].ApplyTo(line)
		m.TaggedLines = append(m.TaggedLines, name)
	}
	return m, nil
}

func applyTransactionDiscount(order *domain.Order, rule domain.Scheme) Mutation {
	adj, ok := TransactionDiscount(rule)
	if !ok {
		return Mutation{OrderLevel: true, Skipped: true}
	}

	order.ApplyDiscountOn = rule.ApplyDiscountOn
	switch adj.Field {
	case FieldAdditionalDiscountPercentage:
		order.AdditionalDiscountPercentage = adj.Value
		order.DiscountAmount = 0
	case FieldDiscountAmount:
		order.DiscountAmount = adj.Value
	}
	order.SchemeID = rule.ID
	return Mutation{
		OrderLevel:  true,
		Adjustments: map[string]Adjustment{order.ID: adj},
	}
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
