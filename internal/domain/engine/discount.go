package engine

import (
	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
)

// DiscountField is the line field a Price scheme writes.
type DiscountField string

const (
	FieldRate               DiscountField = "rate"
	FieldDiscountPercentage DiscountField = "discountPercentage"
	FieldDiscountAmount     DiscountField = "discountAmount"

	// Order-level targets.
	FieldAdditionalDiscountPercentage DiscountField = "additionalDiscountPercentage"
)

var fieldByKind = map[domain.RateOrDiscount]DiscountField{
	domain.Rate:               FieldRate,
	domain.DiscountPercentage: FieldDiscountPercentage,
	domain.DiscountAmount:     FieldDiscountAmount,
}

// FieldFor maps a rate-or-discount kind to the line field it targets.
func FieldFor(kind domain.RateOrDiscount) (DiscountField, bool) {
	f, ok := fieldByKind[kind]
	return f, ok
}

// Adjustment is a resolved field/value pair.
type Adjustment struct {
	Field DiscountField `json:"field"`
	Value float64       `json:"value"`
}

// ApplyTo writes the adjustment onto a line through the line's cascading
// setters.
func (a Adjustment) ApplyTo(line *domain.OrderLine) {
	switch a.Field {
	case FieldRate:
		line.SetRate(a.Value)
	case FieldDiscountPercentage:
		line.SetDiscountPercentage(a.Value)
	case FieldDiscountAmount:
		line.SetDiscountAmount(a.Value)
	}
}

type lookup func() (float64, bool)

func fromMap(m map[string]float64, key string) lookup {
	return func() (float64, bool) {
		v, ok := m[key]
		return v, ok && v != 0
	}
}

func value(v float64) lookup {
	return func() (float64, bool) { return v, true }
}

// firstPresent evaluates lookups left to right and returns the first hit.
func firstPresent(lookups ...lookup) float64 {
	for _, l := range lookups {
		if v, ok := l(); ok {
			return v
		}
	}
	return 0
}

// ResolveDiscount computes the field and value a Price scheme sets on a line.
// Item-wise entries win over item-group-wise entries, which win over the
// scheme's own value.
func ResolveDiscount(line domain.OrderLine, rule domain.Scheme) (Adjustment, error) {
	field, ok := FieldFor(rule.RateOrDiscount)
	if !ok {
		return Adjustment{}, pkgerrors.Newf(pkgerrors.CodeValidation, "scheme %s has unknown rate or discount kind %q", rule.ID, rule.RateOrDiscount)
	}

	switch field {
	case FieldRate:
		rate := firstPresent(fromMap(rule.ItemWiseRates, line.ItemCode), value(rule.Rate))
		if rule.RateBasedOn == domain.RateBasedOnWeight {
			rate *= line.WeightPerUnit
		}
		return Adjustment{Field: FieldRate, Value: rate}, nil
	case FieldDiscountPercentage:
		pct := firstPresent(
			fromMap(rule.ItemWiseDiscounts, line.ItemCode),
			fromMap(rule.ItemGroupWiseDiscounts, line.ItemGroup),
			value(rule.DiscountPercentage),
		)
		return Adjustment{Field: FieldDiscountPercentage, Value: pct}, nil
	default:
		return Adjustment{Field: FieldDiscountAmount, Value: rule.DiscountAmount}, nil
	}
}

// TransactionDiscount resolves the order-level field a transaction Price
// scheme sets. Rate schemes have no order-level meaning and report false.
func TransactionDiscount(rule domain.Scheme) (Adjustment, bool) {
	switch rule.RateOrDiscount {
	case domain.DiscountPercentage:
		return Adjustment{Field: FieldAdditionalDiscountPercentage, Value: rule.DiscountPercentage}, true
	case domain.DiscountAmount:
		return Adjustment{Field: FieldDiscountAmount, Value: rule.DiscountAmount}, true
	}
	return Adjustment{}, false
}
