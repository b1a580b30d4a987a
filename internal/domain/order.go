package domain

func (o *Order) IsDraft() bool {
	return o.DocStatus == "" || o.DocStatus == DocStatusDraft
}

func (o *Order) Line(name string) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].Name == name {
			return &o.Lines[i]
		}
	}
	return nil
}

// AppendLine adds a line at the end of the order and numbers it.
func (o *Order) AppendLine(line OrderLine) *OrderLine {
	line.Idx = len(o.Lines) + 1
	o.Lines = append(o.Lines, line)
	return &o.Lines[len(o.Lines)-1]
}

func (o *Order) Reindex() {
	for i := range o.Lines {
		o.Lines[i].Idx = i + 1
	}
}

func (o Order) Clone() Order {
	out := o
	out.Lines = make([]OrderLine, len(o.Lines))
	copy(out.Lines, o.Lines)
	return out
}

// Recalculate derives line measures and the order totals the same way the
// host order model does after any field change.
func (o *Order) Recalculate() {
	var qty, weight, net float64
	for i := range o.Lines {
		line := &o.Lines[i]
		line.recalculate()
		qty += line.Qty
		weight += line.Weight
		net += line.Amount
	}
	o.TotalQty = qty
	o.TotalNetWeight = weight
	o.NetTotal = net

	discount := o.DiscountAmount
	if discount == 0 && o.AdditionalDiscountPercentage != 0 {
		discount = net * o.AdditionalDiscountPercentage / 100
	}
	o.GrandTotal = net - discount
}

func (l *OrderLine) recalculate() {
	if l.ConversionFactor == 0 {
		l.ConversionFactor = 1
	}
	l.StockQty = l.Qty * l.ConversionFactor
	if l.WeightPerUnit != 0 {
		l.Weight = l.WeightPerUnit * l.StockQty
	}
	if l.IsFreeItem {
		l.Rate = 0
		l.DiscountPercentage = 100
		l.DiscountAmount = l.PriceListRate
	}
	l.Amount = l.Rate * l.Qty
}

// SetRate sets the selling rate and back-computes the discount against the
// price list rate.
func (l *OrderLine) SetRate(rate float64) {
	l.Rate = rate
	if l.PriceListRate > 0 {
		l.DiscountAmount = l.PriceListRate - rate
		l.DiscountPercentage = l.DiscountAmount * 100 / l.PriceListRate
	}
	l.Amount = l.Rate * l.Qty
}

// SetDiscountPercentage applies a percentage discount on the price list rate.
func (l *OrderLine) SetDiscountPercentage(pct float64) {
	l.DiscountPercentage = pct
	l.DiscountAmount = l.PriceListRate * pct / 100
	l.Rate = l.PriceListRate - l.DiscountAmount
	l.Amount = l.Rate * l.Qty
}

func (l *OrderLine) SetDiscountAmount(amount float64) {
	l.DiscountAmount = amount
	l.Rate = l.PriceListRate - amount
	if l.PriceListRate > 0 {
		l.DiscountPercentage = amount * 100 / l.PriceListRate
	}
	l.Amount = l.Rate * l.Qty
}

// ResetPricing clears any discount and restores the price list rate.
func (l *OrderLine) ResetPricing() {
	l.DiscountPercentage = 0
	l.DiscountAmount = 0
	l.Rate = l.PriceListRate
	l.Amount = l.Rate * l.Qty
}

func (l OrderLine) Aggregate() ItemAggregate {
	return ItemAggregate{
		RowName:  l.Name,
		ItemCode: l.ItemCode,
		ItemName: l.ItemName,
		Qty:      l.Qty,
		StockQty: l.StockQty,
		Weight:   l.Weight,
		Amount:   l.Amount,
	}
}
