package domain

import "sort"

// --- Enumerations ---

type DocStatus string

const (
	DocStatusDraft     DocStatus = "Draft"
	DocStatusSubmitted DocStatus = "Submitted"
	DocStatusCancelled DocStatus = "Cancelled"
)

// ApplyOn selects whether eligibility aggregates cover the whole order or a
// selected subset of lines.
type ApplyOn string

const (
	ApplyOnTransaction ApplyOn = "Transaction"
	ApplyOnItem        ApplyOn = "Item"
)

type QtyBasedOn string

const (
	QtyBasedOnStock  QtyBasedOn = "Stock"
	QtyBasedOnWeight QtyBasedOn = "Weight"
)

type PriceOrProduct string

const (
	PriceDiscount   PriceOrProduct = "Price"
	ProductDiscount PriceOrProduct = "Product"
)

type RateOrDiscount string

const (
	Rate               RateOrDiscount = "Rate"
	DiscountPercentage RateOrDiscount = "Discount Percentage"
	DiscountAmount     RateOrDiscount = "Discount Amount"
)

type RateBasedOn string

const (
	RateBasedOnValue  RateBasedOn = "Value"
	RateBasedOnWeight RateBasedOn = "Weight"
)

type FreeQtyType string

const (
	FreeQtyFixed      FreeQtyType = "Fixed"
	FreeQtyPercentage FreeQtyType = "Percentage"
)

// --- Order ---

// Order is the draft sales order a scheme is applied to. Totals are derived
// by Recalculate and must not be edited directly.
type Order struct {
	ID            string      `json:"id" yaml:"id"`
	Customer      string      `json:"customer,omitempty" yaml:"customer"`
	CustomerGroup string      `json:"customerGroup,omitempty" yaml:"customerGroup"`
	Territory     string      `json:"territory,omitempty" yaml:"territory"`
	Currency      string      `json:"currency,omitempty" yaml:"currency"`
	DocStatus     DocStatus   `json:"docstatus" yaml:"docstatus"`
	Lines         []OrderLine `json:"lines" yaml:"lines"`

	TotalQty       float64 `json:"totalQty" yaml:"totalQty"`
	TotalNetWeight float64 `json:"totalNetWeight" yaml:"totalNetWeight"`
	NetTotal       float64 `json:"netTotal" yaml:"netTotal"`
	GrandTotal     float64 `json:"grandTotal" yaml:"grandTotal"`

	// Order-level (transaction) scheme and the discount it set.
	SchemeID                     string  `json:"schemeId,omitempty" yaml:"schemeId"`
	ApplyDiscountOn              string  `json:"applyDiscountOn,omitempty" yaml:"applyDiscountOn"`
	AdditionalDiscountPercentage float64 `json:"additionalDiscountPercentage,omitempty" yaml:"additionalDiscountPercentage"`
	DiscountAmount               float64 `json:"discountAmount,omitempty" yaml:"discountAmount"`
}

// OrderLine is one item row of an order.
type OrderLine struct {
	Name             string  `json:"name" yaml:"name"`
	Idx              int     `json:"idx" yaml:"idx"`
	ItemCode         string  `json:"itemCode" yaml:"itemCode"`
	ItemName         string  `json:"itemName,omitempty" yaml:"itemName"`
	ItemGroup        string  `json:"itemGroup,omitempty" yaml:"itemGroup"`
	UOM              string  `json:"uom,omitempty" yaml:"uom"`
	ConversionFactor float64 `json:"conversionFactor,omitempty" yaml:"conversionFactor"`

	Qty           float64 `json:"qty" yaml:"qty"`
	StockQty      float64 `json:"stockQty" yaml:"stockQty"`
	WeightPerUnit float64 `json:"weightPerUnit,omitempty" yaml:"weightPerUnit"`
	Weight        float64 `json:"weight" yaml:"weight"`

	PriceListRate      float64 `json:"priceListRate" yaml:"priceListRate"`
	Rate               float64 `json:"rate" yaml:"rate"`
	DiscountPercentage float64 `json:"discountPercentage" yaml:"discountPercentage"`
	DiscountAmount     float64 `json:"discountAmount" yaml:"discountAmount"`
	Amount             float64 `json:"amount" yaml:"amount"`

	IsFreeItem    bool   `json:"isFreeItem,omitempty" yaml:"isFreeItem"`
	SchemeID      string `json:"schemeId,omitempty" yaml:"schemeId"`
	SkipAutoApply bool   `json:"skipAutoApply,omitempty" yaml:"skipAutoApply"`
}

// --- Scheme ---

// FreeItem is a reward item a Product scheme may grant.
type FreeItem struct {
	ItemCode   string  `json:"itemCode" yaml:"itemCode"`
	ItemName   string  `json:"itemName,omitempty" yaml:"itemName"`
	UOM        string  `json:"uom,omitempty" yaml:"uom"`
	UnitWeight float64 `json:"unitWeight" yaml:"unitWeight"`
}

// Scheme is a pricing rule definition. Product schemes ignore the
// rate/discount fields and Price schemes ignore the free-item fields.
type Scheme struct {
	ID       string  `json:"id" yaml:"id"`
	Title    string  `json:"title" yaml:"title"`
	Disabled bool    `json:"disabled,omitempty" yaml:"disabled"`
	Priority int     `json:"priority,omitempty" yaml:"priority"`
	ApplyOn  ApplyOn `json:"applyOn" yaml:"applyOn"`

	// Matching: which lines an Item scheme covers and which orders qualify.
	ItemCodes       []string       `json:"itemCodes,omitempty" yaml:"itemCodes"`
	ItemGroups      []string       `json:"itemGroups,omitempty" yaml:"itemGroups"`
	Customer        string         `json:"customer,omitempty" yaml:"customer"`
	CustomerGroup   string         `json:"customerGroup,omitempty" yaml:"customerGroup"`
	Territory       string         `json:"territory,omitempty" yaml:"territory"`
	Condition       map[string]any `json:"condition,omitempty" yaml:"condition"`
	MixedConditions bool           `json:"mixedConditions,omitempty" yaml:"mixedConditions"`

	QtyBasedOn QtyBasedOn `json:"qtyBasedOn" yaml:"qtyBasedOn"`
	MinQty     *float64   `json:"minQty,omitempty" yaml:"minQty"`
	MaxQty     *float64   `json:"maxQty,omitempty" yaml:"maxQty"`
	MinAmt     *float64   `json:"minAmt,omitempty" yaml:"minAmt"`
	MaxAmt     *float64   `json:"maxAmt,omitempty" yaml:"maxAmt"`

	PriceOrProductDiscount PriceOrProduct `json:"priceOrProductDiscount" yaml:"priceOrProductDiscount"`

	// Price branch.
	RateOrDiscount         RateOrDiscount     `json:"rateOrDiscount,omitempty" yaml:"rateOrDiscount"`
	RateBasedOn            RateBasedOn        `json:"rateBasedOn,omitempty" yaml:"rateBasedOn"`
	Rate                   float64            `json:"rate,omitempty" yaml:"rate"`
	DiscountPercentage     float64            `json:"discountPercentage,omitempty" yaml:"discountPercentage"`
	DiscountAmount         float64            `json:"discountAmount,omitempty" yaml:"discountAmount"`
	ApplyDiscountOn        string             `json:"applyDiscountOn,omitempty" yaml:"applyDiscountOn"`
	ItemWiseRates          map[string]float64 `json:"itemWiseRates,omitempty" yaml:"itemWiseRates"`
	ItemWiseDiscounts      map[string]float64 `json:"itemWiseDiscounts,omitempty" yaml:"itemWiseDiscounts"`
	ItemGroupWiseDiscounts map[string]float64 `json:"itemGroupWiseDiscounts,omitempty" yaml:"itemGroupWiseDiscounts"`
	AutoApply              bool               `json:"autoApply,omitempty" yaml:"autoApply"`
	AllowSkipping          bool               `json:"allowSkipping,omitempty" yaml:"allowSkipping"`

	// Product branch.
	FreeQtyType FreeQtyType `json:"freeQtyType,omitempty" yaml:"freeQtyType"`
	FreeQty     float64     `json:"freeQty,omitempty" yaml:"freeQty"`
	IsRecursive bool        `json:"isRecursive,omitempty" yaml:"isRecursive"`
	RecurseFor  float64     `json:"recurseFor,omitempty" yaml:"recurseFor"`
	FreeItemUOM string      `json:"freeItemUom,omitempty" yaml:"freeItemUom"`
	FreeItems   []FreeItem  `json:"freeItems,omitempty" yaml:"freeItems"`

	// ApplicableItems is filled by the catalog builder: names of the order
	// lines this scheme may be applied to.
	ApplicableItems []string `json:"applicableItems,omitempty" yaml:"-"`
}

func (s Scheme) IsProduct() bool {
	return s.PriceOrProductDiscount == ProductDiscount
}

// IsTransaction reports whether the scheme aggregates over the whole order.
func (s Scheme) IsTransaction() bool {
	return s.ApplyOn == ApplyOnTransaction
}

// AppliesTo reports whether the scheme lists the given line name as applicable.
func (s Scheme) AppliesTo(lineName string) bool {
	for _, name := range s.ApplicableItems {
		if name == lineName {
			return true
		}
	}
	return false
}

// Matches reports whether an Item scheme covers the line by item code or
// item group.
func (s Scheme) Matches(line OrderLine) bool {
	for _, code := range s.ItemCodes {
		if code == line.ItemCode {
			return true
		}
	}
	for _, group := range s.ItemGroups {
		if group != "" && group == line.ItemGroup {
			return true
		}
	}
	return false
}

// EffectivePriority returns the explicit priority, or one derived from the
// most specific party filter: customer 1, customer group 2, territory 3,
// none 4.
func (s Scheme) EffectivePriority() int {
	switch {
	case s.Priority > 0:
		return s.Priority
	case s.Customer != "":
		return 1
	case s.CustomerGroup != "":
		return 2
	case s.Territory != "":
		return 3
	}
	return 4
}

// FreeItemByCode returns the free item entry for code.
func (s Scheme) FreeItemByCode(code string) (FreeItem, bool) {
	for _, fi := range s.FreeItems {
		if fi.ItemCode == code {
			return fi, true
		}
	}
	return FreeItem{}, false
}

func Float(v float64) *float64 {
	return &v
}

// --- Catalog ---

// ItemAggregate is the precomputed measure of one order line.
type ItemAggregate struct {
	RowName  string  `json:"rowName"`
	ItemCode string  `json:"itemCode"`
	ItemName string  `json:"itemName,omitempty"`
	Qty      float64 `json:"qty"`
	StockQty float64 `json:"stockQty"`
	Weight   float64 `json:"weight"`
	Amount   float64 `json:"amount"`
}

// AppliedScheme groups the lines currently tagged with one scheme.
type AppliedScheme struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// Catalog is the immutable per-session snapshot of applicable schemes.
type Catalog struct {
	Rules          map[string]Scheme        `json:"rules"`
	Items          map[string]ItemAggregate `json:"items"`
	AppliedSchemes map[string]AppliedScheme `json:"appliedSchemes"`
}

func NewCatalog() *Catalog {
	return &Catalog{
		Rules:          map[string]Scheme{},
		Items:          map[string]ItemAggregate{},
		AppliedSchemes: map[string]AppliedScheme{},
	}
}

func (c *Catalog) IsEmpty() bool {
	return c == nil || len(c.Rules) == 0
}

// Ordered lists the catalog's scheme ids by priority, then id.
func (c *Catalog) Ordered() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		pi, pj := c.Rules[ids[i]].EffectivePriority(), c.Rules[ids[j]].EffectivePriority()
		if pi != pj {
			return pi < pj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// --- Selection ---

// FreeItemSelection is the chosen quantity of one free item.
type FreeItemSelection struct {
	ItemCode string  `json:"itemCode"`
	Qty      float64 `json:"qty"`
}

// Selection is the ephemeral state of one application attempt.
type Selection struct {
	SchemeID   string              `json:"schemeId"`
	SchemeRows []string            `json:"schemeRows"`
	FreeItems  []FreeItemSelection `json:"freeItems"`
}
