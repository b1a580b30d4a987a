package store

import (
	"time"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

// OrderModel is the persisted order header.
type OrderModel struct {
	ID            string `gorm:"primaryKey;type:varchar(64)"`
	Customer      string
	CustomerGroup string
	Territory     string
	Currency      string
	DocStatus     string `gorm:"type:varchar(16);not null;default:Draft"`

	TotalQty       float64
	TotalNetWeight float64
	NetTotal       float64
	GrandTotal     float64

	SchemeID                     string `gorm:"index"`
	ApplyDiscountOn              string
	AdditionalDiscountPercentage float64
	DiscountAmount               float64

	Lines     []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	UpdatedAt time.Time
}

func (OrderModel) TableName() string { return "orders" }

// OrderLineModel is one persisted order line.
type OrderLineModel struct {
	OrderID          string `gorm:"primaryKey;type:varchar(64)"`
	Name             string `gorm:"primaryKey;type:varchar(64)"`
	Idx              int    `gorm:"not null"`
	ItemCode         string `gorm:"not null"`
	ItemName         string
	ItemGroup        string
	UOM              string
	ConversionFactor float64

	Qty           float64
	StockQty      float64
	WeightPerUnit float64
	Weight        float64

	PriceListRate      float64
	Rate               float64
	DiscountPercentage float64
	DiscountAmount     float64
	Amount             float64

	IsFreeItem    bool
	SchemeID      string `gorm:"index"`
	SkipAutoApply bool
}

func (OrderLineModel) TableName() string { return "order_lines" }

func toModel(o *domain.Order) OrderModel {
	m := OrderModel{
		ID:                           o.ID,
		Customer:                     o.Customer,
		CustomerGroup:                o.CustomerGroup,
		Territory:                    o.Territory,
		Currency:                     o.Currency,
		DocStatus:                    string(o.DocStatus),
		TotalQty:                     o.TotalQty,
		TotalNetWeight:               o.TotalNetWeight,
		NetTotal:                     o.NetTotal,
		GrandTotal:                   o.GrandTotal,
		SchemeID:                     o.SchemeID,
		ApplyDiscountOn:              o.ApplyDiscountOn,
		AdditionalDiscountPercentage: o.AdditionalDiscountPercentage,
		DiscountAmount:               o.DiscountAmount,
	}
	if m.DocStatus == "" {
		m.DocStatus = string(domain.DocStatusDraft)
	}
	m.Lines = make([]OrderLineModel, 0, len(o.Lines))
	for _, l := range o.Lines {
		m.Lines = append(m.Lines, OrderLineModel{
			OrderID:            o.ID,
			Name:               l.Name,
			Idx:                l.Idx,
			ItemCode:           l.ItemCode,
			ItemName:           l.ItemName,
			ItemGroup:          l.ItemGroup,
			UOM:                l.UOM,
			ConversionFactor:   l.ConversionFactor,
			Qty:                l.Qty,
			StockQty:           l.StockQty,
			WeightPerUnit:      l.WeightPerUnit,
			Weight:             l.Weight,
			PriceListRate:      l.PriceListRate,
			Rate:               l.Rate,
			DiscountPercentage: l.DiscountPercentage,
			DiscountAmount:     l.DiscountAmount,
			Amount:             l.Amount,
			IsFreeItem:         l.IsFreeItem,
			SchemeID:           l.SchemeID,
			SkipAutoApply:      l.SkipAutoApply,
		})
	}
	return m
}

func (m OrderModel) toDomain() *domain.Order {
	o := &domain.Order{
		ID:                           m.ID,
		Customer:                     m.Customer,
		CustomerGroup:                m.CustomerGroup,
		Territory:                    m.Territory,
		Currency:                     m.Currency,
		DocStatus:                    domain.DocStatus(m.DocStatus),
		TotalQty:                     m.TotalQty,
		TotalNetWeight:               m.TotalNetWeight,
		NetTotal:                     m.NetTotal,
		GrandTotal:                   m.GrandTotal,
		SchemeID:                     m.SchemeID,
		ApplyDiscountOn:              m.ApplyDiscountOn,
		AdditionalDiscountPercentage: m.AdditionalDiscountPercentage,
		DiscountAmount:               m.DiscountAmount,
		Lines:                        make([]domain.OrderLine, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		o.Lines = append(o.Lines, domain.OrderLine{
			Name:               l.Name,
			Idx:                l.Idx,
			ItemCode:           l.ItemCode,
			ItemName:           l.ItemName,
			ItemGroup:          l.ItemGroup,
			UOM:                l.UOM,
			ConversionFactor:   l.ConversionFactor,
			Qty:                l.Qty,
			StockQty:           l.StockQty,
			WeightPerUnit:      l.WeightPerUnit,
			Weight:             l.Weight,
			PriceListRate:      l.PriceListRate,
			Rate:               l.Rate,
			DiscountPercentage: l.DiscountPercentage,
			DiscountAmount:     l.DiscountAmount,
			Amount:             l.Amount,
			IsFreeItem:         l.IsFreeItem,
			SchemeID:           l.SchemeID,
			SkipAutoApply:      l.SkipAutoApply,
		})
	}
	return o
}
