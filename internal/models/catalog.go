package models

import (
	"unicode/utf8"

	"github.com/Octa-square/LiveLedger/internal/constants"

	"github.com/shopspring/decimal"
)

// Discount 商品折扣（类型 + 数值）
type Discount struct {
	Kind  string `json:"kind"`  // none / percentage / flat
	Value Money  `json:"value"` // percentage 时表示百分比数值，flat 时表示减免金额
}

// None 判断折扣是否为空
func (d Discount) None() bool {
	return d.Kind == "" || d.Kind == constants.DiscountKindNone || d.Value.IsZero()
}

// Product 商品槽位。名称为空表示空槽位，仍占据列表位置。
type Product struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Price              Money    `json:"price"`
	Discount           Discount `json:"discount"`
	Stock              int      `json:"stock"`
	LowStockLevel      int      `json:"low_stock_level"`
	CriticalStockLevel int      `json:"critical_stock_level"`
	Barcode            string   `json:"barcode,omitempty"`
	ImageRef           string   `json:"image_ref,omitempty"`
}

// Empty 判断是否为空槽位
func (p Product) Empty() bool {
	return p.Name == ""
}

// ValidName 校验商品名称长度（按字符计，不超过 15）
func ValidName(name string) bool {
	return utf8.RuneCountInString(name) <= constants.ProductNameMaxLen
}

// FinalPrice 折后单价：原价减去折扣，最低为 0
func (p Product) FinalPrice() Money {
	price := p.Price.Decimal
	switch p.Discount.Kind {
	case constants.DiscountKindPercentage:
		off := price.Mul(p.Discount.Value.Decimal).Div(decimal.NewFromInt(100))
		price = price.Sub(off)
	case constants.DiscountKindFlat:
		price = price.Sub(p.Discount.Value.Decimal)
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	return NewMoneyFromDecimal(price)
}

// Discounted 判断折后价是否低于原价
func (p Product) Discounted() bool {
	return p.FinalPrice().Decimal.LessThan(p.Price.Decimal)
}

// Catalog 商品册：有序的商品槽位集合，插入顺序即快捷售卖格的展示顺序
type Catalog struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// SlotCount 槽位总数（含空槽位）
func (c Catalog) SlotCount() int {
	return len(c.Products)
}

// ProductCount 非空商品数（容量展示不计空槽位）
func (c Catalog) ProductCount() int {
	count := 0
	for _, p := range c.Products {
		if !p.Empty() {
			count++
		}
	}
	return count
}

// FindProduct 按 ID 查找商品槽位下标，未找到返回 -1
func (c Catalog) FindProduct(productID string) int {
	for i, p := range c.Products {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

// EmptySlots 生成 n 个空槽位
func EmptySlots(n int, newID func() string) []Product {
	slots := make([]Product, 0, n)
	for i := 0; i < n; i++ {
		slots = append(slots, Product{ID: newID()})
	}
	return slots
}
