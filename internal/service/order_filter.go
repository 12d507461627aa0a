package service

import (
	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/models"
)

// 折扣筛选取值
const (
	FilterDiscountAny           = "any"
	FilterDiscountDiscounted    = "discounted"
	FilterDiscountNotDiscounted = "not_discounted"
)

// 支付筛选取值
const (
	FilterPaymentAny    = "any"
	FilterPaymentUnpaid = "unpaid"
	FilterPaymentPaid   = "paid"
)

// FilterCriteria 订单筛选条件。各维度独立判断，逻辑与组合；
// 空串或 "any" 表示该维度不过滤。
type FilterCriteria struct {
	PlatformID string
	Discount   string
	Payment    string
	Source     string
}

// Empty 判断是否为全通条件
func (c FilterCriteria) Empty() bool {
	return (c.PlatformID == "" || c.PlatformID == "any") &&
		(c.Discount == "" || c.Discount == FilterDiscountAny) &&
		(c.Payment == "" || c.Payment == FilterPaymentAny) &&
		(c.Source == "" || c.Source == "any")
}

// FilterOrders 纯函数筛选：(orders, criteria) 完全决定结果，
// 界面和报表共用同一份"当前展示了什么"的事实。
// 全通条件直接返回输入集合（恒等）。
func FilterOrders(orders []models.Order, criteria FilterCriteria) []models.Order {
	if criteria.Empty() {
		return orders
	}
	result := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if !matchesCriteria(order, criteria) {
			continue
		}
		result = append(result, order)
	}
	return result
}

func matchesCriteria(order models.Order, c FilterCriteria) bool {
	if c.PlatformID != "" && c.PlatformID != "any" && order.Platform.PlatformID != c.PlatformID {
		return false
	}
	switch c.Discount {
	case FilterDiscountDiscounted:
		if !order.WasDiscounted {
			return false
		}
	case FilterDiscountNotDiscounted:
		if order.WasDiscounted {
			return false
		}
	}
	switch c.Payment {
	case FilterPaymentPaid:
		if order.PaymentStatus != constants.PaymentStatusPaid {
			return false
		}
	case FilterPaymentUnpaid:
		// 未支付含 unset 与 pending
		if order.PaymentStatus == constants.PaymentStatusPaid {
			return false
		}
	}
	if c.Source != "" && c.Source != "any" && order.Source != c.Source {
		return false
	}
	return true
}
