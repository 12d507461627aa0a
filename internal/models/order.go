package models

import (
	"time"

	"github.com/Octa-square/LiveLedger/internal/constants"
)

// ProductSnapshot 下单时刻的商品快照。
// 快照一经写入不再变更，商品后续被编辑或删除都不影响历史订单。
type ProductSnapshot struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Barcode   string `json:"barcode,omitempty"`
	UnitPrice Money  `json:"unit_price"`
}

// PlatformSnapshot 下单时刻的渠道快照
type PlatformSnapshot struct {
	PlatformID string `json:"platform_id"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
}

// Order 订单
type Order struct {
	ID            string           `json:"id"`
	Product       ProductSnapshot  `json:"product"`
	Platform      PlatformSnapshot `json:"platform"`
	Buyer         string           `json:"buyer"`
	Phone         string           `json:"phone,omitempty"`
	Address       string           `json:"address,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Source        string           `json:"source"`
	Quantity      int              `json:"quantity"`
	TotalPrice    Money            `json:"total_price"`
	WasDiscounted bool             `json:"was_discounted"`
	PaymentStatus string           `json:"payment_status"`
	Fulfilled     bool             `json:"fulfilled"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Paid 判断订单是否已支付
func (o Order) Paid() bool {
	return o.PaymentStatus == constants.PaymentStatusPaid
}

// NextPaymentStatus 支付状态三态循环
func NextPaymentStatus(status string) string {
	switch status {
	case constants.PaymentStatusUnset, "":
		return constants.PaymentStatusPending
	case constants.PaymentStatusPending:
		return constants.PaymentStatusPaid
	default:
		return constants.PaymentStatusUnset
	}
}
