package service

import (
	"errors"
	"time"

	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/events"
	"github.com/Octa-square/LiveLedger/internal/identity"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/models"
)

// ErrInvalidQuantity 订单数量必须 ≥ 1
var ErrInvalidQuantity = errors.New("order quantity must be at least 1")

// ErrProductNotFound 下单引用的商品不存在
var ErrProductNotFound = errors.New("product not found")

// OrderService 订单服务：账本的核心状态机。
// 创建/删除/改量与库存增减在这里保持配平；
// 订单写入的是商品与渠道的值快照，后续编辑删除源数据不影响历史报表。
type OrderService struct {
	state        *models.LedgerState
	catalogs     *CatalogService
	clock        *SessionClock
	bus          *events.Bus
	saver        *Saver
	entitlements identity.Entitlements
	now          func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(state *models.LedgerState, catalogs *CatalogService, clock *SessionClock, bus *events.Bus, saver *Saver, entitlements identity.Entitlements) *OrderService {
	return &OrderService{
		state:        state,
		catalogs:     catalogs,
		clock:        clock,
		bus:          bus,
		saver:        saver,
		entitlements: entitlements,
		now:          time.Now,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	ProductID  string
	PlatformID string
	Buyer      string
	Phone      string
	Address    string
	Notes      string
	Source     string
	Quantity   int
}

// CanCreateOrder 配额前置检查。只读权益协作方，不在内部强制执行。
func (s *OrderService) CanCreateOrder() bool {
	if s == nil || s.entitlements == nil {
		return true
	}
	return s.entitlements.Unlimited() || s.entitlements.RemainingOrderQuota() > 0
}

// CreateOrder 创建订单：扣减库存（下限 0），按值快照商品与渠道，
// 插入订单列表头部（最新在前是展示契约），触发场次计时懒启动。
// 库存不足不报错（超卖钳制为既定策略，见设计文档），数量不合法才拒绝。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product := s.catalogs.FindProduct(input.ProductID)
	if product == nil || product.Empty() {
		return nil, ErrProductNotFound
	}

	s.catalogs.AdjustStock(input.ProductID, -input.Quantity)

	unitPrice := product.FinalPrice()
	source := input.Source
	if source == "" {
		source = constants.OrderSourceOther
	}

	order := models.Order{
		ID: models.NewID(),
		Product: models.ProductSnapshot{
			ProductID: product.ID,
			Name:      product.Name,
			Barcode:   product.Barcode,
			UnitPrice: unitPrice,
		},
		Platform:      s.snapshotPlatform(input.PlatformID),
		Buyer:         input.Buyer,
		Phone:         input.Phone,
		Address:       input.Address,
		Notes:         input.Notes,
		Source:        source,
		Quantity:      input.Quantity,
		TotalPrice:    unitPrice.MulInt(input.Quantity),
		WasDiscounted: product.Discounted(),
		PaymentStatus: constants.PaymentStatusUnset,
		CreatedAt:     s.now(),
	}

	// 最新在前
	s.state.Orders = append([]models.Order{order}, s.state.Orders...)
	if s.entitlements != nil {
		s.entitlements.ConsumeOrderQuota()
	}
	s.saver.MarkDirty()
	s.clock.StartIfIdle()
	s.bus.PublishOrderCreated(events.OrderCreated{
		OrderID:    order.ID,
		ProductID:  order.Product.ProductID,
		PlatformID: order.Platform.PlatformID,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
	})
	logger.Infow("order_created",
		"order_id", order.ID,
		"product", order.Product.Name,
		"quantity", order.Quantity,
		"total", order.TotalPrice.String(),
	)
	return &s.state.Orders[0], nil
}

// UpdateOrder 按 ID 整体替换订单。不重新快照、不调库存；
// 改数量必须走 UpdateOrderQuantity，否则库存会与实际脱节。
func (s *OrderService) UpdateOrder(order models.Order) bool {
	idx := s.state.FindOrder(order.ID)
	if idx < 0 {
		return false
	}
	s.state.Orders[idx] = order
	s.saver.MarkDirty()
	return true
}

// UpdateOrderQuantity 唯一安全的改量路径：数量差额同步回库存。
// 落账以库存实际生效的增减量为准：加量被钳住时只成交扣到的部分，
// 不凭空记下从未出库的数量。newQuantity ≤ 0 为空操作；数量未变化时对库存幂等。
func (s *OrderService) UpdateOrderQuantity(orderID string, newQuantity int) bool {
	if newQuantity <= 0 {
		return false
	}
	idx := s.state.FindOrder(orderID)
	if idx < 0 {
		return false
	}
	order := &s.state.Orders[idx]
	difference := newQuantity - order.Quantity
	if difference == 0 {
		return true
	}
	// 加量扣库存，减量还库存；applied 为负表示库存被扣减
	applied := s.catalogs.AdjustStock(order.Product.ProductID, -difference)
	order.Quantity -= applied
	order.TotalPrice = order.Product.UnitPrice.MulInt(order.Quantity)
	s.saver.MarkDirty()
	logger.Infow("order_quantity_updated",
		"order_id", orderID,
		"requested", newQuantity,
		"quantity", order.Quantity,
	)
	return true
}

// DeleteOrder 删除订单并归还库存。目标不存在时为空操作。
func (s *OrderService) DeleteOrder(orderID string) bool {
	idx := s.state.FindOrder(orderID)
	if idx < 0 {
		return false
	}
	order := s.state.Orders[idx]
	s.catalogs.AdjustStock(order.Product.ProductID, order.Quantity)
	s.state.Orders = append(s.state.Orders[:idx], s.state.Orders[idx+1:]...)
	s.saver.MarkDirty()
	logger.Infow("order_deleted", "order_id", orderID, "restored_stock", order.Quantity)
	return true
}

// CyclePaymentStatus 支付状态三态循环：unset -> pending -> paid -> unset
func (s *OrderService) CyclePaymentStatus(orderID string) bool {
	idx := s.state.FindOrder(orderID)
	if idx < 0 {
		return false
	}
	s.state.Orders[idx].PaymentStatus = models.NextPaymentStatus(s.state.Orders[idx].PaymentStatus)
	s.saver.MarkDirty()
	return true
}

// ToggleFulfilled 切换发货标记
func (s *OrderService) ToggleFulfilled(orderID string) bool {
	idx := s.state.FindOrder(orderID)
	if idx < 0 {
		return false
	}
	s.state.Orders[idx].Fulfilled = !s.state.Orders[idx].Fulfilled
	s.saver.MarkDirty()
	return true
}

// Orders 订单列表（最新在前）
func (s *OrderService) Orders() []models.Order {
	if s == nil || s.state == nil {
		return nil
	}
	return s.state.Orders
}

// BulkClearOptions 批量清空选项，各项独立生效
type BulkClearOptions struct {
	CustomPlatforms bool
	Products        bool
	Orders          bool
}

// BulkClear 批量清空。清订单先逐单归还库存；
// 清商品把当前商品册重置为 4 个空槽位；清自定义渠道保留内置渠道。
func (s *OrderService) BulkClear(options BulkClearOptions) {
	if s == nil || s.state == nil {
		return
	}
	if options.Orders {
		for _, order := range s.state.Orders {
			s.catalogs.AdjustStock(order.Product.ProductID, order.Quantity)
		}
		s.state.Orders = []models.Order{}
	}
	if options.Products {
		s.catalogs.ResetActiveCatalog()
	}
	if options.CustomPlatforms {
		kept := make([]models.Platform, 0, len(s.state.Platforms))
		for _, p := range s.state.Platforms {
			if !p.IsCustom {
				kept = append(kept, p)
			}
		}
		s.state.Platforms = kept
	}
	s.saver.MarkDirty()
	s.bus.PublishDataCleared(events.DataCleared{
		CustomPlatforms: options.CustomPlatforms,
		Products:        options.Products,
		Orders:          options.Orders,
	})
	logger.Infow("data_cleared",
		"custom_platforms", options.CustomPlatforms,
		"products", options.Products,
		"orders", options.Orders,
	)
}

// AddPlatform 新增自定义渠道
func (s *OrderService) AddPlatform(name, icon, color string) *models.Platform {
	platform := models.Platform{
		ID:       models.NewID(),
		Name:     name,
		Icon:     icon,
		Color:    color,
		IsCustom: true,
	}
	s.state.Platforms = append(s.state.Platforms, platform)
	s.saver.MarkDirty()
	return &s.state.Platforms[len(s.state.Platforms)-1]
}

// DeletePlatform 删除渠道。内置渠道不可删除。
func (s *OrderService) DeletePlatform(platformID string) bool {
	for i, p := range s.state.Platforms {
		if p.ID != platformID {
			continue
		}
		if !p.IsCustom {
			return false
		}
		s.state.Platforms = append(s.state.Platforms[:i], s.state.Platforms[i+1:]...)
		s.saver.MarkDirty()
		return true
	}
	return false
}

func (s *OrderService) snapshotPlatform(platformID string) models.PlatformSnapshot {
	for _, p := range s.state.Platforms {
		if p.ID == platformID {
			return models.PlatformSnapshot{
				PlatformID: p.ID,
				Name:       p.Name,
				Icon:       p.Icon,
				Color:      p.Color,
			}
		}
	}
	return models.PlatformSnapshot{PlatformID: platformID}
}
