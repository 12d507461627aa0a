package service

import (
	"time"

	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/models"
)

type demoProduct struct {
	name     string
	price    float64
	stock    int
	discount models.Discount
}

type demoOrder struct {
	product  string
	buyer    string
	platform string
	source   string
	quantity int
	daysAgo  int
	hour     int
	paid     bool
}

// PopulateDemoData 填充演示数据：一个演示商品册和分布在最近几天的订单。
// 由 seed 命令在账本加载后调用。
func (s *OrderService) PopulateDemoData() {
	if s == nil || s.state == nil {
		return
	}

	demoProducts := []demoProduct{
		{name: "Lip Tint", price: 12.50, stock: 60},
		{name: "Silk Scrunchie", price: 5.00, stock: 120},
		{name: "Face Mist", price: 18.00, stock: 45, discount: models.Discount{Kind: constants.DiscountKindPercentage, Value: models.NewMoneyFromFloat(10)}},
		{name: "Tote Bag", price: 22.00, stock: 30, discount: models.Discount{Kind: constants.DiscountKindFlat, Value: models.NewMoneyFromFloat(2)}},
	}

	catalog := s.catalogs.CreateCatalog("Demo Catalog")
	if catalog == nil {
		return
	}
	productIDs := make(map[string]string, len(demoProducts))
	for _, dp := range demoProducts {
		product := models.Product{
			ID:            models.NewID(),
			Name:          dp.name,
			Price:         models.NewMoneyFromFloat(dp.price),
			Discount:      dp.discount,
			Stock:         dp.stock,
			LowStockLevel: 10,
		}
		if s.catalogs.AddProduct(catalog.ID, product) {
			productIDs[dp.name] = product.ID
		}
	}
	s.catalogs.SelectCatalog(catalog.ID)

	demoOrders := []demoOrder{
		{product: "Lip Tint", buyer: "Anna", platform: "platform-tiktok", source: constants.OrderSourceLive, quantity: 2, daysAgo: 0, hour: 20, paid: true},
		{product: "Face Mist", buyer: "Bea", platform: "platform-tiktok", source: constants.OrderSourceLive, quantity: 1, daysAgo: 0, hour: 20, paid: true},
		{product: "Silk Scrunchie", buyer: "Carla", platform: "platform-instagram", source: constants.OrderSourceDirectMessage, quantity: 5, daysAgo: 0, hour: 21},
		{product: "Tote Bag", buyer: "Dana", platform: "platform-facebook", source: constants.OrderSourceLive, quantity: 1, daysAgo: 1, hour: 19, paid: true},
		{product: "Lip Tint", buyer: "Erin", platform: "platform-shopee", source: constants.OrderSourceWalkIn, quantity: 3, daysAgo: 2, hour: 14},
		{product: "Face Mist", buyer: "Faye", platform: "platform-instagram", source: constants.OrderSourceLive, quantity: 2, daysAgo: 3, hour: 20, paid: true},
	}

	now := time.Now()
	for _, do := range demoOrders {
		productID, ok := productIDs[do.product]
		if !ok {
			continue
		}
		order, err := s.CreateOrder(CreateOrderInput{
			ProductID:  productID,
			PlatformID: do.platform,
			Buyer:      do.buyer,
			Source:     do.source,
			Quantity:   do.quantity,
		})
		if err != nil {
			logger.Warnw("demo_order_failed", "product", do.product, "error", err)
			continue
		}
		// 把创建时间拨回演示用的历史时刻
		day := now.AddDate(0, 0, -do.daysAgo)
		order.CreatedAt = time.Date(day.Year(), day.Month(), day.Day(), do.hour, 0, 0, 0, now.Location())
		if do.paid {
			order.PaymentStatus = constants.PaymentStatusPaid
		}
	}
	s.saver.MarkDirty()
	logger.Infow("demo_data_populated", "products", len(productIDs), "orders", len(demoOrders))
}
