package service

import (
	"strings"

	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/models"
)

// CatalogService 商品册服务。
// 持有账本内存状态的商品册部分：容量上限、槽位顺序、库存调整都在这里收口。
type CatalogService struct {
	state *models.LedgerState
	saver *Saver
}

// NewCatalogService 创建商品册服务
func NewCatalogService(state *models.LedgerState, saver *Saver) *CatalogService {
	return &CatalogService{state: state, saver: saver}
}

// Catalogs 全部商品册
func (s *CatalogService) Catalogs() []models.Catalog {
	if s == nil || s.state == nil {
		return nil
	}
	return s.state.Catalogs
}

// ActiveCatalog 当前选中的商品册
func (s *CatalogService) ActiveCatalog() *models.Catalog {
	if s == nil {
		return nil
	}
	return s.state.ActiveCatalog()
}

// CreateCatalog 新建商品册并返回
func (s *CatalogService) CreateCatalog(name string) *models.Catalog {
	if s == nil || s.state == nil {
		return nil
	}
	catalog := models.Catalog{
		ID:       models.NewID(),
		Name:     strings.TrimSpace(name),
		Products: []models.Product{},
	}
	s.state.Catalogs = append(s.state.Catalogs, catalog)
	s.saver.MarkDirty()
	logger.Infow("catalog_created", "catalog_id", catalog.ID, "name", catalog.Name)
	return &s.state.Catalogs[len(s.state.Catalogs)-1]
}

// RenameCatalog 重命名商品册，目标不存在时忽略
func (s *CatalogService) RenameCatalog(id, name string) bool {
	catalog := s.state.FindCatalog(id)
	if catalog == nil {
		return false
	}
	catalog.Name = strings.TrimSpace(name)
	s.saver.MarkDirty()
	return true
}

// DeleteCatalog 删除商品册。最后一个商品册不可删除（静默拒绝）。
func (s *CatalogService) DeleteCatalog(id string) bool {
	if s == nil || s.state == nil {
		return false
	}
	if len(s.state.Catalogs) <= 1 {
		logger.Warnw("catalog_delete_refused_last", "catalog_id", id)
		return false
	}
	for i := range s.state.Catalogs {
		if s.state.Catalogs[i].ID != id {
			continue
		}
		s.state.Catalogs = append(s.state.Catalogs[:i], s.state.Catalogs[i+1:]...)
		if s.state.ActiveCatalogID == id {
			s.state.ActiveCatalogID = s.state.Catalogs[0].ID
		}
		s.saver.MarkDirty()
		logger.Infow("catalog_deleted", "catalog_id", id)
		return true
	}
	return false
}

// SelectCatalog 切换当前商品册，目标不存在时忽略
func (s *CatalogService) SelectCatalog(id string) bool {
	if s.state.FindCatalog(id) == nil {
		return false
	}
	s.state.ActiveCatalogID = id
	s.saver.MarkDirty()
	return true
}

// AddProduct 向商品册追加商品槽位。
// 超过容量或名称超长时拒绝，由调用方决定界面反馈。
func (s *CatalogService) AddProduct(catalogID string, product models.Product) bool {
	catalog := s.state.FindCatalog(catalogID)
	if catalog == nil {
		return false
	}
	if catalog.SlotCount() >= constants.CatalogCapacity {
		logger.Warnw("product_add_refused_capacity", "catalog_id", catalogID)
		return false
	}
	if !models.ValidName(product.Name) {
		logger.Warnw("product_add_refused_name", "catalog_id", catalogID, "name", product.Name)
		return false
	}
	if product.ID == "" {
		product.ID = models.NewID()
	}
	if product.Stock < 0 {
		product.Stock = 0
	}
	catalog.Products = append(catalog.Products, product)
	s.saver.MarkDirty()
	logger.Infow("product_added", "catalog_id", catalogID, "product_id", product.ID, "name", product.Name)
	return true
}

// UpdateProduct 按 ID 整体替换商品信息，不影响历史订单的快照
func (s *CatalogService) UpdateProduct(product models.Product) bool {
	if !models.ValidName(product.Name) {
		return false
	}
	for i := range s.state.Catalogs {
		idx := s.state.Catalogs[i].FindProduct(product.ID)
		if idx < 0 {
			continue
		}
		if product.Stock < 0 {
			product.Stock = 0
		}
		s.state.Catalogs[i].Products[idx] = product
		s.saver.MarkDirty()
		return true
	}
	return false
}

// RemoveProduct 删除商品槽位，目标不存在时忽略
func (s *CatalogService) RemoveProduct(productID string) bool {
	for i := range s.state.Catalogs {
		idx := s.state.Catalogs[i].FindProduct(productID)
		if idx < 0 {
			continue
		}
		products := s.state.Catalogs[i].Products
		s.state.Catalogs[i].Products = append(products[:idx], products[idx+1:]...)
		s.saver.MarkDirty()
		logger.Infow("product_removed", "product_id", productID)
		return true
	}
	return false
}

// FindProduct 跨商品册按 ID 查找商品
func (s *CatalogService) FindProduct(productID string) *models.Product {
	if s == nil || s.state == nil {
		return nil
	}
	for i := range s.state.Catalogs {
		idx := s.state.Catalogs[i].FindProduct(productID)
		if idx >= 0 {
			return &s.state.Catalogs[i].Products[idx]
		}
	}
	return nil
}

// AdjustStock 调整库存，结果不低于 0，返回实际生效的增减量。
// 改量对账以返回值为准；下单路径按请求量成交，超卖时库存停在 0。
func (s *CatalogService) AdjustStock(productID string, delta int) int {
	product := s.FindProduct(productID)
	if product == nil {
		return 0
	}
	next := product.Stock + delta
	if next < 0 {
		next = 0
	}
	applied := next - product.Stock
	if applied == 0 {
		return 0
	}
	product.Stock = next
	s.saver.MarkDirty()
	logger.Debugw("stock_adjusted", "product_id", productID, "requested", delta, "applied", applied, "stock", next)
	return applied
}

// ResetActiveCatalog 清空当前商品册为 4 个空槽位（界面约定，不是技术约束）
func (s *CatalogService) ResetActiveCatalog() {
	catalog := s.state.ActiveCatalog()
	if catalog == nil {
		return
	}
	catalog.Products = models.EmptySlots(constants.CatalogResetSlots, models.NewID)
	s.saver.MarkDirty()
	logger.Infow("catalog_products_reset", "catalog_id", catalog.ID)
}

// LowStockProducts 达到低库存阈值（但未到紧急阈值）的商品
func (s *CatalogService) LowStockProducts() []models.Product {
	return s.collectByStock(func(p models.Product) bool {
		return p.LowStockLevel > 0 && p.Stock <= p.LowStockLevel && (p.CriticalStockLevel <= 0 || p.Stock > p.CriticalStockLevel)
	})
}

// CriticalStockProducts 达到紧急库存阈值的商品
func (s *CatalogService) CriticalStockProducts() []models.Product {
	return s.collectByStock(func(p models.Product) bool {
		return p.CriticalStockLevel > 0 && p.Stock <= p.CriticalStockLevel
	})
}

func (s *CatalogService) collectByStock(match func(models.Product) bool) []models.Product {
	if s == nil || s.state == nil {
		return nil
	}
	var result []models.Product
	for _, catalog := range s.state.Catalogs {
		for _, p := range catalog.Products {
			if p.Empty() {
				continue
			}
			if match(p) {
				result = append(result, p)
			}
		}
	}
	return result
}
