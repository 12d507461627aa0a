package models

import (
	"github.com/Octa-square/LiveLedger/internal/constants"

	"github.com/google/uuid"
)

// LedgerState 单个租户的全部账本数据。
// 只有一个写入方（界面驱动线程），各 service 直接共享这份内存结构。
type LedgerState struct {
	Catalogs        []Catalog    `json:"catalogs"`
	ActiveCatalogID string       `json:"active_catalog_id"`
	Orders          []Order      `json:"orders"` // 最新在前，展示契约
	Platforms       []Platform   `json:"platforms"`
	Session         SessionState `json:"session"`
}

// NewID 生成实体 ID
func NewID() string {
	return uuid.NewString()
}

// DefaultLedgerState 首次启动或读档失败时的初始数据：
// 一个带 4 个空槽位的商品册 + 内置渠道 + 空闲计时器。
func DefaultLedgerState() *LedgerState {
	catalog := Catalog{
		ID:       NewID(),
		Name:     "Catalog 1",
		Products: EmptySlots(constants.CatalogResetSlots, NewID),
	}
	return &LedgerState{
		Catalogs:        []Catalog{catalog},
		ActiveCatalogID: catalog.ID,
		Orders:          []Order{},
		Platforms:       BuiltinPlatforms(),
		Session:         DefaultSessionState(),
	}
}

// ActiveCatalog 返回当前选中的商品册，未选中时回退到第一个
func (s *LedgerState) ActiveCatalog() *Catalog {
	if s == nil || len(s.Catalogs) == 0 {
		return nil
	}
	for i := range s.Catalogs {
		if s.Catalogs[i].ID == s.ActiveCatalogID {
			return &s.Catalogs[i]
		}
	}
	return &s.Catalogs[0]
}

// FindCatalog 按 ID 查找商品册，未找到返回 nil
func (s *LedgerState) FindCatalog(id string) *Catalog {
	if s == nil {
		return nil
	}
	for i := range s.Catalogs {
		if s.Catalogs[i].ID == id {
			return &s.Catalogs[i]
		}
	}
	return nil
}

// FindOrder 按 ID 查找订单下标，未找到返回 -1
func (s *LedgerState) FindOrder(id string) int {
	if s == nil {
		return -1
	}
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return i
		}
	}
	return -1
}
