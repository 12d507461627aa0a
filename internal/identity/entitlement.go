package identity

import "github.com/Octa-square/LiveLedger/internal/config"

// TenantID 租户标识。所有持久化数据按租户命名空间隔离。
type TenantID string

// Entitlements 账户权益协作方接口。
// 核心只消费三项事实：当前租户、是否无限用量、剩余免费配额，
// 并在动作成功后回报一次用量；计费与校验逻辑由外部协作方实现。
type Entitlements interface {
	CurrentTenant() TenantID
	Unlimited() bool
	RemainingOrderQuota() int
	RemainingExportQuota() int
	ConsumeOrderQuota()
	ConsumeExportQuota()
}

// StaticEntitlements 配置驱动的权益实现
type StaticEntitlements struct {
	tenant      TenantID
	unlimited   bool
	orderQuota  int
	exportQuota int
}

// NewStaticEntitlements 从配置创建权益实现
func NewStaticEntitlements(cfg config.TenantConfig) *StaticEntitlements {
	tenant := TenantID(cfg.ID)
	if tenant == "" {
		tenant = "local"
	}
	return &StaticEntitlements{
		tenant:      tenant,
		unlimited:   cfg.Unlimited,
		orderQuota:  cfg.FreeOrderQuota,
		exportQuota: cfg.FreeExportQuota,
	}
}

// CurrentTenant 当前租户
func (e *StaticEntitlements) CurrentTenant() TenantID {
	return e.tenant
}

// Unlimited 是否无限用量
func (e *StaticEntitlements) Unlimited() bool {
	return e.unlimited
}

// RemainingOrderQuota 剩余免费订单配额
func (e *StaticEntitlements) RemainingOrderQuota() int {
	return e.orderQuota
}

// RemainingExportQuota 剩余免费导出配额
func (e *StaticEntitlements) RemainingExportQuota() int {
	return e.exportQuota
}

// ConsumeOrderQuota 扣减一次订单配额（无限用量时不扣减）
func (e *StaticEntitlements) ConsumeOrderQuota() {
	if e.unlimited || e.orderQuota <= 0 {
		return
	}
	e.orderQuota--
}

// ConsumeExportQuota 扣减一次导出配额（无限用量时不扣减）
func (e *StaticEntitlements) ConsumeExportQuota() {
	if e.unlimited || e.exportQuota <= 0 {
		return
	}
	e.exportQuota--
}
