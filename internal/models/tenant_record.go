package models

import "time"

// TenantRecord 按租户命名空间存储的快照记录（键值行）。
// 引入租户命名空间之前的版本不区分租户，历史记录的 tenant_id 为空串，
// 由启动期迁移一次性归属到首个租户。
type TenantRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                    // 主键
	TenantID  string    `gorm:"type:varchar(64);uniqueIndex:idx_tenant_key" json:"tenant_id"`           // 租户ID
	RecordKey string    `gorm:"type:varchar(64);uniqueIndex:idx_tenant_key;not null" json:"record_key"` // 记录键
	Payload   []byte    `gorm:"type:json" json:"payload"`                                               // JSON 载荷
	UpdatedAt time.Time `json:"updated_at"`                                                             // 更新时间
}

// TableName 指定表名
func (TenantRecord) TableName() string {
	return "tenant_records"
}
