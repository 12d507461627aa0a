package repository

import (
	"encoding/json"

	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/identity"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository 账本快照数据访问接口。
// 读档失败一律回退默认数据，核心从不因持久层报错而中断。
type SnapshotRepository interface {
	LoadState(tenant identity.TenantID) (*models.LedgerState, error)
	SaveState(tenant identity.TenantID, state *models.LedgerState) error
	MigrateLegacy(tenant identity.TenantID) error
}

// GormSnapshotRepository GORM 实现
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository 创建快照仓库
func NewSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// LoadState 读取租户的全部账本数据。
// 缺失或损坏的记录按记录粒度回退默认值：订单记录损坏不影响商品册。
func (r *GormSnapshotRepository) LoadState(tenant identity.TenantID) (*models.LedgerState, error) {
	state := models.DefaultLedgerState()
	if r == nil || r.db == nil {
		return state, nil
	}

	var records []models.TenantRecord
	if err := r.db.Where("tenant_id = ?", string(tenant)).Find(&records).Error; err != nil {
		logger.Warnw("snapshot_load_failed", "tenant", string(tenant), "error", err)
		return state, nil
	}

	for _, record := range records {
		switch record.RecordKey {
		case constants.RecordKeyCatalogs:
			var payload struct {
				Catalogs []models.Catalog `json:"catalogs"`
				ActiveID string           `json:"active_catalog_id"`
			}
			if err := json.Unmarshal(record.Payload, &payload); err != nil {
				logger.Warnw("snapshot_record_corrupt", "tenant", string(tenant), "key", record.RecordKey, "error", err)
				continue
			}
			if len(payload.Catalogs) > 0 {
				state.Catalogs = payload.Catalogs
				state.ActiveCatalogID = payload.ActiveID
			}
		case constants.RecordKeyOrders:
			var orders []models.Order
			if err := json.Unmarshal(record.Payload, &orders); err != nil {
				logger.Warnw("snapshot_record_corrupt", "tenant", string(tenant), "key", record.RecordKey, "error", err)
				continue
			}
			state.Orders = orders
		case constants.RecordKeyPlatforms:
			var platforms []models.Platform
			if err := json.Unmarshal(record.Payload, &platforms); err != nil {
				logger.Warnw("snapshot_record_corrupt", "tenant", string(tenant), "key", record.RecordKey, "error", err)
				continue
			}
			if len(platforms) > 0 {
				state.Platforms = platforms
			}
		case constants.RecordKeySession:
			var session models.SessionState
			if err := json.Unmarshal(record.Payload, &session); err != nil {
				logger.Warnw("snapshot_record_corrupt", "tenant", string(tenant), "key", record.RecordKey, "error", err)
				continue
			}
			state.Session = session
		}
	}

	// 商品册集合不允许为空
	if len(state.Catalogs) == 0 {
		state.Catalogs = models.DefaultLedgerState().Catalogs
	}
	if state.FindCatalog(state.ActiveCatalogID) == nil {
		state.ActiveCatalogID = state.Catalogs[0].ID
	}
	return state, nil
}

// SaveState 持久化租户账本。每个记录键一行，后写覆盖先写。
func (r *GormSnapshotRepository) SaveState(tenant identity.TenantID, state *models.LedgerState) error {
	if r == nil || r.db == nil || state == nil {
		return nil
	}

	catalogsPayload, err := json.Marshal(struct {
		Catalogs []models.Catalog `json:"catalogs"`
		ActiveID string           `json:"active_catalog_id"`
	}{Catalogs: state.Catalogs, ActiveID: state.ActiveCatalogID})
	if err != nil {
		return err
	}
	ordersPayload, err := json.Marshal(state.Orders)
	if err != nil {
		return err
	}
	platformsPayload, err := json.Marshal(state.Platforms)
	if err != nil {
		return err
	}
	sessionPayload, err := json.Marshal(state.Session)
	if err != nil {
		return err
	}

	records := []models.TenantRecord{
		{TenantID: string(tenant), RecordKey: constants.RecordKeyCatalogs, Payload: catalogsPayload},
		{TenantID: string(tenant), RecordKey: constants.RecordKeyOrders, Payload: ordersPayload},
		{TenantID: string(tenant), RecordKey: constants.RecordKeyPlatforms, Payload: platformsPayload},
		{TenantID: string(tenant), RecordKey: constants.RecordKeySession, Payload: sessionPayload},
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "record_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
			}).Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// MigrateLegacy 一次性迁移：把租户区分之前写入的记录（tenant_id 为空）
// 归属给首个租户。租户已有数据时不迁移，避免覆盖。
func (r *GormSnapshotRepository) MigrateLegacy(tenant identity.TenantID) error {
	if r == nil || r.db == nil || tenant == "" {
		return nil
	}

	var owned int64
	if err := r.db.Model(&models.TenantRecord{}).Where("tenant_id = ?", string(tenant)).Count(&owned).Error; err != nil {
		return err
	}
	if owned > 0 {
		return nil
	}

	result := r.db.Model(&models.TenantRecord{}).Where("tenant_id = ?", "").Update("tenant_id", string(tenant))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		logger.Infow("legacy_records_migrated", "tenant", string(tenant), "records", result.RowsAffected)
	}
	return nil
}
