//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/Octa-square/LiveLedger/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	_ = db.Migrator().DropTable(&models.TenantRecord{})
	if err := db.AutoMigrate(&models.TenantRecord{}); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(&models.TenantRecord{})
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresSnapshotRoundTrip(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewSnapshotRepository(db)

	state := models.DefaultLedgerState()
	state.Catalogs[0].Name = "PG Catalog"
	if err := repo.SaveState("pg-tenant", state); err != nil {
		t.Fatalf("save state failed: %v", err)
	}
	// 二次保存走 upsert 路径
	state.Catalogs[0].Name = "PG Catalog v2"
	if err := repo.SaveState("pg-tenant", state); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, err := repo.LoadState("pg-tenant")
	if err != nil {
		t.Fatalf("load state failed: %v", err)
	}
	if loaded.Catalogs[0].Name != "PG Catalog v2" {
		t.Fatalf("expected last write to win, got %s", loaded.Catalogs[0].Name)
	}
}
