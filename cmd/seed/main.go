package main

import (
	"github.com/Octa-square/LiveLedger/internal/config"
	"github.com/Octa-square/LiveLedger/internal/events"
	"github.com/Octa-square/LiveLedger/internal/identity"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/models"
	"github.com/Octa-square/LiveLedger/internal/repository"
	"github.com/Octa-square/LiveLedger/internal/service"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	tenant := identity.TenantID(cfg.Tenant.ID)
	repo := repository.NewSnapshotRepository(models.DB)
	state, err := repo.LoadState(tenant)
	if err != nil {
		stdLog.Fatalf("Failed to load ledger state: %v", err)
	}

	// 在当前账本上叠加演示数据
	saver := service.NewSaver(repo, tenant, state)
	catalogs := service.NewCatalogService(state, saver)
	clock := service.NewSessionClock(0, saver)
	orders := service.NewOrderService(state, catalogs, clock, events.NewBus(), saver, nil)
	orders.PopulateDemoData()
	// 演示数据落库时不保留跑动中的场次，避免下次启动按墙钟补偿
	clock.Reset()
	clock.Stop()

	state.Session = clock.Snapshot()
	if err := repo.SaveState(tenant, state); err != nil {
		stdLog.Fatalf("Failed to save ledger state: %v", err)
	}
	stdLog.Printf("Demo data seeded for tenant %s: %d catalogs, %d orders", cfg.Tenant.ID, len(state.Catalogs), len(state.Orders))
}
