package provider

import (
	"time"

	"github.com/Octa-square/LiveLedger/internal/cache"
	"github.com/Octa-square/LiveLedger/internal/config"
	"github.com/Octa-square/LiveLedger/internal/events"
	"github.com/Octa-square/LiveLedger/internal/identity"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/models"
	"github.com/Octa-square/LiveLedger/internal/queue"
	"github.com/Octa-square/LiveLedger/internal/repository"
	"github.com/Octa-square/LiveLedger/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	Tenant       identity.TenantID
	Entitlements identity.Entitlements
	State        *models.LedgerState
	Bus          *events.Bus

	// Repositories
	SnapshotRepo repository.SnapshotRepository

	// Services
	Saver           *service.Saver
	SessionClock    *service.SessionClock
	CatalogService  *service.CatalogService
	OrderService    *service.OrderService
	StatsService    *service.StatsService
	AutoSaveService *service.AutoSaveService
	ExportService   *service.ExportService
	DemoListener    *service.DemoDataListener
}

// NewContainer 初始化容器。
// 先迁移历史数据再整载账本进内存，之后所有读写都走内存态，
// 数据库只在刷盘点出现。
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Tenant:      identity.TenantID(cfg.Tenant.ID),
	}

	// 1. 初始化 Repositories 与内存账本
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	c.SnapshotRepo = repository.NewSnapshotRepository(models.DB)

	if err := c.SnapshotRepo.MigrateLegacy(c.Tenant); err != nil {
		logger.Warnw("provider_migrate_legacy_failed", "tenant", string(c.Tenant), "error", err)
	}

	state, err := c.SnapshotRepo.LoadState(c.Tenant)
	if err != nil {
		logger.Warnw("provider_load_state_failed", "tenant", string(c.Tenant), "error", err)
	}
	c.State = state
}

func (c *Container) initServices() {
	c.Bus = events.NewBus()
	c.Entitlements = identity.NewStaticEntitlements(c.Config.Tenant)
	c.Saver = service.NewSaver(c.SnapshotRepo, c.Tenant, c.State)

	tick := time.Duration(c.Config.Session.TickSeconds) * time.Second
	c.SessionClock = service.NewSessionClock(tick, c.Saver)
	c.SessionClock.Restore(c.State.Session)

	c.CatalogService = service.NewCatalogService(c.State, c.Saver)
	c.OrderService = service.NewOrderService(c.State, c.CatalogService, c.SessionClock, c.Bus, c.Saver, c.Entitlements)
	c.StatsService = service.NewStatsService(c.Tenant, c.OrderService)

	flushInterval := time.Duration(c.Config.Session.FlushIntervalSeconds) * time.Second
	c.AutoSaveService = service.NewAutoSaveService(c.State, c.Saver, c.SessionClock, c.Bus, flushInterval)

	exportInterval := time.Duration(c.Config.Export.IntervalMinutes) * time.Minute
	c.ExportService = service.NewExportService(c.Tenant, c.QueueClient, c.Entitlements, exportInterval)
	c.DemoListener = service.NewDemoDataListener(c.OrderService, c.Saver, c.Bus)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
}
