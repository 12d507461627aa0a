package service

import (
	"context"
	"errors"
	"time"

	"github.com/Octa-square/LiveLedger/internal/identity"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/queue"
)

// ErrExportQuotaExhausted 免费导出配额用尽
var ErrExportQuotaExhausted = errors.New("export quota exhausted")

// ErrExportQueueDisabled 队列未启用，无法投递导出任务
var ErrExportQueueDisabled = errors.New("export queue is disabled")

// ExportEnqueuer 导出任务入队端，生产实现为 queue.Client
type ExportEnqueuer interface {
	Enabled() bool
	EnqueueExportCSV(payload queue.ExportCSVPayload) error
}

// ExportService 导出触发侧：校验并扣减导出配额，把任务推入队列，
// 实际生成 CSV 文件的是 worker 侧消费者。interval > 0 时按周期自动触发。
type ExportService struct {
	tenant       identity.TenantID
	enqueuer     ExportEnqueuer
	entitlements identity.Entitlements
	interval     time.Duration
}

// NewExportService 创建导出服务
func NewExportService(tenant identity.TenantID, enqueuer ExportEnqueuer, entitlements identity.Entitlements, interval time.Duration) *ExportService {
	return &ExportService{
		tenant:       tenant,
		enqueuer:     enqueuer,
		entitlements: entitlements,
		interval:     interval,
	}
}

// CanExport 导出配额前置检查
func (s *ExportService) CanExport() bool {
	if s == nil || s.entitlements == nil {
		return true
	}
	return s.entitlements.Unlimited() || s.entitlements.RemainingExportQuota() > 0
}

// RequestExport 触发一次导出：入队成功后扣减一次导出配额
func (s *ExportService) RequestExport() error {
	if s == nil || s.enqueuer == nil || !s.enqueuer.Enabled() {
		return ErrExportQueueDisabled
	}
	if !s.CanExport() {
		return ErrExportQuotaExhausted
	}
	if err := s.enqueuer.EnqueueExportCSV(queue.ExportCSVPayload{TenantID: string(s.tenant)}); err != nil {
		return err
	}
	if s.entitlements != nil {
		s.entitlements.ConsumeExportQuota()
	}
	logger.Infow("export_enqueued", "tenant", string(s.tenant))
	return nil
}

// Name 服务名称
func (s *ExportService) Name() string {
	return "export_scheduler"
}

// Start 周期导出循环。interval ≤ 0 时只等待退出。
func (s *ExportService) Start(ctx context.Context) error {
	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RequestExport(); err != nil {
				logger.Warnw("export_schedule_failed", "error", err)
			}
		}
	}
}

// Stop 无清理动作
func (s *ExportService) Stop(ctx context.Context) error {
	_ = ctx
	return nil
}
