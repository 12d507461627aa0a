package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Octa-square/LiveLedger/internal/export"
	"github.com/Octa-square/LiveLedger/internal/identity"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/provider"
	"github.com/Octa-square/LiveLedger/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskExportCSV, c.handleExportCSV)
}

// handleExportCSV 导出指定租户的订单 CSV。
// 从快照仓库读档而不是进程内存：worker 可能与主进程分开部署。
func (c *Consumer) handleExportCSV(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_export_csv_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ExportCSVPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_export_csv_unmarshal_failed", "error", err)
		return err
	}
	tenant := identity.TenantID(strings.TrimSpace(payload.TenantID))
	if tenant == "" {
		logger.Debugw("worker_export_csv_skip_empty_tenant")
		return nil
	}
	if c.SnapshotRepo == nil {
		logger.Warnw("worker_export_csv_skip_repo_nil", "tenant", string(tenant))
		return nil
	}

	state, err := c.SnapshotRepo.LoadState(tenant)
	if err != nil {
		logger.Warnw("worker_export_csv_load_state_failed", "tenant", string(tenant), "error", err)
		return err
	}

	dir := "./exports"
	if c.Config != nil && strings.TrimSpace(c.Config.Export.Dir) != "" {
		dir = c.Config.Export.Dir
	}
	path, err := export.ExportFile(dir, string(tenant), state.Orders, time.Now())
	if err != nil {
		logger.Warnw("worker_export_csv_write_failed", "tenant", string(tenant), "error", err)
		return err
	}
	logger.Infow("worker_export_csv_done", "tenant", string(tenant), "path", path, "orders", len(state.Orders))
	return nil
}
