package app

import (
	"errors"

	"github.com/Octa-square/LiveLedger/internal/config"
	"github.com/Octa-square/LiveLedger/internal/provider"
	"github.com/Octa-square/LiveLedger/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// 账本服务：自动存档循环与演示数据监听
	if mode == ModeAll || mode == ModeLedger {
		services = append(services, container.AutoSaveService, container.DemoListener)
		// 周期导出触发侧，需要队列在场
		if cfg.Queue.Enabled && cfg.Export.IntervalMinutes > 0 {
			services = append(services, container.ExportService)
		}
	}

	// Worker 服务：异步导出任务。all 模式下队列未启用则静默跳过，
	// 显式 worker 模式下队列必须可用。
	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		} else if mode == ModeWorker {
			return nil, errors.New("worker mode requires queue.enabled")
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "tenant", opts.Config.Tenant.ID, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
