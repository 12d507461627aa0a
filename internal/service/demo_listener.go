package service

import (
	"context"

	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/events"
	"github.com/Octa-square/LiveLedger/internal/logger"
)

// DemoDataListener 订阅演示数据请求事件，收到后在当前账本上叠加演示数据并立即落盘
type DemoDataListener struct {
	orders *OrderService
	saver  *Saver
	bus    *events.Bus
}

// NewDemoDataListener 创建演示数据监听服务
func NewDemoDataListener(orders *OrderService, saver *Saver, bus *events.Bus) *DemoDataListener {
	return &DemoDataListener{orders: orders, saver: saver, bus: bus}
}

// Name 服务名称
func (l *DemoDataListener) Name() string {
	return "demo_listener"
}

// Start 监听循环
func (l *DemoDataListener) Start(ctx context.Context) error {
	if l.bus == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	requests := l.bus.Subscribe(constants.TopicDemoDataRequested)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload := <-requests:
			req, _ := payload.(events.DemoDataRequested)
			logger.Infow("demo_data_requested", "reason", req.Reason)
			l.orders.PopulateDemoData()
			if l.saver != nil {
				if err := l.saver.Flush(); err != nil {
					logger.Warnw("demo_data_flush_failed", "error", err)
				}
			}
		}
	}
}

// Stop 无清理动作
func (l *DemoDataListener) Stop(ctx context.Context) error {
	_ = ctx
	return nil
}
