package service

import (
	"context"
	"time"

	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/events"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/models"
)

// AutoSaveService 自动存档服务。
// 刷盘点：定时、autoSaveRequested 事件（应用退后台）、进程退出。
// 落盘前把计时器快照同步进账本状态。
type AutoSaveService struct {
	state    *models.LedgerState
	saver    *Saver
	clock    *SessionClock
	bus      *events.Bus
	interval time.Duration
}

// NewAutoSaveService 创建自动存档服务
func NewAutoSaveService(state *models.LedgerState, saver *Saver, clock *SessionClock, bus *events.Bus, interval time.Duration) *AutoSaveService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &AutoSaveService{
		state:    state,
		saver:    saver,
		clock:    clock,
		bus:      bus,
		interval: interval,
	}
}

// Name 服务名称
func (s *AutoSaveService) Name() string {
	return "autosave"
}

// Start 启动刷盘循环
func (s *AutoSaveService) Start(ctx context.Context) error {
	var requests <-chan interface{}
	if s.bus != nil {
		requests = s.bus.Subscribe(constants.TopicAutoSaveRequested)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.flush()
		case <-requests:
			// 应用退后台，立即落盘并记录挂起时刻
			s.clock.HandleSuspend()
			s.flush()
		}
	}
}

// Stop 退出前最后一次落盘
func (s *AutoSaveService) Stop(ctx context.Context) error {
	_ = ctx
	if s.clock != nil {
		s.clock.Stop()
	}
	s.flush()
	return nil
}

func (s *AutoSaveService) flush() {
	if s == nil || s.saver == nil {
		return
	}
	if s.clock != nil && s.state != nil {
		s.state.Session = s.clock.Snapshot()
	}
	if err := s.saver.Flush(); err != nil {
		logger.Warnw("autosave_flush_failed", "error", err)
	}
}
