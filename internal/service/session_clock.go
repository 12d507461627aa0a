package service

import (
	"sync"
	"time"

	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/models"
)

// SessionClock 直播场次计时器。
// 四态机：idle -> running <-> paused，running/paused -> ended，ended 只能 reset 回 idle。
// 每秒走表由后台 goroutine 驱动；所有状态转换与走表共用一把锁，
// 离开 running 后不会再有走表生效。挂起期间不走表，恢复时按墙钟差一次性补偿。
type SessionClock struct {
	mu             sync.Mutex
	elapsed        int64
	status         string
	manuallyPaused bool
	suspended      bool
	lastUpdate     time.Time
	tickInterval   time.Duration
	stopCh         chan struct{}
	saver          *Saver
	now            func() time.Time
}

// NewSessionClock 创建计时器
func NewSessionClock(tickInterval time.Duration, saver *Saver) *SessionClock {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	return &SessionClock{
		status:       constants.SessionStatusIdle,
		tickInterval: tickInterval,
		saver:        saver,
		now:          time.Now,
	}
}

// Restore 从持久化状态恢复。
// 上次退出时若在 running 且非手动暂停，按墙钟补偿后继续走表；
// 手动暂停的保持 paused，其余状态原样恢复。
func (c *SessionClock) Restore(state models.SessionState) {
	c.mu.Lock()
	c.elapsed = state.ElapsedSeconds
	if c.elapsed < 0 {
		c.elapsed = 0
	}
	c.manuallyPaused = state.ManuallyPaused
	now := c.now()

	switch state.Status {
	case constants.SessionStatusRunning:
		if state.ManuallyPaused {
			c.status = constants.SessionStatusPaused
			c.mu.Unlock()
			return
		}
		if !state.LastUpdate.IsZero() {
			delta := int64(now.Sub(state.LastUpdate).Seconds())
			if delta > 0 {
				c.elapsed += delta
			}
		}
		c.status = constants.SessionStatusRunning
		c.lastUpdate = now
		c.startTickingLocked()
		c.mu.Unlock()
		logger.Infow("session_clock_restored_running", "elapsed", c.Elapsed())
	case constants.SessionStatusPaused, constants.SessionStatusEnded, constants.SessionStatusIdle:
		c.status = state.Status
		if c.status == "" {
			c.status = constants.SessionStatusIdle
		}
		c.mu.Unlock()
	default:
		c.status = constants.SessionStatusIdle
		c.elapsed = 0
		c.mu.Unlock()
	}
}

// Start 开始计时。仅 idle 和 ended 可进入 running。
func (c *SessionClock) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != constants.SessionStatusIdle && c.status != constants.SessionStatusEnded {
		return false
	}
	if c.status == constants.SessionStatusEnded {
		c.elapsed = 0
	}
	c.status = constants.SessionStatusRunning
	c.manuallyPaused = false
	c.lastUpdate = c.now()
	c.startTickingLocked()
	c.saver.MarkDirty()
	logger.Infow("session_clock_started")
	return true
}

// StartIfIdle 懒启动：首单创建时触发
func (c *SessionClock) StartIfIdle() {
	if c == nil {
		return
	}
	c.mu.Lock()
	idle := c.status == constants.SessionStatusIdle
	c.mu.Unlock()
	if idle {
		c.Start()
	}
}

// Pause 暂停计时。仅 running 可暂停。
func (c *SessionClock) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != constants.SessionStatusRunning {
		return false
	}
	c.status = constants.SessionStatusPaused
	c.manuallyPaused = true
	c.stopTickingLocked()
	c.saver.MarkDirty()
	logger.Infow("session_clock_paused", "elapsed", c.elapsed)
	return true
}

// Resume 恢复计时。仅 paused 可恢复。
func (c *SessionClock) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != constants.SessionStatusPaused {
		return false
	}
	c.status = constants.SessionStatusRunning
	c.manuallyPaused = false
	c.lastUpdate = c.now()
	c.startTickingLocked()
	c.saver.MarkDirty()
	return true
}

// End 结束场次。终态，只有 Reset 能离开。
func (c *SessionClock) End() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != constants.SessionStatusRunning && c.status != constants.SessionStatusPaused {
		return false
	}
	c.status = constants.SessionStatusEnded
	c.manuallyPaused = false
	c.stopTickingLocked()
	c.saver.MarkDirty()
	logger.Infow("session_clock_ended", "elapsed", c.elapsed)
	return true
}

// Reset 任意状态归零回 idle
func (c *SessionClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = constants.SessionStatusIdle
	c.elapsed = 0
	c.manuallyPaused = false
	c.stopTickingLocked()
	c.saver.MarkDirty()
	logger.Infow("session_clock_reset")
}

// HandleSuspend 应用挂起：停止走表，记录墙钟时刻
func (c *SessionClock) HandleSuspend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.suspended {
		return
	}
	c.suspended = true
	c.lastUpdate = c.now()
	c.stopTickingLocked()
}

// HandleResume 应用恢复：幂等。挂起时在 running 且非手动暂停的，
// 按墙钟差一次性补偿 elapsed，再恢复走表。
func (c *SessionClock) HandleResume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.suspended {
		// 未经历挂起的重复回调，不能二次补偿
		return
	}
	c.suspended = false
	now := c.now()
	if c.status == constants.SessionStatusRunning && !c.manuallyPaused {
		delta := int64(now.Sub(c.lastUpdate).Seconds())
		if delta > 0 {
			c.elapsed += delta
		}
		c.lastUpdate = now
		c.startTickingLocked()
		c.saver.MarkDirty()
		logger.Infow("session_clock_reconciled", "delta_seconds", delta, "elapsed", c.elapsed)
	}
}

// Elapsed 已计时秒数
func (c *SessionClock) Elapsed() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Status 当前状态
func (c *SessionClock) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot 导出持久化状态
func (c *SessionClock) Snapshot() models.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.SessionState{
		ElapsedSeconds: c.elapsed,
		Status:         c.status,
		ManuallyPaused: c.manuallyPaused,
		LastUpdate:     c.lastUpdate,
	}
}

// Stop 停止后台走表（进程退出时调用）
func (c *SessionClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTickingLocked()
}

// tick 走表一次。持锁校验状态，离开 running 后到达的 tick 均为空操作。
func (c *SessionClock) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != constants.SessionStatusRunning || c.suspended {
		return
	}
	c.elapsed++
	c.lastUpdate = c.now()
	c.saver.MarkDirty()
}

func (c *SessionClock) startTickingLocked() {
	if c.stopCh != nil {
		return
	}
	stopCh := make(chan struct{})
	c.stopCh = stopCh
	go func() {
		ticker := time.NewTicker(c.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				c.tick()
			}
		}
	}()
}

func (c *SessionClock) stopTickingLocked() {
	if c.stopCh == nil {
		return
	}
	close(c.stopCh)
	c.stopCh = nil
}
