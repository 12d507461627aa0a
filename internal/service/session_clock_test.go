package service

import (
	"testing"
	"time"

	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/models"
)

// newTestClock 走表周期拉长到 1 小时，测试里用 tick() 手动驱动
func newTestClock() *SessionClock {
	state := models.DefaultLedgerState()
	saver := NewSaver(nil, "test", state)
	return NewSessionClock(time.Hour, saver)
}

func tickN(c *SessionClock, n int) {
	for i := 0; i < n; i++ {
		c.tick()
	}
}

func TestSessionClockLifecycle(t *testing.T) {
	c := newTestClock()
	defer c.Stop()

	if c.Status() != constants.SessionStatusIdle {
		t.Fatalf("fresh clock must be idle, got %s", c.Status())
	}
	if !c.Start() {
		t.Fatalf("Start from idle failed")
	}
	tickN(c, 5)
	if !c.Pause() {
		t.Fatalf("Pause failed")
	}
	if got := c.Elapsed(); got != 5 {
		t.Fatalf("elapsed after 5 ticks = %d", got)
	}

	// 暂停期间走表无效
	tickN(c, 3)
	if got := c.Elapsed(); got != 5 {
		t.Fatalf("ticks while paused must not count, got %d", got)
	}

	if !c.Resume() {
		t.Fatalf("Resume failed")
	}
	tickN(c, 3)
	if got := c.Elapsed(); got != 8 {
		t.Fatalf("elapsed after resume = %d", got)
	}

	c.Reset()
	if c.Elapsed() != 0 || c.Status() != constants.SessionStatusIdle {
		t.Fatalf("Reset must return to idle/0, got %s/%d", c.Status(), c.Elapsed())
	}
}

func TestSessionClockIllegalTransitions(t *testing.T) {
	c := newTestClock()
	defer c.Stop()

	if c.Pause() || c.Resume() || c.End() {
		t.Fatalf("idle clock only accepts Start")
	}
	c.Start()
	if c.Start() {
		t.Fatalf("Start while running must be refused")
	}
	if c.Resume() {
		t.Fatalf("Resume while running must be refused")
	}
}

func TestSessionClockEndedIsTerminal(t *testing.T) {
	c := newTestClock()
	defer c.Stop()

	c.Start()
	tickN(c, 4)
	if !c.End() {
		t.Fatalf("End from running failed")
	}
	if c.Status() != constants.SessionStatusEnded {
		t.Fatalf("status %s", c.Status())
	}

	// ended 冻结读数，拒绝 pause/resume
	tickN(c, 2)
	if c.Elapsed() != 4 {
		t.Fatalf("ended clock must freeze elapsed, got %d", c.Elapsed())
	}
	if c.Pause() || c.Resume() {
		t.Fatalf("ended clock rejects pause/resume")
	}

	// ended 之后重新 Start 从零开始
	if !c.Start() {
		t.Fatalf("Start from ended must begin a new session")
	}
	if c.Elapsed() != 0 {
		t.Fatalf("new session must start at 0, got %d", c.Elapsed())
	}
}

func TestSessionClockStartIfIdle(t *testing.T) {
	c := newTestClock()
	defer c.Stop()

	c.StartIfIdle()
	if c.Status() != constants.SessionStatusRunning {
		t.Fatalf("StartIfIdle should start an idle clock")
	}
	tickN(c, 3)
	c.Pause()
	c.StartIfIdle()
	if c.Status() != constants.SessionStatusPaused || c.Elapsed() != 3 {
		t.Fatalf("StartIfIdle must not disturb a paused session")
	}
}

func TestSessionClockSuspendResumeReconciliation(t *testing.T) {
	c := newTestClock()
	defer c.Stop()

	base := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	current := base
	c.now = func() time.Time { return current }

	c.Start()
	tickN(c, 10)

	// 挂起 90 秒后恢复：按墙钟一次性补偿
	c.HandleSuspend()
	tickN(c, 5) // 挂起期间的走表全部丢弃
	current = current.Add(90 * time.Second)
	c.HandleResume()
	if got := c.Elapsed(); got != 100 {
		t.Fatalf("expected 10 + 90 reconciled seconds, got %d", got)
	}

	// 重复恢复回调不能二次补偿
	current = current.Add(30 * time.Second)
	c.HandleResume()
	if got := c.Elapsed(); got != 100 {
		t.Fatalf("duplicate resume must not re-reconcile, got %d", got)
	}
}

func TestSessionClockSuspendWhilePaused(t *testing.T) {
	c := newTestClock()
	defer c.Stop()

	base := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	current := base
	c.now = func() time.Time { return current }

	c.Start()
	tickN(c, 7)
	c.Pause()

	c.HandleSuspend()
	current = current.Add(time.Hour)
	c.HandleResume()
	if got := c.Elapsed(); got != 7 {
		t.Fatalf("manually paused session must not accrue during suspend, got %d", got)
	}
	if c.Status() != constants.SessionStatusPaused {
		t.Fatalf("status %s", c.Status())
	}
}

func TestSessionClockRestore(t *testing.T) {
	base := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

	// running 且非手动暂停：按墙钟差补偿后继续
	c := newTestClock()
	defer c.Stop()
	current := base.Add(45 * time.Second)
	c.now = func() time.Time { return current }
	c.Restore(models.SessionState{
		ElapsedSeconds: 120,
		Status:         constants.SessionStatusRunning,
		LastUpdate:     base,
	})
	if got := c.Elapsed(); got != 165 {
		t.Fatalf("expected 120 + 45, got %d", got)
	}
	if c.Status() != constants.SessionStatusRunning {
		t.Fatalf("status %s", c.Status())
	}

	// running 但手动暂停：恢复为 paused，不补偿
	c2 := newTestClock()
	defer c2.Stop()
	c2.now = func() time.Time { return current }
	c2.Restore(models.SessionState{
		ElapsedSeconds: 120,
		Status:         constants.SessionStatusRunning,
		ManuallyPaused: true,
		LastUpdate:     base,
	})
	if c2.Status() != constants.SessionStatusPaused || c2.Elapsed() != 120 {
		t.Fatalf("manually paused restore wrong: %s/%d", c2.Status(), c2.Elapsed())
	}

	// 未知状态回落到 idle
	c3 := newTestClock()
	defer c3.Stop()
	c3.Restore(models.SessionState{ElapsedSeconds: 99, Status: "bogus"})
	if c3.Status() != constants.SessionStatusIdle || c3.Elapsed() != 0 {
		t.Fatalf("unknown status must reset to idle: %s/%d", c3.Status(), c3.Elapsed())
	}
}
