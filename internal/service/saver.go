package service

import (
	"sync"

	"github.com/Octa-square/LiveLedger/internal/identity"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/models"
	"github.com/Octa-square/LiveLedger/internal/repository"
)

// Saver 脏标记 + 落盘点。
// 每次写操作只置脏标记，真正写库发生在刷盘点（定时、退后台、退出），
// 避免每次变更都整量序列化。无事务保证，后写覆盖先写。
type Saver struct {
	mu     sync.Mutex
	dirty  bool
	repo   repository.SnapshotRepository
	tenant identity.TenantID
	state  *models.LedgerState
}

// NewSaver 创建存档器
func NewSaver(repo repository.SnapshotRepository, tenant identity.TenantID, state *models.LedgerState) *Saver {
	return &Saver{repo: repo, tenant: tenant, state: state}
}

// MarkDirty 标记状态已变更
func (s *Saver) MarkDirty() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Dirty 是否有未落盘的变更
func (s *Saver) Dirty() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush 有变更时写库并清除脏标记
func (s *Saver) Flush() error {
	if s == nil || s.repo == nil {
		return nil
	}
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	s.dirty = false
	s.mu.Unlock()

	if err := s.repo.SaveState(s.tenant, s.state); err != nil {
		logger.Errorw("state_flush_failed", "tenant", string(s.tenant), "error", err)
		// 保留脏标记，等待下一个刷盘点重试
		s.MarkDirty()
		return err
	}
	logger.Debugw("state_flushed", "tenant", string(s.tenant))
	return nil
}
