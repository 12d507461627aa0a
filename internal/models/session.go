package models

import (
	"time"

	"github.com/Octa-square/LiveLedger/internal/constants"
)

// SessionState 直播场次计时器的持久化状态
type SessionState struct {
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	Status         string    `json:"status"` // idle / running / paused / ended
	ManuallyPaused bool      `json:"manually_paused"`
	LastUpdate     time.Time `json:"last_update"` // 用于挂起恢复时按墙钟补偿
}

// DefaultSessionState 空闲状态
func DefaultSessionState() SessionState {
	return SessionState{Status: constants.SessionStatusIdle}
}
