package queue

import (
	"encoding/json"

	"github.com/Octa-square/LiveLedger/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskExportCSV 订单 CSV 导出任务
	TaskExportCSV = constants.TaskExportCSV
)

// ExportCSVPayload 导出任务载荷
type ExportCSVPayload struct {
	TenantID string `json:"tenant_id"`
}

// NewExportCSVTask 创建导出任务
func NewExportCSVTask(payload ExportCSVPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExportCSV, body), nil
}
