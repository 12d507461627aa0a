package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/logger"
	"github.com/Octa-square/LiveLedger/internal/models"
)

// CSVHeader 导出文件首行。列顺序是对外契约，不要调整。
const CSVHeader = "Order ID,Product,Buyer,Phone,Address,Platform,Quantity,Unit Price,Total,Payment Status,Timestamp"

// sanitizeField 自由文本字段里的逗号替换为分号。
// 导出行不做引号转义，字段内不允许出现列分隔符。
func sanitizeField(s string) string {
	s = strings.ReplaceAll(s, ",", ";")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// OrderRow 单笔订单的导出行
func OrderRow(order models.Order) string {
	fields := []string{
		order.ID,
		sanitizeField(order.Product.Name),
		sanitizeField(order.Buyer),
		sanitizeField(order.Phone),
		sanitizeField(order.Address),
		sanitizeField(order.Platform.Name),
		strconv.Itoa(order.Quantity),
		order.Product.UnitPrice.String(),
		order.TotalPrice.String(),
		order.PaymentStatus,
		order.CreatedAt.Format(constants.ExportTimestamp),
	}
	return strings.Join(fields, ",")
}

// WriteCSV 按订单集合写出 CSV，行顺序与输入一致
func WriteCSV(w io.Writer, orders []models.Order) error {
	if _, err := io.WriteString(w, CSVHeader+"\n"); err != nil {
		return err
	}
	for _, order := range orders {
		if _, err := io.WriteString(w, OrderRow(order)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ExportFile 导出订单到目录下的 CSV 文件，返回文件路径。
// 文件名带租户与时间戳，重复导出不覆盖。
func ExportFile(dir, tenantID string, orders []models.Order, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("orders_%s_%s.csv", tenantID, now.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, orders); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	logger.Infow("orders_exported", "path", path, "count", len(orders))
	return path, nil
}
