package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Octa-square/LiveLedger/internal/cache"
	"github.com/Octa-square/LiveLedger/internal/identity"
	"github.com/Octa-square/LiveLedger/internal/models"

	"github.com/shopspring/decimal"
)

const (
	statsCacheTTL      = 45 * time.Second
	statsCustomMaxDays = 90
)

// 统计时间范围取值
const (
	RangeToday  = "today"
	RangeWeek   = "week"
	RangeMonth  = "month"
	RangeCustom = "custom"
)

// Summary 核心经营指标
type Summary struct {
	TotalRevenue      models.Money `json:"total_revenue"`
	OrderCount        int          `json:"order_count"`
	TotalQuantity     int          `json:"total_quantity"`
	AverageOrderValue models.Money `json:"average_order_value"`
}

// PlatformStat 渠道维度统计
type PlatformStat struct {
	PlatformID string       `json:"platform_id"`
	Name       string       `json:"name"`
	Revenue    models.Money `json:"revenue"`
	OrderCount int          `json:"order_count"`
	Percentage float64      `json:"percentage"`
}

// ProductStat 商品维度统计。按快照名称分组：
// 订单存的是快照，同名历史商品聚到一起是有意为之。
type ProductStat struct {
	Name     string       `json:"name"`
	Quantity int          `json:"quantity"`
	Revenue  models.Money `json:"revenue"`
}

// Bucket 时间桶（按日或按小时）
type Bucket struct {
	Key        string       `json:"key"`
	Start      time.Time    `json:"start"`
	Revenue    models.Money `json:"revenue"`
	OrderCount int          `json:"order_count"`
}

// Summarize 汇总指标。空集合时均值为 0，无除零。
func Summarize(orders []models.Order) Summary {
	summary := Summary{
		TotalRevenue:      models.ZeroMoney(),
		AverageOrderValue: models.ZeroMoney(),
	}
	for _, order := range orders {
		summary.TotalRevenue = summary.TotalRevenue.AddMoney(order.TotalPrice)
		summary.TotalQuantity += order.Quantity
	}
	summary.OrderCount = len(orders)
	if summary.OrderCount > 0 {
		avg := summary.TotalRevenue.Decimal.Div(decimal.NewFromInt(int64(summary.OrderCount)))
		summary.AverageOrderValue = models.NewMoneyFromDecimal(avg)
	}
	return summary
}

// PlatformBreakdown 渠道占比：按渠道快照 ID 分组，营收降序（稳定排序，
// 并列保持输入顺序）。总营收为 0 时返回空列表。
func PlatformBreakdown(orders []models.Order) []PlatformStat {
	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(order.TotalPrice.Decimal)
	}
	if total.IsZero() {
		return []PlatformStat{}
	}

	index := make(map[string]int)
	stats := make([]PlatformStat, 0)
	for _, order := range orders {
		id := order.Platform.PlatformID
		pos, ok := index[id]
		if !ok {
			pos = len(stats)
			index[id] = pos
			stats = append(stats, PlatformStat{
				PlatformID: id,
				Name:       order.Platform.Name,
				Revenue:    models.ZeroMoney(),
			})
		}
		stats[pos].Revenue = stats[pos].Revenue.AddMoney(order.TotalPrice)
		stats[pos].OrderCount++
	}

	hundred := decimal.NewFromInt(100)
	for i := range stats {
		pct, _ := stats[i].Revenue.Decimal.Mul(hundred).Div(total).Round(2).Float64()
		stats[i].Percentage = pct
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Revenue.Decimal.GreaterThan(stats[j].Revenue.Decimal)
	})
	return stats
}

// TopProducts 商品排行：按快照名称分组，营收降序
func TopProducts(orders []models.Order) []ProductStat {
	index := make(map[string]int)
	stats := make([]ProductStat, 0)
	for _, order := range orders {
		name := order.Product.Name
		pos, ok := index[name]
		if !ok {
			pos = len(stats)
			index[name] = pos
			stats = append(stats, ProductStat{Name: name, Revenue: models.ZeroMoney()})
		}
		stats[pos].Quantity += order.Quantity
		stats[pos].Revenue = stats[pos].Revenue.AddMoney(order.TotalPrice)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Revenue.Decimal.GreaterThan(stats[j].Revenue.Decimal)
	})
	return stats
}

// DailyBuckets 按本地时区自然日分桶，时间升序
func DailyBuckets(orders []models.Order, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.Local
	}
	index := make(map[string]int)
	buckets := make([]Bucket, 0)
	for _, order := range orders {
		local := order.CreatedAt.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		key := day.Format("2006-01-02")
		pos, ok := index[key]
		if !ok {
			pos = len(buckets)
			index[key] = pos
			buckets = append(buckets, Bucket{Key: key, Start: day, Revenue: models.ZeroMoney()})
		}
		buckets[pos].Revenue = buckets[pos].Revenue.AddMoney(order.TotalPrice)
		buckets[pos].OrderCount++
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})
	return buckets
}

// HourlyBuckets 按本地时区小时分桶（"今日"视图），时间升序
func HourlyBuckets(orders []models.Order, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.Local
	}
	index := make(map[string]int)
	buckets := make([]Bucket, 0)
	for _, order := range orders {
		local := order.CreatedAt.In(loc)
		hour := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)
		key := hour.Format("2006-01-02 15:00")
		pos, ok := index[key]
		if !ok {
			pos = len(buckets)
			index[key] = pos
			buckets = append(buckets, Bucket{Key: key, Start: hour, Revenue: models.ZeroMoney()})
		}
		buckets[pos].Revenue = buckets[pos].Revenue.AddMoney(order.TotalPrice)
		buckets[pos].OrderCount++
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})
	return buckets
}

// BestHour 营收最高的小时桶，并列取先出现的
func BestHour(orders []models.Order, loc *time.Location) (Bucket, bool) {
	buckets := HourlyBuckets(orders, loc)
	if len(buckets) == 0 {
		return Bucket{}, false
	}
	best := buckets[0]
	for _, b := range buckets[1:] {
		if b.Revenue.Decimal.GreaterThan(best.Revenue.Decimal) {
			best = b
		}
	}
	return best, true
}

// GrowthRate 环比增长率：(current - previous) / previous * 100。
// 上期为 0 时返回策略值：本期有营收为 100，否则 0（仪表盘要求恒有数值）。
func GrowthRate(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.GreaterThan(decimal.Zero) {
			return 100
		}
		return 0
	}
	rate, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return rate
}

// StatsWindow 统计窗口：当前区间与等长的前一区间
type StatsWindow struct {
	RangeKey  string
	Start     time.Time
	End       time.Time // 开区间右端
	PrevStart time.Time
	PrevEnd   time.Time
}

// ResolveWindow 解析统计范围。
// today 对比昨天；week 为最近 7 天对比再前 7 天；month 为本自然月对比上一自然月；
// custom 对比紧前的等长区间。
func ResolveWindow(rangeKey string, from, to *time.Time, now time.Time) (StatsWindow, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch rangeKey {
	case RangeToday, "":
		return StatsWindow{
			RangeKey:  RangeToday,
			Start:     today,
			End:       today.AddDate(0, 0, 1),
			PrevStart: today.AddDate(0, 0, -1),
			PrevEnd:   today,
		}, nil
	case RangeWeek:
		start := today.AddDate(0, 0, -6)
		return StatsWindow{
			RangeKey:  RangeWeek,
			Start:     start,
			End:       today.AddDate(0, 0, 1),
			PrevStart: start.AddDate(0, 0, -7),
			PrevEnd:   start,
		}, nil
	case RangeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return StatsWindow{
			RangeKey:  RangeMonth,
			Start:     start,
			End:       start.AddDate(0, 1, 0),
			PrevStart: start.AddDate(0, -1, 0),
			PrevEnd:   start,
		}, nil
	case RangeCustom:
		if from == nil || to == nil {
			return StatsWindow{}, fmt.Errorf("custom range requires from and to")
		}
		start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
		end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		if !end.After(start) {
			return StatsWindow{}, fmt.Errorf("custom range end must not precede start")
		}
		if end.Sub(start) > statsCustomMaxDays*24*time.Hour {
			return StatsWindow{}, fmt.Errorf("custom range exceeds %d days", statsCustomMaxDays)
		}
		length := end.Sub(start)
		return StatsWindow{
			RangeKey:  RangeCustom,
			Start:     start,
			End:       end,
			PrevStart: start.Add(-length),
			PrevEnd:   start,
		}, nil
	default:
		return StatsWindow{}, fmt.Errorf("unknown stats range: %s", rangeKey)
	}
}

// InWindow 截取创建时间落在 [start, end) 的订单
func InWindow(orders []models.Order, start, end time.Time) []models.Order {
	result := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.CreatedAt.Before(start) || !order.CreatedAt.Before(end) {
			continue
		}
		result = append(result, order)
	}
	return result
}

// StatsService 统计服务：在纯函数之上做窗口解析与可选的结果缓存
type StatsService struct {
	tenant identity.TenantID
	orders *OrderService
}

// NewStatsService 创建统计服务
func NewStatsService(tenant identity.TenantID, orders *OrderService) *StatsService {
	return &StatsService{tenant: tenant, orders: orders}
}

// OverviewResponse 统计总览
type OverviewResponse struct {
	Range             string         `json:"range"`
	From              string         `json:"from"`
	To                string         `json:"to"`
	Summary           Summary        `json:"summary"`
	GrowthRate        float64        `json:"growth_rate"`
	PlatformBreakdown []PlatformStat `json:"platform_breakdown"`
	TopProducts       []ProductStat  `json:"top_products"`
	Buckets           []Bucket       `json:"buckets"`
}

// Overview 计算一个统计窗口的完整总览。
// 筛选条件与窗口共同决定订单集；today 视图按小时分桶，其余按日。
func (s *StatsService) Overview(ctx context.Context, rangeKey string, from, to *time.Time, criteria FilterCriteria) (*OverviewResponse, error) {
	if s == nil || s.orders == nil {
		return &OverviewResponse{}, nil
	}
	window, err := ResolveWindow(rangeKey, from, to, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := s.overviewCacheKey(window, criteria)
	var cached OverviewResponse
	if hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached); cacheErr == nil && hit {
		return &cached, nil
	}

	filtered := FilterOrders(s.orders.Orders(), criteria)
	current := InWindow(filtered, window.Start, window.End)
	previous := InWindow(filtered, window.PrevStart, window.PrevEnd)

	currentSummary := Summarize(current)
	previousSummary := Summarize(previous)

	buckets := DailyBuckets(current, window.Start.Location())
	if window.RangeKey == RangeToday {
		buckets = HourlyBuckets(current, window.Start.Location())
	}

	response := &OverviewResponse{
		Range:             window.RangeKey,
		From:              window.Start.Format(time.RFC3339),
		To:                window.End.Add(-time.Second).Format(time.RFC3339),
		Summary:           currentSummary,
		GrowthRate:        GrowthRate(currentSummary.TotalRevenue.Decimal, previousSummary.TotalRevenue.Decimal),
		PlatformBreakdown: PlatformBreakdown(current),
		TopProducts:       TopProducts(current),
		Buckets:           buckets,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, statsCacheTTL)
	return response, nil
}

// overviewCacheKey 缓存键带租户前缀，切换账号或多实例共用 redis 时互不可见
func (s *StatsService) overviewCacheKey(window StatsWindow, criteria FilterCriteria) string {
	return fmt.Sprintf("stats:overview:%s:%s:%d:%d:%s:%s:%s:%s",
		string(s.tenant),
		window.RangeKey,
		window.Start.Unix(),
		window.End.Unix(),
		criteria.PlatformID,
		criteria.Discount,
		criteria.Payment,
		criteria.Source,
	)
}
