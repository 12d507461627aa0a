package service

import (
	"math"
	"testing"
	"time"

	"github.com/Octa-square/LiveLedger/internal/models"

	"github.com/shopspring/decimal"
)

func statsOrder(name, platformID, platformName string, qty int, total float64, at time.Time) models.Order {
	return models.Order{
		ID:         models.NewID(),
		Product:    models.ProductSnapshot{Name: name},
		Platform:   models.PlatformSnapshot{PlatformID: platformID, Name: platformName},
		Quantity:   qty,
		TotalPrice: models.NewMoneyFromFloat(total),
		CreatedAt:  at,
	}
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		statsOrder("A", "p1", "FB", 2, 50.00, now),
		statsOrder("B", "p2", "TT", 1, 30.00, now),
	}
	summary := Summarize(orders)
	if summary.TotalRevenue.String() != "80.00" {
		t.Fatalf("total revenue %s", summary.TotalRevenue.String())
	}
	if summary.OrderCount != 2 || summary.TotalQuantity != 3 {
		t.Fatalf("count=%d quantity=%d", summary.OrderCount, summary.TotalQuantity)
	}
	if summary.AverageOrderValue.String() != "40.00" {
		t.Fatalf("average %s", summary.AverageOrderValue.String())
	}
}

func TestSummarizeEmptyHasNoDivideByZero(t *testing.T) {
	summary := Summarize(nil)
	if summary.OrderCount != 0 {
		t.Fatalf("count %d", summary.OrderCount)
	}
	if summary.AverageOrderValue.String() != "0.00" {
		t.Fatalf("empty average must be zero, got %s", summary.AverageOrderValue.String())
	}
}

func TestPlatformBreakdownPercentagesAndSort(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		statsOrder("A", "p1", "FB", 1, 25.00, now),
		statsOrder("B", "p2", "TT", 1, 75.00, now),
	}
	stats := PlatformBreakdown(orders)
	if len(stats) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(stats))
	}
	// 营收降序
	if stats[0].PlatformID != "p2" || stats[1].PlatformID != "p1" {
		t.Fatalf("expected revenue-desc order: %+v", stats)
	}
	if stats[0].Percentage != 75 || stats[1].Percentage != 25 {
		t.Fatalf("percentages %v / %v", stats[0].Percentage, stats[1].Percentage)
	}
	sum := stats[0].Percentage + stats[1].Percentage
	if math.Abs(sum-100) > 0.01 {
		t.Fatalf("percentages should sum to ~100, got %v", sum)
	}
}

func TestPlatformBreakdownZeroRevenueIsEmpty(t *testing.T) {
	orders := []models.Order{
		statsOrder("A", "p1", "FB", 1, 0, time.Now()),
	}
	if stats := PlatformBreakdown(orders); len(stats) != 0 {
		t.Fatalf("zero total revenue must yield empty breakdown, got %+v", stats)
	}
}

func TestTopProductsGroupsBySnapshotName(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		statsOrder("Lip Tint", "p1", "FB", 2, 20.00, now),
		statsOrder("Tote Bag", "p1", "FB", 1, 50.00, now),
		statsOrder("Lip Tint", "p2", "TT", 3, 30.00, now),
	}
	stats := TopProducts(orders)
	if len(stats) != 2 {
		t.Fatalf("expected 2 products, got %d", len(stats))
	}
	if stats[0].Name != "Tote Bag" {
		t.Fatalf("expected Tote Bag first by revenue, got %s", stats[0].Name)
	}
	if stats[1].Name != "Lip Tint" || stats[1].Quantity != 5 || stats[1].Revenue.String() != "50.00" {
		t.Fatalf("Lip Tint should merge across platforms: %+v", stats[1])
	}
}

func TestDailyBuckets(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	orders := []models.Order{
		statsOrder("A", "p1", "FB", 1, 50.00, day.Add(9*time.Hour)),
		statsOrder("B", "p1", "FB", 1, 30.00, day.Add(20*time.Hour)),
		statsOrder("C", "p1", "FB", 1, 10.00, day.AddDate(0, 0, 1)),
	}
	buckets := DailyBuckets(orders, loc)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(buckets))
	}
	if buckets[0].Key != "2026-03-10" || buckets[0].Revenue.String() != "80.00" || buckets[0].OrderCount != 2 {
		t.Fatalf("same-day orders must merge: %+v", buckets[0])
	}
	if !buckets[0].Start.Before(buckets[1].Start) {
		t.Fatalf("buckets must be chronological")
	}
}

func TestBestHourFirstWinsTies(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	orders := []models.Order{
		statsOrder("A", "p1", "FB", 1, 40.00, day.Add(9*time.Hour)),
		statsOrder("B", "p1", "FB", 1, 40.00, day.Add(14*time.Hour)),
	}
	best, ok := BestHour(orders, loc)
	if !ok {
		t.Fatalf("expected a best hour")
	}
	if best.Start.Hour() != 9 {
		t.Fatalf("ties must keep the earlier hour, got %d", best.Start.Hour())
	}
	if _, ok := BestHour(nil, loc); ok {
		t.Fatalf("no orders means no best hour")
	}
}

func TestGrowthRate(t *testing.T) {
	cases := []struct {
		current, previous float64
		want              float64
	}{
		{120, 0, 100}, // 上期为零且本期有营收
		{0, 0, 0},
		{150, 100, 50},
		{50, 100, -50},
	}
	for _, c := range cases {
		got := GrowthRate(decimal.NewFromFloat(c.current), decimal.NewFromFloat(c.previous))
		if got != c.want {
			t.Fatalf("GrowthRate(%v, %v) = %v, want %v", c.current, c.previous, got, c.want)
		}
	}
}

func TestResolveWindowToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	window, err := ResolveWindow(RangeToday, nil, nil, now)
	if err != nil {
		t.Fatalf("ResolveWindow error: %v", err)
	}
	if window.Start.Day() != 10 || window.End.Day() != 11 {
		t.Fatalf("today window wrong: %v - %v", window.Start, window.End)
	}
	if window.PrevStart.Day() != 9 || !window.PrevEnd.Equal(window.Start) {
		t.Fatalf("previous window must be yesterday: %v - %v", window.PrevStart, window.PrevEnd)
	}
}

func TestResolveWindowWeekAndMonth(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	week, err := ResolveWindow(RangeWeek, nil, nil, now)
	if err != nil {
		t.Fatalf("week error: %v", err)
	}
	if week.End.Sub(week.Start) != 7*24*time.Hour {
		t.Fatalf("week window must span 7 days")
	}
	if week.PrevEnd != week.Start || week.PrevStart.AddDate(0, 0, 7) != week.Start {
		t.Fatalf("previous week must directly precede: %+v", week)
	}

	month, err := ResolveWindow(RangeMonth, nil, nil, now)
	if err != nil {
		t.Fatalf("month error: %v", err)
	}
	if month.Start.Day() != 1 || month.Start.Month() != time.March {
		t.Fatalf("month window must start at calendar month: %v", month.Start)
	}
	if month.PrevStart.Month() != time.February {
		t.Fatalf("previous window must be prior calendar month: %v", month.PrevStart)
	}
}

func TestResolveWindowCustom(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	window, err := ResolveWindow(RangeCustom, &from, &to, now)
	if err != nil {
		t.Fatalf("custom error: %v", err)
	}
	// 含端点日，5 天窗口
	if window.End.Sub(window.Start) != 5*24*time.Hour {
		t.Fatalf("custom window must include both endpoint days: %v", window.End.Sub(window.Start))
	}
	if window.PrevEnd != window.Start || window.Start.Sub(window.PrevStart) != 5*24*time.Hour {
		t.Fatalf("previous window must be the equal-length preceding range")
	}

	if _, err := ResolveWindow(RangeCustom, nil, nil, now); err == nil {
		t.Fatalf("custom range without bounds must fail")
	}
	bad := from.AddDate(0, 0, -1)
	if _, err := ResolveWindow(RangeCustom, &from, &bad, now); err == nil {
		t.Fatalf("inverted custom range must fail")
	}
	far := from.AddDate(0, 0, 120)
	if _, err := ResolveWindow(RangeCustom, &from, &far, now); err == nil {
		t.Fatalf("over-long custom range must fail")
	}
	if _, err := ResolveWindow("bogus", nil, nil, now); err == nil {
		t.Fatalf("unknown range must fail")
	}
}

func TestInWindowHalfOpenInterval(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	orders := []models.Order{
		statsOrder("at-start", "p1", "FB", 1, 10, start),
		statsOrder("inside", "p1", "FB", 1, 10, start.Add(12*time.Hour)),
		statsOrder("at-end", "p1", "FB", 1, 10, end),
		statsOrder("before", "p1", "FB", 1, 10, start.Add(-time.Second)),
	}
	got := InWindow(orders, start, end)
	if len(got) != 2 {
		t.Fatalf("half-open window [start, end) should keep 2 orders, got %d", len(got))
	}
}

func TestOverviewCacheKeyIsTenantScoped(t *testing.T) {
	window, err := ResolveWindow(RangeToday, nil, nil, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ResolveWindow error: %v", err)
	}
	criteria := FilterCriteria{PlatformID: "platform-tiktok"}

	a := NewStatsService("shop-a", nil).overviewCacheKey(window, criteria)
	b := NewStatsService("shop-b", nil).overviewCacheKey(window, criteria)
	if a == b {
		t.Fatalf("cache keys must differ per tenant: %s", a)
	}
	if a != NewStatsService("shop-a", nil).overviewCacheKey(window, criteria) {
		t.Fatalf("same tenant and window must produce a stable key")
	}
}
