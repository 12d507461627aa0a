package service

import (
	"fmt"
	"testing"

	"github.com/Octa-square/LiveLedger/internal/constants"
	"github.com/Octa-square/LiveLedger/internal/events"
	"github.com/Octa-square/LiveLedger/internal/models"
)

func newTestLedger() (*models.LedgerState, *CatalogService, *OrderService) {
	state := models.DefaultLedgerState()
	saver := NewSaver(nil, "test", state)
	catalogs := NewCatalogService(state, saver)
	clock := NewSessionClock(0, saver)
	orders := NewOrderService(state, catalogs, clock, events.NewBus(), saver, nil)
	return state, catalogs, orders
}

func testProduct(name string, price float64, stock int) models.Product {
	return models.Product{
		ID:    models.NewID(),
		Name:  name,
		Price: models.NewMoneyFromFloat(price),
		Stock: stock,
	}
}

func TestDeleteLastCatalogRefused(t *testing.T) {
	state, catalogs, _ := newTestLedger()
	if catalogs.DeleteCatalog(state.Catalogs[0].ID) {
		t.Fatalf("deleting the last catalog must be refused")
	}
	if len(state.Catalogs) != 1 {
		t.Fatalf("catalog set must never be empty, got %d", len(state.Catalogs))
	}

	second := catalogs.CreateCatalog("second")
	if !catalogs.DeleteCatalog(second.ID) {
		t.Fatalf("deleting a non-last catalog should succeed")
	}
}

func TestDeleteActiveCatalogMovesSelection(t *testing.T) {
	state, catalogs, _ := newTestLedger()
	second := catalogs.CreateCatalog("second")
	if !catalogs.SelectCatalog(second.ID) {
		t.Fatalf("select failed")
	}
	if !catalogs.DeleteCatalog(second.ID) {
		t.Fatalf("delete failed")
	}
	if state.ActiveCatalogID != state.Catalogs[0].ID {
		t.Fatalf("active catalog should fall back to first after deletion")
	}
}

func TestAddProductCapacity(t *testing.T) {
	state, catalogs, _ := newTestLedger()
	catalogID := state.Catalogs[0].ID

	// 默认商品册已有 4 个空槽位
	for i := state.Catalogs[0].SlotCount(); i < constants.CatalogCapacity; i++ {
		if !catalogs.AddProduct(catalogID, testProduct(fmt.Sprintf("p%d", i), 1, 1)) {
			t.Fatalf("add product %d should succeed", i)
		}
	}
	if catalogs.AddProduct(catalogID, testProduct("overflow", 1, 1)) {
		t.Fatalf("13th slot must be refused")
	}
	if state.Catalogs[0].SlotCount() != constants.CatalogCapacity {
		t.Fatalf("slot count overflow: %d", state.Catalogs[0].SlotCount())
	}
}

func TestAddProductNameTooLong(t *testing.T) {
	state, catalogs, _ := newTestLedger()
	if catalogs.AddProduct(state.Catalogs[0].ID, testProduct("abcdefghijklmnop", 1, 1)) {
		t.Fatalf("16-char name must be refused")
	}
	if !catalogs.AddProduct(state.Catalogs[0].ID, testProduct("abcdefghijklmno", 1, 1)) {
		t.Fatalf("15-char name should be accepted")
	}
}

func TestEmptySlotsNotCountedAsProducts(t *testing.T) {
	state, _, _ := newTestLedger()
	if state.Catalogs[0].ProductCount() != 0 {
		t.Fatalf("empty slots must not count as products")
	}
	if state.Catalogs[0].SlotCount() != constants.CatalogResetSlots {
		t.Fatalf("empty slots still occupy positions")
	}
}

func TestAdjustStockClampsAtZero(t *testing.T) {
	state, catalogs, _ := newTestLedger()
	p := testProduct("soap", 3, 5)
	catalogs.AddProduct(state.Catalogs[0].ID, p)

	applied := catalogs.AdjustStock(p.ID, -8)
	if applied != -5 {
		t.Fatalf("expected applied delta -5, got %d", applied)
	}
	if got := catalogs.FindProduct(p.ID).Stock; got != 0 {
		t.Fatalf("stock must clamp at 0, got %d", got)
	}

	applied = catalogs.AdjustStock(p.ID, 3)
	if applied != 3 {
		t.Fatalf("expected applied delta 3, got %d", applied)
	}
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	_, catalogs, _ := newTestLedger()
	if applied := catalogs.AdjustStock("missing", -2); applied != 0 {
		t.Fatalf("unknown product must be a no-op, applied=%d", applied)
	}
}

func TestResetActiveCatalog(t *testing.T) {
	state, catalogs, _ := newTestLedger()
	catalogs.AddProduct(state.Catalogs[0].ID, testProduct("soap", 3, 5))

	catalogs.ResetActiveCatalog()
	catalog := state.ActiveCatalog()
	if catalog.SlotCount() != constants.CatalogResetSlots {
		t.Fatalf("reset should leave %d slots, got %d", constants.CatalogResetSlots, catalog.SlotCount())
	}
	if catalog.ProductCount() != 0 {
		t.Fatalf("reset slots must be empty")
	}
}

func TestUpdateProductDoesNotTouchSnapshots(t *testing.T) {
	state, catalogs, orders := newTestLedger()
	p := testProduct("soap", 3, 5)
	catalogs.AddProduct(state.Catalogs[0].ID, p)
	order, err := orders.CreateOrder(CreateOrderInput{ProductID: p.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}

	p.Name = "new name"
	p.Price = models.NewMoneyFromFloat(99)
	if !catalogs.UpdateProduct(p) {
		t.Fatalf("UpdateProduct failed")
	}

	if order.Product.Name != "soap" {
		t.Fatalf("order snapshot must not follow product edits: %s", order.Product.Name)
	}
	if !order.Product.UnitPrice.Equal(models.NewMoneyFromFloat(3).Decimal) {
		t.Fatalf("order snapshot price drifted: %s", order.Product.UnitPrice.String())
	}
}

func TestStockThresholdClassification(t *testing.T) {
	state, catalogs, _ := newTestLedger()
	catalogID := state.Catalogs[0].ID

	low := testProduct("low", 1, 5)
	low.LowStockLevel = 5
	low.CriticalStockLevel = 2
	critical := testProduct("critical", 1, 2)
	critical.LowStockLevel = 5
	critical.CriticalStockLevel = 2
	healthy := testProduct("healthy", 1, 50)
	healthy.LowStockLevel = 5
	healthy.CriticalStockLevel = 2
	catalogs.AddProduct(catalogID, low)
	catalogs.AddProduct(catalogID, critical)
	catalogs.AddProduct(catalogID, healthy)

	lows := catalogs.LowStockProducts()
	if len(lows) != 1 || lows[0].Name != "low" {
		t.Fatalf("low classification wrong: %+v", lows)
	}
	criticals := catalogs.CriticalStockProducts()
	if len(criticals) != 1 || criticals[0].Name != "critical" {
		t.Fatalf("critical classification wrong: %+v", criticals)
	}
}
