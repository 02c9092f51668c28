package orders

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tgshopai/tgshop-backend/pkg/config"
	"github.com/tgshopai/tgshop-backend/pkg/db"
	"github.com/tgshopai/tgshop-backend/pkg/db/models"
	"github.com/tgshopai/tgshop-backend/pkg/enums"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
	"github.com/tgshopai/tgshop-backend/pkg/metrics"
)

func newTestLedger(t *testing.T) (*Repository, *db.Client) {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file::memory:",
	}, nil)
	if err != nil {
		t.Fatalf("open test client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	if err := client.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return NewRepository(client, nil), client
}

func seedUser(t *testing.T, client *db.Client, externalID int64) models.User {
	t.Helper()
	user := models.User{ExternalID: externalID}
	if err := client.DB().Create(&user).Error; err != nil {
		t.Fatalf("seed user %d: %v", externalID, err)
	}
	return user
}

func seedProduct(t *testing.T, client *db.Client, sku string, priceCents int64, active bool) models.Product {
	t.Helper()
	product := models.Product{SKU: sku, Name: "Product " + sku, PriceCents: priceCents, IsActive: active}
	if err := client.DB().Create(&product).Error; err != nil {
		t.Fatalf("seed product %s: %v", sku, err)
	}
	return product
}

func TestCreateOrderHappyPath(t *testing.T) {
	repo, client := newTestLedger(t)
	ctx := context.Background()

	seedUser(t, client, 1001)
	seedProduct(t, client, "SKU-001", 49900, true)

	order, err := repo.CreateOrder(ctx, 1001, "SKU-001", 2)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != enums.OrderStatusNew {
		t.Fatalf("status = %q, want %q", order.Status, enums.OrderStatusNew)
	}
	if order.TotalCents != 99800 {
		t.Fatalf("total = %d, want 99800", order.TotalCents)
	}
	if len(order.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(order.Lines))
	}
	line := order.Lines[0]
	if line.Qty != 2 || line.UnitPriceCents != 49900 {
		t.Fatalf("line = qty %d at %d, want qty 2 at 49900", line.Qty, line.UnitPriceCents)
	}

	// The persisted row must agree with the value handed back.
	var stored models.Order
	if err := client.DB().Preload("Lines").First(&stored, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("load stored order: %v", err)
	}
	if stored.TotalCents != 99800 || len(stored.Lines) != 1 {
		t.Fatalf("stored order total %d lines %d", stored.TotalCents, len(stored.Lines))
	}
}

func TestCreateOrderCoercesQuantity(t *testing.T) {
	repo, client := newTestLedger(t)
	ctx := context.Background()

	seedUser(t, client, 1002)
	seedProduct(t, client, "SKU-002", 129900, true)

	for _, qty := range []int{0, -5} {
		order, err := repo.CreateOrder(ctx, 1002, "SKU-002", qty)
		if err != nil {
			t.Fatalf("create order with qty %d: %v", qty, err)
		}
		if order.Lines[0].Qty != 1 {
			t.Fatalf("qty %d stored as %d, want 1", qty, order.Lines[0].Qty)
		}
		if order.TotalCents != 129900 {
			t.Fatalf("qty %d total = %d, want 129900", qty, order.TotalCents)
		}
	}
}

func TestCreateOrderUnknownUser(t *testing.T) {
	repo, client := newTestLedger(t)
	ctx := context.Background()

	seedProduct(t, client, "SKU-003", 29900, true)

	_, err := repo.CreateOrder(ctx, 4040, "SKU-003", 1)
	if !pkgerrors.IsNotFound(err, "user") {
		t.Fatalf("err = %v, want user not found", err)
	}

	var count int64
	if err := client.DB().Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("orders persisted = %d, want 0", count)
	}
}

func TestCreateOrderUnknownOrInactiveProduct(t *testing.T) {
	repo, client := newTestLedger(t)
	ctx := context.Background()

	seedUser(t, client, 1003)
	seedProduct(t, client, "SKU-OFF", 19900, false)

	for _, sku := range []string{"SKU-MISSING", "SKU-OFF"} {
		_, err := repo.CreateOrder(ctx, 1003, sku, 1)
		if !pkgerrors.IsNotFound(err, "product") {
			t.Fatalf("sku %s: err = %v, want product not found", sku, err)
		}
	}

	var orderCount, lineCount int64
	if err := client.DB().Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if err := client.DB().Model(&models.OrderLine{}).Count(&lineCount).Error; err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if orderCount != 0 || lineCount != 0 {
		t.Fatalf("partial rows persisted: %d orders, %d lines", orderCount, lineCount)
	}
}

func TestCreateOrderRejectsEmptySKU(t *testing.T) {
	repo, _ := newTestLedger(t)

	_, err := repo.CreateOrder(context.Background(), 1, "", 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestOrderSnapshotSurvivesPriceChange(t *testing.T) {
	repo, client := newTestLedger(t)
	ctx := context.Background()

	seedUser(t, client, 1004)
	product := seedProduct(t, client, "SKU-004", 349900, true)

	first, err := repo.CreateOrder(ctx, 1004, "SKU-004", 1)
	if err != nil {
		t.Fatalf("first order: %v", err)
	}

	err = client.DB().Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("price_cents", 400000).Error
	if err != nil {
		t.Fatalf("update price: %v", err)
	}

	var storedFirst models.Order
	if err := client.DB().Preload("Lines").First(&storedFirst, "id = ?", first.ID).Error; err != nil {
		t.Fatalf("reload first order: %v", err)
	}
	if storedFirst.Lines[0].UnitPriceCents != 349900 || storedFirst.TotalCents != 349900 {
		t.Fatalf("snapshot drifted: line %d total %d", storedFirst.Lines[0].UnitPriceCents, storedFirst.TotalCents)
	}

	second, err := repo.CreateOrder(ctx, 1004, "SKU-004", 1)
	if err != nil {
		t.Fatalf("second order: %v", err)
	}
	if second.Lines[0].UnitPriceCents != 400000 || second.TotalCents != 400000 {
		t.Fatalf("new order missed new price: line %d total %d", second.Lines[0].UnitPriceCents, second.TotalCents)
	}
}

func TestListByExternalIDNewestFirst(t *testing.T) {
	repo, client := newTestLedger(t)
	ctx := context.Background()

	seedUser(t, client, 1005)
	seedProduct(t, client, "SKU-005", 89900, true)

	var ids []uint
	for i := 0; i < 3; i++ {
		order, err := repo.CreateOrder(ctx, 1005, "SKU-005", 1)
		if err != nil {
			t.Fatalf("order %d: %v", i, err)
		}
		ids = append(ids, order.ID)
	}

	orders, err := repo.ListByExternalID(ctx, 1005, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("listed %d orders, want 3", len(orders))
	}
	for i, order := range orders {
		want := ids[len(ids)-1-i]
		if order.ID != want {
			t.Fatalf("position %d: id %d, want %d", i, order.ID, want)
		}
		if len(order.Lines) != 1 {
			t.Fatalf("order %d lines not preloaded", order.ID)
		}
	}

	capped, err := repo.ListByExternalID(ctx, 1005, 2)
	if err != nil {
		t.Fatalf("capped list: %v", err)
	}
	if len(capped) != 2 || capped[0].ID != ids[2] {
		t.Fatalf("capped list = %d orders starting at %d", len(capped), capped[0].ID)
	}
}

func TestListByExternalIDUnknownUser(t *testing.T) {
	repo, _ := newTestLedger(t)

	orders, err := repo.ListByExternalID(context.Background(), 987654, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if orders == nil || len(orders) != 0 {
		t.Fatalf("orders = %v, want empty slice", orders)
	}
}

func TestDeleteOrderCascadesLines(t *testing.T) {
	repo, client := newTestLedger(t)
	ctx := context.Background()

	seedUser(t, client, 1006)
	seedProduct(t, client, "SKU-006", 9900, true)

	order, err := repo.CreateOrder(ctx, 1006, "SKU-006", 3)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := repo.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatalf("delete order: %v", err)
	}

	var orderCount, lineCount int64
	if err := client.DB().Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if err := client.DB().Model(&models.OrderLine{}).Count(&lineCount).Error; err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if orderCount != 0 || lineCount != 0 {
		t.Fatalf("leftover rows: %d orders, %d lines", orderCount, lineCount)
	}

	if err := repo.DeleteOrder(ctx, order.ID); !pkgerrors.IsNotFound(err, "order") {
		t.Fatalf("second delete err = %v, want order not found", err)
	}
}

func TestCreateOrderRecordsMetrics(t *testing.T) {
	_, client := newTestLedger(t)
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	repo := NewRepository(client, metrics.NewLedgerMetrics(reg))

	seedUser(t, client, 1007)
	seedProduct(t, client, "SKU-007", 5000, true)

	if _, err := repo.CreateOrder(ctx, 1007, "SKU-007", 2); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := repo.CreateOrder(ctx, 1007, "SKU-NOPE", 1); !pkgerrors.IsNotFound(err, "product") {
		t.Fatalf("err = %v, want product not found", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "orders_created_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" {
					counts[label.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	if counts[outcomeOK] != 1 {
		t.Fatalf("ok count = %v, want 1", counts[outcomeOK])
	}
	if counts[outcomeNotFound] != 1 {
		t.Fatalf("not_found count = %v, want 1", counts[outcomeNotFound])
	}
}
