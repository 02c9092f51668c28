package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/tgshopai/tgshop-backend/internal/catalog"
	"github.com/tgshopai/tgshop-backend/pkg/config"
	"github.com/tgshopai/tgshop-backend/pkg/db"
	"github.com/tgshopai/tgshop-backend/pkg/db/models"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *db.Client) {
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
	return NewService(client, catalog.NewRepository(client)), client
}

func seedUser(t *testing.T, client *db.Client, externalID int64) models.User {
	t.Helper()
	user := models.User{ExternalID: externalID}
	if err := client.DB().Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedProduct(t *testing.T, client *db.Client, sku, name string, priceCents int64, active bool) {
	t.Helper()
	product := models.Product{SKU: sku, Name: name, PriceCents: priceCents, IsActive: active}
	if err := client.DB().Create(&product).Error; err != nil {
		t.Fatalf("seed product %s: %v", sku, err)
	}
}

func TestReplyRecommendsActiveProducts(t *testing.T) {
	service, client := newTestService(t)
	ctx := context.Background()

	seedUser(t, client, 2001)
	seedProduct(t, client, "SKU-001", "Mug", 49900, true)
	seedProduct(t, client, "SKU-002", "T-Shirt", 129900, true)
	seedProduct(t, client, "SKU-003", "Notebook", 29900, false)
	seedProduct(t, client, "SKU-004", "Backpack", 349900, true)
	seedProduct(t, client, "SKU-005", "Headphones", 89900, true)

	reply, err := service.Reply(ctx, 2001, "Can you recommend a gift?")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}

	for _, want := range []string{"Mug", "499.00", "/buy SKU-001", "T-Shirt", "/buy SKU-004"} {
		if !strings.Contains(reply, want) {
			t.Fatalf("reply %q missing %q", reply, want)
		}
	}
	// Top three active only: the inactive notebook and the fourth active
	// product stay out.
	for _, unwanted := range []string{"Notebook", "Headphones"} {
		if strings.Contains(reply, unwanted) {
			t.Fatalf("reply %q should not mention %q", reply, unwanted)
		}
	}
}

func TestReplyCatalogIntent(t *testing.T) {
	service, client := newTestService(t)
	seedUser(t, client, 2002)

	reply, err := service.Reply(context.Background(), 2002, "What do you have in stock?")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if !strings.Contains(reply, "/catalog") {
		t.Fatalf("reply %q missing catalog hint", reply)
	}
}

func TestReplyFallsBackToHelp(t *testing.T) {
	service, client := newTestService(t)
	seedUser(t, client, 2003)

	reply, err := service.Reply(context.Background(), 2003, "hello there")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply != helpReply {
		t.Fatalf("reply = %q, want help text", reply)
	}
}

func TestReplyEmptyCatalog(t *testing.T) {
	service, client := newTestService(t)
	seedUser(t, client, 2004)

	reply, err := service.Reply(context.Background(), 2004, "suggest something")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if !strings.Contains(reply, "empty") {
		t.Fatalf("reply = %q, want empty-shelves notice", reply)
	}
}

func TestReplyRequiresRegisteredUser(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Reply(context.Background(), 999999, "recommend something")
	if !pkgerrors.IsNotFound(err, "user") {
		t.Fatalf("err = %v, want user not found", err)
	}
}

func TestReplyRejectsEmptyPrompt(t *testing.T) {
	service, client := newTestService(t)
	seedUser(t, client, 2005)

	_, err := service.Reply(context.Background(), 2005, "   ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestReplyPersistsExchange(t *testing.T) {
	service, client := newTestService(t)
	user := seedUser(t, client, 2006)

	reply, err := service.Reply(context.Background(), 2006, "hi")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}

	var logs []models.AssistantLog
	if err := client.DB().Where("user_id = ?", user.ID).Find(&logs).Error; err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
	if logs[0].Prompt != "hi" || logs[0].Response != reply {
		t.Fatalf("log = %q -> %q, want %q -> %q", logs[0].Prompt, logs[0].Response, "hi", reply)
	}
}
