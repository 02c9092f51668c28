package users

import (
	"context"
	"testing"

	"github.com/tgshopai/tgshop-backend/pkg/config"
	"github.com/tgshopai/tgshop-backend/pkg/db"
	"github.com/tgshopai/tgshop-backend/pkg/db/models"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
)

func newTestRepo(t *testing.T) *Repository {
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
	return NewRepository(client)
}

func TestUpsertCreatesOnFirstContact(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.Upsert(ctx, 42, "alice")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected generated id")
	}
	if user.ExternalID != 42 {
		t.Fatalf("unexpected external id %d", user.ExternalID)
	}
	if user.DisplayName == nil || *user.DisplayName != "alice" {
		t.Fatalf("unexpected display name %v", user.DisplayName)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, 42, "alice")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := repo.Upsert(ctx, 42, "alice")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same row, got ids %d and %d", first.ID, second.ID)
	}

	var count int64
	if err := repo.client.DB().Model(&models.User{}).Where("external_id = ?", 42).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one row, got %d", count)
	}
}

func TestUpsertRefreshesDisplayName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, 42, "alice")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	renamed, err := repo.Upsert(ctx, 42, "alice_v2")
	if err != nil {
		t.Fatalf("rename upsert: %v", err)
	}
	if renamed.ID != first.ID {
		t.Fatalf("rename must not create a new row")
	}
	if renamed.DisplayName == nil || *renamed.DisplayName != "alice_v2" {
		t.Fatalf("display name not refreshed: %v", renamed.DisplayName)
	}

	// An empty display name never clobbers the stored one.
	kept, err := repo.Upsert(ctx, 42, "")
	if err != nil {
		t.Fatalf("empty-name upsert: %v", err)
	}
	if kept.DisplayName == nil || *kept.DisplayName != "alice_v2" {
		t.Fatalf("empty name should keep existing, got %v", kept.DisplayName)
	}
}

func TestUpsertRaceFallsBackToLookup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Simulate losing the first-contact race: the winner's row lands after
	// this writer's lookup miss, so its insert hits the constraint.
	winner := models.User{ExternalID: 77}
	if err := repo.client.DB().Create(&winner).Error; err != nil {
		t.Fatalf("seed winner: %v", err)
	}

	loser, err := repo.create(ctx, 77, "late")
	if err != nil {
		t.Fatalf("loser should fall back to lookup: %v", err)
	}
	if loser.ID != winner.ID {
		t.Fatalf("expected winner's row %d, got %d", winner.ID, loser.ID)
	}

	var count int64
	if err := repo.client.DB().Model(&models.User{}).Where("external_id = ?", 77).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one row after the race, got %d", count)
	}
}

func TestFindByExternalIDAbsent(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByExternalID(context.Background(), 404)
	if !pkgerrors.IsNotFound(err, "user") {
		t.Fatalf("expected user not-found, got %v", err)
	}
}
