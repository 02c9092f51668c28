// Package users is the directory of external identities. Rows are created on
// first contact and refreshed on every subsequent contact; nothing here ever
// deletes a user.
package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/tgshopai/tgshop-backend/pkg/db"
	"github.com/tgshopai/tgshop-backend/pkg/db/models"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
)

// Repository exposes identity persistence operations.
type Repository struct {
	client *db.Client
}

// NewRepository constructs a users repo bound to the provided client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// Upsert resolves the identity row for externalID, creating it on first
// contact. A non-empty displayName that differs from the stored one is
// written back. Repeated calls with identical input are side-effect free.
func (r *Repository) Upsert(ctx context.Context, externalID int64, displayName string) (*models.User, error) {
	user, err := r.refresh(ctx, externalID, displayName)
	if err == nil {
		return user, nil
	}
	if !pkgerrors.IsNotFound(err, "user") {
		return nil, err
	}
	return r.create(ctx, externalID, displayName)
}

// refresh loads the existing row and writes back a changed display name, all
// inside one transaction. Returns a user not-found error when no row exists.
func (r *Repository) refresh(ctx context.Context, externalID int64, displayName string) (*models.User, error) {
	var user models.User
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("external_id = ?", externalID).First(&user).Error; err != nil {
			return err
		}
		if displayName == "" || (user.DisplayName != nil && *user.DisplayName == displayName) {
			return nil
		}
		user.DisplayName = &displayName
		return tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			UpdateColumn("display_name", displayName).Error
	})
	if err == nil {
		return &user, nil
	}
	if db.IsNotFound(err) {
		return nil, pkgerrors.NotFound("user")
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "user store unavailable")
}

// create inserts the first-contact row. Two concurrent first contacts can
// race the uniqueness constraint; the loser falls back to reading the
// winner's row instead of surfacing the constraint failure.
func (r *Repository) create(ctx context.Context, externalID int64, displayName string) (*models.User, error) {
	fresh := models.User{ExternalID: externalID}
	if displayName != "" {
		fresh.DisplayName = &displayName
	}

	err := r.client.DB().WithContext(ctx).Create(&fresh).Error
	if err == nil {
		return &fresh, nil
	}
	if db.IsUniqueViolation(err) {
		return r.FindByExternalID(ctx, externalID)
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "user store unavailable")
}

// FindByExternalID is a read-only lookup; it never creates.
func (r *Repository) FindByExternalID(ctx context.Context, externalID int64) (*models.User, error) {
	var user models.User
	err := r.client.DB().WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&user).Error
	if err == nil {
		return &user, nil
	}
	if db.IsNotFound(err) {
		return nil, pkgerrors.NotFound("user")
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "user store unavailable")
}
