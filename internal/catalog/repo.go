// Package catalog owns the purchasable product list. The buying path only
// ever sees active products; the admin surface sees everything.
package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/tgshopai/tgshop-backend/pkg/db"
	"github.com/tgshopai/tgshop-backend/pkg/db/models"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
)

// Repository exposes catalog persistence operations.
type Repository struct {
	client *db.Client
}

// NewRepository constructs a catalog repo bound to the provided client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// ListActive returns active products ordered by id ascending, capped at limit.
func (r *Repository) ListActive(ctx context.Context, limit int) ([]models.Product, error) {
	query := r.client.DB().WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product store unavailable")
	}
	return products, nil
}

// GetActiveBySKU resolves an active product by its SKU. Inactive and unknown
// SKUs are both reported as product not-found.
func (r *Repository) GetActiveBySKU(ctx context.Context, sku string) (*models.Product, error) {
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}

	var product models.Product
	err := r.client.DB().WithContext(ctx).
		Where("sku = ? AND is_active = ?", sku, true).
		First(&product).Error
	if err == nil {
		return &product, nil
	}
	if db.IsNotFound(err) {
		return nil, pkgerrors.NotFound("product")
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product store unavailable")
}

// List returns every product, active or not, ordered by id ascending.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.client.DB().WithContext(ctx).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product store unavailable")
	}
	return products, nil
}

// Create inserts a new product. A duplicate SKU surfaces as a conflict.
func (r *Repository) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := input.toModel()
	if err := r.client.DB().WithContext(ctx).Create(product).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already exists").
				WithDetails(map[string]any{"sku": input.SKU})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product store unavailable")
	}
	return product, nil
}

// Update applies a partial edit to a product inside one transaction. Price
// edits never touch existing order lines; those carry their own snapshot.
func (r *Repository) Update(ctx context.Context, id uint, input UpdateProductInput) (*models.Product, error) {
	updates := input.toColumnMap()
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	var product models.Product
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&product, "id = ?", id).Error
	})
	if err == nil {
		return &product, nil
	}
	if db.IsNotFound(err) {
		return nil, pkgerrors.NotFound("product")
	}
	if db.IsUniqueViolation(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already exists")
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product store unavailable")
}

// SetActive toggles catalog visibility without deleting history.
func (r *Repository) SetActive(ctx context.Context, id uint, active bool) (*models.Product, error) {
	return r.Update(ctx, id, UpdateProductInput{IsActive: &active})
}
