package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/tgshopai/tgshop-backend/pkg/db/models"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
)

func strPtr(s string) *string { return &s }

var demoProducts = []models.Product{
	{SKU: "SKU-001", Name: "Mug", Description: strPtr("Ceramic, 330 ml"), PriceCents: 49900, IsActive: true},
	{SKU: "SKU-002", Name: "T-Shirt", Description: strPtr("Cotton, size M"), PriceCents: 129900, IsActive: true},
	{SKU: "SKU-003", Name: "Notebook", Description: strPtr("A5, 80 pages"), PriceCents: 29900, IsActive: true},
	{SKU: "SKU-004", Name: "Backpack", Description: strPtr("20 L, urban"), PriceCents: 349900, IsActive: true},
	{SKU: "SKU-005", Name: "Headphones", Description: strPtr("Wired, 3.5 mm jack"), PriceCents: 89900, IsActive: true},
}

// SeedDemo inserts the demo products when the catalog is empty. Returns the
// number of products added; zero when the table already has rows.
func (r *Repository) SeedDemo(ctx context.Context) (int, error) {
	added := 0
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for i := range demoProducts {
			product := demoProducts[i]
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product store unavailable")
	}
	return added, nil
}
