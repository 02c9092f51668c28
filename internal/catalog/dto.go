package catalog

import (
	"strings"

	"github.com/tgshopai/tgshop-backend/pkg/db/models"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
)

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU         string
	Name        string
	Description *string
	PriceCents  int64
	IsActive    bool
}

func (in CreateProductInput) validate() error {
	if strings.TrimSpace(in.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if in.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}

func (in CreateProductInput) toModel() *models.Product {
	return &models.Product{
		SKU:         strings.TrimSpace(in.SKU),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		PriceCents:  in.PriceCents,
		IsActive:    in.IsActive,
	}
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	PriceCents  *int64
	IsActive    *bool
}

func (in UpdateProductInput) toColumnMap() map[string]any {
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.PriceCents != nil && *in.PriceCents >= 0 {
		updates["price_cents"] = *in.PriceCents
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	return updates
}
