package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tgshopai/tgshop-backend/api/responses"
	"github.com/tgshopai/tgshop-backend/api/validators"
	"github.com/tgshopai/tgshop-backend/internal/catalog"
	"github.com/tgshopai/tgshop-backend/pkg/db/models"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
	"github.com/tgshopai/tgshop-backend/pkg/logger"
	"github.com/tgshopai/tgshop-backend/pkg/money"
)

const publicCatalogMaxLimit = 100

type createProductRequest struct {
	SKU         string  `json:"sku" validate:"required,max=32"`
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description"`
	Price       string  `json:"price" validate:"required"`
	IsActive    *bool   `json:"is_active"`
}

type updateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	IsActive    *bool   `json:"is_active"`
}

type productResponse struct {
	ID          uint      `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Price       string    `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProductResponse(product *models.Product) productResponse {
	return productResponse{
		ID:          product.ID,
		SKU:         product.SKU,
		Name:        product.Name,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		Price:       money.FormatMinor(product.PriceCents),
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
	}
}

func toProductResponses(products []models.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return out
}

// AdminListProducts returns the whole catalog, inactive products included.
func AdminListProducts(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductResponses(products))
	}
}

// AdminCreateProduct adds a product. Prices arrive in major units ("499.90")
// and are stored in cents.
func AdminCreateProduct(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		priceCents, err := money.ParseMinor(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active := true
		if payload.IsActive != nil {
			active = *payload.IsActive
		}

		product, err := repo.Create(r.Context(), catalog.CreateProductInput{
			SKU:         validators.SanitizeString(payload.SKU, 32),
			Name:        validators.SanitizeString(payload.Name, 120),
			Description: payload.Description,
			PriceCents:  priceCents,
			IsActive:    active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toProductResponse(product))
	}
}

// AdminUpdateProduct applies a partial edit, covering rename, repricing, and
// activation toggles.
func AdminUpdateProduct(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			IsActive:    payload.IsActive,
		}
		if payload.Price != nil {
			priceCents, err := money.ParseMinor(*payload.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.PriceCents = &priceCents
		}

		product, err := repo.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toProductResponse(product))
	}
}

// PublicListProducts serves the active catalog for storefront clients.
func PublicListProducts(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", publicCatalogMaxLimit, 1, publicCatalogMaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := repo.ListActive(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductResponses(products))
	}
}

func parseProductID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").WithDetails(map[string]any{"id": raw})
	}
	return uint(id), nil
}
