// Package orders is the order ledger: it turns a (user, SKU, qty) request
// into a durably consistent order with a price snapshot and a verified total,
// and serves order history.
package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/tgshopai/tgshop-backend/pkg/db"
	"github.com/tgshopai/tgshop-backend/pkg/db/models"
	"github.com/tgshopai/tgshop-backend/pkg/enums"
	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
	"github.com/tgshopai/tgshop-backend/pkg/metrics"
)

const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

// Repository exposes the ledger operations.
type Repository struct {
	client  *db.Client
	metrics *metrics.LedgerMetrics
}

// NewRepository constructs an order ledger bound to the provided client.
// Metrics may be nil.
func NewRepository(client *db.Client, ledgerMetrics *metrics.LedgerMetrics) *Repository {
	return &Repository{client: client, metrics: ledgerMetrics}
}

// CreateOrder creates an order for an already-registered identity. The whole
// operation runs in one transaction: order row, snapshot line, then the total
// recomputed from the persisted lines. Any failure rolls everything back; no
// partial order is ever visible.
func (r *Repository) CreateOrder(ctx context.Context, externalID int64, sku string, qty int) (*models.Order, error) {
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if qty < 1 {
		qty = 1
	}

	var order models.Order
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		// No implicit registration: the caller is expected to have gone
		// through the user directory first.
		var user models.User
		if err := tx.Where("external_id = ?", externalID).First(&user).Error; err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("user")
			}
			return err
		}

		var product models.Product
		if err := tx.Where("sku = ? AND is_active = ?", sku, true).First(&product).Error; err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("product")
			}
			return err
		}

		order = models.Order{UserID: user.ID, Status: enums.OrderStatusNew, TotalCents: 0}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		line := models.OrderLine{
			OrderID:        order.ID,
			ProductID:      product.ID,
			Qty:            qty,
			UnitPriceCents: product.PriceCents,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}

		// Recompute the total from the rows this transaction has persisted
		// rather than trusting the in-memory multiplication, so the order
		// row can never disagree with the lines it summarizes.
		var total int64
		if err := tx.Model(&models.OrderLine{}).
			Where("order_id = ?", order.ID).
			Select("COALESCE(SUM(qty * unit_price_cents), 0)").
			Scan(&total).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			UpdateColumn("total_cents", total).Error; err != nil {
			return err
		}

		order.TotalCents = total
		order.Lines = []models.OrderLine{line}
		return nil
	})
	if err != nil {
		typed := r.asTypedError(err)
		r.metrics.IncCreated(outcomeFor(typed))
		return nil, typed
	}

	r.metrics.IncCreated(outcomeOK)
	r.metrics.ObserveTotal(order.TotalCents)
	return &order, nil
}

// ListByExternalID returns the most recent orders for the identity, newest
// first. Unknown identities get an empty slice, not an error.
func (r *Repository) ListByExternalID(ctx context.Context, externalID int64, limit int) ([]models.Order, error) {
	var user models.User
	err := r.client.DB().WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&user).Error
	if err != nil {
		if db.IsNotFound(err) {
			return []models.Order{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order store unavailable")
	}

	query := r.client.DB().WithContext(ctx).
		Preload("Lines").
		Where("user_id = ?", user.ID).
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order store unavailable")
	}
	return orders, nil
}

// DeleteOrder removes an order and its lines. The ownership cascade is
// explicit: lines go first, in the same transaction as the order row.
func (r *Repository) DeleteOrder(ctx context.Context, orderID uint) error {
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("order")
			}
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", orderID).Error
	})
	if err != nil {
		return r.asTypedError(err)
	}
	return nil
}

func (r *Repository) asTypedError(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if db.IsUniqueViolation(err) || db.IsForeignKeyViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order write rejected by constraint")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order store unavailable")
}

func outcomeFor(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return outcomeError
	}
	switch typed.Code() {
	case pkgerrors.CodeNotFound:
		return outcomeNotFound
	case pkgerrors.CodeConflict:
		return outcomeConflict
	default:
		return outcomeError
	}
}
