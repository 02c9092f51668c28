package models

import "time"

// Product is a purchasable catalog item. Deactivation hides it from the
// catalog without deleting order history that references it.
type Product struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	SKU         string    `gorm:"column:sku;size:32;not null;uniqueIndex:idx_products_sku"`
	Name        string    `gorm:"column:name;size:120;not null"`
	Description *string   `gorm:"column:description;type:text"`
	PriceCents  int64     `gorm:"column:price_cents;not null"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
