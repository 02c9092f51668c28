package models

// OrderLine is one position inside an order. UnitPriceCents is the price
// snapshot copied from the product at order creation and never re-read, so
// later catalog edits cannot change historical orders.
type OrderLine struct {
	ID             uint  `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID        uint  `gorm:"column:order_id;not null;index"`
	ProductID      uint  `gorm:"column:product_id;not null;index"`
	Qty            int   `gorm:"column:qty;not null;default:1"`
	UnitPriceCents int64 `gorm:"column:unit_price_cents;not null"`
}
