package models

import (
	"time"

	"github.com/tgshopai/tgshop-backend/pkg/enums"
)

// Order is the durable record of a purchase. TotalCents is always derived
// from the persisted lines, never from in-memory arithmetic.
type Order struct {
	ID         uint              `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     uint              `gorm:"column:user_id;not null;index"`
	Status     enums.OrderStatus `gorm:"column:status;size:24;not null;default:'new'"`
	TotalCents int64             `gorm:"column:total_cents;not null;default:0"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`

	Lines []OrderLine `gorm:"foreignKey:OrderID"`
}
