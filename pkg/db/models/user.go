package models

import "time"

// User is the identity record for an external messaging account. The
// external id is assigned by the messaging platform and never changes; the
// display name is refreshed on contact.
type User struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ExternalID  int64     `gorm:"column:external_id;not null;uniqueIndex:idx_users_external_id"`
	DisplayName *string   `gorm:"column:display_name;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`

	Orders []Order `gorm:"foreignKey:UserID"`
}
