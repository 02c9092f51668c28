package models

import "time"

// AssistantLog records one exchange with the scripted assistant.
type AssistantLog struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint      `gorm:"column:user_id;not null;index"`
	Prompt    string    `gorm:"column:prompt;type:text;not null"`
	Response  string    `gorm:"column:response;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
