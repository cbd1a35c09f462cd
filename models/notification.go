package models

import "time"

const (
	NotificationMention = "mention"
	NotificationReply   = "reply"
)

// Notification 由消息创建派生出的通知，只会被清除，不会被修改
type Notification struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Type        string    `gorm:"type:varchar(10)" json:"type"` // "mention" or "reply"
	RecipientID uint      `gorm:"index" json:"recipient_id"`
	ActorID     uint      `json:"actor_id"`
	MessageID   string    `gorm:"type:varchar(36)" json:"message_id"`
	RoomID      string    `gorm:"type:varchar(36)" json:"room_id"`
	Cleared     bool      `gorm:"default:false" json:"cleared"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
