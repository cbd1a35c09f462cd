package models

import "time"

// Message 消息，删除是墓碑标记而不是物理删除
type Message struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RoomID    string    `gorm:"type:varchar(36);index" json:"room_id"`
	SenderID  uint      `gorm:"index" json:"sender_id"`
	Content   string    `gorm:"type:text" json:"content"` // 对本服务而言是不透明内容
	ReplyToID *string   `gorm:"type:varchar(36)" json:"reply_to_id,omitempty"`
	Deleted   bool      `gorm:"default:false" json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sender User `gorm:"foreignKey:SenderID;references:ID" json:"sender"`
}

// Reaction 表情回应，(message_id, user_id, emoji) 三元组唯一
type Reaction struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MessageID string    `gorm:"type:varchar(36);uniqueIndex:idx_reaction_triple" json:"message_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_reaction_triple" json:"user_id"`
	Emoji     string    `gorm:"type:varchar(32);uniqueIndex:idx_reaction_triple" json:"emoji"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
