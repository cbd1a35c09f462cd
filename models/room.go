package models

import "time"

// Room 房间，多人群聊或双人私聊
type Room struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"type:varchar(100)" json:"name"`      // 私聊可为空
	Type      string    `gorm:"type:varchar(10);index" json:"type"` // "group" or "direct"
	CreatorID uint      `gorm:"index" json:"creator_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// RoomMember 房间成员关系，广播前必须实时查这张表
type RoomMember struct {
	RoomID   string    `gorm:"primaryKey;type:varchar(36)" json:"room_id"`
	UserID   uint      `gorm:"primaryKey" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
