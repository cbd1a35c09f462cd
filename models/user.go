package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string         `json:"username" gorm:"unique;not null"`
	Password  string         `json:"-" gorm:"not null"`
	AvatarURL string         `json:"avatar_url"`
	IsAdmin   bool           `json:"is_admin" gorm:"default:false"`
	Frozen    bool           `json:"frozen" gorm:"default:false"` // 冻结后禁止登录和连接
	LastLogin *time.Time     `json:"last_login" gorm:"default:NULL"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
