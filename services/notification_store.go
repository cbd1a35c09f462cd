package services

import (
	"chat-gateway/models"

	"gorm.io/gorm"
)

// NotificationStore 通知持久化。通知在消息事务里创建，这里只负责查询和清除。
type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) List(userID uint, onlyUnread bool) ([]models.Notification, error) {
	var notifs []models.Notification
	q := s.db.Where("recipient_id = ?", userID).Order("created_at DESC")
	if onlyUnread {
		q = q.Where("cleared = ?", false)
	}
	err := q.Find(&notifs).Error
	return notifs, err
}

func (s *NotificationStore) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND cleared = ?", userID, false).
		Count(&count).Error
	return count, err
}

// Clear 清除指定通知，幂等：已清除的 id 不算变更。
// 返回本次真正发生变化的 id 列表。
func (s *NotificationStore) Clear(userID uint, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cleared []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Notification{}).
			Where("recipient_id = ? AND cleared = ? AND id IN ?", userID, false, ids).
			Pluck("id", &cleared).Error; err != nil {
			return err
		}
		if len(cleared) == 0 {
			return nil
		}
		return tx.Model(&models.Notification{}).
			Where("id IN ?", cleared).
			Update("cleared", true).Error
	})
	if err != nil {
		return nil, err
	}
	return cleared, nil
}
