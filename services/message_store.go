package services

import (
	"errors"

	"chat-gateway/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotAllowed 统一表示"不存在或无权限"，两种情况对调用方刻意不可区分
var ErrNotAllowed = errors.New("not found or not permitted")

// MessageStore 消息持久化
type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// CreateMessageInput 创建消息的入参
type CreateMessageInput struct {
	RoomID           string
	SenderID         uint
	Content          string
	ReplyToID        *string
	MentionedUserIDs []uint
}

// CreateWithNotifications 在同一个事务里写入消息和派生通知。
// 事务提交成功之前不允许任何广播。
func (s *MessageStore) CreateWithNotifications(in CreateMessageInput) (*models.Message, []models.Notification, error) {
	msg := models.Message{
		ID:        uuid.New().String(),
		RoomID:    in.RoomID,
		SenderID:  in.SenderID,
		Content:   in.Content,
		ReplyToID: in.ReplyToID,
	}
	var notifs []models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}

		seen := map[uint]bool{}
		for _, uid := range in.MentionedUserIDs {
			// 不给发送者自己发提及通知
			if uid == in.SenderID || seen[uid] {
				continue
			}
			seen[uid] = true
			notifs = append(notifs, models.Notification{
				ID:          uuid.New().String(),
				Type:        models.NotificationMention,
				RecipientID: uid,
				ActorID:     in.SenderID,
				MessageID:   msg.ID,
				RoomID:      in.RoomID,
			})
		}

		if in.ReplyToID != nil {
			var original models.Message
			if err := tx.First(&original, "id = ?", *in.ReplyToID).Error; err == nil {
				// 回复自己的消息不产生通知
				if original.SenderID != in.SenderID {
					notifs = append(notifs, models.Notification{
						ID:          uuid.New().String(),
						Type:        models.NotificationReply,
						RecipientID: original.SenderID,
						ActorID:     in.SenderID,
						MessageID:   msg.ID,
						RoomID:      in.RoomID,
					})
				}
			}
		}

		if len(notifs) > 0 {
			if err := tx.Create(&notifs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	enriched, err := s.Get(msg.ID)
	if err != nil {
		return nil, nil, err
	}
	return enriched, notifs, nil
}

// Get 返回带发送者信息的消息
func (s *MessageStore) Get(id string) (*models.Message, error) {
	var msg models.Message
	if err := s.db.Preload("Sender").First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Edit 只有原发送者能改未删除的消息，用单条条件更新实现。
// 影响 0 行时不区分"不存在"和"无权限"。
func (s *MessageStore) Edit(messageID string, userID uint, newContent string) (*models.Message, error) {
	res := s.db.Model(&models.Message{}).
		Where("id = ? AND sender_id = ? AND deleted = ?", messageID, userID, false).
		Update("content", newContent)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotAllowed
	}
	return s.Get(messageID)
}

// SoftDelete 打墓碑标记，返回消息所在房间
func (s *MessageStore) SoftDelete(messageID string, userID uint) (string, error) {
	res := s.db.Model(&models.Message{}).
		Where("id = ? AND sender_id = ? AND deleted = ?", messageID, userID, false).
		Update("deleted", true)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrNotAllowed
	}
	var msg models.Message
	if err := s.db.First(&msg, "id = ?", messageID).Error; err != nil {
		return "", err
	}
	return msg.RoomID, nil
}

// ListByRoom 按时间正序返回房间消息
func (s *MessageStore) ListByRoom(roomID string, limit int) ([]models.Message, error) {
	var msgs []models.Message
	q := s.db.Preload("Sender").
		Where("room_id = ?", roomID).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&msgs).Error
	return msgs, err
}

// AddReaction 三元组唯一，冲突时静默跳过
func (s *MessageStore) AddReaction(messageID string, userID uint, emoji string) error {
	reaction := models.Reaction{
		ID:        uuid.New().String(),
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reaction).Error
}

// RemoveReaction 不存在时是空操作
func (s *MessageStore) RemoveReaction(messageID string, userID uint, emoji string) error {
	return s.db.
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		Delete(&models.Reaction{}).Error
}

// ReactionCount 按表情聚合后的数量
type ReactionCount struct {
	Emoji string `json:"emoji"`
	Count int64  `json:"count"`
}

// ReactionSummary 重新聚合某条消息的全部回应
func (s *MessageStore) ReactionSummary(messageID string) ([]ReactionCount, error) {
	var out []ReactionCount
	err := s.db.Model(&models.Reaction{}).
		Select("emoji, count(*) as count").
		Where("message_id = ?", messageID).
		Group("emoji").
		Order("emoji").
		Scan(&out).Error
	return out, err
}
