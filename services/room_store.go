package services

import (
	"time"

	"chat-gateway/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomStore 房间与成员关系持久化。
// 成员列表在每次广播 / 鉴权时实时查询，绝不使用连接上的快照。
type RoomStore struct {
	db *gorm.DB
}

func NewRoomStore(db *gorm.DB) *RoomStore {
	return &RoomStore{db: db}
}

func (s *RoomStore) Create(name, roomType string, creatorID uint, memberIDs []uint) (*models.Room, error) {
	room := models.Room{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      roomType,
		CreatorID: creatorID,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		seen := map[uint]bool{creatorID: true}
		members := []models.RoomMember{{RoomID: room.ID, UserID: creatorID, JoinedAt: time.Now()}}
		for _, id := range memberIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			members = append(members, models.RoomMember{RoomID: room.ID, UserID: id, JoinedAt: time.Now()})
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomStore) AddMember(roomID string, userID uint) error {
	var room models.Room
	if err := s.db.First(&room, "id = ?", roomID).Error; err != nil {
		return err
	}
	member := models.RoomMember{RoomID: roomID, UserID: userID, JoinedAt: time.Now()}
	return s.db.Where("room_id = ? AND user_id = ?", roomID, userID).
		FirstOrCreate(&member).Error
}

// MemberIDs 返回房间当前成员，广播路径每次都调这里
func (s *RoomStore) MemberIDs(roomID string) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.RoomMember{}).
		Where("room_id = ?", roomID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (s *RoomStore) IsMember(userID uint, roomID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *RoomStore) RoomIDsForUser(userID uint) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.RoomMember{}).
		Where("user_id = ?", userID).
		Pluck("room_id", &ids).Error
	return ids, err
}
