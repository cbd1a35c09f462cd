package services

import "log"

// Broadcaster 房间广播分发器。
// 每次广播都实时查成员表，不信任任何连接上的快照；
// 离线成员静默跳过，房间广播没有补投——重要事件的持久性由通知兜底。
type Broadcaster struct {
	hub   *Hub
	rooms *RoomStore
}

func NewBroadcaster(hub *Hub, rooms *RoomStore) *Broadcaster {
	return &Broadcaster{hub: hub, rooms: rooms}
}

// ToRoom 向房间当前成员广播，excludeUserID 为 0 表示不排除。
// 广播过程中被移出房间的成员可能还会收到这一条，属于接受的尽力而为语义。
func (b *Broadcaster) ToRoom(roomID, event string, payload interface{}, excludeUserID uint) {
	memberIDs, err := b.rooms.MemberIDs(roomID)
	if err != nil {
		log.Printf("Broadcast to room %s failed to resolve members: %v", roomID, err)
		return
	}
	data := encodeEvent(event, payload)
	for _, id := range memberIDs {
		if id == excludeUserID {
			continue
		}
		if s, ok := b.hub.Lookup(id); ok {
			s.push(data)
		}
	}
}

// ToUser 按用户投递（通知通道，与房间无关），返回对方是否在线
func (b *Broadcaster) ToUser(userID uint, event string, payload interface{}) bool {
	s, ok := b.hub.Lookup(userID)
	if !ok {
		return false
	}
	s.push(encodeEvent(event, payload))
	return true
}
