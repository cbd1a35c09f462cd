package services

import (
	"log"
	"sync"
)

// Hub 在线会话表，user_id -> 活跃连接。
// 单实例内存表，不跨进程共享。由 Gateway 持有，不做包级全局。
type Hub struct {
	mu       sync.RWMutex
	sessions map[uint]*Session
	typing   map[string]map[uint]bool // room_id -> 正在输入的用户
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[uint]*Session),
		typing:   make(map[string]map[uint]bool),
	}
}

// Register 注册在线会话。同一身份重复认证时后来者覆盖，
// 旧连接的表项被顶掉但 socket 不动（已知缺口，见设计文档，不在这里悄悄修正）。
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	if old, ok := h.sessions[s.UserID]; ok && old != s {
		log.Printf("User %d re-authenticated, previous registry entry orphaned", s.UserID)
	}
	h.sessions[s.UserID] = s
	h.mu.Unlock()
	log.Printf("🔵 User %d registered", s.UserID)
}

// Unregister 只移除自己的表项，被顶掉的旧连接关闭时不能误删新连接
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	if cur, ok := h.sessions[s.UserID]; ok && cur == s {
		delete(h.sessions, s.UserID)
		log.Printf("🔴 User %d unregistered", s.UserID)
	}
	h.mu.Unlock()
}

func (h *Hub) Lookup(userID uint) (*Session, bool) {
	h.mu.RLock()
	s, ok := h.sessions[userID]
	h.mu.RUnlock()
	return s, ok
}

// DisconnectUser 管理操作强制下线（冻结、注销），返回是否找到了在线连接
func (h *Hub) DisconnectUser(userID uint) bool {
	s, ok := h.Lookup(userID)
	if !ok {
		return false
	}
	s.closePolicy("session invalidated")
	return true
}

// StartTyping 纯内存状态，无持久化、无过期定时器，只靠显式 stop 移除
func (h *Hub) StartTyping(roomID string, userID uint) {
	h.mu.Lock()
	if h.typing[roomID] == nil {
		h.typing[roomID] = make(map[uint]bool)
	}
	h.typing[roomID][userID] = true
	h.mu.Unlock()
}

func (h *Hub) StopTyping(roomID string, userID uint) {
	h.mu.Lock()
	if users, ok := h.typing[roomID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(h.typing, roomID)
		}
	}
	h.mu.Unlock()
}

// TypingUsers 返回房间内正在输入的用户
func (h *Hub) TypingUsers(roomID string) []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := h.typing[roomID]
	out := make([]uint, 0, len(users))
	for id := range users {
		out = append(out, id)
	}
	return out
}
