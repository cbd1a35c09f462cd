package services

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const sendQueueSize = 256

// Conn 收窄的 websocket 连接接口，*websocket.Conn 满足，测试用假实现
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Session 一条传输连接对应一个 Session。
// 认证前 UserID 为零值；RoomIDs 是认证时的房间快照，
// 只留作 presence 预留字段，任何鉴权决策都不允许读它。
type Session struct {
	UserID   uint
	Username string
	RoomIDs  []string

	conn      Conn
	send      chan []byte
	authed    bool // 只在读协程里访问
	authTimer *time.Timer

	mu     sync.Mutex
	closed bool
}

func newSession(conn Conn) *Session {
	return &Session{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

// push 尽力投递：队列满直接丢，不阻塞广播方
func (s *Session) push(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- data:
	default:
	}
}

func (s *Session) pushEvent(event string, payload interface{}) {
	s.push(encodeEvent(event, payload))
}

func (s *Session) pushError(code, message string) {
	s.pushEvent(EventError, ErrorPayload{Code: code, Message: message})
}

// close 关闭发送队列，写协程随之退出并关闭底层连接
func (s *Session) close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
	s.mu.Unlock()
}

// closePolicy 用策略违规码关闭：认证超时、凭证无效、首帧不是 auth、强制下线共用这一个码
func (s *Session) closePolicy(reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = s.conn.Close()
	s.close()
}

// writePump 串行写出，保证单次广播内的帧按入队顺序到达
func (s *Session) writePump() {
	for data := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	_ = s.conn.Close()
}
