package services

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"chat-gateway/models"

	"github.com/gorilla/websocket"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createRoom(t *testing.T, db *gorm.DB, creatorID uint, memberIDs ...uint) *models.Room {
	t.Helper()
	room, err := NewRoomStore(db).Create("test room", "group", creatorID, memberIDs)
	if err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	return room
}

// fakeConn 测试用连接，实现 Conn 接口
type fakeConn struct {
	in   chan []byte
	done chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	frames    [][]byte
	closeSent []byte // WriteControl 发出的关闭帧载荷
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:   make(chan []byte, 16),
		done: make(chan struct{}),
	}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-f.in:
		return websocket.TextMessage, data, nil
	case <-f.done:
		return 0, nil, errors.New("connection closed")
	}
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	select {
	case <-f.done:
		return errors.New("connection closed")
	default:
	}
	f.mu.Lock()
	f.frames = append(f.frames, append([]byte(nil), data...))
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) WriteControl(messageType int, data []byte, _ time.Time) error {
	if messageType == websocket.CloseMessage {
		f.mu.Lock()
		f.closeSent = append([]byte(nil), data...)
		f.mu.Unlock()
	}
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.done) })
	return nil
}

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// closeCode 解析关闭帧里的状态码，没有则返回 0
func (f *fakeConn) closeCode() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.closeSent) < 2 {
		return 0
	}
	return int(f.closeSent[0])<<8 | int(f.closeSent[1])
}

// clientSend 模拟客户端发一帧
func (f *fakeConn) clientSend(t *testing.T, event string, payload interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	data, err := json.Marshal(Envelope{Event: event, Payload: raw})
	if err != nil {
		t.Fatalf("failed to marshal envelope: %v", err)
	}
	select {
	case f.in <- data:
	case <-time.After(time.Second):
		t.Fatal("timed out sending frame to fake conn")
	}
}

// events 解码目前为止写出的所有帧
func (f *fakeConn) events(t *testing.T) []Envelope {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Envelope, 0, len(f.frames))
	for _, frame := range f.frames {
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("wrote malformed frame %q: %v", frame, err)
		}
		out = append(out, env)
	}
	return out
}

// waitForEvent 轮询等待某个事件出现
func (f *fakeConn) waitForEvent(t *testing.T, event string) Envelope {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		for _, env := range f.events(t) {
			if env.Event == event {
				return env
			}
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for event %q, got %v", event, eventNames(f.events(t)))
	return Envelope{}
}

// assertNoEvent 确认短时间内没有收到某个事件
func (f *fakeConn) assertNoEvent(t *testing.T, event string) {
	t.Helper()
	time.Sleep(30 * time.Millisecond)
	for _, env := range f.events(t) {
		if env.Event == event {
			t.Fatalf("unexpected event %q received", event)
		}
	}
}

func eventNames(envs []Envelope) []string {
	names := make([]string, len(envs))
	for i, e := range envs {
		names[i] = e.Event
	}
	return names
}

// newTestSession 构造一个已认证的在线会话
func newTestSession(userID uint, username string) (*Session, *fakeConn) {
	fc := newFakeConn()
	s := newSession(fc)
	s.UserID = userID
	s.Username = username
	s.authed = true
	go s.writePump()
	return s, fc
}

// newTestRouter 组装路由及其依赖
func newTestRouter(db *gorm.DB) (*Router, *Hub) {
	hub := NewHub()
	rooms := NewRoomStore(db)
	broadcaster := NewBroadcaster(hub, rooms)
	router := NewRouter(hub, rooms, NewMessageStore(db), NewNotificationStore(db), broadcaster)
	return router, hub
}
