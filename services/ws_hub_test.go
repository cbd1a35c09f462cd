package services

import (
	"testing"

	"github.com/gorilla/websocket"
)

func TestHub_RegisterLookup(t *testing.T) {
	hub := NewHub()
	s, _ := newTestSession(1, "alice")

	if _, ok := hub.Lookup(1); ok {
		t.Fatal("lookup before register should miss")
	}
	hub.Register(s)
	got, ok := hub.Lookup(1)
	if !ok || got != s {
		t.Fatal("lookup after register should return the session")
	}
	hub.Unregister(s)
	if _, ok := hub.Lookup(1); ok {
		t.Fatal("lookup after unregister should miss")
	}
}

// 同一身份二次认证：后来者覆盖表项，旧连接退场时不能误删新表项
func TestHub_LastWriteWins(t *testing.T) {
	hub := NewHub()
	first, firstConn := newTestSession(7, "alice")
	second, _ := newTestSession(7, "alice")

	hub.Register(first)
	hub.Register(second)

	got, ok := hub.Lookup(7)
	if !ok || got != second {
		t.Fatal("expected the newer session to own the registry entry")
	}
	// 旧连接被孤儿化，但 socket 不被动关闭
	if firstConn.isClosed() {
		t.Error("orphaned session's conn must be left open")
	}

	hub.Unregister(first)
	got, ok = hub.Lookup(7)
	if !ok || got != second {
		t.Fatal("orphaned session's unregister must not evict the newer session")
	}
}

func TestHub_DisconnectUser(t *testing.T) {
	hub := NewHub()
	s, fc := newTestSession(3, "victim")
	hub.Register(s)

	if !hub.DisconnectUser(3) {
		t.Fatal("expected DisconnectUser to report a live connection")
	}
	if !fc.isClosed() {
		t.Fatal("expected the connection to be closed")
	}
	if code := fc.closeCode(); code != int(websocket.ClosePolicyViolation) {
		t.Errorf("expected close code %d, got %d", websocket.ClosePolicyViolation, code)
	}

	if hub.DisconnectUser(42) {
		t.Error("expected DisconnectUser to report no connection for offline user")
	}
}

func TestHub_Typing(t *testing.T) {
	hub := NewHub()

	hub.StartTyping("room-1", 1)
	hub.StartTyping("room-1", 2)
	if got := hub.TypingUsers("room-1"); len(got) != 2 {
		t.Fatalf("expected 2 typing users, got %v", got)
	}

	// 只有显式 stop 能移除，没有过期定时器
	hub.StopTyping("room-1", 1)
	got := hub.TypingUsers("room-1")
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected only user 2 typing, got %v", got)
	}

	hub.StopTyping("room-1", 2)
	if got := hub.TypingUsers("room-1"); len(got) != 0 {
		t.Fatalf("expected no typing users, got %v", got)
	}

	// 对不存在的房间 stop 是空操作
	hub.StopTyping("room-404", 9)
}
