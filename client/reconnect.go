// Package client 是网关的客户端侧配套：负责连接的重试与退避。
package client

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// State 连接状态，通过 OnStateChange 通知上层 UI
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

// Conn 客户端视角的最小连接接口
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// DialFunc 建立一条连接
type DialFunc func(url string) (Conn, error)

// WebsocketDial 默认拨号实现
func WebsocketDial(url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Reconnector 断线重连控制器。
// 异常关闭（关闭码不在正常下线集合内）时按次数递增延迟重试，
// 超过上限进入终态 Disconnected；手动断开清掉待触发的定时器并清零计数，
// 避免残留的重连和用户新发起的连接互相竞争。
type Reconnector struct {
	URL           string
	Dial          DialFunc
	MaxAttempts   int
	BaseDelay     time.Duration
	OnStateChange func(State)
	OnMessage     func([]byte)

	mu       sync.Mutex
	conn     Conn
	timer    *time.Timer
	attempts int
	stopped  bool
}

func NewReconnector(url string, dial DialFunc) *Reconnector {
	return &Reconnector{
		URL:         url,
		Dial:        dial,
		MaxAttempts: 5,
		BaseDelay:   time.Second,
	}
}

// Connect 用户主动发起连接，计数清零
func (r *Reconnector) Connect() error {
	r.mu.Lock()
	r.stopped = false
	r.attempts = 0
	r.mu.Unlock()
	return r.connect(StateConnecting)
}

func (r *Reconnector) connect(via State) error {
	r.setState(via)
	conn, err := r.Dial(r.URL)
	if err != nil {
		r.scheduleRetry()
		return err
	}

	r.mu.Lock()
	if r.stopped {
		// 连接建立期间被手动停掉了
		r.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	r.conn = conn
	r.attempts = 0
	r.mu.Unlock()

	r.setState(StateConnected)
	go r.readLoop(conn)
	return nil
}

// Send 发一帧，未连接时报错
func (r *Reconnector) Send(data []byte) error {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return errors.New("not connected")
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (r *Reconnector) readLoop(conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			r.onClosed(err)
			return
		}
		if r.OnMessage != nil {
			r.OnMessage(data)
		}
	}
}

func (r *Reconnector) onClosed(err error) {
	r.mu.Lock()
	r.conn = nil
	stopped := r.stopped
	r.mu.Unlock()

	if stopped {
		return
	}
	// 正常下线码不重连
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		r.setState(StateDisconnected)
		return
	}
	r.scheduleRetry()
}

// scheduleRetry 延迟随尝试次数增长，到达上限后进入终态
func (r *Reconnector) scheduleRetry() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.attempts++
	if r.attempts > r.MaxAttempts {
		r.mu.Unlock()
		r.setState(StateDisconnected)
		return
	}
	delay := time.Duration(r.attempts) * r.BaseDelay
	r.timer = time.AfterFunc(delay, func() {
		_ = r.connect(StateReconnecting)
	})
	r.mu.Unlock()
	r.setState(StateReconnecting)
}

// Close 手动断开：停掉待触发的重连定时器，计数清零
func (r *Reconnector) Close() {
	r.mu.Lock()
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.attempts = 0
	conn := r.conn
	r.conn = nil
	r.mu.Unlock()

	if conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
		_ = conn.Close()
	}
	r.setState(StateDisconnected)
}

// Attempts 当前重试计数，测试和状态栏用
func (r *Reconnector) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

func (r *Reconnector) setState(s State) {
	if r.OnStateChange != nil {
		r.OnStateChange(s)
	}
}
