package services

import (
	"log"
	"net/http"
	"time"

	"chat-gateway/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// CredentialVerifier 凭证校验协作方：token -> 用户
type CredentialVerifier func(token string) (*models.User, error)

// Gateway 连接网关，持有在线表和路由。
// 连接状态机：AwaitingAuth -> Authenticated -> Closed。
type Gateway struct {
	hub       *Hub
	router    *Router
	rooms     *RoomStore
	verify    CredentialVerifier
	authGrace time.Duration
}

func NewGateway(hub *Hub, router *Router, rooms *RoomStore, verify CredentialVerifier, authGrace time.Duration) *Gateway {
	return &Gateway{
		hub:       hub,
		router:    router,
		rooms:     rooms,
		verify:    verify,
		authGrace: authGrace,
	}
}

// HandleWebSocket 升级连接并进入服务循环
func (g *Gateway) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}
	go g.Serve(conn)
}

// Serve 运行一条连接的完整生命周期，连接关闭时返回
func (g *Gateway) Serve(conn Conn) {
	s := newSession(conn)

	// 认证宽限定时器：窗口内没完成认证就按策略违规关闭
	s.authTimer = time.AfterFunc(g.authGrace, func() {
		s.closePolicy("authentication timeout")
	})

	go s.writePump()
	g.readPump(s)
}

func (g *Gateway) readPump(s *Session) {
	defer func() {
		if s.authed {
			g.hub.Unregister(s)
		}
		s.authTimer.Stop()
		s.close()
		_ = s.conn.Close()
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		cmd, decodeErr := decodeCommand(data)

		if !s.authed {
			// 信任建立之前快速失败：首帧必须是合法的 auth，否则直接关，不回错误帧
			auth, ok := cmd.(AuthCommand)
			if decodeErr != nil || !ok {
				s.closePolicy("authentication required")
				return
			}
			user, err := g.verify(auth.Token)
			if err != nil {
				s.closePolicy("invalid credentials")
				return
			}
			g.authenticate(s, user)
			continue
		}

		if decodeErr != nil {
			s.pushError(CodeProtocolError, decodeErr.Error())
			continue
		}
		g.router.Handle(s, cmd)
	}
}

// authenticate AwaitingAuth -> Authenticated
func (g *Gateway) authenticate(s *Session, user *models.User) {
	s.authTimer.Stop()
	s.UserID = user.ID
	s.Username = user.Username

	// 房间快照仅作 presence 预留，后续任何鉴权都实时查库
	roomIDs, err := g.rooms.RoomIDsForUser(user.ID)
	if err != nil {
		log.Printf("Failed to snapshot rooms for user %d: %v", user.ID, err)
	}
	s.RoomIDs = roomIDs

	g.hub.Register(s)
	s.authed = true
	s.pushEvent(EventAuthenticated, AuthenticatedPayload{
		UserID:   user.ID,
		Username: user.Username,
	})
}
