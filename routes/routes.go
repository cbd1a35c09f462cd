package routes

import (
	"chat-gateway/controllers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Controllers 路由需要的全部处理器
type Controllers struct {
	Users          *controllers.UserController
	Rooms          *controllers.RoomController
	Reactions      *controllers.ReactionController
	Notifications  *controllers.NotificationController
	Admin          *controllers.AdminController
	WS             *controllers.WSController
	AuthMiddleware gin.HandlerFunc
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(h *Controllers) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	r.Use(cors.New(corsConfig))

	// WebSocket 网关，认证在连接内部的握手帧完成
	r.GET("/ws", h.WS.Handle)

	protected := r.Group("/api")

	protected.POST("/register", h.Users.Register)
	protected.POST("/login", h.Users.Login)

	{
		protected.Use(h.AuthMiddleware)
		protected.GET("/userinfo", h.Users.GetUserInfo)

		protected.POST("/rooms", h.Rooms.CreateRoom)
		protected.POST("/rooms/:room_id/join", h.Rooms.JoinRoom)
		protected.GET("/rooms/:room_id/messages", h.Rooms.ListMessages)

		// 回应走 REST，但广播与 socket 命令共用同一个 reaction_changed 事件
		protected.POST("/messages/:message_id/reactions", h.Reactions.Add)
		protected.DELETE("/messages/:message_id/reactions", h.Reactions.Remove)

		protected.GET("/notifications", h.Notifications.List)
		protected.POST("/notifications/clear", h.Notifications.Clear)

		protected.POST("/admin/users/:user_id/freeze", h.Admin.FreezeUser)
		protected.POST("/admin/users/:user_id/disconnect", h.Admin.DisconnectUser)
	}

	return r
}
