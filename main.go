package main

import (
	"log"

	"chat-gateway/config"
	"chat-gateway/controllers"
	"chat-gateway/middlewares"
	"chat-gateway/models"
	"chat-gateway/routes"
	"chat-gateway/services"
)

func main() {
	cfg := config.Load()
	services.SetJWTSecret(cfg.JWTSecret)

	db, err := config.InitDB(cfg.MysqlDSN)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 存储层
	users := services.NewUserStore(db)
	rooms := services.NewRoomStore(db)
	messages := services.NewMessageStore(db)
	notifications := services.NewNotificationStore(db)

	// 在线表由网关持有，不做全局单例
	hub := services.NewHub()
	broadcaster := services.NewBroadcaster(hub, rooms)
	router := services.NewRouter(hub, rooms, messages, notifications, broadcaster)
	gateway := services.NewGateway(hub, router, rooms, verifier(users), cfg.AuthGrace)

	r := routes.RegisterRoutes(&routes.Controllers{
		Users:          &controllers.UserController{Users: users},
		Rooms:          &controllers.RoomController{Rooms: rooms, Messages: messages},
		Reactions:      &controllers.ReactionController{Rooms: rooms, Messages: messages, Broadcaster: broadcaster},
		Notifications:  &controllers.NotificationController{Notifications: notifications, Broadcaster: broadcaster},
		Admin:          &controllers.AdminController{Users: users, Hub: hub},
		WS:             &controllers.WSController{Gateway: gateway},
		AuthMiddleware: middlewares.TokenAuthMiddleware(users),
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// verifier 组装凭证校验协作方：token -> 用户，冻结账号不放行
func verifier(users *services.UserStore) services.CredentialVerifier {
	return func(token string) (*models.User, error) {
		userID, err := services.ParseToken(token)
		if err != nil {
			return nil, err
		}
		user, err := users.FindByID(userID)
		if err != nil {
			return nil, err
		}
		if user.Frozen {
			return nil, services.ErrInvalidToken
		}
		return user, nil
	}
}
