package middlewares

import (
	"net/http"
	"strings"

	"chat-gateway/models"
	"chat-gateway/services"

	"github.com/gin-gonic/gin"
)

// TokenAuthMiddleware 校验 Bearer token 并把用户放进上下文
func TokenAuthMiddleware(users *services.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		userID, err := services.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		if user.Frozen {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is frozen"})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// CurrentUser 从上下文取出认证用户
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
