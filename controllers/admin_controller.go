package controllers

import (
	"net/http"
	"strconv"

	"chat-gateway/middlewares"
	"chat-gateway/services"
	"chat-gateway/utils"

	"github.com/gin-gonic/gin"
)

// AdminController 账号治理：冻结、强制下线
type AdminController struct {
	Users *services.UserStore
	Hub   *services.Hub
}

func (ac *AdminController) requireAdmin(c *gin.Context) (uint, bool) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return 0, false
	}
	if !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return 0, false
	}
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return 0, false
	}
	return uint(targetID), true
}

// FreezeUser 冻结账号并立即踢下线
func (ac *AdminController) FreezeUser(c *gin.Context) {
	targetID, ok := ac.requireAdmin(c)
	if !ok {
		return
	}

	if err := ac.Users.Freeze(targetID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	disconnected := ac.Hub.DisconnectUser(targetID)
	utils.RespondSuccess(c, gin.H{"user_id": targetID, "disconnected": disconnected}, nil)
}

// DisconnectUser 只强制断开连接，不改账号状态
func (ac *AdminController) DisconnectUser(c *gin.Context) {
	targetID, ok := ac.requireAdmin(c)
	if !ok {
		return
	}
	disconnected := ac.Hub.DisconnectUser(targetID)
	utils.RespondSuccess(c, gin.H{"user_id": targetID, "disconnected": disconnected}, nil)
}
