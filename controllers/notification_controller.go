package controllers

import (
	"net/http"

	"chat-gateway/middlewares"
	"chat-gateway/services"
	"chat-gateway/utils"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Notifications *services.NotificationStore
	Broadcaster   *services.Broadcaster
}

func (nc *NotificationController) List(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	onlyUnread := c.Query("unread") == "true"
	notifs, err := nc.Notifications.List(user.ID, onlyUnread)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	count, err := nc.Notifications.UnreadCount(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	utils.RespondSuccess(c, notifs, gin.H{"unread_count": count})
}

// Clear 清除通知，幂等；只有真正发生变化才推 notifications_updated，且只推给本人
func (nc *NotificationController) Clear(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clearedIDs, err := nc.Notifications.Clear(user.ID, input.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear notifications"})
		return
	}

	count, err := nc.Notifications.UnreadCount(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear notifications"})
		return
	}

	if len(clearedIDs) > 0 {
		nc.Broadcaster.ToUser(user.ID, services.EventNotificationsUpdated, services.NotificationsUpdatedPayload{
			UnreadCount: count,
			ClearedIDs:  clearedIDs,
		})
	}

	utils.RespondSuccess(c, gin.H{"cleared_ids": clearedIDs, "unread_count": count}, nil)
}
