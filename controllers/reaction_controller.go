package controllers

import (
	"net/http"

	"chat-gateway/middlewares"
	"chat-gateway/services"
	"chat-gateway/utils"

	"github.com/gin-gonic/gin"
)

// ReactionController 表情回应走 REST 边界，但广播复用同一个分发器
type ReactionController struct {
	Rooms       *services.RoomStore
	Messages    *services.MessageStore
	Broadcaster *services.Broadcaster
}

func (rc *ReactionController) Add(c *gin.Context) {
	rc.mutate(c, true)
}

func (rc *ReactionController) Remove(c *gin.Context) {
	rc.mutate(c, false)
}

func (rc *ReactionController) mutate(c *gin.Context, add bool) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	messageID := c.Param("message_id")

	var input struct {
		Emoji string `json:"emoji" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := rc.Messages.Get(messageID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	isMember, err := rc.Rooms.IsMember(user.ID, msg.RoomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reaction"})
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this room"})
		return
	}

	// 重复添加 / 删除不存在的回应都是空操作
	if add {
		err = rc.Messages.AddReaction(messageID, user.ID, input.Emoji)
	} else {
		err = rc.Messages.RemoveReaction(messageID, user.ID, input.Emoji)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reaction"})
		return
	}

	summary, err := rc.Messages.ReactionSummary(messageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reaction"})
		return
	}

	rc.Broadcaster.ToRoom(msg.RoomID, services.EventReactionChanged, services.ReactionChangedPayload{
		MessageID: messageID,
		RoomID:    msg.RoomID,
		Reactions: summary,
	}, 0)

	utils.RespondSuccess(c, summary, nil)
}
