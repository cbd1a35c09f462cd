package controllers

import (
	"net/http"

	"chat-gateway/middlewares"
	"chat-gateway/services"
	"chat-gateway/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Rooms    *services.RoomStore
	Messages *services.MessageStore
}

// CreateRoom 创建房间，创建者自动成为成员
func (rc *RoomController) CreateRoom(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		Name      string `json:"name"`
		Type      string `json:"type" binding:"required,oneof=group direct"`
		MemberIDs []uint `json:"member_ids"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// 私聊必须恰好两个人
	if input.Type == "direct" && len(input.MemberIDs) != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Direct room requires exactly one other member"})
		return
	}

	room, err := rc.Rooms.Create(input.Name, input.Type, user.ID, input.MemberIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}
	utils.RespondSuccess(c, room, nil)
}

// JoinRoom 加入房间，重复加入是空操作
func (rc *RoomController) JoinRoom(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	roomID := c.Param("room_id")

	if err := rc.Rooms.AddMember(roomID, user.ID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	utils.RespondSuccess(c, gin.H{"room_id": roomID}, nil)
}

// ListMessages 拉取房间历史消息，只对成员开放
func (rc *RoomController) ListMessages(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	roomID := c.Param("room_id")

	isMember, err := rc.Rooms.IsMember(user.ID, roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this room"})
		return
	}

	messages, err := rc.Messages.ListByRoom(roomID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	utils.RespondSuccess(c, messages, nil)
}
