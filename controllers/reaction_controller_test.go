package controllers

import (
	"net/http"
	"testing"

	"chat-gateway/models"
	"chat-gateway/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupReactionTest(t *testing.T, db *gorm.DB) (*ReactionController, *models.User, *models.Message) {
	t.Helper()
	user := models.User{Username: "reactor", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	rooms := services.NewRoomStore(db)
	messages := services.NewMessageStore(db)
	room, err := rooms.Create("room", "group", user.ID, nil)
	if err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	msg, _, err := messages.CreateWithNotifications(services.CreateMessageInput{
		RoomID: room.ID, SenderID: user.ID, Content: "react here",
	})
	if err != nil {
		t.Fatalf("failed to create message: %v", err)
	}

	hub := services.NewHub()
	rc := &ReactionController{
		Rooms:       rooms,
		Messages:    messages,
		Broadcaster: services.NewBroadcaster(hub, rooms),
	}
	return rc, &user, msg
}

func TestReactionAdd_IdempotentOverREST(t *testing.T) {
	db := setupTestDB(t)
	rc, user, msg := setupReactionTest(t, db)
	params := gin.Params{{Key: "message_id", Value: msg.ID}}

	for i := 0; i < 2; i++ {
		c, w := newJSONContext(t, user, `{"emoji":"👍"}`, params)
		rc.Add(c)
		if w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d (%s)", i, w.Code, w.Body.String())
		}
	}

	var count int64
	db.Model(&models.Reaction{}).Where("message_id = ?", msg.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 stored reaction after duplicate add, got %d", count)
	}

	// 删除不存在的回应也是 200 空操作
	c, w := newJSONContext(t, user, `{"emoji":"🔥"}`, params)
	rc.Remove(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for absent removal, got %d", w.Code)
	}
}

func TestReactionAdd_NonMemberForbidden(t *testing.T) {
	db := setupTestDB(t)
	rc, _, msg := setupReactionTest(t, db)

	outsider := models.User{Username: "outsider", Password: "x"}
	if err := db.Create(&outsider).Error; err != nil {
		t.Fatalf("failed to create outsider: %v", err)
	}

	c, w := newJSONContext(t, &outsider, `{"emoji":"👍"}`, gin.Params{{Key: "message_id", Value: msg.ID}})
	rc.Add(c)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-member, got %d", w.Code)
	}
}

func TestReactionAdd_MissingMessage(t *testing.T) {
	db := setupTestDB(t)
	rc, user, _ := setupReactionTest(t, db)

	c, w := newJSONContext(t, user, `{"emoji":"👍"}`, gin.Params{{Key: "message_id", Value: "no-such-id"}})
	rc.Add(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing message, got %d", w.Code)
	}
}
