package services

import "log"

// Router 命令路由，只处理认证后的命令
type Router struct {
	hub           *Hub
	rooms         *RoomStore
	messages      *MessageStore
	notifications *NotificationStore
	broadcaster   *Broadcaster
}

func NewRouter(hub *Hub, rooms *RoomStore, messages *MessageStore, notifications *NotificationStore, broadcaster *Broadcaster) *Router {
	return &Router{
		hub:           hub,
		rooms:         rooms,
		messages:      messages,
		notifications: notifications,
		broadcaster:   broadcaster,
	}
}

// Handle 按命令类型分发，集合是封闭的
func (r *Router) Handle(s *Session, cmd Command) {
	switch c := cmd.(type) {
	case AuthCommand:
		// 已认证连接重复 auth 没有意义
		s.pushError(CodeProtocolError, "already authenticated")
	case SendMessageCommand:
		r.handleSendMessage(s, c)
	case EditMessageCommand:
		r.handleEditMessage(s, c)
	case DeleteMessageCommand:
		r.handleDeleteMessage(s, c)
	case StartTypingCommand:
		r.handleTyping(s, c.RoomID, true)
	case StopTypingCommand:
		r.handleTyping(s, c.RoomID, false)
	}
}

func (r *Router) handleSendMessage(s *Session, cmd SendMessageCommand) {
	// 发送前实时校验成员身份，不用认证时的快照
	ok, err := r.rooms.IsMember(s.UserID, cmd.RoomID)
	if err != nil {
		log.Printf("Membership check failed for user %d room %s: %v", s.UserID, cmd.RoomID, err)
		s.pushError(CodePersistenceError, "failed to send message")
		return
	}
	if !ok {
		s.pushError(CodeUnauthorized, "not a member of this room")
		return
	}

	msg, notifs, err := r.messages.CreateWithNotifications(CreateMessageInput{
		RoomID:           cmd.RoomID,
		SenderID:         s.UserID,
		Content:          cmd.Content,
		ReplyToID:        cmd.ReplyTo,
		MentionedUserIDs: cmd.MentionedUserIDs,
	})
	if err != nil {
		log.Printf("Failed to persist message from user %d: %v", s.UserID, err)
		s.pushError(CodePersistenceError, "failed to send message")
		return
	}

	// 事务提交之后才允许广播
	r.broadcaster.ToRoom(msg.RoomID, EventNewMessage, msg, 0)

	// 通知走按用户通道，不看房间成员关系；离线收件人留存数据库行即可
	for _, n := range notifs {
		count, err := r.notifications.UnreadCount(n.RecipientID)
		if err != nil {
			log.Printf("Failed to count unread for user %d: %v", n.RecipientID, err)
			continue
		}
		r.broadcaster.ToUser(n.RecipientID, EventNewNotification, NewNotificationPayload{
			Notification: n,
			UnreadCount:  count,
		})
	}
}

func (r *Router) handleEditMessage(s *Session, cmd EditMessageCommand) {
	msg, err := r.messages.Edit(cmd.MessageID, s.UserID, cmd.NewContent)
	if err == ErrNotAllowed {
		s.pushError(CodeNotAllowed, ErrNotAllowed.Error())
		return
	}
	if err != nil {
		log.Printf("Failed to edit message %s: %v", cmd.MessageID, err)
		s.pushError(CodePersistenceError, "failed to edit message")
		return
	}
	r.broadcaster.ToRoom(msg.RoomID, EventMessageEdited, msg, 0)
}

func (r *Router) handleDeleteMessage(s *Session, cmd DeleteMessageCommand) {
	roomID, err := r.messages.SoftDelete(cmd.MessageID, s.UserID)
	if err == ErrNotAllowed {
		s.pushError(CodeNotAllowed, ErrNotAllowed.Error())
		return
	}
	if err != nil {
		log.Printf("Failed to delete message %s: %v", cmd.MessageID, err)
		s.pushError(CodePersistenceError, "failed to delete message")
		return
	}
	r.broadcaster.ToRoom(roomID, EventMessageDeleted, MessageDeletedPayload{
		MessageID: cmd.MessageID,
		RoomID:    roomID,
	}, 0)
}

// handleTyping 沿袭原有行为：广播前不做成员校验（见设计文档，补校验会改变可观测行为）
func (r *Router) handleTyping(s *Session, roomID string, start bool) {
	event := EventUserTyping
	if start {
		r.hub.StartTyping(roomID, s.UserID)
	} else {
		r.hub.StopTyping(roomID, s.UserID)
		event = EventUserStoppedTyping
	}
	r.broadcaster.ToRoom(roomID, event, TypingPayload{
		RoomID:   roomID,
		UserID:   s.UserID,
		Username: s.Username,
	}, s.UserID)
}
