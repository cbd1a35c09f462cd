package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"chat-gateway/models"
)

// 客户端 -> 服务端事件
const (
	EventAuth          = "auth"
	EventSendMessage   = "send_message"
	EventEditMessage   = "edit_message"
	EventDeleteMessage = "delete_message"
	EventStartTyping   = "start_typing"
	EventStopTyping    = "stop_typing"
)

// 服务端 -> 客户端事件
const (
	EventAuthenticated        = "authenticated"
	EventError                = "error"
	EventNewMessage           = "new_message"
	EventMessageEdited        = "message_edited"
	EventMessageDeleted       = "message_deleted"
	EventReactionChanged      = "reaction_changed"
	EventUserTyping           = "user_typing"
	EventUserStoppedTyping    = "user_stopped_typing"
	EventNewNotification      = "new_notification"
	EventNotificationsUpdated = "notifications_updated"
)

// 错误帧里的 code
const (
	CodeProtocolError    = "protocol_error"
	CodeUnauthorized     = "unauthorized"
	CodeNotAllowed       = "not_allowed"
	CodePersistenceError = "persistence_error"
)

// Envelope 统一帧格式 {event, payload}
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

var errUnknownEvent = errors.New("unknown event")

// Command 入站命令的封闭集合，新增命令必须在 decodeCommand 里补分支
type Command interface {
	isCommand()
}

type AuthCommand struct {
	Token string `json:"token"`
}

type SendMessageCommand struct {
	RoomID           string  `json:"room_id"`
	Content          string  `json:"content"`
	ReplyTo          *string `json:"reply_to,omitempty"`
	MentionedUserIDs []uint  `json:"mentioned_user_ids,omitempty"`
}

type EditMessageCommand struct {
	MessageID  string `json:"message_id"`
	NewContent string `json:"new_content"`
}

type DeleteMessageCommand struct {
	MessageID string `json:"message_id"`
}

type StartTypingCommand struct {
	RoomID string `json:"room_id"`
}

type StopTypingCommand struct {
	RoomID string `json:"room_id"`
}

func (AuthCommand) isCommand()          {}
func (SendMessageCommand) isCommand()   {}
func (EditMessageCommand) isCommand()   {}
func (DeleteMessageCommand) isCommand() {}
func (StartTypingCommand) isCommand()   {}
func (StopTypingCommand) isCommand()    {}

// decodeCommand 把入站帧解码成具体命令
func decodeCommand(data []byte) (Command, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	switch env.Event {
	case EventAuth:
		var cmd AuthCommand
		if err := json.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return cmd, nil
	case EventSendMessage:
		var cmd SendMessageCommand
		if err := json.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return cmd, nil
	case EventEditMessage:
		var cmd EditMessageCommand
		if err := json.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return cmd, nil
	case EventDeleteMessage:
		var cmd DeleteMessageCommand
		if err := json.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return cmd, nil
	case EventStartTyping:
		var cmd StartTypingCommand
		if err := json.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return cmd, nil
	case EventStopTyping:
		var cmd StopTypingCommand
		if err := json.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return cmd, nil
	default:
		return nil, errUnknownEvent
	}
}

// encodeEvent 编码出站帧
func encodeEvent(event string, payload interface{}) []byte {
	data, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		log.Printf("Failed to marshal event %s: %v", event, err)
		return []byte(`{"event":"error","payload":{"code":"persistence_error","message":"encoding failed"}}`)
	}
	return data
}

// 出站帧载荷

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AuthenticatedPayload struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type MessageDeletedPayload struct {
	MessageID string `json:"message_id"`
	RoomID    string `json:"room_id"`
}

type TypingPayload struct {
	RoomID   string `json:"room_id"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type ReactionChangedPayload struct {
	MessageID string          `json:"message_id"`
	RoomID    string          `json:"room_id"`
	Reactions []ReactionCount `json:"reactions"`
}

type NewNotificationPayload struct {
	Notification models.Notification `json:"notification"`
	UnreadCount  int64               `json:"unread_count"`
}

type NotificationsUpdatedPayload struct {
	UnreadCount int64    `json:"unread_count"`
	ClearedIDs  []string `json:"cleared_ids"`
}
