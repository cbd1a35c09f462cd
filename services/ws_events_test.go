package services

import (
	"encoding/json"
	"testing"
)

func encodeFrame(t *testing.T, event string, payload interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	data, err := json.Marshal(Envelope{Event: event, Payload: raw})
	if err != nil {
		t.Fatalf("failed to marshal envelope: %v", err)
	}
	return data
}

func TestDecodeCommand_AllKinds(t *testing.T) {
	replyTo := "msg-1"

	cases := []struct {
		event   string
		payload interface{}
		want    Command
	}{
		{EventAuth, AuthCommand{Token: "t"}, AuthCommand{Token: "t"}},
		{EventSendMessage,
			SendMessageCommand{RoomID: "r", Content: "hi", ReplyTo: &replyTo, MentionedUserIDs: []uint{2}},
			SendMessageCommand{RoomID: "r", Content: "hi", ReplyTo: &replyTo, MentionedUserIDs: []uint{2}}},
		{EventEditMessage, EditMessageCommand{MessageID: "m", NewContent: "x"}, EditMessageCommand{MessageID: "m", NewContent: "x"}},
		{EventDeleteMessage, DeleteMessageCommand{MessageID: "m"}, DeleteMessageCommand{MessageID: "m"}},
		{EventStartTyping, StartTypingCommand{RoomID: "r"}, StartTypingCommand{RoomID: "r"}},
		{EventStopTyping, StopTypingCommand{RoomID: "r"}, StopTypingCommand{RoomID: "r"}},
	}

	for _, tc := range cases {
		t.Run(tc.event, func(t *testing.T) {
			cmd, err := decodeCommand(encodeFrame(t, tc.event, tc.payload))
			if err != nil {
				t.Fatalf("decodeCommand() error = %v", err)
			}
			switch got := cmd.(type) {
			case SendMessageCommand:
				want := tc.want.(SendMessageCommand)
				if got.RoomID != want.RoomID || got.Content != want.Content ||
					*got.ReplyTo != *want.ReplyTo || len(got.MentionedUserIDs) != 1 {
					t.Errorf("decoded %+v, want %+v", got, want)
				}
			default:
				if got != tc.want {
					t.Errorf("decoded %+v, want %+v", got, tc.want)
				}
			}
		})
	}
}

func TestDecodeCommand_UnknownEvent(t *testing.T) {
	_, err := decodeCommand(encodeFrame(t, "self_destruct", map[string]string{}))
	if err != errUnknownEvent {
		t.Fatalf("expected errUnknownEvent, got %v", err)
	}
}

func TestDecodeCommand_MalformedFrame(t *testing.T) {
	if _, err := decodeCommand([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed frame")
	}
	if _, err := decodeCommand([]byte(`{"event":"send_message","payload":"not an object"}`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
