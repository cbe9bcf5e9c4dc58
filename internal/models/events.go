package models

import "encoding/json"

// Channel event names.
const (
	EventSendMessage      = "sendMessage"
	EventJoinGroup        = "joinGroup"
	EventSendGroupMessage = "sendGroupMessage"

	EventNewMessage                   = "newMessage"
	EventMessageSentConfirmation      = "messageSentConfirmation"
	EventSendMessageError             = "sendMessageError"
	EventNewGroupMessage              = "newGroupMessage"
	EventGroupMessageSentConfirmation = "groupMessageSentConfirmation"
	EventGroupJoinError               = "groupJoinError"
	EventGroupJoined                  = "groupJoined"
)

// Envelope frames every event on the push channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Event is an outbound push-channel event.
type Event interface {
	EventName() string
}

// NewEnvelope encodes ev into its wire frame.
func NewEnvelope(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: ev.EventName(), Data: data})
}

// Inbound payloads.

type SendMessageEvent struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content"`
}

type JoinGroupEvent struct {
	GroupID string `json:"groupId" validate:"required"`
}

type SendGroupMessageEvent struct {
	GroupID          string `json:"groupId" validate:"required"`
	Content          string `json:"content"`
	CorrelationToken string `json:"correlationToken" validate:"max=256"`
}

// Outbound payloads.

type NewMessage PrivateMessage

func (NewMessage) EventName() string { return EventNewMessage }

type MessageSentConfirmation PrivateMessage

func (MessageSentConfirmation) EventName() string { return EventMessageSentConfirmation }

type NewGroupMessage GroupMessage

func (NewGroupMessage) EventName() string { return EventNewGroupMessage }

type GroupMessageSentConfirmation struct {
	CorrelationToken string       `json:"correlationToken"`
	Message          GroupMessage `json:"message"`
}

func (GroupMessageSentConfirmation) EventName() string { return EventGroupMessageSentConfirmation }

type SendMessageError struct {
	Message          string `json:"message"`
	GroupID          string `json:"groupId,omitempty"`
	CorrelationToken string `json:"correlationToken,omitempty"`
}

func (SendMessageError) EventName() string { return EventSendMessageError }

type GroupJoinError struct {
	GroupID string `json:"groupId"`
	Message string `json:"message"`
}

func (GroupJoinError) EventName() string { return EventGroupJoinError }

type GroupJoined struct {
	GroupID string `json:"groupId"`
}

func (GroupJoined) EventName() string { return EventGroupJoined }
