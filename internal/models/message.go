package models

import "time"

// Message is a persisted chat message. Exactly one of ReceiverID and GroupID
// is set, matching IsGroupMessage.
type Message struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	IsGroupMessage bool      `json:"isGroupMessage"`
	SenderID       string    `json:"senderId"`
	ReceiverID     *string   `json:"receiverId,omitempty"`
	GroupID        *string   `json:"groupId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MessageView is a history row with the parties resolved to summaries.
type MessageView struct {
	Message
	Sender   UserSummary  `json:"sender"`
	Receiver *UserSummary `json:"receiver,omitempty"`
}

// PrivateMessage is the delivery payload of a 1:1 message.
type PrivateMessage struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	CreatedAt  time.Time `json:"createdAt"`
	SenderName string    `json:"senderName"`
}

// GroupMessage is the delivery payload of a group message. It has no
// receiver: the fan-out target is the group room.
type GroupMessage struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	SenderID   string    `json:"senderId"`
	GroupID    string    `json:"groupId"`
	CreatedAt  time.Time `json:"createdAt"`
	SenderName string    `json:"senderName"`
}

type SendPrivateRequest struct {
	ReceiverUser string `json:"receiverUser" binding:"required"`
	Content      string `json:"content" binding:"required"`
}

type SendGroupRequest struct {
	GroupID string `json:"groupId" binding:"required"`
	Content string `json:"content" binding:"required"`
}
