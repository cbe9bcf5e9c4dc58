package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"groupchat/internal/models"
	"groupchat/internal/services"
)

// ChatHandler serves private conversations over HTTP. Sends go through the
// same delivery engine as the websocket channel.
type ChatHandler struct {
	chats    *services.ChatService
	delivery *services.DeliveryService
	log      *slog.Logger
}

func NewChatHandler(chats *services.ChatService, delivery *services.DeliveryService, log *slog.Logger) *ChatHandler {
	return &ChatHandler{chats: chats, delivery: delivery, log: log.With(slog.String("component", "chat_handler"))}
}

// @Summary      Private history
// @Description  Messages exchanged with receiverUser in both directions, oldest first
// @Tags         Chat
// @Produce      json
// @Param        receiverUser  query     string  true   "Other user id"
// @Param        limit         query     int     false  "Page size"
// @Param        offset        query     int     false  "Page offset"
// @Success      200           {object}  map[string]interface{}
// @Failure      404           {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /chat/get-messages [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	partnerID := c.Query("receiverUser")
	if partnerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "receiverUser is required"})
		return
	}
	limit, offset := page(c)
	views, err := h.chats.GetConversation(c.Request.Context(), identity(c).UserID, partnerID, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "chatData": nonNil(views)})
}

// ListPartners returns the users the caller has a private conversation with.
//
// @Summary      Private conversation partners
// @Description  Users the caller has exchanged private messages with
// @Tags         Chat
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /chat/get-private-chat [get]
func (h *ChatHandler) ListPartners(c *gin.Context) {
	partners, err := h.chats.ListPartners(c.Request.Context(), identity(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": nonNil(partners)})
}

// @Summary      Send a private message
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        message  body      models.SendPrivateRequest  true  "Message"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]interface{}
// @Failure      404      {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /chat/post-messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.SendPrivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	msg, err := h.delivery.SendPrivate(c.Request.Context(), identity(c), req.ReceiverUser, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Message Send!", "data": msg})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
