package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"groupchat/internal/models"
	"groupchat/internal/services"
)

type GroupHandler struct {
	groups   *services.GroupService
	delivery *services.DeliveryService
	log      *slog.Logger
}

func NewGroupHandler(groups *services.GroupService, delivery *services.DeliveryService, log *slog.Logger) *GroupHandler {
	return &GroupHandler{groups: groups, delivery: delivery, log: log.With(slog.String("component", "group_handler"))}
}

// @Summary      Create a group
// @Description  The caller becomes admin. Admin plus members may not exceed the group size cap.
// @Tags         Group
// @Accept       json
// @Produce      json
// @Param        group  body      models.CreateGroupRequest  true  "Group"
// @Success      201    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /chat/create-group [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	details, err := h.groups.CreateGroup(c.Request.Context(), identity(c).UserID, req.GroupName, req.MemberIDs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Group Created!", "data": details})
}

// @Summary      List groups
// @Description  Groups the caller belongs to
// @Tags         Group
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /chat/get-all-group [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groups.ListGroups(c.Request.Context(), identity(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": nonNil(groups)})
}

// @Summary      Send a group message
// @Tags         Group
// @Accept       json
// @Produce      json
// @Param        message  body      models.SendGroupRequest  true  "Message"
// @Success      201      {object}  map[string]interface{}
// @Failure      403      {object}  map[string]interface{}
// @Failure      404      {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /chat/post-message-group [post]
func (h *GroupHandler) SendMessage(c *gin.Context) {
	var req models.SendGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	msg, err := h.delivery.SendGroup(c.Request.Context(), identity(c), req.GroupID, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Message Send!", "data": msg})
}

// @Summary      Group history
// @Tags         Group
// @Produce      json
// @Param        groupId  query     string  true   "Group id"
// @Param        limit    query     int     false  "Page size"
// @Param        offset   query     int     false  "Page offset"
// @Success      200      {object}  map[string]interface{}
// @Failure      403      {object}  map[string]interface{}
// @Failure      404      {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /chat/get-message-group [get]
func (h *GroupHandler) GetMessages(c *gin.Context) {
	groupID := c.Query("groupId")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "groupId is required"})
		return
	}
	limit, offset := page(c)
	views, err := h.groups.GetMessages(c.Request.Context(), identity(c).UserID, groupID, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": nonNil(views)})
}

// @Summary      Remove a group member
// @Description  Admin only. The admin cannot remove themselves.
// @Tags         Group
// @Accept       json
// @Produce      json
// @Param        member  body      models.GroupMemberRequest  true  "Member"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]interface{}
// @Failure      403     {object}  map[string]interface{}
// @Failure      404     {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /chat/remove-group-member [post]
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	var req models.GroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.groups.RemoveMember(c.Request.Context(), identity(c).UserID, req.GroupID, req.UserID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Member has been removed"})
}

// @Summary      Get a group
// @Description  Group with its admin and members. Members only.
// @Tags         Group
// @Accept       json
// @Produce      json
// @Param        group  body      models.GroupRequest  true  "Group"
// @Success      200    {object}  map[string]interface{}
// @Failure      403    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /chat/get-group [post]
func (h *GroupHandler) GetGroup(c *gin.Context) {
	var req models.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	details, err := h.groups.GetGroup(c.Request.Context(), identity(c).UserID, req.GroupID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "groupData": details})
}
