package models

import "time"

type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AdminID   string    `json:"adminId"`
	CreatedAt time.Time `json:"createdAt"`
}

// GroupDetails is a group with its admin and member list resolved.
type GroupDetails struct {
	Group
	Admin   UserSummary   `json:"admin"`
	Members []UserSummary `json:"members"`
}

type CreateGroupRequest struct {
	GroupName string   `json:"groupName" binding:"required"`
	MemberIDs []string `json:"memberIds"`
}

type GroupMemberRequest struct {
	UserID  string `json:"userId" binding:"required"`
	GroupID string `json:"groupId" binding:"required"`
}

type GroupRequest struct {
	GroupID string `json:"groupId" binding:"required"`
}
