// Package authz decides who may read or write a conversation.
package authz

import (
	"context"
	"errors"
	"fmt"

	"groupchat/internal/apperrors"
	"groupchat/internal/repositories"
)

// MembershipAuthorizer answers conversation access questions from the record
// store. A missing record is a negative answer, never an error; the only
// errors returned wrap apperrors.ErrInternal.
type MembershipAuthorizer struct {
	users  repositories.UserRepository
	groups repositories.GroupRepository
}

func NewMembershipAuthorizer(users repositories.UserRepository, groups repositories.GroupRepository) *MembershipAuthorizer {
	return &MembershipAuthorizer{users: users, groups: groups}
}

// CanSendPrivate reports whether receiverID is an existing user. Any
// authenticated sender may message any existing user.
func (a *MembershipAuthorizer) CanSendPrivate(ctx context.Context, senderID, receiverID string) (bool, error) {
	if receiverID == "" {
		return false, nil
	}
	if _, err := a.users.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: lookup receiver %s: %w", apperrors.ErrInternal, receiverID, err)
	}
	return true, nil
}

// CheckGroup returns nil when userID may access groupID, otherwise
// ErrGroupNotFound or ErrNotAMember, checked in that order.
func (a *MembershipAuthorizer) CheckGroup(ctx context.Context, userID, groupID string) error {
	if groupID == "" {
		return apperrors.ErrGroupNotFound
	}
	if _, err := a.groups.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrGroupNotFound
		}
		return fmt.Errorf("%w: lookup group %s: %w", apperrors.ErrInternal, groupID, err)
	}
	ok, err := a.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("%w: lookup membership %s/%s: %w", apperrors.ErrInternal, groupID, userID, err)
	}
	if !ok {
		return apperrors.ErrNotAMember
	}
	return nil
}

// CanAccessGroup is the boolean form of CheckGroup. Reads and writes share
// this single permission level.
func (a *MembershipAuthorizer) CanAccessGroup(ctx context.Context, userID, groupID string) (bool, error) {
	err := a.CheckGroup(ctx, userID, groupID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrGroupNotFound), errors.Is(err, apperrors.ErrNotAMember):
		return false, nil
	default:
		return false, err
	}
}
