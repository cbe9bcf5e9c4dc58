package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"groupchat/internal/apperrors"
	"groupchat/internal/authz"
	"groupchat/internal/models"
	"groupchat/internal/repositories"
)

// DefaultMaxGroupSize caps admin plus members.
const DefaultMaxGroupSize = 3

// MembershipListener is told when a membership row disappears so live room
// subscriptions can follow.
type MembershipListener interface {
	MemberRemoved(groupID, userID string)
}

type GroupService struct {
	groups     repositories.GroupRepository
	users      repositories.UserRepository
	messages   repositories.MessageRepository
	authorizer *authz.MembershipAuthorizer
	listener   MembershipListener
	maxSize    int
	log        *slog.Logger
}

func NewGroupService(
	groups repositories.GroupRepository,
	users repositories.UserRepository,
	messages repositories.MessageRepository,
	authorizer *authz.MembershipAuthorizer,
	listener MembershipListener,
	maxSize int,
	log *slog.Logger,
) *GroupService {
	if maxSize <= 0 {
		maxSize = DefaultMaxGroupSize
	}
	return &GroupService{
		groups:     groups,
		users:      users,
		messages:   messages,
		authorizer: authorizer,
		listener:   listener,
		maxSize:    maxSize,
		log:        log.With(slog.String("component", "group_service")),
	}
}

// CreateGroup creates a group administered by adminID. The admin is always a
// member; duplicates and the admin's own id are dropped from memberIDs before
// the size cap is applied.
func (s *GroupService) CreateGroup(ctx context.Context, adminID, name string, memberIDs []string) (*models.GroupDetails, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", apperrors.ErrInvalidInput)
	}
	if memberIDs == nil {
		return nil, fmt.Errorf("%w: member IDs must be provided as an array", apperrors.ErrInvalidInput)
	}

	unique := lo.Uniq(lo.Without(lo.Compact(memberIDs), adminID))
	if len(unique)+1 > s.maxSize {
		return nil, apperrors.ErrGroupTooLarge
	}

	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrUnknownUser
		}
		return nil, fmt.Errorf("%w: lookup admin: %w", apperrors.ErrInternal, err)
	}
	members, err := s.users.ListByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup members: %w", apperrors.ErrInternal, err)
	}
	if len(members) != len(unique) {
		return nil, apperrors.ErrUnknownMember
	}

	group := &models.Group{
		ID:      uuid.NewString(),
		Name:    name,
		AdminID: adminID,
	}
	if err := s.groups.CreateWithMembers(ctx, group, append([]string{adminID}, unique...)); err != nil {
		return nil, fmt.Errorf("%w: create group: %w", apperrors.ErrInternal, err)
	}
	s.log.Info("group created", slog.String("groupID", group.ID), slog.String("adminID", adminID), slog.Int("members", len(unique)+1))

	summaries := append([]models.UserSummary{admin.Summary()}, lo.Map(members, func(u *models.User, _ int) models.UserSummary {
		return u.Summary()
	})...)
	return &models.GroupDetails{Group: *group, Admin: admin.Summary(), Members: summaries}, nil
}

func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	groups, err := s.groups.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list groups: %w", apperrors.ErrInternal, err)
	}
	return groups, nil
}

// GetGroup returns the group with its admin and members. Only members may
// read it.
func (s *GroupService) GetGroup(ctx context.Context, userID, groupID string) (*models.GroupDetails, error) {
	if err := s.authorizer.CheckGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: load group: %w", apperrors.ErrInternal, err)
	}
	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: list members: %w", apperrors.ErrInternal, err)
	}
	details := &models.GroupDetails{Group: *group, Members: members, Admin: models.UserSummary{ID: group.AdminID}}
	if admin, ok := lo.Find(members, func(m models.UserSummary) bool { return m.ID == group.AdminID }); ok {
		details.Admin = admin
	}
	return details, nil
}

func (s *GroupService) GetMessages(ctx context.Context, userID, groupID string, limit, offset int) ([]*models.MessageView, error) {
	if err := s.authorizer.CheckGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}
	views, err := s.messages.ListGroup(ctx, groupID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list group messages: %w", apperrors.ErrInternal, err)
	}
	return views, nil
}

// RemoveMember deletes userID's membership. Only the admin may do it, and
// never to themselves.
func (s *GroupService) RemoveMember(ctx context.Context, adminID, groupID, userID string) error {
	if userID == adminID {
		return apperrors.ErrAdminSelfRemoval
	}
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrGroupNotFound
		}
		return fmt.Errorf("%w: load group: %w", apperrors.ErrInternal, err)
	}
	if group.AdminID != adminID {
		return apperrors.ErrNotGroupAdmin
	}
	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return fmt.Errorf("%w: remove member: %w", apperrors.ErrInternal, err)
	}
	s.log.Info("member removed", slog.String("groupID", groupID), slog.String("userID", userID))

	if s.listener != nil {
		s.listener.MemberRemoved(groupID, userID)
	}
	return nil
}
