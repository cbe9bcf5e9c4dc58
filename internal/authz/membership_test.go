package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"groupchat/internal/apperrors"
	"groupchat/internal/authz"
	"groupchat/internal/models"
	"groupchat/internal/repositories"
	"groupchat/internal/repositories/mocks"
)

func newAuthorizer(t *testing.T) (*authz.MembershipAuthorizer, *mocks.MockUserRepository, *mocks.MockGroupRepository) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	groups := mocks.NewMockGroupRepository(ctrl)
	return authz.NewMembershipAuthorizer(users, groups), users, groups
}

func TestCanSendPrivate(t *testing.T) {
	ctx := context.Background()

	t.Run("existing receiver", func(t *testing.T) {
		a, users, _ := newAuthorizer(t)
		users.EXPECT().GetByID(ctx, "b").Return(&models.User{ID: "b"}, nil)
		ok, err := a.CanSendPrivate(ctx, "a", "b")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("missing receiver is a plain no", func(t *testing.T) {
		a, users, _ := newAuthorizer(t)
		users.EXPECT().GetByID(ctx, "b").Return(nil, repositories.ErrNotFound)
		ok, err := a.CanSendPrivate(ctx, "a", "b")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("empty receiver skips the store", func(t *testing.T) {
		a, _, _ := newAuthorizer(t)
		ok, err := a.CanSendPrivate(ctx, "a", "")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("store failure", func(t *testing.T) {
		a, users, _ := newAuthorizer(t)
		users.EXPECT().GetByID(ctx, "b").Return(nil, errors.New("conn reset"))
		_, err := a.CanSendPrivate(ctx, "a", "b")
		require.ErrorIs(t, err, apperrors.ErrInternal)
	})
}

func TestCheckGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("member", func(t *testing.T) {
		a, _, groups := newAuthorizer(t)
		groups.EXPECT().GetByID(ctx, "g1").Return(&models.Group{ID: "g1"}, nil)
		groups.EXPECT().IsMember(ctx, "g1", "a").Return(true, nil)
		require.NoError(t, a.CheckGroup(ctx, "a", "g1"))
	})

	t.Run("missing group wins over membership", func(t *testing.T) {
		a, _, groups := newAuthorizer(t)
		groups.EXPECT().GetByID(ctx, "g1").Return(nil, repositories.ErrNotFound)
		require.ErrorIs(t, a.CheckGroup(ctx, "a", "g1"), apperrors.ErrGroupNotFound)
	})

	t.Run("non member", func(t *testing.T) {
		a, _, groups := newAuthorizer(t)
		groups.EXPECT().GetByID(ctx, "g1").Return(&models.Group{ID: "g1"}, nil)
		groups.EXPECT().IsMember(ctx, "g1", "c").Return(false, nil)
		require.ErrorIs(t, a.CheckGroup(ctx, "c", "g1"), apperrors.ErrNotAMember)
	})

	t.Run("empty group id", func(t *testing.T) {
		a, _, _ := newAuthorizer(t)
		require.ErrorIs(t, a.CheckGroup(ctx, "a", ""), apperrors.ErrGroupNotFound)
	})
}

func TestCanAccessGroup(t *testing.T) {
	ctx := context.Background()
	a, _, groups := newAuthorizer(t)

	groups.EXPECT().GetByID(ctx, "g1").Return(&models.Group{ID: "g1"}, nil).AnyTimes()
	groups.EXPECT().IsMember(ctx, "g1", "a").Return(true, nil)
	groups.EXPECT().IsMember(ctx, "g1", "c").Return(false, nil)
	groups.EXPECT().IsMember(ctx, "g1", "x").Return(false, errors.New("timeout"))

	ok, err := a.CanAccessGroup(ctx, "a", "g1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = a.CanAccessGroup(ctx, "c", "g1")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = a.CanAccessGroup(ctx, "x", "g1")
	require.ErrorIs(t, err, apperrors.ErrInternal)
}
