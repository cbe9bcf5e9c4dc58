package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"groupchat/internal/models"
	"groupchat/internal/repositories"
	"groupchat/internal/repositories/memory"
)

func seed(t *testing.T, s *memory.Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, s.Users().Create(context.Background(), &models.User{ID: id, Name: "name-" + id, Email: id + "@example.com"}))
	}
}

func private(id, from, to string, at time.Time) *models.Message {
	return &models.Message{ID: id, Content: id, SenderID: from, ReceiverID: &to, CreatedAt: at}
}

func TestUsers_EmailUniqueIgnoringCase(t *testing.T) {
	req := require.New(t)
	s := memory.NewStore()
	seed(t, s, "a")

	err := s.Users().Create(context.Background(), &models.User{ID: "a2", Email: "A@EXAMPLE.COM"})
	req.ErrorIs(err, repositories.ErrDuplicate)

	u, err := s.Users().GetByEmail(context.Background(), "a@example.com")
	req.NoError(err)
	req.Equal("a", u.ID)

	_, err = s.Users().GetByID(context.Background(), "zzz")
	req.ErrorIs(err, repositories.ErrNotFound)
}

func TestMessages_PrivateHistoryBothDirectionsOldestFirst(t *testing.T) {
	req := require.New(t)
	s := memory.NewStore()
	seed(t, s, "a", "b", "c")
	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	req.NoError(s.Messages().Create(ctx, private("m3", "a", "b", t0.Add(2*time.Second))))
	req.NoError(s.Messages().Create(ctx, private("m1", "a", "b", t0)))
	req.NoError(s.Messages().Create(ctx, private("m2", "b", "a", t0.Add(time.Second))))
	req.NoError(s.Messages().Create(ctx, private("x", "a", "c", t0)))

	views, err := s.Messages().ListPrivate(ctx, "b", "a", 0, 0)
	req.NoError(err)
	req.Equal([]string{"m1", "m2", "m3"}, ids(views))
	req.Equal("name-b", views[1].Sender.Name)
	req.Equal("name-a", views[1].Receiver.Name)

	views, err = s.Messages().ListPrivate(ctx, "a", "b", 1, 1)
	req.NoError(err)
	req.Equal([]string{"m2"}, ids(views))

	partners, err := s.Messages().ListPartners(ctx, "a")
	req.NoError(err)
	req.Equal([]models.UserSummary{{ID: "b", Name: "name-b"}, {ID: "c", Name: "name-c"}}, partners)
}

func TestGroups_MembershipLifecycle(t *testing.T) {
	req := require.New(t)
	s := memory.NewStore()
	seed(t, s, "a", "b")
	ctx := context.Background()

	req.ErrorIs(s.Groups().CreateWithMembers(ctx, &models.Group{ID: "g", AdminID: "a"}, []string{"a", "ghost"}), repositories.ErrNotFound)
	_, err := s.Groups().GetByID(ctx, "g")
	req.ErrorIs(err, repositories.ErrNotFound)

	req.NoError(s.Groups().CreateWithMembers(ctx, &models.Group{ID: "g", AdminID: "a"}, []string{"a", "b"}))
	ok, err := s.Groups().IsMember(ctx, "g", "b")
	req.NoError(err)
	req.True(ok)

	req.NoError(s.Groups().RemoveMember(ctx, "g", "b"))
	req.ErrorIs(s.Groups().RemoveMember(ctx, "g", "b"), repositories.ErrNotFound)
	ok, err = s.Groups().IsMember(ctx, "g", "b")
	req.NoError(err)
	req.False(ok)

	groups, err := s.Groups().ListForUser(ctx, "b")
	req.NoError(err)
	req.Empty(groups)

	members, err := s.Groups().ListMembers(ctx, "g")
	req.NoError(err)
	req.Equal([]models.UserSummary{{ID: "a", Name: "name-a"}}, members)
}

func TestMessages_GroupHistory(t *testing.T) {
	req := require.New(t)
	s := memory.NewStore()
	seed(t, s, "a")
	ctx := context.Background()
	req.NoError(s.Groups().CreateWithMembers(ctx, &models.Group{ID: "g", AdminID: "a"}, []string{"a"}))

	t0 := time.Now()
	g := "g"
	for i, id := range []string{"g1", "g2"} {
		req.NoError(s.Messages().Create(ctx, &models.Message{
			ID: id, Content: id, IsGroupMessage: true, SenderID: "a", GroupID: &g, CreatedAt: t0.Add(time.Duration(i) * time.Second),
		}))
	}
	req.ErrorIs(s.Messages().Create(ctx, &models.Message{ID: "g1"}), repositories.ErrDuplicate)

	views, err := s.Messages().ListGroup(ctx, "g", 0, 0)
	req.NoError(err)
	req.Equal([]string{"g1", "g2"}, ids(views))
	req.Nil(views[0].Receiver)
}

func ids(views []*models.MessageView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}
