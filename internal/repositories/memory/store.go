// Package memory is a process-local record store implementing the
// repositories interfaces. It backs the "memory" database driver and the
// end-to-end tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"groupchat/internal/models"
	"groupchat/internal/repositories"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	groups   map[string]*models.Group
	members  map[string]map[string]string // groupID -> userID -> membership id
	messages []*models.Message           // insertion order
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]*models.User),
		groups:  make(map[string]*models.Group),
		members: make(map[string]map[string]string),
		now:     time.Now,
	}
}

func (s *Store) Users() repositories.UserRepository       { return userStore{s} }
func (s *Store) Messages() repositories.MessageRepository { return messageStore{s} }
func (s *Store) Groups() repositories.GroupRepository     { return groupStore{s} }

type userStore struct{ *Store }

func (s userStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return repositories.ErrDuplicate
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repositories.ErrDuplicate
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s userStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s userStore) ListByIDs(_ context.Context, ids []string) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.User
	for _, id := range lo.Uniq(ids) {
		if u, ok := s.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type messageStore struct{ *Store }

func (s messageStore) Create(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ID == msg.ID {
			return repositories.ErrDuplicate
		}
	}
	cp := *msg
	s.messages = append(s.messages, &cp)
	return nil
}

func (s messageStore) ListPrivate(_ context.Context, userA, userB string, limit, offset int) ([]*models.MessageView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := lo.Filter(s.sorted(), func(m *models.Message, _ int) bool {
		if m.IsGroupMessage || m.ReceiverID == nil {
			return false
		}
		return (m.SenderID == userA && *m.ReceiverID == userB) || (m.SenderID == userB && *m.ReceiverID == userA)
	})
	return lo.Map(page(matched, limit, offset), func(m *models.Message, _ int) *models.MessageView {
		v := &models.MessageView{Message: *m, Sender: s.summary(m.SenderID)}
		receiver := s.summary(*m.ReceiverID)
		v.Receiver = &receiver
		return v
	}), nil
}

func (s messageStore) ListGroup(_ context.Context, groupID string, limit, offset int) ([]*models.MessageView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := lo.Filter(s.sorted(), func(m *models.Message, _ int) bool {
		return m.IsGroupMessage && m.GroupID != nil && *m.GroupID == groupID
	})
	return lo.Map(page(matched, limit, offset), func(m *models.Message, _ int) *models.MessageView {
		return &models.MessageView{Message: *m, Sender: s.summary(m.SenderID)}
	}), nil
}

func (s messageStore) ListPartners(_ context.Context, userID string) ([]models.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for _, m := range s.messages {
		if m.IsGroupMessage || m.ReceiverID == nil {
			continue
		}
		switch userID {
		case m.SenderID:
			ids = append(ids, *m.ReceiverID)
		case *m.ReceiverID:
			ids = append(ids, m.SenderID)
		}
	}
	partners := lo.Map(lo.Uniq(ids), func(id string, _ int) models.UserSummary { return s.summary(id) })
	sortSummaries(partners)
	return partners, nil
}

// sorted returns messages by creation time, ties kept in insertion order.
func (s *Store) sorted() []*models.Message {
	out := append([]*models.Message(nil), s.messages...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) summary(userID string) models.UserSummary {
	if u, ok := s.users[userID]; ok {
		return u.Summary()
	}
	return models.UserSummary{ID: userID}
}

type groupStore struct{ *Store }

func (s groupStore) CreateWithMembers(_ context.Context, group *models.Group, userIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[group.ID]; ok {
		return repositories.ErrDuplicate
	}
	if _, ok := s.users[group.AdminID]; !ok {
		return repositories.ErrNotFound
	}
	rows := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		if _, ok := s.users[id]; !ok {
			return repositories.ErrNotFound
		}
		if _, dup := rows[id]; dup {
			return repositories.ErrDuplicate
		}
		rows[id] = uuid.NewString()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = s.now()
	}
	cp := *group
	s.groups[group.ID] = &cp
	s.members[group.ID] = rows
	return nil
}

func (s groupStore) GetByID(_ context.Context, id string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s groupStore) IsMember(_ context.Context, groupID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[groupID][userID]
	return ok, nil
}

func (s groupStore) ListMembers(_ context.Context, groupID string) ([]models.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := lo.Map(lo.Keys(s.members[groupID]), func(id string, _ int) models.UserSummary { return s.summary(id) })
	sortSummaries(members)
	return members, nil
}

func (s groupStore) ListForUser(_ context.Context, userID string) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Group
	for groupID, rows := range s.members {
		if _, ok := rows[userID]; ok {
			cp := *s.groups[groupID]
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s groupStore) RemoveMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[groupID][userID]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.members[groupID], userID)
	return nil
}

func page(msgs []*models.Message, limit, offset int) []*models.Message {
	if offset >= len(msgs) {
		return nil
	}
	msgs = msgs[offset:]
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	return msgs
}

func sortSummaries(s []models.UserSummary) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Name != s[j].Name {
			return s[i].Name < s[j].Name
		}
		return s[i].ID < s[j].ID
	})
}
