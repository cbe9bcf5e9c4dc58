package realtime_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"groupchat/internal/authz"
	"groupchat/internal/models"
	"groupchat/internal/realtime"
	"groupchat/internal/repositories/memory"
	"groupchat/internal/services"
)

type fakePeer struct {
	id       string
	identity models.Identity

	mu      sync.Mutex
	events  []models.Event
	pushErr error
}

func newPeer(userID, name string) *fakePeer {
	return &fakePeer{id: uuid.NewString(), identity: models.Identity{UserID: userID, Name: name}}
}

func (p *fakePeer) ID() string                { return p.id }
func (p *fakePeer) Identity() models.Identity { return p.identity }

func (p *fakePeer) Push(ev models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pushErr != nil {
		return p.pushErr
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePeer) Events() []models.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Event(nil), p.events...)
}

func (p *fakePeer) Names() []string {
	var names []string
	for _, ev := range p.Events() {
		names = append(names, ev.EventName())
	}
	return names
}

func (p *fakePeer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// fixture is a fully wired realtime core over the in-memory store.
type fixture struct {
	store      *memory.Store
	authorizer *authz.MembershipAuthorizer
	hub        *realtime.Hub
	delivery   *services.DeliveryService
	groups     *services.GroupService
	dispatcher *realtime.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	store := memory.NewStore()
	authorizer := authz.NewMembershipAuthorizer(store.Users(), store.Groups())
	hub := realtime.NewHub(authorizer, log)
	delivery := services.NewDeliveryService(store.Messages(), authorizer, hub, 0, log)
	return &fixture{
		store:      store,
		authorizer: authorizer,
		hub:        hub,
		delivery:   delivery,
		groups:     services.NewGroupService(store.Groups(), store.Users(), store.Messages(), authorizer, hub, 0, log),
		dispatcher: realtime.NewDispatcher(delivery, hub.Rooms(), log),
	}
}

func (f *fixture) user(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, f.store.Users().Create(context.Background(), &models.User{
		ID:    id,
		Name:  name,
		Email: id + "@example.com",
	}))
}

func (f *fixture) group(t *testing.T, id, adminID string, memberIDs ...string) {
	t.Helper()
	g := &models.Group{ID: id, Name: "group " + id, AdminID: adminID}
	require.NoError(t, f.store.Groups().CreateWithMembers(context.Background(), g, append([]string{adminID}, memberIDs...)))
}

func (f *fixture) connect(userID, name string) *fakePeer {
	p := newPeer(userID, name)
	f.hub.Connect(p)
	return p
}

func (f *fixture) dispatch(p *fakePeer, raw string) {
	f.dispatcher.Dispatch(context.Background(), p, []byte(raw))
}
