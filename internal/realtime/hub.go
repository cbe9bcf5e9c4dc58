package realtime

import (
	"log/slog"

	"groupchat/internal/models"
	"groupchat/internal/services"
)

// Hub ties the connection registry and the group rooms together and is the
// delivery engine's view of who is online.
type Hub struct {
	registry *Registry
	rooms    *Rooms
	log      *slog.Logger
}

var (
	_ services.Notifier           = (*Hub)(nil)
	_ services.MembershipListener = (*Hub)(nil)
)

func NewHub(checker GroupChecker, log *slog.Logger) *Hub {
	return &Hub{
		registry: NewRegistry(),
		rooms:    NewRooms(checker),
		log:      log.With(slog.String("component", "hub")),
	}
}

func (h *Hub) Registry() *Registry { return h.registry }
func (h *Hub) Rooms() *Rooms       { return h.rooms }

// Connect makes p its user's current connection. A replaced connection stays
// open but loses its room subscriptions and no longer receives direct
// messages, so a user is delivered each message at most once.
func (h *Hub) Connect(p Peer) {
	userID := p.Identity().UserID
	if prev := h.registry.Bind(userID, p); prev != nil && prev != p {
		h.rooms.Leave(prev)
		h.log.Info("connection replaced", slog.String("userID", userID), slog.String("old", prev.ID()), slog.String("new", p.ID()))
	}
	h.log.Debug("connection bound", slog.String("userID", userID), slog.String("connID", p.ID()), slog.Int("online", h.registry.Len()))
}

// Disconnect discards p's room subscriptions and its registry binding if p is
// still the user's current connection.
func (h *Hub) Disconnect(p Peer) {
	h.rooms.Leave(p)
	userID := p.Identity().UserID
	if h.registry.Unbind(userID, p) {
		h.log.Debug("connection unbound", slog.String("userID", userID), slog.String("connID", p.ID()))
		return
	}
	h.log.Debug("stale disconnect ignored", slog.String("userID", userID), slog.String("connID", p.ID()))
}

func (h *Hub) SendToUser(userID string, ev models.Event) bool {
	p, ok := h.registry.Lookup(userID)
	if !ok {
		return false
	}
	if err := p.Push(ev); err != nil {
		h.log.Warn("push failed", slog.String("userID", userID), slog.String("connID", p.ID()), slog.String("event", ev.EventName()), slog.Any("error", err))
		return false
	}
	return true
}

func (h *Hub) Broadcast(groupID string, ev models.Event) int {
	return h.rooms.Broadcast(groupID, ev)
}

func (h *Hub) MemberRemoved(groupID, userID string) {
	if n := h.rooms.Evict(groupID, userID); n > 0 {
		h.log.Info("evicted from room", slog.String("groupID", groupID), slog.String("userID", userID), slog.Int("connections", n))
	}
}
