package realtime

import (
	"context"
	"sync"

	"groupchat/internal/models"
)

// GroupChecker decides whether a user may access a group.
type GroupChecker interface {
	CheckGroup(ctx context.Context, userID, groupID string) error
}

// Rooms holds, per group, the connections subscribed to its broadcasts.
// Subscriptions belong to a connection and die with it.
type Rooms struct {
	mu      sync.RWMutex
	rooms   map[string]map[Peer]struct{}
	joined  map[Peer]map[string]struct{}
	checker GroupChecker
}

func NewRooms(checker GroupChecker) *Rooms {
	return &Rooms{
		rooms:   make(map[string]map[Peer]struct{}),
		joined:  make(map[Peer]map[string]struct{}),
		checker: checker,
	}
}

// Join subscribes p to groupID after re-checking membership against the
// store. Nothing is subscribed when the check fails. Joining twice is a no-op.
func (r *Rooms) Join(ctx context.Context, p Peer, groupID string) error {
	if err := r.checker.CheckGroup(ctx, p.Identity().UserID, groupID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[groupID] == nil {
		r.rooms[groupID] = make(map[Peer]struct{})
	}
	r.rooms[groupID][p] = struct{}{}
	if r.joined[p] == nil {
		r.joined[p] = make(map[string]struct{})
	}
	r.joined[p][groupID] = struct{}{}
	return nil
}

// Leave drops every subscription held by p.
func (r *Rooms) Leave(p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for groupID := range r.joined[p] {
		r.removeLocked(groupID, p)
	}
	delete(r.joined, p)
}

// Evict drops the subscriptions of every connection owned by userID from
// groupID's room.
func (r *Rooms) Evict(groupID, userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for p := range r.rooms[groupID] {
		if p.Identity().UserID != userID {
			continue
		}
		r.removeLocked(groupID, p)
		if subs := r.joined[p]; subs != nil {
			delete(subs, groupID)
			if len(subs) == 0 {
				delete(r.joined, p)
			}
		}
		n++
	}
	return n
}

// Broadcast pushes ev to a snapshot of the room's subscribers and returns
// how many accepted it.
func (r *Rooms) Broadcast(groupID string, ev models.Event) int {
	n := 0
	for _, p := range r.Subscribers(groupID) {
		if err := p.Push(ev); err == nil {
			n++
		}
	}
	return n
}

func (r *Rooms) Subscribers(groupID string) []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	peers := make([]Peer, 0, len(r.rooms[groupID]))
	for p := range r.rooms[groupID] {
		peers = append(peers, p)
	}
	return peers
}

func (r *Rooms) removeLocked(groupID string, p Peer) {
	if conns, ok := r.rooms[groupID]; ok {
		delete(conns, p)
		if len(conns) == 0 {
			delete(r.rooms, groupID)
		}
	}
}
