// Package realtime tracks live push-channel connections: which user owns
// which connection, which connections listen to which group room, and the
// websocket plumbing that feeds inbound events to the delivery engine.
package realtime

import (
	"sync"

	"groupchat/internal/models"
)

// Peer is an opaque handle to one live push-channel session.
type Peer interface {
	ID() string
	Identity() models.Identity
	// Push queues ev for the peer without blocking.
	Push(ev models.Event) error
}

// Registry maps a user id to that user's current connection. The last
// connection to bind wins.
type Registry struct {
	mu    sync.RWMutex
	peers map[string]Peer
}

func NewRegistry() *Registry {
	return &Registry{peers: make(map[string]Peer)}
}

// Bind makes p the user's current connection and returns the one it
// replaced, if any.
func (r *Registry) Bind(userID string, p Peer) Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.peers[userID]
	r.peers[userID] = p
	return prev
}

func (r *Registry) Lookup(userID string) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.peers[userID]
	return p, ok
}

// Unbind removes the user's mapping only while it still points at p, so a
// late disconnect of a replaced connection cannot evict its successor.
func (r *Registry) Unbind(userID string, p Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.peers[userID]; !ok || cur != p {
		return false
	}
	delete(r.peers, userID)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}
