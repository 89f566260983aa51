package cart

import (
	"context"
	"strings"
	"sync"
)

// MirrorFactory returns the mirror for a named slot.
type MirrorFactory func(slot string) Mirror

// SlotName is the mirror slot holding the cart of a session.
func SlotName(sessionID string) string {
	return "cart:" + sessionID
}

// Sessions keeps one Store per session, each written to its own slot.
type Sessions struct {
	mu      sync.Mutex
	stores  map[string]*Store
	mirrors MirrorFactory
	opts    []Option
}

func NewSessions(mirrors MirrorFactory, opts ...Option) *Sessions {
	return &Sessions{
		stores:  make(map[string]*Store),
		mirrors: mirrors,
		opts:    opts,
	}
}

// Get returns the cart of sessionID, loading it from its mirror on first use.
func (s *Sessions) Get(ctx context.Context, sessionID string) (*Store, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if store, ok := s.stores[sessionID]; ok {
		return store, nil
	}
	store, err := NewStore(ctx, s.mirrors(SlotName(sessionID)), s.opts...)
	if err != nil {
		return nil, err
	}
	s.stores[sessionID] = store
	return store, nil
}

// Forget drops the in-memory cart of sessionID so the next Get reloads it
// from the mirror. A cart that is being checked out is kept and Forget
// reports false.
func (s *Sessions) Forget(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if store, ok := s.stores[sessionID]; ok && store.Processing() {
		return false
	}
	delete(s.stores, sessionID)
	return true
}
