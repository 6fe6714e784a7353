package chatbot

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Hub tracks the live sessions of the site.
type Hub struct {
	base Options
	// NewRand seeds the random source of each new session.
	NewRand func() Rand

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewHub returns a hub whose sessions start from base. Rand and Listener
// in base are ignored: every session gets its own.
func NewHub(base Options) *Hub {
	base.Rand = nil
	base.Listener = nil
	return &Hub{
		base:     base.withDefaults(),
		sessions: make(map[string]*Session),
		NewRand: func() Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Open starts a new session. l may be nil.
func (h *Hub) Open(l Listener) *Session {
	opts := h.base
	opts.Rand = h.NewRand()
	opts.Listener = l
	s := NewSession(uuid.NewString(), opts)

	h.mu.Lock()
	h.sessions[s.ID()] = s
	h.mu.Unlock()
	return s
}

func (h *Hub) Get(id string) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close ends and forgets the session with the given id.
func (h *Hub) Close(id string) error {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	return nil
}

// Prune closes sessions idle for longer than idle and reports how many went.
func (h *Hub) Prune(idle time.Duration) int {
	cutoff := h.base.Now().Add(-idle)
	var stale []*Session

	h.mu.Lock()
	for id, s := range h.sessions {
		if !s.Pending() && s.LastActive().Before(cutoff) {
			stale = append(stale, s)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

func (h *Hub) CloseAll() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
