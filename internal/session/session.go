// Package session provides the server-side session store.
//
// WHY SERVER-SIDE SESSIONS ON TOP OF SIGNED TOKENS?
// The session cookie is a signed JWT (internal/auth), which proves the
// cookie wasn't tampered with. But a signature alone can't be revoked:
// logout would be a no-op and a restarted server would keep honouring old
// cookies. So the token's jti must ALSO resolve to a live entry here.
// Destroying the entry (logout) or losing the map (restart) invalidates the
// cookie immediately, whatever its signature says.
//
// Store is an interface so the backing can be swapped — the in-memory
// implementation below is deliberately process-local, but a multi-process
// deployment could plug in an external store without touching the core.
package session

import (
	"sync"
	"time"

	"github.com/rs/xid"
)

// Session binds an opaque session id to a user for a fixed window.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// Store is the session-store abstraction consumed by the auth layer.
type Store interface {
	// Create registers a new session for userID, valid for ttl.
	Create(userID string, ttl time.Duration) *Session
	// Get returns the session if it exists and has not expired.
	// Expired sessions are treated as absent (and may be reaped).
	Get(id string) (*Session, bool)
	// Destroy removes the session. Destroying an unknown id is a no-op.
	Destroy(id string)
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps sessions in a mutex-guarded map.
// Process restart drops everything, which is the intended behaviour.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (s *MemoryStore) Create(userID string, ttl time.Duration) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := Session{
		ID:        xid.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
	s.sessions[sess.ID] = sess
	return &sess
}

func (s *MemoryStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(sess.ExpiresAt) {
		// Lazy expiry: reap on access rather than with a background sweeper.
		delete(s.sessions, id)
		return nil, false
	}
	return &sess, true
}

func (s *MemoryStore) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
