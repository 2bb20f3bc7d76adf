package store

import (
	"context"
	"sync"
	"time"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
)

type memorySession struct {
	state     inbox.ViewState
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Expired entries are dropped
// lazily on access.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// GetSession returns a copy of the stored state.
func (s *MemoryStore) GetSession(ctx context.Context, id string) (*inbox.ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if !sess.expiresAt.IsZero() && !s.now().Before(sess.expiresAt) {
		delete(s.sessions, id)
		return nil, nil
	}
	st := sess.state
	if st.Staged != nil {
		staged := *st.Staged
		st.Staged = &staged
	}
	return &st, nil
}

// PutSession stores st. A zero ttl never expires.
func (s *MemoryStore) PutSession(ctx context.Context, id string, st inbox.ViewState, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := memorySession{state: st}
	if st.Staged != nil {
		staged := *st.Staged
		sess.state.Staged = &staged
	}
	if ttl > 0 {
		sess.expiresAt = s.now().Add(ttl)
	}
	s.sessions[id] = sess
	return nil
}

// DeleteSession removes a session.
func (s *MemoryStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
