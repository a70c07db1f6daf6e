package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Store keeps sessions between turns. Stores never change a session on
// their own; callers load, mutate and Save.
type Store interface {
	// GetOrCreate returns the session for id, creating a fresh one if absent.
	GetOrCreate(ctx context.Context, id string) (*Session, error)
	// Get returns ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*Session, error)
	// Reset re-initialises and persists the session for id.
	Reset(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

type memoryEntry struct {
	sess    *Session
	expires time.Time
}

// MemoryStore is a process-local Store with idle expiry.
type MemoryStore struct {
	mu         sync.Mutex
	sessions   map[string]memoryEntry
	ttl        time.Duration
	maxRetries int
	now        func() time.Time
	logger     *slog.Logger
}

// NewMemoryStore creates a store whose sessions expire after ttl without a turn.
func NewMemoryStore(ttl time.Duration, maxRetries int, logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]memoryEntry),
		ttl:        ttl,
		maxRetries: maxRetries,
		now:        time.Now,
		logger:     logger.With("component", "session", "store", "memory"),
	}
}

func (m *MemoryStore) lookup(id string) (*Session, bool) {
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if m.ttl > 0 && m.now().After(e.expires) {
		delete(m.sessions, id)
		return nil, false
	}
	return e.sess, true
}

func (m *MemoryStore) put(s *Session) {
	m.sessions[s.ID] = memoryEntry{sess: s.Clone(), expires: m.now().Add(m.ttl)}
}

func (m *MemoryStore) GetOrCreate(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.lookup(id); ok {
		return s.Clone(), nil
	}
	s := New(id, m.maxRetries)
	m.put(s)
	m.logger.Info("session created", "session_id", id)
	return s.Clone(), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Reset(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.lookup(id)
	if !ok {
		s = New(id, m.maxRetries)
	} else {
		s = s.Clone()
		s.Reset()
	}
	m.put(s)
	return s.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = m.now()
	m.put(s)
	return nil
}

// Len reports how many live sessions are held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, e := range m.sessions {
		if now.After(e.expires) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}
