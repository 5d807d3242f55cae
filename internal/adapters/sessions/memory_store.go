package sessions

import (
	"context"
	"errors"
	"pathmatrix-service/internal/domain"
	"pathmatrix-service/internal/ports"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Entries idle for longer than
// the TTL are dropped on access; a zero TTL keeps them forever.
//
// The store is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok && m.expired(e) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	return decode(id, e.data)
}

func (m *MemoryStore) Save(ctx context.Context, s *domain.Session) error {
	if s == nil || s.ID == "" {
		return errors.New("save session: missing id")
	}

	b, err := encode(s)
	if err != nil {
		return err
	}

	e := memoryEntry{data: b}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[s.ID] = e
	m.mu.Unlock()

	return nil
}

func (m *MemoryStore) expired(e memoryEntry) bool {
	return !e.expires.IsZero() && m.now().After(e.expires)
}
