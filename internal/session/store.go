package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions that expired before now and reports how many went.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

func encode(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

func decode(id string, raw []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	s.ID = id
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	return &s, nil
}

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	exp  map[string]time.Time
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}, exp: map[string]time.Time{}, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	raw, ok := m.data[id]
	exp := m.exp[id]
	m.mu.RUnlock()
	if !ok || (!exp.IsZero() && !m.now().Before(exp)) {
		return nil, ErrNotFound
	}
	return decode(id, raw)
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	raw, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[s.ID] = raw
	m.exp[s.ID] = s.ExpiresAt
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.data, id)
	delete(m.exp, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, exp := range m.exp {
		if !exp.IsZero() && !now.Before(exp) {
			delete(m.data, id)
			delete(m.exp, id)
			n++
		}
	}
	return n, nil
}

// Len is the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
