package session

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/navbar/internal/domain"
)

type memoryEntry struct {
	state    domain.State
	lastSeen time.Time
}

// MemoryStore keeps sessions in process memory. Idle sessions are removed
// by Sweep, which the session GC calls periodically.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
	}
}

// Get returns the stored state for id.
func (m *MemoryStore) Get(_ context.Context, id string) (domain.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[id]
	if !ok {
		return domain.State{}, ErrNotFound
	}
	return e.state, nil
}

// Update applies fn under the store lock.
func (m *MemoryStore) Update(ctx context.Context, id string, fn UpdateFunc) (domain.State, domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, domain.State{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := domain.InitialState()
	if e, ok := m.sessions[id]; ok {
		prev = e.state
	}

	next, err := fn(prev)
	if err != nil {
		return prev, prev, err
	}

	m.sessions[id] = &memoryEntry{state: next, lastSeen: m.now()}
	return prev, next, nil
}

// Delete forgets a session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// Sweep removes sessions not updated within ttl and returns how many went.
func (m *MemoryStore) Sweep(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	m.lastSweep = now
	return removed
}

// LastSweep returns when Sweep last ran.
func (m *MemoryStore) LastSweep() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lastSweep
}
