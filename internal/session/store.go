package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// ErrConflict is returned when a session changed underneath an update.
var ErrConflict = errors.New("session was modified concurrently")

// Store keeps session state between actions. Update runs fn against the latest state and
// persists the result only when fn returns nil.
type Store interface {
	Create(ctx context.Context) (*State, error)
	Get(ctx context.Context, id string) (*State, error)
	Update(ctx context.Context, id string, fn func(*State) error) (*State, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

type memoryEntry struct {
	mu       sync.Mutex
	state    *State
	lastUsed time.Time
}

// MemoryStore keeps sessions in process. Actions on one session are serialised by a
// per-session lock held for the whole of fn.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore returns a store whose sessions expire after ttl without use. ttl <= 0
// disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: map[string]*memoryEntry{}, ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Create(_ context.Context) (*State, error) {
	now := m.now()
	st := New(uuid.NewString(), now)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked(now)
	m.entries[st.ID] = &memoryEntry{state: st, lastUsed: now}
	return clone(st)
}

func (m *MemoryStore) entry(id string) (*memoryEntry, error) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked(now)
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastUsed = now
	return e, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*State, error) {
	e, err := m.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return clone(e.state)
}

func (m *MemoryStore) Update(_ context.Context, id string, fn func(*State) error) (*State, error) {
	e, err := m.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	work, err := clone(e.state)
	if err != nil {
		return nil, err
	}
	if err := fn(work); err != nil {
		return nil, err
	}
	e.state = work
	return clone(work)
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked(m.now())
	return len(m.entries)
}

func (m *MemoryStore) evictLocked(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, e := range m.entries {
		if now.Sub(e.lastUsed) > m.ttl {
			delete(m.entries, id)
		}
	}
}
