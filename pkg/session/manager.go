package session

import (
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/NERVsystems/localhealth/pkg/stores"
)

// DefaultID is the session used when a client does not name one.
const DefaultID = "default"

// DefaultCapacity bounds the number of sessions kept in memory.
const DefaultCapacity = 256

// Manager hands out sessions by id. The least recently used session is
// dropped once capacity is reached.
type Manager struct {
	directory *stores.Directory
	limit     int

	mu    sync.Mutex
	cache *lru.Cache[string, *Session]
}

// NewManager creates a manager for up to capacity sessions.
func NewManager(directory *stores.Directory, limit, capacity int) (*Manager, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.NewWithEvict(capacity, func(id string, _ *Session) {
		slog.Debug("session evicted", "session", id)
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &Manager{directory: directory, limit: limit, cache: cache}, nil
}

// Get returns the session for id, creating it on first use. An empty id
// maps to DefaultID.
func (m *Manager) Get(id string) *Session {
	if id == "" {
		id = DefaultID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.cache.Get(id); ok {
		return s
	}
	s := New(m.directory, m.limit)
	m.cache.Add(id, s)
	return s
}

// Drop forgets the session for id.
func (m *Manager) Drop(id string) {
	if id == "" {
		id = DefaultID
	}
	m.cache.Remove(id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.cache.Len()
}
