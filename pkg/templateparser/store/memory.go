package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps templates in memory. Data is lost when the process exits.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[string]storedTemplate
	closed    bool
}

type storedTemplate struct {
	id        uuid.UUID
	body      string
	revision  int
	updatedAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		templates: make(map[string]storedTemplate),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(name, body string) (Info, error) {
	if name == "" {
		return Info{}, ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Info{}, ErrStoreClosed
	}

	stored, ok := m.templates[name]
	if !ok {
		stored.id = uuid.New()
	}
	stored.body = body
	stored.revision++
	stored.updatedAt = time.Now().UTC()
	m.templates[name] = stored

	return stored.info(name), nil
}

// Load implements Store.
func (m *MemoryStore) Load(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", ErrStoreClosed
	}

	stored, ok := m.templates[name]
	if !ok {
		return "", ErrNotFound
	}
	return stored.body, nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.templates))
	for name, stored := range m.templates {
		infos = append(infos, stored.info(name))
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.templates, name)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.templates = nil
	return nil
}

func (t storedTemplate) info(name string) Info {
	return Info{
		ID:        t.id,
		Name:      name,
		Revision:  t.revision,
		UpdatedAt: t.updatedAt,
		Size:      int64(len(t.body)),
	}
}
