package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/Sriram-PR/linkedin-scraper/pkg/models"
)

// MemoryStore is an in-process SeenStore for crawls without a state_dir
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]models.TargetDBEntry
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]models.TargetDBEntry)}
}

// MarkSeen implements SeenStore
func (m *MemoryStore) MarkSeen(key string, target models.Target) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.entries[key] = models.TargetDBEntry{
		URL:    target.URL,
		Meta:   target.Meta,
		Status: models.TargetStatusQueued,
		Depth:  target.Depth,
	}
	return true, nil
}

// CheckStatus implements SeenStore
func (m *MemoryStore) CheckStatus(key string) (models.TargetStatus, *models.TargetDBEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return models.TargetStatusNotFound, nil, nil
	}
	return entry.Status, &entry, nil
}

// UpdateStatus implements SeenStore
func (m *MemoryStore) UpdateStatus(key string, entry *models.TargetDBEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = *entry
	return nil
}

// Incomplete implements SeenStore. Results are ordered by key.
func (m *MemoryStore) Incomplete(ctx context.Context) ([]models.Target, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.entries))
	for k, e := range m.entries {
		if e.Status != models.TargetStatusCompleted {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	targets := make([]models.Target, 0, len(keys))
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return targets, err
		}
		e := m.entries[k]
		targets = append(targets, entryTarget(&e))
	}
	return targets, nil
}

// Count implements SeenStore
func (m *MemoryStore) Count() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

// Close implements SeenStore
func (m *MemoryStore) Close() error { return nil }
