package caching

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// Entry is the cached text of one document. Entries are never modified once
// stored.
type Entry struct {
	Pages     []string  `yaml:"pages"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Store maps document fingerprints to extracted pages. Put keeps the first
// entry written for a fingerprint; later puts are no-ops.
type Store interface {
	Get(ctx context.Context, fingerprint string) (Entry, bool, error)
	Put(ctx context.Context, fingerprint string, e Entry) error
	Delete(ctx context.Context, fingerprint string) error
	Clear(ctx context.Context) error
}

// Fingerprint returns the SHA256 hex digest of the document bytes.
func Fingerprint(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// MemoryStore keeps entries for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Get(_ context.Context, fingerprint string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[fingerprint]
	return e, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, fingerprint string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[fingerprint]; exists {
		return nil
	}
	m.entries[fingerprint] = Entry{
		Pages:     append([]string(nil), e.Pages...),
		CreatedAt: e.CreatedAt,
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, fingerprint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, fingerprint)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]Entry)
	return nil
}
