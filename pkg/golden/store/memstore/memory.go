package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/golden/pkg/golden/internalerr"
	"github.com/cognicore/golden/pkg/golden/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]store.Snapshot
	closed    bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{snapshots: make(map[string]store.Snapshot)}
}

// Close implements store.Store. Later calls fail with ErrStoreUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// SaveSnapshot stores a copy of snap.
func (s *Store) SaveSnapshot(ctx context.Context, snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}
	if snap.Name == "" {
		return fmt.Errorf("save snapshot: empty name: %w", internalerr.ErrInvalidInput)
	}
	s.snapshots[snap.Name] = snap.Clone()
	return nil
}

// LoadSnapshot returns a copy of the named snapshot.
func (s *Store) LoadSnapshot(ctx context.Context, name string) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return store.Snapshot{}, store.ErrClosed
	}
	snap, ok := s.snapshots[name]
	if !ok {
		return store.Snapshot{}, fmt.Errorf("snapshot %q: %w", name, internalerr.ErrNotFound)
	}
	return snap.Clone(), nil
}

// DeleteSnapshot removes the named snapshot; missing names are ignored.
func (s *Store) DeleteSnapshot(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}
	delete(s.snapshots, name)
	return nil
}

// ListSnapshots returns the stored names, sorted.
func (s *Store) ListSnapshots(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrClosed
	}
	names := make([]string, 0, len(s.snapshots))
	for name := range s.snapshots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
