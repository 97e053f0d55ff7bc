// Package file stores cache snapshots as one JSON document per cache in a
// directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/cognicore/golden/pkg/golden/internalerr"
	"github.com/cognicore/golden/pkg/golden/store"
)

const ext = ".json"

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type fileStore struct {
	mu     sync.Mutex
	dir    string
	closed bool
}

// Open returns a store rooted at dir, creating the directory if needed.
func Open(dir string) (store.Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("open file store: empty directory: %w", internalerr.ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open file store: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fileStore) path(name string) (string, error) {
	if !validName.MatchString(name) {
		return "", fmt.Errorf("snapshot name %q: %w", name, internalerr.ErrInvalidInput)
	}
	return filepath.Join(s.dir, name+ext), nil
}

// SaveSnapshot writes through a temporary file renamed into place.
func (s *fileStore) SaveSnapshot(ctx context.Context, snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}
	path, err := s.path(snap.Name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", snap.Name, err)
	}

	tmp, err := os.CreateTemp(s.dir, snap.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", snap.Name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save snapshot %q: %w", snap.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save snapshot %q: %w", snap.Name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save snapshot %q: %w", snap.Name, err)
	}
	return nil
}

func (s *fileStore) LoadSnapshot(ctx context.Context, name string) (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.Snapshot{}, store.ErrClosed
	}
	path, err := s.path(name)
	if err != nil {
		return store.Snapshot{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return store.Snapshot{}, fmt.Errorf("snapshot %q: %w", name, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("load snapshot %q: %w", name, err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("snapshot %q: %w: %v", name, internalerr.ErrCorruptSnapshot, err)
	}
	snap.Name = name
	return snap, nil
}

func (s *fileStore) DeleteSnapshot(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	return nil
}

func (s *fileStore) ListSnapshots(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, store.ErrClosed
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var names []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ext)
		if e.IsDir() || !ok || !validName.MatchString(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
