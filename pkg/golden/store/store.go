package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cognicore/golden/pkg/golden/internalerr"
)

// Store persists cache snapshots by name.
type Store interface {
	Close() error

	// SaveSnapshot replaces any snapshot stored under s.Name.
	SaveSnapshot(ctx context.Context, s Snapshot) error
	// LoadSnapshot returns internalerr.ErrNotFound when nothing is stored
	// under name.
	LoadSnapshot(ctx context.Context, name string) (Snapshot, error)
	DeleteSnapshot(ctx context.Context, name string) error
	// ListSnapshots returns stored snapshot names in ascending order.
	ListSnapshots(ctx context.Context) ([]string, error)
}

// Snapshot is the persisted state of one cache.
type Snapshot struct {
	Name      string    `json:"name"`
	Entries   []Record  `json:"entries"`
	Hits      int64     `json:"hits"`
	Misses    int64     `json:"misses"`
	LastSweep time.Time `json:"last_sweep"`
	SavedAt   time.Time `json:"saved_at"`
}

// Record is a single cache entry with its value already encoded as JSON.
type Record struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	CreatedAt   time.Time       `json:"created_at"`
	LastAccess  time.Time       `json:"last_access"`
	AccessCount int             `json:"access_count"`
	Score       float64         `json:"score"`
	Decay       float64         `json:"decay"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Entries = make([]Record, len(s.Entries))
	for i, r := range s.Entries {
		r.Value = append(json.RawMessage(nil), r.Value...)
		out.Entries[i] = r
	}
	return out
}

// ErrClosed is returned by stores used after Close.
var ErrClosed = fmt.Errorf("store closed: %w", internalerr.ErrStoreUnavailable)
