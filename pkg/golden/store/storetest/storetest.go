// Package storetest holds behaviour checks shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/golden/pkg/golden/internalerr"
	"github.com/cognicore/golden/pkg/golden/store"
)

// Run exercises st. The store must be empty.
func Run(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 9, 12, 10, 30, 0, 0, time.UTC)

	snap := store.Snapshot{
		Name: "keywords",
		Entries: []store.Record{
			{
				Key:         "keywords:abc:20",
				Value:       json.RawMessage(`[{"keyword":"golden","score":1.5}]`),
				CreatedAt:   base,
				LastAccess:  base.Add(time.Minute),
				AccessCount: 3,
				Score:       0.25,
				Decay:       0.9,
			},
			{
				Key:         "keywords:def:20",
				Value:       json.RawMessage(`[]`),
				CreatedAt:   base.Add(2 * time.Minute),
				LastAccess:  base.Add(2 * time.Minute),
				AccessCount: 1,
				Score:       0.01,
				Decay:       1,
			},
		},
		Hits:      5,
		Misses:    3,
		LastSweep: base,
		SavedAt:   base.Add(time.Hour),
	}

	t.Run("missing", func(t *testing.T) {
		if _, err := st.LoadSnapshot(ctx, "nothing"); !errors.Is(err, internalerr.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("roundtrip", func(t *testing.T) {
		if err := st.SaveSnapshot(ctx, snap); err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
		got, err := st.LoadSnapshot(ctx, "keywords")
		if err != nil {
			t.Fatalf("LoadSnapshot: %v", err)
		}
		if diff := cmp.Diff(snap, got, timeEqual, rawJSONEqual); diff != "" {
			t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("replace", func(t *testing.T) {
		smaller := snap
		smaller.Entries = snap.Entries[:1]
		smaller.Hits = 9
		if err := st.SaveSnapshot(ctx, smaller); err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
		got, err := st.LoadSnapshot(ctx, "keywords")
		if err != nil {
			t.Fatalf("LoadSnapshot: %v", err)
		}
		if len(got.Entries) != 1 || got.Hits != 9 {
			t.Errorf("Expected replaced snapshot, got %d entries and %d hits", len(got.Entries), got.Hits)
		}
	})

	t.Run("list and delete", func(t *testing.T) {
		other := store.Snapshot{Name: "classification", Entries: []store.Record{}}
		if err := st.SaveSnapshot(ctx, other); err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
		names, err := st.ListSnapshots(ctx)
		if err != nil {
			t.Fatalf("ListSnapshots: %v", err)
		}
		if diff := cmp.Diff([]string{"classification", "keywords"}, names); diff != "" {
			t.Errorf("ListSnapshots mismatch (-want +got):\n%s", diff)
		}

		if err := st.DeleteSnapshot(ctx, "keywords"); err != nil {
			t.Fatalf("DeleteSnapshot: %v", err)
		}
		if _, err := st.LoadSnapshot(ctx, "keywords"); !errors.Is(err, internalerr.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := st.DeleteSnapshot(ctx, "keywords"); err != nil {
			t.Errorf("Deleting a missing snapshot should succeed, got %v", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		if err := st.SaveSnapshot(ctx, store.Snapshot{}); !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})
}

// RunClosed closes st and checks that every operation then fails with
// ErrStoreUnavailable.
func RunClosed(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()
	if err := st.SaveSnapshot(ctx, store.Snapshot{Name: "sections"}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ops := map[string]func() error{
		"save": func() error { return st.SaveSnapshot(ctx, store.Snapshot{Name: "sections"}) },
		"load": func() error {
			_, err := st.LoadSnapshot(ctx, "sections")
			return err
		},
		"delete": func() error { return st.DeleteSnapshot(ctx, "sections") },
		"list": func() error {
			_, err := st.ListSnapshots(ctx)
			return err
		},
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, internalerr.ErrStoreUnavailable) {
			t.Errorf("%s after Close: expected ErrStoreUnavailable, got %v", name, err)
		}
	}
	if err := st.Close(); err != nil {
		t.Errorf("Second Close: %v", err)
	}
}

var timeEqual = cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })

var rawJSONEqual = cmp.Comparer(func(a, b json.RawMessage) bool {
	var x, y any
	if json.Unmarshal(a, &x) != nil || json.Unmarshal(b, &y) != nil {
		return string(a) == string(b)
	}
	return cmp.Equal(x, y)
})
