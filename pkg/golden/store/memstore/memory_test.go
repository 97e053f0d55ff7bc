package memstore

import (
	"context"
	"testing"

	"github.com/cognicore/golden/pkg/golden/store"
	"github.com/cognicore/golden/pkg/golden/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, New())
}

func TestSnapshotIsCopied(t *testing.T) {
	ctx := context.Background()
	s := New()
	snap := store.Snapshot{Name: "sections", Entries: []store.Record{{Key: "k", Value: []byte(`"v"`)}}}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatal(err)
	}
	snap.Entries[0].Value[1] = 'x'

	got, err := s.LoadSnapshot(ctx, "sections")
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Entries[0].Value) != `"v"` {
		t.Errorf("Stored snapshot was mutated through caller slice: %s", got.Entries[0].Value)
	}
}

func TestClosed(t *testing.T) {
	storetest.RunClosed(t, New())
}
