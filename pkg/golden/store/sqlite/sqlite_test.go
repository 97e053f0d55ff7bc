package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cognicore/golden/pkg/golden/store"
	"github.com/cognicore/golden/pkg/golden/store/storetest"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()
	storetest.Run(t, st)
}

func TestClosed(t *testing.T) {
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	storetest.RunClosed(t, st)
}

func TestReopenKeepsSnapshots(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	snap := store.Snapshot{
		Name:    "sections",
		Entries: []store.Record{{Key: "b", Value: []byte(`1`)}, {Key: "a", Value: []byte(`2`)}},
	}
	if err := st.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	st.Close()

	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	got, err := st.LoadSnapshot(ctx, "sections")
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(got.Entries) != 2 || got.Entries[0].Key != "b" || got.Entries[1].Key != "a" {
		t.Errorf("Expected entries in saved order, got %+v", got.Entries)
	}
}
