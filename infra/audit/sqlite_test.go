package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	coreaudit "github.com/gridpool/scr/core/audit"
)

func TestSQLiteStoreAppendQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stages.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	records := []coreaudit.StageRecord{
		{Timestamp: base, Stage: "clearing", EntityID: "d1", DemandID: "d1"},
		{Timestamp: base.Add(time.Minute), Stage: "pooling", EntityID: "d1", DemandID: "d1", Details: map[string]any{"distributions": float64(2)}},
		{Timestamp: base.Add(2 * time.Minute), Stage: "clearing", EntityID: "d2", DemandID: "d2"},
	}
	for _, rec := range records {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.Query(ctx, coreaudit.Query{Stage: "clearing"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d clearing records, want 2", len(got))
	}
	if got[0].EntityID != "d1" || got[1].EntityID != "d2" {
		t.Errorf("order: %+v", got)
	}

	got, err = store.Query(ctx, coreaudit.Query{DemandID: "d1", End: base.Add(90 * time.Second)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[1].Details["distributions"] != float64(2) {
		t.Errorf("details lost: %+v", got[1].Details)
	}
}
