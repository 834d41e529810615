package buffer

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "buffer.db"), "test")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueAndGetBatch(t *testing.T) {
	store := openTestStore(t)

	item := Item{
		UserID:    "user-1",
		Entity:    EntityTask,
		Operation: OperationCreate,
		Data:      json.RawMessage(`{"title":"buy milk"}`),
	}
	if err := store.Enqueue(item); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	items, err := store.GetBatch(10)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	got := items[0]
	if got.ID == "" {
		t.Error("Expected a generated ID")
	}
	if got.Priority != 3 {
		t.Errorf("Expected default priority 3, got %d", got.Priority)
	}
	if got.Entity != EntityTask || got.Operation != OperationCreate {
		t.Errorf("Unexpected item: %+v", got)
	}

	// GetBatch must not consume.
	size, err := store.Size()
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != 1 {
		t.Errorf("Expected size 1 after GetBatch, got %d", size)
	}
}

func TestPriorityOrdering(t *testing.T) {
	store := openTestStore(t)

	base := time.Now()
	for _, item := range []Item{
		{ID: "low", Entity: EntityTask, Operation: OperationUpdate, Priority: 5, Timestamp: base},
		{ID: "high", Entity: EntityUser, Operation: OperationCreate, Priority: 1, Timestamp: base.Add(time.Second)},
		{ID: "mid", Entity: EntityTask, Operation: OperationCreate, Priority: 3, Timestamp: base},
	} {
		if err := store.Enqueue(item); err != nil {
			t.Fatalf("Enqueue(%s) failed: %v", item.ID, err)
		}
	}

	items, err := store.GetBatch(10)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	want := []string{"high", "mid", "low"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("Position %d: got %q, want %q", i, items[i].ID, id)
		}
	}
}

func TestRemove(t *testing.T) {
	store := openTestStore(t)

	if err := store.Enqueue(Item{ID: "item-1", Entity: EntityTask, Operation: OperationDelete}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	items, err := store.GetBatch(1)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if err := store.Remove(items[0]); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	size, _ := store.Size()
	if size != 0 {
		t.Errorf("Expected empty buffer after Remove, got %d", size)
	}

	// Removing by ID alone must also work.
	if err := store.Enqueue(Item{ID: "item-2", Entity: EntityTask, Operation: OperationCreate}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := store.Remove(Item{ID: "item-2"}); err != nil {
		t.Fatalf("Remove by ID failed: %v", err)
	}
	size, _ = store.Size()
	if size != 0 {
		t.Errorf("Expected empty buffer after Remove by ID, got %d", size)
	}
}

func TestRequeueBumpsTimestamp(t *testing.T) {
	store := openTestStore(t)

	old := time.Now().Add(-time.Hour)
	if err := store.Enqueue(Item{ID: "retry-me", Entity: EntityTask, Operation: OperationCreate, Timestamp: old}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	items, _ := store.GetBatch(1)
	items[0].Retries++
	if err := store.Remove(items[0]); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := store.Requeue(items[0]); err != nil {
		t.Fatalf("Requeue failed: %v", err)
	}

	items, _ = store.GetBatch(1)
	if len(items) != 1 {
		t.Fatalf("Expected 1 item after requeue, got %d", len(items))
	}
	if items[0].Retries != 1 {
		t.Errorf("Expected retry count 1, got %d", items[0].Retries)
	}
	if !items[0].Timestamp.After(old) {
		t.Error("Requeue should refresh the timestamp")
	}
}

func TestCleanup(t *testing.T) {
	store := openTestStore(t)

	stale := Item{ID: "stale", Entity: EntityTask, Operation: OperationCreate, Timestamp: time.Now().Add(-48 * time.Hour)}
	fresh := Item{ID: "fresh", Entity: EntityTask, Operation: OperationCreate, Timestamp: time.Now()}
	for _, item := range []Item{stale, fresh} {
		if err := store.Enqueue(item); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	if err := store.Cleanup(time.Now().Add(-24 * time.Hour)); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	items, _ := store.GetBatch(10)
	if len(items) != 1 || items[0].ID != "fresh" {
		t.Errorf("Expected only the fresh item to survive, got %+v", items)
	}
}
