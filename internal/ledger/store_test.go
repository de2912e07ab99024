package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"kakeibo/internal/core"
	"kakeibo/internal/storage"
)

// failingKV rejects writes, standing in for a broken disk.
type failingKV struct {
	*storage.MemoryStore
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	return errors.New("disk full")
}

func TestStore_UpsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()

	store := NewStore(kv, "")
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	entry := core.Entry{Amount: 1200, Type: core.Expense, CategoryID: "food", Memo: "lunch"}
	saved, err := store.Upsert(ctx, "2025-06-10", entry)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if saved.ID == "" {
		t.Fatal("Upsert() must synthesize an id for a new entry")
	}

	// A second store over the same backing sees the write.
	reloaded := NewStore(kv, "")
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	day := reloaded.Snapshot()["2025-06-10"]
	if len(day) != 1 {
		t.Fatalf("reloaded day has %d entries, want 1", len(day))
	}
	if day[0] != saved {
		t.Errorf("reloaded entry = %+v, want %+v", day[0], saved)
	}
}

func TestStore_UpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemoryStore(), "")

	first, err := store.Upsert(ctx, "2025-06-10", core.Entry{Amount: 100, Type: core.Expense, CategoryID: "food"})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := store.Upsert(ctx, "2025-06-10", core.Entry{Amount: 50, Type: core.Expense, CategoryID: "daily"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	edited := first
	edited.Amount = 150
	edited.Memo = "edited"
	if _, err := store.Upsert(ctx, "2025-06-10", edited); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	day := store.Snapshot()["2025-06-10"]
	if len(day) != 2 {
		t.Fatalf("day has %d entries, want 2 (edit must replace, not append)", len(day))
	}
	if day[0].ID != first.ID || day[0].Amount != 150 || day[0].Memo != "edited" {
		t.Errorf("edited entry must keep its list position, got %+v", day[0])
	}
}

func TestStore_UpsertValidation(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemoryStore(), "")

	tests := []struct {
		name    string
		date    string
		entry   core.Entry
		wantErr error
	}{
		{
			name:    "bad date",
			date:    "june 10",
			entry:   core.Entry{Amount: 100, Type: core.Expense, CategoryID: "food"},
			wantErr: core.ErrInvalidDate,
		},
		{
			name:    "zero amount",
			date:    "2025-06-10",
			entry:   core.Entry{Amount: 0, Type: core.Expense, CategoryID: "food"},
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "missing category",
			date:    "2025-06-10",
			entry:   core.Entry{Amount: 100, Type: core.Expense},
			wantErr: core.ErrMissingCategory,
		},
		{
			name:    "unknown type",
			date:    "2025-06-10",
			entry:   core.Entry{Amount: 100, Type: "transfer", CategoryID: "food"},
			wantErr: core.ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Upsert(ctx, tt.date, tt.entry); !errors.Is(err, tt.wantErr) {
				t.Errorf("Upsert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if store.Snapshot().EntryCount() != 0 {
		t.Error("rejected upserts must not touch the ledger")
	}
}

func TestStore_RemoveDropsEmptyDate(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	store := NewStore(kv, "")

	saved, err := store.Upsert(ctx, "2025-06-10", core.Entry{Amount: 100, Type: core.Expense, CategoryID: "food"})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := store.Remove(ctx, "2025-06-10", saved.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, ok := store.Snapshot()["2025-06-10"]; ok {
		t.Error("removing the last entry must drop the date key")
	}

	raw, ok, err := kv.Get(ctx, DefaultDocumentKey)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("stored document is not valid JSON: %v", err)
	}
	if _, present := doc["2025-06-10"]; present {
		t.Error("the stored document must not keep an empty array for the date")
	}
}

func TestStore_RemoveNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemoryStore(), "")

	if _, err := store.Upsert(ctx, "2025-06-10", core.Entry{Amount: 100, Type: core.Expense, CategoryID: "food"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if err := store.Remove(ctx, "2025-06-10", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(unknown id) error = %v, want ErrNotFound", err)
	}
	if err := store.Remove(ctx, "2025-06-11", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(unknown date) error = %v, want ErrNotFound", err)
	}
}

func TestStore_WriteFailureLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	store := NewStore(&failingKV{storage.NewMemoryStore()}, "")

	_, err := store.Upsert(ctx, "2025-06-10", core.Entry{Amount: 100, Type: core.Expense, CategoryID: "food"})
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Upsert() error = %v, want a PersistenceError", err)
	}
	if perr.Op != "upsert" {
		t.Errorf("PersistenceError.Op = %q, want upsert", perr.Op)
	}
	if store.Snapshot().EntryCount() != 0 {
		t.Error("a failed write must leave the in-memory ledger untouched")
	}
}

func TestStore_LoadAbsentDocument(t *testing.T) {
	store := NewStore(storage.NewMemoryStore(), "")
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(store.Snapshot()) != 0 {
		t.Error("an absent document must yield an empty ledger")
	}
}

func TestStore_LoadUnparseableDocument(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	if err := kv.Set(ctx, DefaultDocumentKey, "{not json"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	store := NewStore(kv, "")
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load() must recover from a corrupt document, got %v", err)
	}
	if len(store.Snapshot()) != 0 {
		t.Error("a corrupt document must yield an empty ledger")
	}
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemoryStore(), "")
	saved, err := store.Upsert(ctx, "2025-06-10", core.Entry{Amount: 100, Type: core.Expense, CategoryID: "food"})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	snap := store.Snapshot()
	snap["2025-06-10"][0].Amount = 999

	if store.Snapshot()["2025-06-10"][0].Amount != saved.Amount {
		t.Error("mutating a snapshot must not affect the store")
	}
}
