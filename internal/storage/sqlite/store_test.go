package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"creaturelab/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "creatures.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenTwiceAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creatures.sqlite")
	first, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	second, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = second.Close()
}

func TestPutGetCreature(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	created := time.Date(2025, time.January, 23, 10, 0, 0, 0, time.UTC)

	record := storage.CreatureRecord{
		ID:        "zartan",
		Kind:      "dragon",
		Name:      "Zartan",
		BornOn:    "2006-01-20",
		Health:    100,
		Resource:  50,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := store.PutCreatures(ctx, record); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.GetCreature(ctx, "zartan")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(created) {
		t.Fatalf("unexpected timestamps: %v, %v", got.CreatedAt, got.UpdatedAt)
	}
	got.CreatedAt, got.UpdatedAt = record.CreatedAt, record.UpdatedAt
	if got != record {
		t.Fatalf("got %+v, want %+v", got, record)
	}
}

func TestPutCreatureUpdatesKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	created := time.Date(2025, time.January, 23, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	record := storage.CreatureRecord{ID: "zartan", Kind: "dragon", Name: "Zartan", BornOn: "2006-01-20", Health: 100, Resource: 50, CreatedAt: created, UpdatedAt: created}
	if err := store.PutCreatures(ctx, record); err != nil {
		t.Fatalf("put: %v", err)
	}
	record.Resource = 40
	record.CreatedAt = updated
	record.UpdatedAt = updated
	if err := store.PutCreatures(ctx, record); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.GetCreature(ctx, "zartan")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Resource != 40 {
		t.Fatalf("expected resource 40, got %d", got.Resource)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected timestamps: created %v, updated %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestPutCreatureValidation(t *testing.T) {
	store := openTestStore(t)
	tests := []struct {
		name   string
		record storage.CreatureRecord
	}{
		{"missing id", storage.CreatureRecord{Name: "Zartan", Kind: "dragon", BornOn: "2006-01-20"}},
		{"missing name", storage.CreatureRecord{ID: "zartan", Kind: "dragon", BornOn: "2006-01-20"}},
		{"health out of range", storage.CreatureRecord{ID: "zartan", Name: "Zartan", Kind: "dragon", BornOn: "2006-01-20", Health: 101}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.PutCreatures(context.Background(), tt.record); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGetCreatureNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetCreature(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListCreaturesOrderedByName(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	for _, r := range []storage.CreatureRecord{
		{ID: "c", Kind: "orc", Name: "Grunk", BornOn: "2000-04-21", Health: 75, Resource: 25},
		{ID: "a", Kind: "elf", Name: "Sir Elfizar", BornOn: "2005-07-15", Health: 50},
		{ID: "b", Kind: "dragon", Name: "Zartan", BornOn: "2006-01-20", Health: 100},
	} {
		if err := store.PutCreatures(ctx, r); err != nil {
			t.Fatalf("put %s: %v", r.ID, err)
		}
	}

	records, err := store.ListCreatures(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	want := []string{"Grunk", "Sir Elfizar", "Zartan"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestDeleteCreature(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.PutCreatures(ctx, storage.CreatureRecord{ID: "a", Kind: "elf", Name: "Sir Elfizar", BornOn: "2005-07-15", Health: 50}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.DeleteCreature(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteCreature(ctx, "a"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.ListCreatures(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE t (id TEXT);\n-- +migrate Down\nDROP TABLE t;\n"
	got := extractUpMigration(content)
	if got != "\nCREATE TABLE t (id TEXT);\n" {
		t.Fatalf("unexpected up section %q", got)
	}
	if extractUpMigration("SELECT 1;") != "SELECT 1;" {
		t.Fatal("expected whole content without markers")
	}
}

func TestPutCreaturesIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	dragon := storage.CreatureRecord{ID: "zartan", Kind: "dragon", Name: "Zartan", BornOn: "2006-01-20", Health: 100, Resource: 50}
	elf := storage.CreatureRecord{ID: "elf", Kind: "elf", Name: "Sir Elfizar", BornOn: "2005-07-15", Health: 50}
	if err := store.PutCreatures(ctx, dragon, elf); err != nil {
		t.Fatalf("put: %v", err)
	}

	// The elf's update violates the health check, so the dragon's must not
	// land either.
	dragon.Resource = 40
	elf.Health = 101
	if err := store.PutCreatures(ctx, dragon, elf); err == nil {
		t.Fatal("expected error")
	}

	got, err := store.GetCreature(ctx, "zartan")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Resource != 50 {
		t.Fatalf("expected rolled back fire power 50, got %d", got.Resource)
	}
}

func TestPutCreaturesEmpty(t *testing.T) {
	if err := openTestStore(t).PutCreatures(context.Background()); err != nil {
		t.Fatalf("put nothing: %v", err)
	}
}
