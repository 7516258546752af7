package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/agalitsyn/sqlite"

	"github.com/agalitsyn/tasklist/internal/model"
	"github.com/agalitsyn/tasklist/internal/storage/sqlite/migrations"
)

func newTestStorage(t *testing.T) *TaskStorage {
	t.Helper()
	db, err := sqlite.Connect(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := sqlite.MigrateUp(db, migrations.FS); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	return NewTaskStorage(db)
}

func TestTaskStorage_LoadAll_EmptySlot(t *testing.T) {
	s := newTestStorage(t)

	tasks, err := s.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty collection, got %d tasks", len(tasks))
	}
}

func TestTaskStorage_SaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	want := []model.Task{
		{
			ID:        "id-1",
			Title:     "Buy milk",
			Due:       "2024-01-10",
			Tags:      []string{"home", "errand"},
			Status:    model.TaskStatusTODO,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "id-2",
			Title:     "no deadline",
			Status:    model.TaskStatusDone,
			CreatedAt: now,
			UpdatedAt: now.Add(time.Hour),
		},
	}
	if err := s.SaveAll(ctx, want); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	got, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].ID != "id-1" || got[1].ID != "id-2" {
		t.Fatalf("storage order not preserved: %+v", got)
	}
	if got[0].Due != "2024-01-10" || got[1].Due != "" {
		t.Fatalf("due round trip broken: %q / %q", got[0].Due, got[1].Due)
	}
	if len(got[0].Tags) != 2 || got[0].Tags[0] != "home" {
		t.Fatalf("tags round trip broken: %+v", got[0].Tags)
	}
	if !got[1].UpdatedAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("timestamp round trip broken: %v", got[1].UpdatedAt)
	}
}

func TestTaskStorage_SaveAll_ReplacesSlot(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	first := []model.Task{{ID: "id-1", Title: "a", Status: model.TaskStatusTODO}}
	if err := s.SaveAll(ctx, first); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if err := s.SaveAll(ctx, nil); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	got, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("save must replace the slot, got %d tasks", len(got))
	}
}

func TestTaskStorage_LoadAll_CorruptSlot(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (name, value) VALUES (?, ?)`, taskSlot, "{not json"); err != nil {
		t.Fatalf("seed corrupt slot: %v", err)
	}

	tasks, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("corrupt slot must degrade, not fail: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("corrupt slot must yield empty collection, got %d", len(tasks))
	}
}
