package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/agalitsyn/tasklist/internal/model"
)

const taskSlot = "tasks"

// TaskStorage persists the whole task collection as one JSON array in a
// named key-value slot. Reads and writes always cover the full collection.
type TaskStorage struct {
	db *sql.DB
}

func NewTaskStorage(db *sql.DB) *TaskStorage {
	return &TaskStorage{db: db}
}

// LoadAll returns the persisted collection. A missing slot yields an empty
// collection; a corrupt slot is logged and degrades to an empty collection
// instead of failing the caller.
func (s *TaskStorage) LoadAll(ctx context.Context) ([]model.Task, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE name = ?`, taskSlot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []model.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read slot %q: %w", taskSlot, err)
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(value), &tasks); err != nil {
		lgr.Printf("WARN corrupt slot %q, starting with empty collection: %v", taskSlot, err)
		return []model.Task{}, nil
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// SaveAll replaces whatever the slot held before.
func (s *TaskStorage) SaveAll(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	value, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("could not encode tasks: %w", err)
	}

	query := `
		INSERT INTO slots (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, query, taskSlot, string(value)); err != nil {
		return fmt.Errorf("could not save slot %q: %w", taskSlot, err)
	}
	return nil
}
