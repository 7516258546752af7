package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/agalitsyn/tasklist/internal/model"
)

// TaskStore owns the in-memory task collection and the session view state.
// Every mutation writes the full collection back through the repository;
// a failed write is logged and the in-memory state stays authoritative.
//
// The store is not safe for concurrent use, callers serialize access.
type TaskStore struct {
	repo model.TaskRepository

	tasks  []model.Task
	filter model.FilterState
	sort   model.SortState
}

func NewTaskStore(repo model.TaskRepository) *TaskStore {
	return &TaskStore{
		repo:   repo,
		filter: model.DefaultFilter(),
		sort:   model.DefaultSort(),
	}
}

// Init replaces the in-memory collection with the persisted one.
func (s *TaskStore) Init(ctx context.Context) error {
	tasks, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("could not load tasks: %w", err)
	}
	s.tasks = tasks
	return nil
}

func (s *TaskStore) AddTask(ctx context.Context, title string, due string, tags []string) (model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return model.Task{}, model.ErrEmptyTitle
	}
	task := model.NewTask(title, due, tags)
	s.tasks = append(s.tasks, task)
	s.persist(ctx)
	return task, nil
}

// UpdateTask merges upd over the stored task. A missing id is a no-op and
// reports false so the caller can tell nothing happened.
func (s *TaskStore) UpdateTask(ctx context.Context, id string, upd model.TaskUpdate) (bool, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return false, model.ErrEmptyTitle
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return false, fmt.Errorf("unknown task status %q", *upd.Status)
	}

	i := s.indexByID(id)
	if i < 0 {
		lgr.Printf("DEBUG update on missing task id=%s", id)
		return false, nil
	}

	task := &s.tasks[i]
	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Due != nil {
		task.Due = *upd.Due
	}
	if upd.Tags != nil {
		task.Tags = *upd.Tags
	}
	if upd.Status != nil {
		task.Status = *upd.Status
	}
	task.UpdatedAt = time.Now()
	s.persist(ctx)
	return true, nil
}

func (s *TaskStore) DeleteTask(ctx context.Context, id string) bool {
	i := s.indexByID(id)
	if i < 0 {
		lgr.Printf("DEBUG delete on missing task id=%s", id)
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persist(ctx)
	return true
}

// ToggleStatus flips between done and not-done: "doing" goes straight to
// "done", only "done" comes back as "todo".
func (s *TaskStore) ToggleStatus(ctx context.Context, id string) bool {
	i := s.indexByID(id)
	if i < 0 {
		lgr.Printf("DEBUG toggle on missing task id=%s", id)
		return false
	}
	task := &s.tasks[i]
	if task.Status == model.TaskStatusDone {
		task.Status = model.TaskStatusTODO
	} else {
		task.Status = model.TaskStatusDone
	}
	task.UpdatedAt = time.Now()
	s.persist(ctx)
	return true
}

func (s *TaskStore) TaskByID(id string) (model.Task, bool) {
	i := s.indexByID(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

// SetFilter merges the patch into the current filter, untouched keys keep
// their value. Filter state lives only for the session.
func (s *TaskStore) SetFilter(patch model.FilterPatch) {
	if patch.Keyword != nil {
		s.filter.Keyword = *patch.Keyword
	}
	if patch.Tag != nil {
		s.filter.Tag = *patch.Tag
	}
	if patch.Status != nil {
		s.filter.Status = *patch.Status
	}
}

func (s *TaskStore) ClearFilter() {
	s.filter = model.DefaultFilter()
}

func (s *TaskStore) SetSort(token string) error {
	state, err := model.ParseSortToken(token)
	if err != nil {
		return err
	}
	s.sort = state
	return nil
}

// FilteredSortedTasks derives the current view. It never mutates the store.
func (s *TaskStore) FilteredSortedTasks() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if s.matches(task) {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.compare(out[i], out[j]) < 0
	})
	return out
}

// Stats tallies the whole collection, not the filtered view.
func (s *TaskStore) Stats() model.Stats {
	var stats model.Stats
	for _, task := range s.tasks {
		switch task.Status {
		case model.TaskStatusTODO:
			stats.TODO++
		case model.TaskStatusDoing:
			stats.Doing++
		case model.TaskStatusDone:
			stats.Done++
		default:
			lgr.Printf("WARN unknown status %q on task id=%s", task.Status, task.ID)
		}
	}
	return stats
}

// AllTasks returns the collection in storage order, independent of view state.
func (s *TaskStore) AllTasks() []model.Task {
	return s.tasks
}

func (s *TaskStore) indexByID(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) matches(task model.Task) bool {
	if kw := strings.ToLower(s.filter.Keyword); kw != "" {
		found := strings.Contains(strings.ToLower(task.Title), kw)
		for _, tag := range task.Tags {
			if found {
				break
			}
			found = strings.Contains(strings.ToLower(tag), kw)
		}
		if !found {
			return false
		}
	}

	if s.filter.Tag != "" {
		found := false
		for _, tag := range task.Tags {
			if strings.EqualFold(tag, s.filter.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if s.filter.Status != model.FilterStatusAll && s.filter.Status != "" {
		if string(task.Status) != s.filter.Status {
			return false
		}
	}
	return true
}

func (s *TaskStore) compare(a, b model.Task) int {
	// A task without a due date sorts after any task with one, in both orders.
	if s.sort.Key == model.SortKeyDue {
		switch {
		case a.Due == "" && b.Due == "":
			return 0
		case a.Due == "":
			return 1
		case b.Due == "":
			return -1
		}
	}

	c := compareByKey(a, b, s.sort.Key)
	if s.sort.Order == model.SortOrderDesc {
		c = -c
	}
	return c
}

func compareByKey(a, b model.Task, key model.SortKey) int {
	switch key {
	case model.SortKeyID:
		return strings.Compare(a.ID, b.ID)
	case model.SortKeyTitle:
		return strings.Compare(a.Title, b.Title)
	case model.SortKeyDue:
		// YYYY-MM-DD compares chronologically as text.
		return strings.Compare(a.Due, b.Due)
	case model.SortKeyStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case model.SortKeyUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// persist writes the full collection back. Failures are reported, not raised:
// memory is ahead of disk for the rest of the session.
func (s *TaskStore) persist(ctx context.Context) {
	if err := s.repo.SaveAll(ctx, s.tasks); err != nil {
		lgr.Printf("WARN could not save tasks: %v", err)
	}
}
