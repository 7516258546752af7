package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyTitle = errors.New("task title is empty")

type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Due       string     `json:"due"`
	Tags      []string   `json:"tags"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTask stamps a fresh task: generated id, status "todo", created == updated.
// Due is a calendar date in YYYY-MM-DD form, empty when the task has no deadline.
func NewTask(title string, due string, tags []string) Task {
	if tags == nil {
		tags = []string{}
	}
	now := time.Now()
	return Task{
		ID:        uuid.NewString(),
		Title:     title,
		Due:       due,
		Tags:      tags,
		Status:    TaskStatusTODO,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type TaskStatus string

const (
	TaskStatusTODO  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTODO, TaskStatusDoing, TaskStatusDone:
		return true
	}
	return false
}

// TaskUpdate describes a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title  *string
	Due    *string
	Tags   *[]string
	Status *TaskStatus
}

// FilterStatusAll disables the status predicate.
const FilterStatusAll = "all"

type FilterState struct {
	Keyword string
	Tag     string
	Status  string
}

func DefaultFilter() FilterState {
	return FilterState{Status: FilterStatusAll}
}

// FilterPatch merges into a FilterState; nil fields keep the current value.
type FilterPatch struct {
	Keyword *string
	Tag     *string
	Status  *string
}

type SortKey string

const (
	SortKeyID        SortKey = "id"
	SortKeyTitle     SortKey = "title"
	SortKeyDue       SortKey = "due"
	SortKeyStatus    SortKey = "status"
	SortKeyCreatedAt SortKey = "created_at"
	SortKeyUpdatedAt SortKey = "updated_at"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortKeyID, SortKeyTitle, SortKeyDue, SortKeyStatus, SortKeyCreatedAt, SortKeyUpdatedAt:
		return true
	}
	return false
}

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

type SortState struct {
	Key   SortKey
	Order SortOrder
}

func DefaultSort() SortState {
	return SortState{Key: SortKeyCreatedAt, Order: SortOrderDesc}
}

// ParseSortToken parses a combined "key_order" token, e.g. "created_at_desc".
// Keys contain underscores themselves, so the order is split off at the last one.
func ParseSortToken(token string) (SortState, error) {
	i := strings.LastIndex(token, "_")
	if i <= 0 || i == len(token)-1 {
		return SortState{}, fmt.Errorf("malformed sort token %q", token)
	}
	key := SortKey(token[:i])
	order := SortOrder(token[i+1:])
	if !key.Valid() {
		return SortState{}, fmt.Errorf("unknown sort key %q", key)
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return SortState{}, fmt.Errorf("unknown sort order %q", order)
	}
	return SortState{Key: key, Order: order}, nil
}

// ParseTags splits a comma separated tag list, trims whitespace and drops blanks.
// Order and duplicates are preserved as entered.
func ParseTags(input string) []string {
	var tags []string
	for _, part := range strings.Split(input, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

type Stats struct {
	TODO  int `json:"todo"`
	Doing int `json:"doing"`
	Done  int `json:"done"`
}

type TaskRepository interface {
	LoadAll(ctx context.Context) ([]Task, error)
	SaveAll(ctx context.Context, tasks []Task) error
}
