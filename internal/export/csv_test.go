package export

import (
	"strings"
	"testing"
	"time"

	"github.com/agalitsyn/tasklist/internal/model"
)

func TestEscapeField(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"a,b", `"a,b"`},
		{`a"b`, `"a""b"`},
		{"line\nbreak", "\"line\nbreak\""},
	}
	for _, tc := range cases {
		if got := EscapeField(tc.in); got != tc.want {
			t.Errorf("EscapeField(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(time.Time{}); got != "" {
		t.Errorf("zero time: got %q, want empty", got)
	}
	ts := time.Date(2024, 1, 10, 9, 5, 59, 0, time.Local)
	if got := FormatTime(ts); got != "2024-01-10 09:05" {
		t.Errorf("got %q, want 2024-01-10 09:05", got)
	}
}

func TestGenerateCSV(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{
			ID:        "id-1",
			Title:     "Buy milk, eggs",
			Due:       "2024-01-10",
			Tags:      []string{"home", "errand"},
			Status:    model.TaskStatusTODO,
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:        "id-2",
			Title:     "plain",
			Status:    model.TaskStatusDone,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}

	got := GenerateCSV(tasks)

	if strings.HasSuffix(got, "\r\n") {
		t.Fatal("no trailing line break expected")
	}
	rows := strings.Split(got, "\r\n")
	if len(rows) != 3 {
		t.Fatalf("want header + 2 rows, got %d rows", len(rows))
	}
	if rows[0] != "id,title,due,tags,status,created_at,updated_at" {
		t.Fatalf("unexpected header: %q", rows[0])
	}
	if !strings.Contains(rows[1], `"Buy milk, eggs"`) {
		t.Fatalf("comma title must be quoted: %q", rows[1])
	}
	if !strings.Contains(rows[1], "home;errand") {
		t.Fatalf("tags must be joined with semicolons: %q", rows[1])
	}
	if !strings.HasPrefix(rows[2], "id-2,plain,,") {
		t.Fatalf("absent due must render empty: %q", rows[2])
	}
}

func TestGenerateCSV_Empty(t *testing.T) {
	if got := GenerateCSV(nil); got != "id,title,due,tags,status,created_at,updated_at" {
		t.Fatalf("empty collection must still render the header: %q", got)
	}
}

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 3, 7, 23, 59, 0, 0, time.Local)
	if got := FileName(ts); got != "tasks-2024-03-07.csv" {
		t.Fatalf("got %q", got)
	}
}
