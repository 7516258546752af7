// Package export renders the task collection as a portable CSV document.
//
// The format is pinned: comma delimited, RFC 4180 quoting, CRLF between rows
// and no trailing line break. encoding/csv always terminates the last row,
// so the rows are joined by hand.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/agalitsyn/tasklist/internal/model"
)

// MIMEType declares the export content type for download surfaces.
const MIMEType = "text/csv;charset=utf-8;"

var columns = []string{"id", "title", "due", "tags", "status", "created_at", "updated_at"}

// FormatTime renders a timestamp as "YYYY-MM-DD HH:mm" in local wall-clock
// terms. The zero time renders as an empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// EscapeField quotes a CSV field when it contains a comma, a quote or a
// newline, doubling internal quotes. Anything else passes through verbatim.
func EscapeField(value string) string {
	if !strings.ContainsAny(value, ",\"\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// GenerateCSV renders the header row and one row per task. Tags are joined
// with semicolons so a tag list alone never forces field quoting.
func GenerateCSV(tasks []model.Task) string {
	rows := make([]string, 0, len(tasks)+1)
	rows = append(rows, strings.Join(columns, ","))
	for _, task := range tasks {
		fields := []string{
			task.ID,
			task.Title,
			task.Due,
			strings.Join(task.Tags, ";"),
			string(task.Status),
			task.CreatedAt.Format(time.RFC3339),
			task.UpdatedAt.Format(time.RFC3339),
		}
		for i, field := range fields {
			fields[i] = EscapeField(field)
		}
		rows = append(rows, strings.Join(fields, ","))
	}
	return strings.Join(rows, "\r\n")
}

// FileName names an export after the moment it was taken.
func FileName(t time.Time) string {
	return fmt.Sprintf("tasks-%s.csv", t.Format("2006-01-02"))
}
