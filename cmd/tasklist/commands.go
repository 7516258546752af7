package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agalitsyn/tasklist/internal/app"
	"github.com/agalitsyn/tasklist/internal/export"
	"github.com/agalitsyn/tasklist/internal/model"
)

const usage = `Usage: tasklist [flags] <command> [command flags]

Commands:
  add      Add a task: add [-due YYYY-MM-DD] [-tags a,b] <title>
  list     Show tasks: list [-keyword s] [-tag s] [-status todo|doing|done|all] [-sort key_asc|key_desc]
  show     Show one task: show <id>
  edit     Edit a task: edit <id> [-title s] [-due YYYY-MM-DD] [-tags a,b] [-status s]
  toggle   Toggle done state: toggle <id>
  rm       Delete a task: rm <id>
  stats    Show counts by status
  export   Write CSV: export [-o file]
`

func run(ctx context.Context, store *app.TaskStore, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "add":
		return runAdd(ctx, store, rest)
	case "list":
		return runList(store, rest)
	case "show":
		return runShow(store, rest)
	case "edit":
		return runEdit(ctx, store, rest)
	case "toggle":
		return runToggle(ctx, store, rest)
	case "rm":
		return runDelete(ctx, store, rest)
	case "stats":
		runStats(store)
		return nil
	case "export":
		return runExport(store, rest)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runAdd(ctx context.Context, store *app.TaskStore, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	due := fs.String("due", "", "Due date (YYYY-MM-DD).")
	tags := fs.String("tags", "", "Comma separated tags.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if *due != "" {
		if _, err := time.Parse("2006-01-02", *due); err != nil {
			return fmt.Errorf("could not parse due date %q, want YYYY-MM-DD", *due)
		}
	}

	task, err := store.AddTask(ctx, title, *due, model.ParseTags(*tags))
	if err != nil {
		return err
	}
	color.Green("added %s", task.ID)
	return nil
}

func runList(store *app.TaskStore, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	keyword := fs.String("keyword", "", "Keyword match on title or tags.")
	tag := fs.String("tag", "", "Exact tag match.")
	status := fs.String("status", "", "Status filter (todo | doing | done | all).")
	sortBy := fs.String("sort", "", "Sort token, e.g. due_asc or created_at_desc.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var patch model.FilterPatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "keyword":
			patch.Keyword = keyword
		case "tag":
			patch.Tag = tag
		case "status":
			patch.Status = status
		}
	})
	store.SetFilter(patch)
	if *sortBy != "" {
		if err := store.SetSort(*sortBy); err != nil {
			return err
		}
	}

	tasks := store.FilteredSortedTasks()
	if len(tasks) == 0 {
		color.Yellow("no tasks to show")
		return nil
	}
	renderTasks(tasks)
	renderStats(store.Stats())
	return nil
}

func runShow(store *app.TaskStore, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <id>")
	}
	task, ok := store.TaskByID(args[0])
	if !ok {
		color.Yellow("no task with id %s", args[0])
		return nil
	}

	fmt.Printf("id:         %s\n", task.ID)
	fmt.Printf("title:      %s\n", task.Title)
	fmt.Printf("status:     %s\n", statusLabel(task.Status))
	fmt.Printf("due:        %s\n", task.Due)
	fmt.Printf("tags:       %s\n", strings.Join(task.Tags, ", "))
	fmt.Printf("created at: %s\n", export.FormatTime(task.CreatedAt))
	fmt.Printf("updated at: %s\n", export.FormatTime(task.UpdatedAt))
	return nil
}

func runEdit(ctx context.Context, store *app.TaskStore, args []string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("usage: edit <id> [flags]")
	}
	id := args[0]

	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	title := fs.String("title", "", "New title.")
	due := fs.String("due", "", "New due date (YYYY-MM-DD), empty clears it.")
	tags := fs.String("tags", "", "New comma separated tags, empty clears them.")
	status := fs.String("status", "", "New status (todo | doing | done).")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var upd model.TaskUpdate
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			trimmed := strings.TrimSpace(*title)
			upd.Title = &trimmed
		case "due":
			if *due != "" {
				if _, err := time.Parse("2006-01-02", *due); err != nil {
					parseErr = fmt.Errorf("could not parse due date %q, want YYYY-MM-DD", *due)
					return
				}
			}
			upd.Due = due
		case "tags":
			parsed := model.ParseTags(*tags)
			upd.Tags = &parsed
		case "status":
			st := model.TaskStatus(*status)
			upd.Status = &st
		}
	})
	if parseErr != nil {
		return parseErr
	}

	ok, err := store.UpdateTask(ctx, id, upd)
	if err != nil {
		return err
	}
	if !ok {
		color.Yellow("no task with id %s", id)
		return nil
	}
	color.Green("updated %s", id)
	return nil
}

func runToggle(ctx context.Context, store *app.TaskStore, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: toggle <id>")
	}
	if !store.ToggleStatus(ctx, args[0]) {
		color.Yellow("no task with id %s", args[0])
		return nil
	}
	task, _ := store.TaskByID(args[0])
	color.Green("toggled %s to %s", args[0], task.Status)
	return nil
}

func runDelete(ctx context.Context, store *app.TaskStore, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rm <id>")
	}
	if !store.DeleteTask(ctx, args[0]) {
		color.Yellow("no task with id %s", args[0])
		return nil
	}
	color.Green("deleted %s", args[0])
	return nil
}

func runStats(store *app.TaskStore) {
	renderStats(store.Stats())
}

func runExport(store *app.TaskStore, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "Output file. Defaults to tasks-<date>.csv in the working directory.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Export covers the full collection, independent of the current view.
	tasks := store.AllTasks()
	if len(tasks) == 0 {
		color.Yellow("no tasks to export")
		return nil
	}

	path := *out
	if path == "" {
		path = export.FileName(time.Now())
	}
	if err := os.WriteFile(path, []byte(export.GenerateCSV(tasks)), 0o644); err != nil {
		return fmt.Errorf("could not write export file: %w", err)
	}
	color.Green("exported %d tasks to %s", len(tasks), path)
	return nil
}

func renderTasks(tasks []model.Task) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tTITLE\tSTATUS\tDUE\tTAGS\tUPDATED")
	for _, task := range tasks {
		mark := " "
		if task.Status == model.TaskStatusDone {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s]\t%s\t%s\t%s\t%s\t%s\t%s\n",
			mark,
			task.ID,
			task.Title,
			statusLabel(task.Status),
			task.Due,
			strings.Join(task.Tags, ";"),
			export.FormatTime(task.UpdatedAt),
		)
	}
	w.Flush()
}

func renderStats(stats model.Stats) {
	fmt.Printf("%s %d  %s %d  %s %d\n",
		color.YellowString("todo:"), stats.TODO,
		color.BlueString("doing:"), stats.Doing,
		color.GreenString("done:"), stats.Done,
	)
}

func statusLabel(status model.TaskStatus) string {
	label := cases.Title(language.English).String(string(status))
	switch status {
	case model.TaskStatusTODO:
		return color.YellowString(label)
	case model.TaskStatusDoing:
		return color.BlueString(label)
	case model.TaskStatusDone:
		return color.GreenString(label)
	default:
		return label
	}
}
