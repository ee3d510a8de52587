package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/export"
	"taskboard/internal/models/task"
	"taskboard/internal/viewmodel"
	"taskboard/internal/worker"

	"github.com/spf13/cobra"
)

func listCmd(e *env) *cobra.Command {
	var (
		filter      string
		search      string
		showHistory bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally filtered by status and searched by text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := e.store()
			f, err := viewmodel.ParseFilter(filter)
			if err != nil {
				return err
			}
			if err := store.SetFilter(f); err != nil {
				return err
			}
			store.SetSearch(search)

			if err := e.load(cmd.Context()); err != nil {
				return err
			}
			renderTasks(e.out, store, store.View(), showHistory)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", string(viewmodel.FilterAll), "Status filter (all, pending, completed)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive text to find in title or description")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Show the history of each task")
	return cmd
}

type draftFlags struct {
	title       string
	description string
	due         string
	clearDue    bool
	priority    string
	category    string
}

func (f *draftFlags) register(cmd *cobra.Command, withClear bool) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Task title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", string(task.PriorityMedium), "Priority (Low, Medium, High)")
	cmd.Flags().StringVar(&f.category, "category", string(task.CategoryUncategorized), "Category (Work, Personal, Shopping, Uncategorized)")
	if withClear {
		cmd.Flags().BoolVar(&f.clearDue, "clear-due", false, "Remove the due date")
	}
}

// apply copies the flags the user set onto d. Values are validated by the view-model.
func (f *draftFlags) apply(cmd *cobra.Command, d task.Draft) task.Draft {
	changed := cmd.Flags().Changed
	if changed("title") {
		d.Title = f.title
	}
	if changed("description") {
		d.Description = f.description
	}
	if changed("due") {
		d.DueDate = task.Date(f.due)
	}
	if f.clearDue {
		d.DueDate = ""
	}
	if changed("priority") {
		d.Priority = task.Priority(f.priority)
		if p, err := task.ParsePriority(f.priority); err == nil {
			d.Priority = p
		}
	}
	if changed("category") {
		d.Category = task.Category(f.category)
		if c, err := task.ParseCategory(f.category); err == nil {
			d.Category = c
		}
	}
	return d
}

func addCmd(e *env) *cobra.Command {
	var flags draftFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := e.store()
			store.SetDraft(flags.apply(cmd, task.NewDraft()))

			if err := store.Create(cmd.Context()); err != nil {
				return err
			}
			tasks := store.Tasks()
			created := tasks[len(tasks)-1]
			fmt.Fprintf(e.out, "Created task %s: %s\n", created.ID, created.Title)
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}

func completeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.load(cmd.Context()); err != nil {
				return err
			}
			id := task.ParseID(args[0])
			if err := e.store().Complete(cmd.Context(), id); err != nil {
				if errors.Is(err, viewmodel.ErrAlreadyCompleted) {
					return nil
				}
				return err
			}
			fmt.Fprintf(e.out, "Completed task %s\n", id)
			return nil
		},
	}
}

func editCmd(e *env) *cobra.Command {
	var flags draftFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit the fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := e.store()
			if err := e.load(cmd.Context()); err != nil {
				return err
			}

			id := task.ParseID(args[0])
			if err := store.BeginEdit(id); err != nil {
				return fmt.Errorf("task %s: %w", id, err)
			}
			draft, _ := store.EditDraft()
			if err := store.SetEditDraft(flags.apply(cmd, draft)); err != nil {
				return err
			}

			if err := store.Edit(cmd.Context()); err != nil {
				store.CancelEdit()
				return err
			}
			fmt.Fprintf(e.out, "Updated task %s\n", id)
			return nil
		},
	}
	flags.register(cmd, true)
	return cmd
}

func deleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := task.ParseID(args[0])
			if err := e.store().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Deleted task %s\n", id)
			return nil
		},
	}
}

func exportCmd(e *env) *cobra.Command {
	var (
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all tasks to tasks.csv or tasks.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = e.app.Config().Export.Dir
			}

			if err := e.load(cmd.Context()); err != nil {
				return err
			}
			path, err := e.store().Export(outDir, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Exported %d tasks to %s\n", len(e.store().Tasks()), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatCSV), "Export format (csv, json)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config export.dir)")
	return cmd
}

func themeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [toggle|light|dark]",
		Short:     "Show or change the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"toggle", "light", "dark"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store := e.store()
			if len(args) == 0 {
				fmt.Fprintln(e.out, themeLabel(store.Theme()))
				return nil
			}

			if args[0] == "toggle" {
				store.ToggleTheme()
			} else {
				want, err := viewmodel.ParseTheme(args[0])
				if err != nil {
					return err
				}
				if store.Theme() != want {
					store.ToggleTheme()
				}
			}

			if err := e.app.SaveTheme(); err != nil {
				return err
			}
			fmt.Fprintln(e.out, themeLabel(store.Theme()))
			return nil
		},
	}
}

func watchCmd(e *env) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload periodically and report tasks as they become overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := worker.NewOverdueWorker(e.store(), e.notifier(), &interval)
			fmt.Fprintf(e.out, "Watching %s every %s (Ctrl+C to stop)\n", e.app.Config().API.BaseURL, w.Interval())
			w.Start(ctx)
			return nil
		},
	}
	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Minute, "Reload interval")
	return cmd
}
