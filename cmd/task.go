package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/focus/internal/models"
	"github.com/joescharf/focus/internal/output"
	"github.com/joescharf/focus/internal/store"
	"github.com/joescharf/focus/internal/tasks"
)

var (
	taskTitle    string
	taskDesc     string
	taskStatus   string
	taskPriority string
	taskAddPrio  string
	taskCategory string
	taskDue      string
	taskSessions int
	taskSearch   string
	taskApply    bool
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage the task list",
	Long: `View and change the prioritized task list.

Tasks can be referenced by their list number (as shown by 'focus task list'),
by ID or unique ID prefix, or by a unique part of their title.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskListRun()
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskListRun()
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task to the end of the list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskAddRun()
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskShowRun(args[0])
	},
}

var taskDoneCmd = &cobra.Command{
	Use:     "done <task>",
	Aliases: []string{"toggle"},
	Short:   "Toggle a task between completed and todo",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskDoneRun(args[0])
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <task> <position>",
	Short: "Move a task to a new list position (1-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[1])
		}
		return taskMoveRun(args[0], pos)
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete <task>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskDeleteRun(args[0])
	},
}

var taskEstimateCmd = &cobra.Command{
	Use:   "estimate <task>",
	Short: "Ask Claude how many Pomodoros a task needs",
	Long: `Ask Claude for a Pomodoro count and a short step list for a task.
Requires anthropic.api_key (or ANTHROPIC_API_KEY). With --apply the
estimate becomes the task's planned session count.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskEstimateRun(cmd.Context(), args[0])
	},
}

func init() {
	taskListCmd.Flags().StringVar(&taskStatus, "status", "", "Filter by status: todo, in_progress, completed, all")
	taskListCmd.Flags().StringVar(&taskPriority, "priority", "", "Filter by priority: low, medium, high, all")
	taskListCmd.Flags().StringVar(&taskSearch, "search", "", "Search title and description")

	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "Task title (required)")
	taskAddCmd.Flags().StringVar(&taskDesc, "desc", "", "Task description")
	taskAddCmd.Flags().StringVar(&taskAddPrio, "priority", "medium", "Priority: low, medium, high")
	taskAddCmd.Flags().StringVar(&taskCategory, "category", "work", "Category: work, personal, health, learning")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")
	taskAddCmd.Flags().IntVar(&taskSessions, "sessions", 1, "Planned Pomodoro sessions")
	_ = taskAddCmd.MarkFlagRequired("title")

	taskEstimateCmd.Flags().BoolVar(&taskApply, "apply", false, "Store the estimate as the planned session count")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskEstimateCmd)
	rootCmd.AddCommand(taskCmd)
}

func taskListRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	status, err := tasks.ParseStatus(taskStatus)
	if err != nil {
		return err
	}
	priority, err := tasks.ParsePriority(taskPriority)
	if err != nil {
		return err
	}

	list, err := s.ListTasks(ctx, store.TaskListFilter{
		Status:   status,
		Priority: priority,
		Query:    taskSearch,
	})
	if err != nil {
		return err
	}

	if len(list) == 0 {
		ui.Info("No tasks found.")
		return nil
	}

	renderTaskTable(list)
	return nil
}

func renderTaskTable(list []*models.Task) {
	now := nowFunc()
	table := ui.Table([]string{"#", "ID", "Title", "Status", "Priority", "Category", "Due", "Sessions"})
	for i, t := range list {
		status := string(t.Status)
		if tasks.IsOverdue(t, now) {
			status = "overdue"
		}
		_ = table.Append([]string{
			strconv.Itoa(i + 1),
			shortID(t.ID),
			t.Title,
			output.StatusColor(status),
			output.PriorityColor(string(t.Priority)),
			string(t.Category),
			formatDue(t.DueDate),
			fmt.Sprintf("%d/%d", t.CompletedSessions, t.PlannedSessions),
		})
	}
	_ = table.Render()
}

func taskAddRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	priority, err := tasks.ParsePriority(taskAddPrio)
	if err != nil {
		return err
	}
	category, err := tasks.ParseCategory(taskCategory)
	if err != nil {
		return err
	}
	if taskSessions < 0 {
		return fmt.Errorf("--sessions must not be negative")
	}

	t := &models.Task{
		Title:           taskTitle,
		Description:     taskDesc,
		Priority:        priority,
		Category:        category,
		PlannedSessions: taskSessions,
	}
	if taskDue != "" {
		d, err := time.ParseInLocation(models.DateLayout, taskDue, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --due %q (want YYYY-MM-DD)", taskDue)
		}
		t.DueDate = d
	}

	if dryRun {
		ui.DryRunMsg("Would add task: %s [%s/%s]", t.Title, priority, category)
		return nil
	}

	if err := s.CreateTask(ctx, t); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	ui.Success("Added task %s: %s", output.Cyan(shortID(t.ID)), t.Title)
	return nil
}

func taskShowRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	t, err := findTask(ctx, s, ref)
	if err != nil {
		return err
	}

	status := string(t.Status)
	if tasks.IsOverdue(t, nowFunc()) {
		status += " (overdue)"
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(shortID(t.ID)), t.Title)
	fmt.Fprintf(ui.Out, "  Status:     %s\n", output.StatusColor(status))
	fmt.Fprintf(ui.Out, "  Priority:   %s\n", output.PriorityColor(string(t.Priority)))
	fmt.Fprintf(ui.Out, "  Category:   %s\n", t.Category)
	if t.Description != "" {
		fmt.Fprintf(ui.Out, "  Desc:\n%s\n", wrapText(t.Description))
	}
	fmt.Fprintf(ui.Out, "  Due:        %s\n", formatDue(t.DueDate))
	fmt.Fprintf(ui.Out, "  Sessions:   %d/%d  %s\n", t.CompletedSessions, t.PlannedSessions,
		output.Bar(t.CompletedSessions, t.PlannedSessions, 10))
	if t.CompletedAt != nil {
		fmt.Fprintf(ui.Out, "  Completed:  %s\n", t.CompletedAt.Local().Format(time.RFC3339))
	}
	fmt.Fprintf(ui.Out, "  Full ID:    %s\n", t.ID)
	return nil
}

func taskDoneRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	t, err := findTask(ctx, s, ref)
	if err != nil {
		return err
	}

	tasks.ToggleComplete(t, nowFunc())
	if dryRun {
		ui.DryRunMsg("Would mark %s as %s", t.Title, t.Status)
		return nil
	}
	if err := s.UpdateTask(ctx, t); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if t.Status == models.TaskStatusCompleted {
		ui.Success("Completed: %s", t.Title)
	} else {
		ui.Success("Reopened: %s", t.Title)
	}
	return nil
}

func taskMoveRun(ref string, position int) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	t, err := findTask(ctx, s, ref)
	if err != nil {
		return err
	}

	list, err := s.ListTasks(ctx, store.TaskListFilter{})
	if err != nil {
		return err
	}
	if position < 1 || position > len(list) {
		return fmt.Errorf("position %d out of range (1-%d)", position, len(list))
	}

	if dryRun {
		ui.DryRunMsg("Would move %s to position %d", t.Title, position)
		return nil
	}
	if err := s.MoveTask(ctx, t.ID, position-1); err != nil {
		return err
	}
	ui.Success("Moved %s to position %d", t.Title, position)

	if list, err = s.ListTasks(ctx, store.TaskListFilter{}); err != nil {
		return err
	}
	renderTaskTable(list)
	return nil
}

func taskDeleteRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	t, err := findTask(ctx, s, ref)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would delete task %s: %s", shortID(t.ID), t.Title)
		return nil
	}
	if err := s.DeleteTask(ctx, t.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	ui.Success("Deleted task: %s", t.Title)
	return nil
}

func taskEstimateRun(ctx context.Context, ref string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := getStore()
	if err != nil {
		return err
	}

	t, err := findTask(ctx, s, ref)
	if err != nil {
		return err
	}

	client, err := newLLMClient()
	if err != nil {
		return err
	}

	ui.VerboseLog("Estimating %q with %s", t.Title, viper.GetString("anthropic.model"))
	est, err := client.EstimateTask(ctx, t.Title, t.Description, viper.GetInt("pomodoro.work_minutes"))
	if err != nil {
		return fmt.Errorf("estimate task: %w", err)
	}

	ui.Info("%s: %s", t.Title, output.Cyan(fmt.Sprintf("%d Pomodoros", est.Sessions)))
	for i, step := range est.Steps {
		fmt.Fprintf(ui.Out, "  %d. %s\n", i+1, strings.TrimLeft(wrapText(step), " "))
	}

	if !taskApply {
		return nil
	}
	if dryRun {
		ui.DryRunMsg("Would set planned sessions of %s to %d", t.Title, est.Sessions)
		return nil
	}
	t.PlannedSessions = est.Sessions
	if err := s.UpdateTask(ctx, t); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	ui.Success("Planned sessions set to %d", est.Sessions)
	return nil
}

// findTask resolves a task reference: a 1-based list number, an ID or ID
// prefix, or a unique case-insensitive title fragment.
func findTask(ctx context.Context, s store.Store, ref string) (*models.Task, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		list, err := s.ListTasks(ctx, store.TaskListFilter{})
		if err != nil {
			return nil, err
		}
		if n < 1 || n > len(list) {
			return nil, fmt.Errorf("no task #%d (list has %d)", n, len(list))
		}
		return list[n-1], nil
	}

	t, err := s.ResolveTask(ctx, ref)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	matches, lerr := s.ListTasks(ctx, store.TaskListFilter{Query: ref})
	if lerr != nil {
		return nil, lerr
	}
	var byTitle []*models.Task
	for _, m := range matches {
		if strings.Contains(strings.ToLower(m.Title), strings.ToLower(ref)) {
			byTitle = append(byTitle, m)
		}
	}
	switch len(byTitle) {
	case 0:
		return nil, err
	case 1:
		return byTitle[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d tasks; use the list number or ID", ref, len(byTitle))
	}
}

// shortID trims a ULID to a prefix that stays unique within a small list.
func shortID(id string) string {
	if len(id) > 16 {
		return id[:16]
	}
	return id
}

func formatDue(d time.Time) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("Jan 2")
}

// wrapText word-wraps long text for the detail views and indents it
// under its label.
func wrapText(s string) string {
	return indent.String(wordwrap.String(s, 64), 6)
}
