package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/focus/internal/analytics"
	"github.com/joescharf/focus/internal/calendar"
	"github.com/joescharf/focus/internal/models"
	"github.com/joescharf/focus/internal/pomodoro"
	"github.com/joescharf/focus/internal/sessions"
	"github.com/joescharf/focus/internal/store"
	"github.com/joescharf/focus/internal/tasks"
)

// Server exposes the task list, calendar, analytics and the timer as MCP
// tools. It owns one Controller for the life of the session.
type Server struct {
	store    store.Store
	timer    *pomodoro.Controller
	recorder *sessions.Recorder
	calc     *analytics.Calculator
	now      func() time.Time
	version  string
}

// NewServer creates the MCP server wrapper.
func NewServer(s store.Store, timer *pomodoro.Controller, rec *sessions.Recorder, calc *analytics.Calculator, version string) *Server {
	return &Server{
		store:    s,
		timer:    timer,
		recorder: rec,
		calc:     calc,
		now:      time.Now,
		version:  version,
	}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("focus", s.version, server.WithToolCapabilities(true))

	srv.AddTool(s.listTasksTool())
	srv.AddTool(s.createTaskTool())
	srv.AddTool(s.toggleTaskTool())
	srv.AddTool(s.moveTaskTool())
	srv.AddTool(s.listEventsTool())
	srv.AddTool(s.statsTool())
	srv.AddTool(s.timerStatusTool())
	srv.AddTool(s.timerControlTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
// The timer is closed when the session ends.
func (s *Server) ServeStdio(ctx context.Context) error {
	defer s.timer.Close()
	stdioServer := server.NewStdioServer(s.MCPServer())
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

// focus_list_tasks
func (s *Server) listTasksTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("focus_list_tasks",
		mcp.WithDescription("List tasks in display order. Returns a JSON array; each task has id, title, description, status (todo/in_progress/completed), priority (low/medium/high), category, due_date, planned_sessions, completed_sessions and overdue."),
		mcp.WithString("status", mcp.Description("Status filter: todo, in_progress, completed, all")),
		mcp.WithString("priority", mcp.Description("Priority filter: low, medium, high, all")),
		mcp.WithString("query", mcp.Description("Case-insensitive search over title and description")),
	)
	return tool, s.handleListTasks
}

type taskOut struct {
	*models.Task
	DueDate  string  `json:"due_date,omitempty"`
	Overdue  bool    `json:"overdue"`
	Progress float64 `json:"progress"`
}

func (s *Server) taskView(t *models.Task) taskOut {
	out := taskOut{Task: t, Overdue: tasks.IsOverdue(t, s.now()), Progress: tasks.Progress(t)}
	if !t.DueDate.IsZero() {
		out.DueDate = t.DueDate.Format(models.DateLayout)
	}
	return out
}

func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := tasks.ParseStatus(request.GetString("status", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	priority, err := tasks.ParsePriority(request.GetString("priority", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	list, err := s.store.ListTasks(ctx, store.TaskListFilter{
		Status:   status,
		Priority: priority,
		Query:    request.GetString("query", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tasks: %v", err)), nil
	}

	out := make([]taskOut, len(list))
	for i, t := range list {
		out[i] = s.taskView(t)
	}
	return jsonResult(out, "tasks")
}

// focus_create_task
func (s *Server) createTaskTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("focus_create_task",
		mcp.WithDescription("Add a task to the end of the list. Returns the created task as JSON."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		mcp.WithString("description", mcp.Description("Task description")),
		mcp.WithString("priority", mcp.Description("Priority: low, medium, high (default: medium)")),
		mcp.WithString("category", mcp.Description("Category: work, personal, health, learning (default: work)")),
		mcp.WithString("due_date", mcp.Description("Due date as YYYY-MM-DD")),
		mcp.WithNumber("planned_sessions", mcp.Description("Planned Pomodoro work sessions")),
	)
	return tool, s.handleCreateTask
}

func (s *Server) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: title"), nil
	}

	t := &models.Task{
		Title:           title,
		Description:     request.GetString("description", ""),
		PlannedSessions: request.GetInt("planned_sessions", 0),
	}
	if t.PlannedSessions < 0 {
		return mcp.NewToolResultError("planned_sessions must not be negative"), nil
	}
	if t.Priority, err = tasks.ParsePriority(request.GetString("priority", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if t.Category, err = tasks.ParseCategory(request.GetString("category", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if due := request.GetString("due_date", ""); due != "" {
		d, err := time.ParseInLocation(models.DateLayout, due, time.Local)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid due_date %q (want YYYY-MM-DD)", due)), nil
		}
		t.DueDate = d
	}

	if err := s.store.CreateTask(ctx, t); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create task: %v", err)), nil
	}
	return jsonResult(s.taskView(t), "task")
}

// focus_toggle_task
func (s *Server) toggleTaskTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("focus_toggle_task",
		mcp.WithDescription("Mark a task completed, or reopen a completed task. Returns the updated task as JSON."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID (full ULID or unique prefix)")),
	)
	return tool, s.handleToggleTask
}

func (s *Server) handleToggleTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: task_id"), nil
	}
	t, err := s.store.ResolveTask(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tasks.ToggleComplete(t, s.now())
	if err := s.store.UpdateTask(ctx, t); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update task: %v", err)), nil
	}
	return jsonResult(s.taskView(t), "task")
}

// focus_move_task
func (s *Server) moveTaskTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("focus_move_task",
		mcp.WithDescription("Move a task to a new zero-based position in the list. Returns the reordered list of task IDs."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID (full ULID or unique prefix)")),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Target zero-based index")),
	)
	return tool, s.handleMoveTask
}

func (s *Server) handleMoveTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: task_id"), nil
	}
	pos, err := request.RequireInt("position")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: position"), nil
	}
	t, err := s.store.ResolveTask(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.MoveTask(ctx, t.ID, pos); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to move task: %v", err)), nil
	}

	list, err := s.store.ListTasks(ctx, store.TaskListFilter{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tasks: %v", err)), nil
	}
	ids := make([]string, len(list))
	for i, t := range list {
		ids[i] = t.ID
	}
	return jsonResult(ids, "order")
}

// ---------------------------------------------------------------------------
// Calendar and analytics
// ---------------------------------------------------------------------------

// focus_list_events
func (s *Server) listEventsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("focus_list_events",
		mcp.WithDescription("List calendar events for a day, week (Sunday to Saturday) or month, grouped by day."),
		mcp.WithString("view", mcp.Description("day, week or month (default: week)")),
		mcp.WithString("date", mcp.Description("Any date inside the range, YYYY-MM-DD (default: today)")),
	)
	return tool, s.handleListEvents
}

func (s *Server) handleListEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view, err := calendar.ParseView(request.GetString("view", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date := s.now()
	if raw := request.GetString("date", ""); raw != "" {
		if date, err = time.ParseInLocation(models.DateLayout, raw, time.Local); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", raw)), nil
		}
	}

	from, to := calendar.Range(view, date)
	events, err := s.store.ListEvents(ctx, from, to)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list events: %v", err)), nil
	}

	type dayOut struct {
		Date   string          `json:"date"`
		Events []*models.Event `json:"events"`
	}
	var days []dayOut
	for _, d := range calendar.Group(view, date, events) {
		evs := d.Events
		if evs == nil {
			evs = []*models.Event{}
		}
		days = append(days, dayOut{Date: d.Date.Format(models.DateLayout), Events: evs})
	}
	return jsonResult(map[string]any{
		"view":  string(view),
		"label": calendar.Label(view, date),
		"days":  days,
	}, "events")
}

// focus_stats
func (s *Server) statsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("focus_stats",
		mcp.WithDescription("Dashboard analytics: task summary, this week's sessions per day (Mon-Sun), category breakdown, focus minutes by hour and Pomodoro stats (today, daily goal, best streak)."),
	)
	return tool, s.handleStats
}

func (s *Server) handleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.calc.Build(ctx, s.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compute stats: %v", err)), nil
	}
	return jsonResult(report, "stats")
}

// ---------------------------------------------------------------------------
// Timer
// ---------------------------------------------------------------------------

type timerOut struct {
	pomodoro.Session
	Clock    string  `json:"clock"`
	Progress float64 `json:"progress"`
	TaskID   string  `json:"task_id,omitempty"`
}

func (s *Server) timerView() timerOut {
	snap := s.timer.Snapshot()
	return timerOut{
		Session:  snap,
		Clock:    pomodoro.FormatClock(snap.RemainingSeconds),
		Progress: s.timer.ProgressPercent(),
		TaskID:   s.recorder.FocusedTask(),
	}
}

// focus_timer_status
func (s *Server) timerStatusTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("focus_timer_status",
		mcp.WithDescription("Current Pomodoro timer state: phase, status (idle/running/paused), remaining seconds, completed work sessions."),
	)
	return tool, s.handleTimerStatus
}

func (s *Server) handleTimerStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.timerView(), "timer")
}

// focus_timer_control
func (s *Server) timerControlTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("focus_timer_control",
		mcp.WithDescription("Control the Pomodoro timer. start resumes or begins the countdown, pause freezes it, reset refills the current phase, switch jumps to another phase. Returns the timer state."),
		mcp.WithString("action", mcp.Required(), mcp.Enum("start", "pause", "reset", "switch"), mcp.Description("start, pause, reset or switch")),
		mcp.WithString("phase", mcp.Description("Target phase for switch: work, short_break, long_break")),
		mcp.WithString("task_id", mcp.Description("On start, credit completed work sessions to this task")),
	)
	return tool, s.handleTimerControl
}

func (s *Server) handleTimerControl(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: action"), nil
	}

	switch action {
	case "start":
		if ref := request.GetString("task_id", ""); ref != "" {
			t, err := s.store.ResolveTask(ctx, ref)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			s.recorder.Focus(t.ID)
		}
		s.timer.Start()
	case "pause":
		s.timer.Pause()
	case "reset":
		s.timer.Reset()
	case "switch":
		raw := request.GetString("phase", "")
		if raw == "" {
			return mcp.NewToolResultError("switch requires a phase"), nil
		}
		phase, err := pomodoro.ParsePhase(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.timer.SwitchPhase(phase)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown action %q (want start, pause, reset, switch)", action)), nil
	}
	return jsonResult(s.timerView(), "timer")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func jsonResult(v any, what string) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal %s: %v", what, err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

