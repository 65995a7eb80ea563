package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joescharf/focus/internal/mcp"
	"github.com/joescharf/focus/internal/pomodoro"
	"github.com/joescharf/focus/internal/sessions"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets an MCP client read and update the task list, query the calendar
and analytics, and drive a Pomodoro timer. Configure the client with:

  {
    "mcpServers": {
      "focus": { "command": "focus", "args": ["mcp"] }
    }
  }

Available tools: focus_list_tasks, focus_create_task, focus_toggle_task,
focus_move_task, focus_list_events, focus_stats, focus_timer_status,
focus_timer_control`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpRun()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func mcpRun() error {
	// stdout carries the protocol.
	ui.Out = ui.ErrOut

	s, err := getStore()
	if err != nil {
		return err
	}

	logErr := func(err error) { fmt.Fprintf(ui.ErrOut, "focus: %v\n", err) }

	rec := sessions.NewRecorder(s, logErr)
	opts := append(timerSettings(), pomodoro.WithCompletionHook(rec.Hook))
	ctrl := pomodoro.New(opts...)

	srv := mcp.NewServer(s, ctrl, rec, newCalculator(), buildVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ServeStdio(ctx)
}
