package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/focus/internal/markdown"
	"github.com/joescharf/focus/internal/output"
	"github.com/joescharf/focus/internal/pomodoro"
	"github.com/joescharf/focus/internal/sessions"
	"github.com/joescharf/focus/internal/store"
	"github.com/joescharf/focus/internal/timerlock"
	"github.com/joescharf/focus/internal/tui"
)

var (
	pomoTask  string
	pomoPlain bool
	pomoPhase string
)

// newScheduler supplies the timer tick source, replaceable in tests.
var newScheduler = func() pomodoro.Scheduler { return pomodoro.TickerScheduler{} }

var pomodoroCmd = &cobra.Command{
	Use:     "pomodoro",
	Aliases: []string{"timer", "pomo"},
	Short:   "Run the Pomodoro timer",
	Long: `Run the Pomodoro timer in an interactive terminal UI.

Keys: space start/pause, r reset, 1/2/3 or tab switch phase, q quit.
With --task, each completed work session is credited to that task.
With --plain, the timer starts immediately, prints progress lines and
exits when the session completes (after the break with auto_start_breaks).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return pomodoroRun(ctx)
	},
}

var pomodoroTipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Show Pomodoro technique tips",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(ui.Out, markdown.Render(80, markdown.Tips()))
		return nil
	},
}

func init() {
	pomodoroCmd.Flags().StringVar(&pomoTask, "task", "", "Credit completed work sessions to this task")
	pomodoroCmd.Flags().BoolVar(&pomoPlain, "plain", false, "Print progress lines instead of the interactive UI")
	pomodoroCmd.Flags().StringVar(&pomoPhase, "phase", "work", "Phase to start in: work, short_break, long_break")

	pomodoroCmd.AddCommand(pomodoroTipsCmd)
	rootCmd.AddCommand(pomodoroCmd)
}

// timerSettings reads the pomodoro config keys into controller options.
func timerSettings() []pomodoro.Option {
	return []pomodoro.Option{
		pomodoro.WithScheduler(newScheduler()),
		pomodoro.WithDurations(pomodoro.DurationsFromMinutes(
			viper.GetInt("pomodoro.work_minutes"),
			viper.GetInt("pomodoro.short_break_minutes"),
			viper.GetInt("pomodoro.long_break_minutes"),
		)),
		pomodoro.WithLongBreakInterval(viper.GetInt("pomodoro.long_break_interval")),
		pomodoro.WithAutoStartBreaks(viper.GetBool("pomodoro.auto_start_breaks")),
	}
}

func pomodoroRun(ctx context.Context) error {
	phase, err := pomodoro.ParsePhase(pomoPhase)
	if err != nil {
		return err
	}

	s, err := getStore()
	if err != nil {
		return err
	}

	taskID, taskTitle := "", ""
	if pomoTask != "" {
		t, err := findTask(ctx, s, pomoTask)
		if err != nil {
			return err
		}
		taskID, taskTitle = t.ID, t.Title
	}

	if dryRun {
		ui.DryRunMsg("Would start a %s timer", phase.Label())
		return nil
	}

	lock := timerlock.New(viper.GetString("state_dir"))
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, timerlock.ErrHeld) {
			return fmt.Errorf("another focus timer is running: %w", err)
		}
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			ui.Warning("Release timer lock: %v", err)
		}
	}()
	ui.VerboseLog("Acquired timer lock %s", lock.Path)

	var bell io.Writer
	if viper.GetBool("notifications.bell") {
		bell = os.Stderr
	}

	if pomoPlain {
		return runPlainTimer(ctx, s, phase, taskID, taskTitle, bell)
	}
	return runTUITimer(ctx, s, phase, taskID, taskTitle, bell)
}

func runTUITimer(ctx context.Context, s store.Store, phase pomodoro.Phase, taskID, taskTitle string, bell io.Writer) error {
	bridge := tui.NewBridge()
	rec := sessions.NewRecorder(s, bridge.Error)
	rec.Focus(taskID)

	opts := append(timerSettings(),
		pomodoro.WithNotifier(bridge),
		pomodoro.WithObserver(bridge.Observe),
		pomodoro.WithCompletionHook(rec.Hook),
	)
	ctrl := pomodoro.New(opts...)
	defer ctrl.Close()
	ctrl.SwitchPhase(phase)

	today := 0
	if report, err := newCalculator().Build(ctx, s); err == nil {
		today = report.Pomodoro.Today
	}

	model := tui.New(ctrl, bridge, tui.Options{
		TaskTitle:  taskTitle,
		TodayCount: today,
		DailyGoal:  viper.GetInt("pomodoro.daily_goal"),
		Alerts:     viper.GetBool("notifications.pomodoro_alerts"),
		Bell:       bell,
	})
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run timer UI: %w", err)
	}

	snap := ctrl.Snapshot()
	ui.Info("Completed %d work session(s)", snap.CompletedWorkSessions)
	return nil
}

// runPlainTimer starts the countdown right away and returns after the
// first completion that leaves the timer idle, or when ctx is cancelled.
func runPlainTimer(ctx context.Context, s store.Store, phase pomodoro.Phase, taskID, taskTitle string, bell io.Writer) error {
	done := make(chan struct{}, 1)
	alerts := viper.GetBool("notifications.pomodoro_alerts")
	autoBreaks := viper.GetBool("pomodoro.auto_start_breaks")

	rec := sessions.NewRecorder(s, func(err error) { ui.Warning("%v", err) })
	rec.Focus(taskID)

	notifier := pomodoro.NotifierFunc(func(title, body string) {
		if alerts {
			ui.Success("%s %s", title, body)
		}
		if bell != nil {
			fmt.Fprint(bell, "\a")
		}
	})
	observer := func(snap pomodoro.Session) {
		if snap.Status != pomodoro.StatusRunning {
			return
		}
		if verbose || snap.RemainingSeconds%60 == 0 {
			fmt.Fprintf(ui.Out, "%s  %s\n", snap.Phase.Label(), pomodoro.FormatClock(snap.RemainingSeconds))
		}
	}
	hook := func(c pomodoro.Completion) {
		rec.Hook(c)
		if !autoBreaks || c.Phase.IsBreak() {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	}

	opts := append(timerSettings(),
		pomodoro.WithNotifier(notifier),
		pomodoro.WithObserver(observer),
		pomodoro.WithCompletionHook(hook),
	)
	ctrl := pomodoro.New(opts...)
	defer ctrl.Close()
	ctrl.SwitchPhase(phase)

	start := ctrl.Snapshot()
	if taskTitle != "" {
		ui.Info("%s for %s: %s", phase.Label(), output.Cyan(taskTitle), pomodoro.FormatClock(start.RemainingSeconds))
	} else {
		ui.Info("%s: %s", phase.Label(), pomodoro.FormatClock(start.RemainingSeconds))
	}
	ctrl.Start()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		snap := ctrl.Snapshot()
		ui.Warning("Stopped with %s left in %s", pomodoro.FormatClock(snap.RemainingSeconds), snap.Phase.Label())
		return nil
	}
}
