package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/focus/internal/analytics"
	"github.com/joescharf/focus/internal/models"
	"github.com/joescharf/focus/internal/output"
	"github.com/joescharf/focus/internal/seed"
	"github.com/joescharf/focus/internal/store"
	"github.com/joescharf/focus/internal/tasks"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool
	dryRun  bool

	// nowFunc is the clock used for seeding and analytics, replaceable in tests.
	nowFunc = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "focus",
	Short: "Focus - tasks, calendar and a Pomodoro timer in your terminal",
	Long: `focus is a personal productivity dashboard: a prioritized task list,
a calendar of scheduled blocks, productivity analytics and a Pomodoro timer.

Data lives in memory for the life of the process. Every run starts from
the same demo data set, dated around today.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return dashboardRun()
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/focus/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".config", "focus"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FOCUS")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	home, _ := os.UserHomeDir()
	setDefaults(filepath.Join(home, ".config", "focus"))

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

// setDefaults registers every config key's default.
func setDefaults(stateDir string) {
	viper.SetDefault("state_dir", stateDir)
	viper.SetDefault("pomodoro.work_minutes", 25)
	viper.SetDefault("pomodoro.short_break_minutes", 5)
	viper.SetDefault("pomodoro.long_break_minutes", 15)
	viper.SetDefault("pomodoro.long_break_interval", 4)
	viper.SetDefault("pomodoro.auto_start_breaks", false)
	viper.SetDefault("pomodoro.daily_goal", analytics.DefaultDailyGoal)
	viper.SetDefault("notifications.pomodoro_alerts", true)
	viper.SetDefault("notifications.bell", true)
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	// The store is created lazily so config/version run without seeding.
}

// getStore returns the shared store, creating and seeding it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	s, err := seed.Open(context.Background(), nowFunc())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	ui.VerboseLog("Loaded demo data into in-memory store")

	dataStore = s
	return dataStore, nil
}

func newCalculator() *analytics.Calculator {
	c := analytics.NewCalculator(viper.GetInt("pomodoro.daily_goal"))
	c.Now = nowFunc
	return c
}

// dashboardRun handles `focus` with no subcommand: stats cards and the
// tasks due today or overdue.
func dashboardRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	report, err := newCalculator().Build(ctx, s)
	if err != nil {
		return err
	}
	sum := report.Summary
	pom := report.Pomodoro

	fmt.Fprintln(ui.Out, output.Cyan("Dashboard"))
	fmt.Fprintln(ui.Out)
	fmt.Fprintf(ui.Out, "  Total tasks:   %d\n", sum.Total)
	fmt.Fprintf(ui.Out, "  Completed:     %d\n", sum.Completed)
	fmt.Fprintf(ui.Out, "  In progress:   %d\n", sum.InProgress)
	fmt.Fprintf(ui.Out, "  Productivity:  %s\n", output.PercentColor(sum.Productivity))
	if sum.Overdue > 0 {
		fmt.Fprintf(ui.Out, "  Overdue:       %s\n", output.Red(fmt.Sprintf("%d", sum.Overdue)))
	}
	fmt.Fprintf(ui.Out, "  Pomodoros:     %d/%d today  %s\n", pom.Today, pom.DailyGoal, output.Bar(pom.Today, pom.DailyGoal, 12))
	fmt.Fprintln(ui.Out)

	list, err := s.ListTasks(ctx, store.TaskListFilter{})
	if err != nil {
		return err
	}
	now := nowFunc()
	today := now.Format(models.DateLayout)
	var due []string
	for _, t := range list {
		if t.Status == models.TaskStatusCompleted {
			continue
		}
		if tasks.IsOverdue(t, now) {
			due = append(due, fmt.Sprintf("  %s %s  %s", output.Red("!"), t.Title, output.StatusColor("overdue")))
		} else if !t.DueDate.IsZero() && t.DueDate.Format(models.DateLayout) == today {
			due = append(due, fmt.Sprintf("  %s %s  %s", output.Yellow("•"), t.Title, output.PriorityColor(string(t.Priority))))
		}
	}

	fmt.Fprintln(ui.Out, output.Cyan("Today"))
	if len(due) == 0 {
		ui.Info("Nothing due today.")
		return nil
	}
	for _, line := range due {
		fmt.Fprintln(ui.Out, line)
	}
	return nil
}
