package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/focus/internal/analytics"
	"github.com/joescharf/focus/internal/output"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"analytics"},
	Short:   "Show productivity analytics",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statsRun()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func statsRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	report, err := newCalculator().Build(context.Background(), s)
	if err != nil {
		return err
	}
	renderStats(report)
	return nil
}

func renderStats(r *analytics.Report) {
	sum := r.Summary
	fmt.Fprintln(ui.Out, output.Cyan("Summary"))
	fmt.Fprintf(ui.Out, "  %d tasks: %d completed, %d in progress, %d todo, %d overdue\n",
		sum.Total, sum.Completed, sum.InProgress, sum.Todo, sum.Overdue)
	fmt.Fprintf(ui.Out, "  Productivity: %s\n\n", output.PercentColor(sum.Productivity))

	fmt.Fprintln(ui.Out, output.Cyan("This week"))
	max := 1
	for _, b := range r.Weekly {
		if b.Completed > max {
			max = b.Completed
		}
		if b.Planned > max {
			max = b.Planned
		}
	}
	week := ui.Table([]string{"Day", "Completed", "Planned", ""})
	for _, b := range r.Weekly {
		_ = week.Append([]string{
			b.Day,
			strconv.Itoa(b.Completed),
			strconv.Itoa(b.Planned),
			output.Bar(b.Completed, max, 20),
		})
	}
	_ = week.Render()
	fmt.Fprintln(ui.Out)

	fmt.Fprintln(ui.Out, output.Cyan("Categories"))
	cats := ui.Table([]string{"Category", "Tasks", "Share"})
	for _, c := range r.Categories {
		_ = cats.Append([]string{string(c.Category), strconv.Itoa(c.Count), fmt.Sprintf("%d%%", c.Percent)})
	}
	_ = cats.Render()
	fmt.Fprintln(ui.Out)

	if len(r.FocusByHour) > 0 {
		fmt.Fprintln(ui.Out, output.Cyan("Focus by hour"))
		peak := 0
		for _, h := range r.FocusByHour {
			if h.Minutes > peak {
				peak = h.Minutes
			}
		}
		hours := ui.Table([]string{"Hour", "Minutes", ""})
		for _, h := range r.FocusByHour {
			_ = hours.Append([]string{fmt.Sprintf("%02d:00", h.Hour), strconv.Itoa(h.Minutes), output.Bar(h.Minutes, peak, 20)})
		}
		_ = hours.Render()
		fmt.Fprintln(ui.Out)
	}

	p := r.Pomodoro
	fmt.Fprintln(ui.Out, output.Cyan("Pomodoro"))
	fmt.Fprintf(ui.Out, "  Today:        %d/%d  %s\n", p.Today, p.DailyGoal, output.PercentColor(p.GoalPercent()))
	fmt.Fprintf(ui.Out, "  Focus today:  %s\n", p.FocusToday.Round(time.Minute))
	fmt.Fprintf(ui.Out, "  Best streak:  %d days\n", p.BestStreak)
}
