package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/focus/internal/calendar"
	"github.com/joescharf/focus/internal/models"
	"github.com/joescharf/focus/internal/output"
)

var (
	calView string
	calDate string
	calPrev bool
	calNext bool
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show scheduled events for a day, week or month",
	Long: `Show calendar events. Weeks run Sunday to Saturday.

--prev and --next step one view-width from --date (or today).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return calendarRun()
	},
}

func init() {
	calendarCmd.Flags().StringVar(&calView, "view", "week", "View: day, week, month")
	calendarCmd.Flags().StringVar(&calDate, "date", "", "Any date in the range (YYYY-MM-DD, default today)")
	calendarCmd.Flags().BoolVar(&calPrev, "prev", false, "Show the previous day/week/month")
	calendarCmd.Flags().BoolVar(&calNext, "next", false, "Show the next day/week/month")
	calendarCmd.MarkFlagsMutuallyExclusive("prev", "next")
	rootCmd.AddCommand(calendarCmd)
}

func calendarRun() error {
	view, err := calendar.ParseView(calView)
	if err != nil {
		return err
	}

	now := nowFunc()
	date := now
	if calDate != "" {
		if date, err = time.ParseInLocation(models.DateLayout, calDate, time.Local); err != nil {
			return fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", calDate)
		}
	}
	switch {
	case calPrev:
		date = calendar.Navigate(view, date, calendar.Prev, now)
	case calNext:
		date = calendar.Navigate(view, date, calendar.Next, now)
	}

	s, err := getStore()
	if err != nil {
		return err
	}
	from, to := calendar.Range(view, date)
	events, err := s.ListEvents(context.Background(), from, to)
	if err != nil {
		return err
	}

	fmt.Fprintln(ui.Out, output.Cyan(calendar.Label(view, date)))
	today := calendar.StartOfDay(now)
	shown := 0
	for _, day := range calendar.Group(view, date, events) {
		if view == calendar.ViewMonth && len(day.Events) == 0 {
			continue
		}
		heading := day.Date.Format("Mon Jan 2")
		if day.Date.Equal(today) {
			heading = output.Yellow(heading + " (today)")
		}
		fmt.Fprintf(ui.Out, "\n%s\n", heading)
		if len(day.Events) == 0 {
			fmt.Fprintln(ui.Out, "  -")
			continue
		}
		for _, e := range day.Events {
			fmt.Fprintf(ui.Out, "  %s-%s  %s  %s %s\n",
				e.Start.Local().Format("15:04"), e.End.Local().Format("15:04"),
				e.Title, eventTypeLabel(e.Type), output.PriorityColor(string(e.Priority)))
			shown++
		}
	}
	if view == calendar.ViewMonth && shown == 0 {
		fmt.Fprintln(ui.Out)
		ui.Info("No events this month.")
	}
	return nil
}

func eventTypeLabel(t models.EventType) string {
	switch t {
	case models.EventTypeMeeting:
		return output.Cyan("[meeting]")
	case models.EventTypeBreak:
		return output.Green("[break]")
	default:
		return "[task]"
	}
}
