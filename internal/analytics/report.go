package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joescharf/focus/internal/models"
	"github.com/joescharf/focus/internal/store"
)

// Report bundles every dashboard figure.
type Report struct {
	Summary     *Summary        `json:"summary"`
	Weekly      []DayBar        `json:"weekly"`
	Categories  []CategoryShare `json:"categories"`
	FocusByHour []HourFocus     `json:"focus_by_hour"`
	Pomodoro    *PomodoroStats  `json:"pomodoro"`
}

// Build loads tasks and the full session log from s and computes a Report.
func (c *Calculator) Build(ctx context.Context, s store.Store) (*Report, error) {
	var (
		list    []*models.Task
		records []*models.PomodoroRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if list, err = s.ListTasks(gctx, store.TaskListFilter{}); err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if records, err = s.ListPomodoros(gctx, time.Unix(0, 0), c.Now().Add(24*time.Hour)); err != nil {
			return fmt.Errorf("load session log: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Report{
		Summary:     c.Summary(list),
		Weekly:      c.Weekly(list, records),
		Categories:  c.Categories(list),
		FocusByHour: c.FocusByHour(records),
		Pomodoro:    c.Pomodoro(records),
	}, nil
}
