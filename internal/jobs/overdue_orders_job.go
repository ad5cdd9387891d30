package jobs

import (
	"context"
	"errors"
	"log/slog"

	"atelier/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultOverdueOrdersSchedule runs every day at 08:00.
const DefaultOverdueOrdersSchedule = "0 0 8 * * *"

type overdueOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.NotifyOverdueOrdersCommand) (int, error)
}

// OverdueOrdersJob reminds the office about IN_FACTORY orders past their due date.
type OverdueOrdersJob struct {
	handler  overdueOrdersHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOverdueOrdersJob creates the overdue reminder job. An empty schedule
// falls back to DefaultOverdueOrdersSchedule.
func NewOverdueOrdersJob(handler overdueOrdersHandler, schedule string, logger *slog.Logger) *OverdueOrdersJob {
	if schedule == "" {
		schedule = DefaultOverdueOrdersSchedule
	}
	return &OverdueOrdersJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "overdue_orders_job"),
	}
}

// Start registers the schedule and starts the cron runner.
func (j *OverdueOrdersJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue orders job started", "schedule", j.schedule)
	return nil
}

// RunOnce performs one sweep. Having nothing overdue is not an error.
func (j *OverdueOrdersJob) RunOnce(ctx context.Context) error {
	sent, err := j.handler.Handle(ctx, commands.NewNotifyOverdueOrdersCommand())
	if err != nil {
		if errors.Is(err, commands.ErrNoOverdueOrders) {
			return nil
		}
		j.logger.ErrorContext(ctx, "Overdue orders job failed", "error", err)
		return err
	}

	j.logger.InfoContext(ctx, "Overdue order reminders sent", "count", sent)
	return nil
}

func (j *OverdueOrdersJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Overdue orders job stopped")
}
