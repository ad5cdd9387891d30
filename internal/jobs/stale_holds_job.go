package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"atelier/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultStaleHoldsSchedule runs at the top of every hour.
	DefaultStaleHoldsSchedule = "0 0 * * * *"
	DefaultStaleHoldAfter     = 24 * time.Hour
)

type staleHoldsHandler interface {
	Handle(ctx context.Context, cmd commands.NotifyStaleHoldsCommand) (int, error)
}

// StaleHoldsJob reminds assignees of rows that have been ON_HOLD for too long.
type StaleHoldsJob struct {
	handler    staleHoldsHandler
	schedule   string
	staleAfter time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleHoldsJob creates the stale hold reminder job. Zero values fall back
// to DefaultStaleHoldsSchedule and DefaultStaleHoldAfter.
func NewStaleHoldsJob(
	handler staleHoldsHandler,
	schedule string,
	staleAfter time.Duration,
	logger *slog.Logger,
) *StaleHoldsJob {
	if schedule == "" {
		schedule = DefaultStaleHoldsSchedule
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleHoldAfter
	}
	return &StaleHoldsJob{
		handler:    handler,
		schedule:   schedule,
		staleAfter: staleAfter,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "stale_holds_job"),
	}
}

// Start registers the schedule and starts the cron runner.
func (j *StaleHoldsJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale holds job started",
		"schedule", j.schedule, "stale_after", j.staleAfter.String())
	return nil
}

// RunOnce performs one sweep. Having no stale holds is not an error.
func (j *StaleHoldsJob) RunOnce(ctx context.Context) error {
	cmd, err := commands.NewNotifyStaleHoldsCommand(j.staleAfter)
	if err != nil {
		return err
	}

	sent, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		if errors.Is(err, commands.ErrNoStaleHolds) {
			return nil
		}
		j.logger.ErrorContext(ctx, "Stale holds job failed", "error", err)
		return err
	}

	j.logger.InfoContext(ctx, "Stale hold reminders sent", "count", sent)
	return nil
}

// Stop waits for a running reminder pass to finish.
func (j *StaleHoldsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Stale holds job stopped")
}
