package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	overdueOrdersJob *OverdueOrdersJob
	staleHoldsJob    *StaleHoldsJob
}

// NewJobManager creates a manager for the reminder jobs.
func NewJobManager(overdueOrdersJob *OverdueOrdersJob, staleHoldsJob *StaleHoldsJob) *JobManager {
	return &JobManager{
		overdueOrdersJob: overdueOrdersJob,
		staleHoldsJob:    staleHoldsJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.overdueOrdersJob.Start(); err != nil {
		return fmt.Errorf("failed to start overdue orders job: %w", err)
	}

	if err := jm.staleHoldsJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.overdueOrdersJob.Stop()
		return fmt.Errorf("failed to start stale holds job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running sweeps to finish.
func (jm *JobManager) StopAll() {
	jm.staleHoldsJob.Stop()
	jm.overdueOrdersJob.Stop()
}
