// Package jobs provides scheduled reminders for the production workflow.
//
// Jobs are cron based (github.com/robfig/cron/v3, seconds field enabled) and
// only ever read state and send notifications; they never move a department
// row or an order.
//
// # Available Jobs
//
// 1. OverdueOrdersJob - notifies the office about IN_FACTORY orders past their due date
// 2. StaleHoldsJob - notifies assignees about rows ON_HOLD longer than STALE_HOLD_AFTER
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewOverdueOrdersJob(overdueHandler, cfg.OverdueOrdersSchedule, logger),
//		jobs.NewStaleHoldsJob(staleHandler, cfg.StaleHoldsSchedule, cfg.StaleHoldAfter, logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// "Nothing to do" outcomes (commands.ErrNoOverdueOrders, commands.ErrNoStaleHolds)
// are not logged. Every other failure is logged at ERROR and the next tick
// tries again.
package jobs
