package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"
)

func recordActivity(
	ctx context.Context,
	log ports.ActivityLog,
	orderID kernel.UUID,
	dept kernel.Option[department.Department],
	action activity.Action,
	actor worker.Actor,
	message string,
	now time.Time,
) error {
	entry, err := activity.NewEntry(orderID, dept, action, kernel.Some(actor.ID()), message, now)
	if err != nil {
		return err
	}
	return log.Record(ctx, entry)
}

// validateRowOwner keeps department workers on their own rows. Managers and
// admins may act on any row.
func validateRowOwner(actor worker.Actor, row *tracking.Tracking) error {
	if actor.Role() != worker.DepartmentWorker {
		return nil
	}
	assigned, ok := row.AssignedTo().Get()
	if ok && assigned.IsEqual(actor.ID()) {
		return nil
	}
	return errs.NewForbiddenError(fmt.Sprintf("%s of this order is not assigned to you", row.Department()))
}

// notify hands a notification to the notifier after commit. A failure is
// logged and never fails the operation.
func notify(ctx context.Context, notifier ports.Notifier, n ports.Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, n); err != nil {
		slog.Default().With("component", "commands").WarnContext(ctx, "notification failed",
			"kind", n.Kind,
			"orderNumber", n.OrderNumber,
			"error", err)
	}
}
