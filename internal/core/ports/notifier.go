package ports

import (
	"context"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
)

// NotificationKind tells receivers what happened. Values are stable and
// appear in webhook payloads.
type NotificationKind string

const (
	NotifyWorkerAssigned   NotificationKind = "WORKER_ASSIGNED"
	NotifyOrderOverdue     NotificationKind = "ORDER_OVERDUE"
	NotifyStaleHold        NotificationKind = "STALE_HOLD"
	NotifyFinalSubmitted   NotificationKind = "FINAL_SUBMITTED"
	NotifyApprovalRecorded NotificationKind = "APPROVAL_RECORDED"
)

// Notification is a message for a worker or for the office.
// Recipient is None for broadcasts to the office.
type Notification struct {
	Kind        NotificationKind
	Recipient   kernel.Option[kernel.UUID]
	OrderID     kernel.UUID
	OrderNumber string
	Department  kernel.Option[department.Department]
	Message     string
}

// Notifier dispatches notifications. Callers invoke it after commit and
// treat it as fire and forget: a failure never undoes a workflow mutation.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
