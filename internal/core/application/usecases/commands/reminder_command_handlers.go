package commands

import (
	"context"
	"errors"
	"fmt"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/ports"
)

var (
	ErrNoOverdueOrders = errors.New("no overdue orders")
	ErrNoStaleHolds    = errors.New("no stale holds")
)

// NotifyOverdueOrdersCommandHandler reads overdue orders and sends one
// notification per order. It only reads; the transaction is rolled back.
type NotifyOverdueOrdersCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      ports.Clock
}

// NewNotifyOverdueOrdersCommandHandler creates the handler used by the
// overdue orders job.
func NewNotifyOverdueOrdersCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock ports.Clock,
) NotifyOverdueOrdersCommandHandler {
	return NotifyOverdueOrdersCommandHandler{uowFactory: uowFactory, notifier: notifier, clock: clock}
}

// Handle returns the number of notifications handed to the notifier, or
// ErrNoOverdueOrders. A failed delivery is logged and still counted.
func (h NotifyOverdueOrdersCommandHandler) Handle(ctx context.Context, cmd NotifyOverdueOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	overdue, err := uow.OrderRepository().ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(overdue) == 0 {
		return 0, ErrNoOverdueOrders
	}

	for _, o := range overdue {
		notify(ctx, h.notifier, ports.Notification{
			Kind:        ports.NotifyOrderOverdue,
			OrderID:     o.ID(),
			OrderNumber: o.Number().String(),
			Message: fmt.Sprintf("order %s was due %s",
				o.Number(), o.Details().DueDate().Format("2006-01-02")),
		})
	}

	return len(overdue), nil
}

// NotifyStaleHoldsCommandHandler reminds each assignee of a long running hold.
type NotifyStaleHoldsCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      ports.Clock
}

// NewNotifyStaleHoldsCommandHandler creates the handler used by the stale
// holds job.
func NewNotifyStaleHoldsCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock ports.Clock,
) NotifyStaleHoldsCommandHandler {
	return NotifyStaleHoldsCommandHandler{uowFactory: uowFactory, notifier: notifier, clock: clock}
}

// Handle returns the number of notifications handed to the notifier, or
// ErrNoStaleHolds.
func (h NotifyStaleHoldsCommandHandler) Handle(ctx context.Context, cmd NotifyStaleHoldsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	heldBefore := h.clock.Now().Add(-cmd.StaleAfter())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	rows, err := uow.TrackingRepository().ListOnHoldSince(ctx, heldBefore)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, ErrNoStaleHolds
	}

	orderRepo := uow.OrderRepository()
	numbers := map[string]string{}

	for _, row := range rows {
		number, ok := numbers[row.OrderID().String()]
		if !ok {
			o, err := orderRepo.Get(ctx, row.OrderID())
			if err != nil {
				return 0, err
			}
			number = o.Number().String()
			numbers[row.OrderID().String()] = number
		}

		notify(ctx, h.notifier, staleHoldNotification(row, number))
	}

	return len(rows), nil
}

func staleHoldNotification(row *tracking.Tracking, number string) ports.Notification {
	return ports.Notification{
		Kind:        ports.NotifyStaleHold,
		Recipient:   row.AssignedTo(),
		OrderID:     row.OrderID(),
		OrderNumber: number,
		Department:  kernel.Some(row.Department()),
		Message: fmt.Sprintf("%s of order %s has been on hold since %s: %s",
			row.Department(), number, row.UpdatedAt().Format("2006-01-02 15:04"), row.HoldReason()),
	}
}
