package commands

import (
	"context"
	"fmt"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/ports"
)

// ChangeOrderStatusCommandHandler releases or reverts an order. Department
// rows keep their state across a revert.
type ChangeOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewChangeOrderStatusCommandHandler creates the handler.
func NewChangeOrderStatusCommandHandler(uowFactory UoWFactory, clock ports.Clock) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle applies the transition and records it as "FROM -> TO" in the
// activity log.
//
// Valid transitions:
//   - release: DRAFT -> IN_FACTORY
//   - revert: IN_FACTORY -> DRAFT
//
// Returns:
//   - the updated order
//   - InvalidTransition from any other status
//
// Example:
//
//	cmd, _ := NewChangeOrderStatusCommand(orderID, manager, ReleaseOrder)
//	o, err := handler.Handle(ctx, cmd)
//	// o.Status() == order.InFactory
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	from := o.Status()
	switch cmd.Transition() {
	case ReleaseOrder:
		err = o.Release(now)
	case RevertOrder:
		err = o.Revert(now)
	}
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = recordActivity(ctx, uow.ActivityLog(), o.ID(), kernel.None[department.Department](),
		activity.OrderStatusChanged, cmd.Actor(), fmt.Sprintf("%s -> %s", from, o.Status()), now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
