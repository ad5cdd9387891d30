package commands

import (
	"context"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/ports"
)

// UpdateOrderCommandHandler applies order changes. Completed orders reject
// every change with an InvalidTransition error.
type UpdateOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewUpdateOrderCommandHandler creates the handler.
func NewUpdateOrderCommandHandler(uowFactory UoWFactory, clock ports.Clock) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle applies the changes with a compare-and-swap on the order version.
//
// Returns:
//   - the updated order
//   - InvalidTransition for a completed order
//   - ValueIsOutOfRange for a priority outside 0..10
//   - Conflict when the order changed since it was loaded
func (h UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*order.Order, error) {
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

	if err = o.Update(cmd.Changes(), now); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = recordActivity(ctx, uow.ActivityLog(), o.ID(), kernel.None[department.Department](),
		activity.OrderUpdated, cmd.Actor(), "order details updated", now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
