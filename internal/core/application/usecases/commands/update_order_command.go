package commands

import (
	"errors"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// UpdateOrderCommand changes priority, due date or product metadata.
type UpdateOrderCommand struct {
	orderID kernel.UUID
	actor   worker.Actor
	changes order.Changes

	guard guard.ConstructorGuard
}

// NewUpdateOrderCommand validates the ids only. The changes themselves are
// checked by order.Order.Update against the current state.
func NewUpdateOrderCommand(orderID kernel.UUID, actor worker.Actor, changes order.Changes) (UpdateOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return UpdateOrderCommand{}, err
	}
	return UpdateOrderCommand{
		orderID: orderID,
		actor:   actor,
		changes: changes,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderCommand) Actor() worker.Actor {
	return c.actor
}

func (c UpdateOrderCommand) Changes() order.Changes {
	return c.changes
}
