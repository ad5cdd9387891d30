package commands

import (
	"errors"
	"fmt"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// OrderTransition is a manual order lifecycle move.
type OrderTransition string

const (
	// ReleaseOrder sends a DRAFT order to the factory.
	ReleaseOrder OrderTransition = "release"
	// RevertOrder returns an IN_FACTORY order to DRAFT.
	RevertOrder OrderTransition = "revert"
)

// ChangeOrderStatusCommand asks for a manual release or revert of an order.
// Completion is not a manual transition: it happens through the final
// submission.
type ChangeOrderStatusCommand struct {
	orderID    kernel.UUID
	actor      worker.Actor
	transition OrderTransition

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand accepts only ReleaseOrder and RevertOrder.
//
// Returns:
//   - the command
//   - ValueIsInvalid for any other transition, joined with id and actor errors
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	actor worker.Actor,
	transition OrderTransition,
) (ChangeOrderStatusCommand, error) {
	var transitionErr error
	if transition != ReleaseOrder && transition != RevertOrder {
		transitionErr = errs.NewValueIsInvalidErrorWithCause("transition is invalid",
			fmt.Errorf("%q is not release or revert", string(transition)))
	}

	if err := errors.Join(orderID.Validate(), actor.Validate(), transitionErr); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return ChangeOrderStatusCommand{
		orderID:    orderID,
		actor:      actor,
		transition: transition,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeOrderStatusCommand) Actor() worker.Actor {
	return c.actor
}

func (c ChangeOrderStatusCommand) Transition() OrderTransition {
	return c.transition
}
