package commands

import (
	"context"
)

// DeleteOrderCommandHandler removes an order and everything it owns in one
// transaction: submission, tracking rows, activity, stones, details and the
// order itself. Nothing is visible until commit, so a failure at any step
// leaves the order intact.
type DeleteOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewDeleteOrderCommandHandler creates the handler.
func NewDeleteOrderCommandHandler(uowFactory UoWFactory) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{uowFactory: uowFactory}
}

// Handle deletes the order and its dependents, children first.
//
// Returns:
//   - nil once the transaction is committed
//   - ObjectNotFound for an unknown order
func (h DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = uow.SubmissionRepository().DeleteByOrder(ctx, o.ID()); err != nil {
		return err
	}

	if err = uow.TrackingRepository().DeleteByOrder(ctx, o.ID()); err != nil {
		return err
	}

	if err = uow.ActivityLog().DeleteByOrder(ctx, o.ID()); err != nil {
		return err
	}

	if err = orderRepo.Delete(ctx, o.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
