package commands

import (
	"context"
	"fmt"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/core/domain/services"
	"atelier/internal/core/ports"
)

// AssignWorkerCommandHandler runs admin assignments and self assignments.
// After commit the assigned worker is notified; a failed notification does
// not affect the assignment.
type AssignWorkerCommandHandler struct {
	uowFactory UoWFactory
	resolver   services.AssignmentResolver
	notifier   ports.Notifier
	clock      ports.Clock
}

// NewAssignWorkerCommandHandler creates the handler for both assignment
// flavours. notifier may be nil, in which case nobody is told.
func NewAssignWorkerCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock ports.Clock,
) AssignWorkerCommandHandler {
	return AssignWorkerCommandHandler{
		uowFactory: uowFactory,
		resolver:   services.NewAssignmentResolver(),
		notifier:   notifier,
		clock:      clock,
	}
}

// Handle assigns cmd.WorkerID() to the row and notifies the worker.
//
// Returns:
//   - the row in NOT_STARTED with the worker and estimate set
//   - ObjectNotFound for an unknown order, row or worker
//   - ValueIsInvalid when the worker is not eligible for the department
//   - InvalidTransition when the row is already assigned or completed
//   - Conflict when the row changed since it was loaded
func (h AssignWorkerCommandHandler) Handle(ctx context.Context, cmd AssignWorkerCommand) (*tracking.Tracking, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.assign(ctx, cmd.departmentTarget, cmd.WorkerID(), activity.WorkerAssigned,
		func(o *order.Order, row *tracking.Tracking, w *worker.Worker) error {
			return h.resolver.Assign(o, row, w, cmd.EstimatedHours(), h.clock.Now())
		})
}

// HandleSelfAssign assigns the acting worker to the row. No notification is
// sent: the worker asked for it.
//
// Returns:
//   - the row in NOT_STARTED with the actor assigned
//   - Forbidden when the actor is not a worker of the row's department
//   - InvalidTransition when the row is already assigned
func (h AssignWorkerCommandHandler) HandleSelfAssign(ctx context.Context, cmd SelfAssignCommand) (*tracking.Tracking, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.assign(ctx, cmd.departmentTarget, cmd.Actor().ID(), activity.WorkerSelfAssigned,
		func(o *order.Order, row *tracking.Tracking, w *worker.Worker) error {
			return h.resolver.SelfAssign(o, row, w, cmd.Actor().Department(), h.clock.Now())
		})
}

// assign runs one assignment in its own transaction. apply decides
// eligibility and mutates the row; everything else is shared.
func (h AssignWorkerCommandHandler) assign(
	ctx context.Context,
	target departmentTarget,
	workerID kernel.UUID,
	action activity.Action,
	apply func(*order.Order, *tracking.Tracking, *worker.Worker) error,
) (*tracking.Tracking, error) {
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, target.OrderID())
	if err != nil {
		return nil, err
	}

	trackingRepo := uow.TrackingRepository()

	row, err := trackingRepo.Get(ctx, o.ID(), target.Department())
	if err != nil {
		return nil, err
	}

	w, err := uow.WorkerRepository().Get(ctx, workerID)
	if err != nil {
		return nil, err
	}

	if err = apply(o, row, w); err != nil {
		return nil, err
	}

	if err = trackingRepo.Update(ctx, row); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("assigned to %s", w.Name())
	if action == activity.WorkerSelfAssigned {
		message = fmt.Sprintf("%s self-assigned", w.Name())
	}

	if err = recordActivity(ctx, uow.ActivityLog(), o.ID(), kernel.Some(row.Department()),
		action, target.Actor(), message, now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if action == activity.WorkerAssigned {
		notify(ctx, h.notifier, ports.Notification{
			Kind:        ports.NotifyWorkerAssigned,
			Recipient:   kernel.Some(w.ID()),
			OrderID:     o.ID(),
			OrderNumber: o.Number().String(),
			Department:  kernel.Some(row.Department()),
			Message:     fmt.Sprintf("you were assigned to %s of order %s", row.Department(), o.Number()),
		})
	}

	return row, nil
}
