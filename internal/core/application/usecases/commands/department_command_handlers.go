package commands

import (
	"context"
	"fmt"
	"time"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/ports"
)

// departmentStep is one state machine transition on a tracking row.
type departmentStep struct {
	target  departmentTarget
	action  activity.Action
	apply   func(row *tracking.Tracking, now time.Time) error
	message func(row *tracking.Tracking) string
}

// runDepartmentStep loads the order and the row, checks that the order is
// IN_FACTORY and that a department worker only touches their own row,
// applies the transition and writes it back with a compare-and-swap. A lost
// race surfaces as errs.ConflictError from the repository.
func runDepartmentStep(
	ctx context.Context,
	uowFactory UoWFactory,
	clock ports.Clock,
	step departmentStep,
) (*tracking.Tracking, error) {
	now := clock.Now()

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, step.target.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.ValidateWorkable(); err != nil {
		return nil, err
	}

	trackingRepo := uow.TrackingRepository()

	row, err := trackingRepo.Get(ctx, o.ID(), step.target.Department())
	if err != nil {
		return nil, err
	}

	if err = validateRowOwner(step.target.Actor(), row); err != nil {
		return nil, err
	}

	if err = step.apply(row, now); err != nil {
		return nil, err
	}

	if err = trackingRepo.Update(ctx, row); err != nil {
		return nil, err
	}

	if err = recordActivity(ctx, uow.ActivityLog(), o.ID(), kernel.Some(row.Department()),
		step.action, step.target.Actor(), step.message(row), now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return row, nil
}

// StartDepartmentCommandHandler moves a department row from NOT_STARTED to
// IN_PROGRESS and records the gold weight handed to the bench.
//
// A department worker may only start a row assigned to them; managers and
// admins may start any row. The order must be IN_FACTORY.
//
// Example:
//
//	handler := NewStartDepartmentCommandHandler(uowFactory, ports.SystemClock)
//	cmd, _ := NewStartDepartmentCommand(orderID, department.Casting, actor, weightIn, "crucible 3")
//	row, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, tracking.ErrAlreadyStarted):
//	    // 409, the row is past NOT_STARTED
//	case errors.Is(err, errs.ErrConflict):
//	    // another request changed the row first, reload and retry
//	}
type StartDepartmentCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewStartDepartmentCommandHandler creates the handler. The clock stamps
// startedAt and the activity entry.
func NewStartDepartmentCommandHandler(uowFactory UoWFactory, clock ports.Clock) StartDepartmentCommandHandler {
	return StartDepartmentCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle starts the department named by cmd and returns the updated row.
//
// Returns:
//   - the row in IN_PROGRESS with goldWeightIn and startedAt set
//   - ObjectNotFound when the order or row does not exist
//   - Forbidden when a department worker targets someone else's row
//   - InvalidTransition (ErrAlreadyStarted) unless the row is NOT_STARTED
//   - Conflict when the row changed since it was loaded
func (h StartDepartmentCommandHandler) Handle(ctx context.Context, cmd StartDepartmentCommand) (*tracking.Tracking, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return runDepartmentStep(ctx, h.uowFactory, h.clock, departmentStep{
		target: cmd.departmentTarget,
		action: activity.DepartmentStarted,
		apply: func(row *tracking.Tracking, now time.Time) error {
			return row.Start(cmd.GoldWeightIn(), cmd.Notes(), now)
		},
		message: func(*tracking.Tracking) string {
			return fmt.Sprintf("started with %s g", cmd.GoldWeightIn())
		},
	})
}

// CompleteDepartmentCommandHandler closes a row. A gold gain is accepted and
// called out in the activity message for review.
type CompleteDepartmentCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewCompleteDepartmentCommandHandler creates the handler.
func NewCompleteDepartmentCommandHandler(uowFactory UoWFactory, clock ports.Clock) CompleteDepartmentCommandHandler {
	return CompleteDepartmentCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle completes the department and derives its gold loss from the
// weight in and the weight out.
//
// Only an IN_PROGRESS row may be completed. A held row has to be resumed
// first, and every rejection matches tracking.ErrNotStarted.
func (h CompleteDepartmentCommandHandler) Handle(
	ctx context.Context,
	cmd CompleteDepartmentCommand,
) (*tracking.Tracking, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return runDepartmentStep(ctx, h.uowFactory, h.clock, departmentStep{
		target: cmd.departmentTarget,
		action: activity.DepartmentCompleted,
		apply: func(row *tracking.Tracking, now time.Time) error {
			return row.Complete(cmd.GoldWeightOut(), cmd.Notes(), now)
		},
		message: func(row *tracking.Tracking) string {
			msg := fmt.Sprintf("completed with %s g", cmd.GoldWeightOut())
			if loss, ok := row.GoldLoss().Get(); ok {
				msg += fmt.Sprintf(", loss %s g", loss.StringFixed(kernel.WeightScale))
			}
			if row.HasGoldGain() {
				msg += " (gold gain, review)"
			}
			return msg
		},
	})
}

// HoldDepartmentCommandHandler pauses an IN_PROGRESS row with a mandatory
// reason. Held rows do not count towards a worker's active workload and are
// picked up by the stale hold reminder when left too long.
type HoldDepartmentCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewHoldDepartmentCommandHandler creates the handler.
func NewHoldDepartmentCommandHandler(uowFactory UoWFactory, clock ports.Clock) HoldDepartmentCommandHandler {
	return HoldDepartmentCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle puts the row ON_HOLD. The reason is validated when the command is
// built, so a blank reason never reaches the transaction.
func (h HoldDepartmentCommandHandler) Handle(ctx context.Context, cmd HoldDepartmentCommand) (*tracking.Tracking, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return runDepartmentStep(ctx, h.uowFactory, h.clock, departmentStep{
		target: cmd.departmentTarget,
		action: activity.DepartmentHeld,
		apply: func(row *tracking.Tracking, now time.Time) error {
			return row.Hold(cmd.Reason(), now)
		},
		message: func(*tracking.Tracking) string {
			return "on hold: " + cmd.Reason()
		},
	})
}

// ResumeDepartmentCommandHandler returns an ON_HOLD row to IN_PROGRESS.
type ResumeDepartmentCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewResumeDepartmentCommandHandler creates the handler.
func NewResumeDepartmentCommandHandler(uowFactory UoWFactory, clock ports.Clock) ResumeDepartmentCommandHandler {
	return ResumeDepartmentCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle resumes the row and clears its hold reason.
//
// Returns:
//   - the row back in IN_PROGRESS
//   - InvalidTransition (ErrNotOnHold) for any other status
func (h ResumeDepartmentCommandHandler) Handle(
	ctx context.Context,
	cmd ResumeDepartmentCommand,
) (*tracking.Tracking, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return runDepartmentStep(ctx, h.uowFactory, h.clock, departmentStep{
		target: cmd.departmentTarget,
		action: activity.DepartmentResumed,
		apply: func(row *tracking.Tracking, now time.Time) error {
			return row.Resume(now)
		},
		message: func(*tracking.Tracking) string {
			return "resumed"
		},
	})
}
