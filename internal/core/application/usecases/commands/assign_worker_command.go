package commands

import (
	"errors"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrAssignWorkerCommandIsNotConstructed = errors.New(
		"AssignWorkerCommand must be created via NewAssignWorkerCommand constructor",
	)
	ErrSelfAssignCommandIsNotConstructed = errors.New(
		"SelfAssignCommand must be created via NewSelfAssignCommand constructor",
	)
)

// AssignWorkerCommand is the admin directed assignment of workerID to a
// department of an order.
//
// Example:
//
//	cmd, err := NewAssignWorkerCommand(orderID, department.Setting, setterID, manager, kernel.Some(decimal.NewFromInt(6)))
//	row, err := handler.Handle(ctx, cmd)
//	// row.Status() == tracking.NotStarted
type AssignWorkerCommand struct {
	departmentTarget
	workerID       kernel.UUID
	estimatedHours kernel.Option[decimal.Decimal]

	guard guard.ConstructorGuard
}

// NewAssignWorkerCommand builds an admin directed assignment. estimatedHours
// is optional and only stored when present.
func NewAssignWorkerCommand(
	orderID kernel.UUID,
	d department.Department,
	workerID kernel.UUID,
	actor worker.Actor,
	estimatedHours kernel.Option[decimal.Decimal],
) (AssignWorkerCommand, error) {
	target, err := newDepartmentTarget(orderID, d, actor)
	if err = errors.Join(err, workerID.Validate()); err != nil {
		return AssignWorkerCommand{}, err
	}
	return AssignWorkerCommand{
		departmentTarget: target,
		workerID:         workerID,
		estimatedHours:   estimatedHours,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignWorkerCommandIsNotConstructed if validation fails.
func (c AssignWorkerCommand) Validate() error {
	return c.guard.Validate(ErrAssignWorkerCommandIsNotConstructed)
}

// WorkerID returns the worker to put on the row.
func (c AssignWorkerCommand) WorkerID() kernel.UUID {
	return c.workerID
}

func (c AssignWorkerCommand) EstimatedHours() kernel.Option[decimal.Decimal] {
	return c.estimatedHours
}

// SelfAssignCommand lets the acting worker claim a department row.
type SelfAssignCommand struct {
	departmentTarget

	guard guard.ConstructorGuard
}

// NewSelfAssignCommand builds a claim of the row by actor. The actor is also
// the worker being assigned.
func NewSelfAssignCommand(orderID kernel.UUID, d department.Department, actor worker.Actor) (SelfAssignCommand, error) {
	target, err := newDepartmentTarget(orderID, d, actor)
	if err != nil {
		return SelfAssignCommand{}, err
	}
	return SelfAssignCommand{departmentTarget: target, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c SelfAssignCommand) Validate() error {
	return c.guard.Validate(ErrSelfAssignCommandIsNotConstructed)
}
