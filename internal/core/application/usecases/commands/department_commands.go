package commands

import (
	"errors"
	"strings"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var (
	ErrStartDepartmentCommandIsNotConstructed = errors.New(
		"StartDepartmentCommand must be created via NewStartDepartmentCommand constructor",
	)
	ErrCompleteDepartmentCommandIsNotConstructed = errors.New(
		"CompleteDepartmentCommand must be created via NewCompleteDepartmentCommand constructor",
	)
	ErrHoldDepartmentCommandIsNotConstructed = errors.New(
		"HoldDepartmentCommand must be created via NewHoldDepartmentCommand constructor",
	)
	ErrResumeDepartmentCommandIsNotConstructed = errors.New(
		"ResumeDepartmentCommand must be created via NewResumeDepartmentCommand constructor",
	)
)

// departmentTarget addresses one tracking row on behalf of an actor.
type departmentTarget struct {
	orderID    kernel.UUID
	department department.Department
	actor      worker.Actor
}

func newDepartmentTarget(orderID kernel.UUID, d department.Department, actor worker.Actor) (departmentTarget, error) {
	if err := errors.Join(orderID.Validate(), d.Validate(), actor.Validate()); err != nil {
		return departmentTarget{}, err
	}
	return departmentTarget{orderID: orderID, department: d, actor: actor}, nil
}

func (t departmentTarget) OrderID() kernel.UUID {
	return t.orderID
}

func (t departmentTarget) Department() department.Department {
	return t.department
}

func (t departmentTarget) Actor() worker.Actor {
	return t.actor
}

// StartDepartmentCommand moves a row NOT_STARTED -> IN_PROGRESS.
type StartDepartmentCommand struct {
	departmentTarget
	goldWeightIn kernel.Weight
	notes        string

	guard guard.ConstructorGuard
}

// NewStartDepartmentCommand validates the row address, the actor and the
// weight handed out. Notes are trimmed and appended to the row's notes.
// All validation failures are joined into one error.
func NewStartDepartmentCommand(
	orderID kernel.UUID,
	d department.Department,
	actor worker.Actor,
	goldWeightIn kernel.Weight,
	notes string,
) (StartDepartmentCommand, error) {
	target, err := newDepartmentTarget(orderID, d, actor)
	if err = errors.Join(err, goldWeightIn.Validate()); err != nil {
		return StartDepartmentCommand{}, err
	}
	return StartDepartmentCommand{
		departmentTarget: target,
		goldWeightIn:     goldWeightIn,
		notes:            strings.TrimSpace(notes),
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrStartDepartmentCommandIsNotConstructed otherwise.
func (c StartDepartmentCommand) Validate() error {
	return c.guard.Validate(ErrStartDepartmentCommandIsNotConstructed)
}

// GoldWeightIn returns the gold weight received by the department.
func (c StartDepartmentCommand) GoldWeightIn() kernel.Weight {
	return c.goldWeightIn
}

func (c StartDepartmentCommand) Notes() string {
	return c.notes
}

// CompleteDepartmentCommand moves a row IN_PROGRESS -> COMPLETED.
type CompleteDepartmentCommand struct {
	departmentTarget
	goldWeightOut kernel.Weight
	notes         string

	guard guard.ConstructorGuard
}

// NewCompleteDepartmentCommand validates the row address, the actor and the
// weight returned by the department.
func NewCompleteDepartmentCommand(
	orderID kernel.UUID,
	d department.Department,
	actor worker.Actor,
	goldWeightOut kernel.Weight,
	notes string,
) (CompleteDepartmentCommand, error) {
	target, err := newDepartmentTarget(orderID, d, actor)
	if err = errors.Join(err, goldWeightOut.Validate()); err != nil {
		return CompleteDepartmentCommand{}, err
	}
	return CompleteDepartmentCommand{
		departmentTarget: target,
		goldWeightOut:    goldWeightOut,
		notes:            strings.TrimSpace(notes),
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteDepartmentCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDepartmentCommandIsNotConstructed)
}

// GoldWeightOut returns the gold weight that left the department.
func (c CompleteDepartmentCommand) GoldWeightOut() kernel.Weight {
	return c.goldWeightOut
}

func (c CompleteDepartmentCommand) Notes() string {
	return c.notes
}

// HoldDepartmentCommand moves a row IN_PROGRESS -> ON_HOLD.
type HoldDepartmentCommand struct {
	departmentTarget
	reason string

	guard guard.ConstructorGuard
}

// NewHoldDepartmentCommand requires a non-blank reason.
//
// Returns:
//   - the command with the trimmed reason
//   - tracking.ErrHoldReasonIsRequired (ValueIsRequired) for a blank reason
//
// Example:
//
//	cmd, err := NewHoldDepartmentCommand(orderID, department.Setting, actor, "waiting for stones")
func NewHoldDepartmentCommand(
	orderID kernel.UUID,
	d department.Department,
	actor worker.Actor,
	reason string,
) (HoldDepartmentCommand, error) {
	target, err := newDepartmentTarget(orderID, d, actor)

	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = tracking.ErrHoldReasonIsRequired
	}

	if err = errors.Join(err, reasonErr); err != nil {
		return HoldDepartmentCommand{}, err
	}
	return HoldDepartmentCommand{
		departmentTarget: target,
		reason:           reason,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c HoldDepartmentCommand) Validate() error {
	return c.guard.Validate(ErrHoldDepartmentCommandIsNotConstructed)
}

func (c HoldDepartmentCommand) Reason() string {
	return c.reason
}

// ResumeDepartmentCommand moves a row ON_HOLD -> IN_PROGRESS.
type ResumeDepartmentCommand struct {
	departmentTarget

	guard guard.ConstructorGuard
}

// NewResumeDepartmentCommand addresses the held row to resume.
func NewResumeDepartmentCommand(
	orderID kernel.UUID,
	d department.Department,
	actor worker.Actor,
) (ResumeDepartmentCommand, error) {
	target, err := newDepartmentTarget(orderID, d, actor)
	if err != nil {
		return ResumeDepartmentCommand{}, err
	}
	return ResumeDepartmentCommand{departmentTarget: target, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c ResumeDepartmentCommand) Validate() error {
	return c.guard.Validate(ErrResumeDepartmentCommandIsNotConstructed)
}
