package commands

import (
	"errors"
	"maps"
	"slices"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var ErrUpdateWorkDataCommandIsNotConstructed = errors.New(
	"UpdateWorkDataCommand must be created via NewUpdateWorkDataCommand constructor",
)

// UpdateWorkDataCommand merges department form fields and file references
// into a row. A nil field value removes the field.
type UpdateWorkDataCommand struct {
	departmentTarget
	fields map[string]any
	files  []tracking.FileRef

	guard guard.ConstructorGuard
}

// NewUpdateWorkDataCommand copies fields and files so the caller may reuse
// its maps.
func NewUpdateWorkDataCommand(
	orderID kernel.UUID,
	d department.Department,
	actor worker.Actor,
	fields map[string]any,
	files []tracking.FileRef,
) (UpdateWorkDataCommand, error) {
	target, err := newDepartmentTarget(orderID, d, actor)
	if err != nil {
		return UpdateWorkDataCommand{}, err
	}
	return UpdateWorkDataCommand{
		departmentTarget: target,
		fields:           maps.Clone(fields),
		files:            slices.Clone(files),
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateWorkDataCommand) Validate() error {
	return c.guard.Validate(ErrUpdateWorkDataCommandIsNotConstructed)
}

func (c UpdateWorkDataCommand) Fields() map[string]any {
	return maps.Clone(c.fields)
}

func (c UpdateWorkDataCommand) Files() []tracking.FileRef {
	return slices.Clone(c.files)
}
