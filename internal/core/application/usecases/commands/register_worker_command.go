package commands

import (
	"errors"
	"slices"
	"strings"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var ErrRegisterWorkerCommandIsNotConstructed = errors.New(
	"RegisterWorkerCommand must be created via NewRegisterWorkerCommand constructor",
)

// RegisterWorkerCommand adds a user to the worker directory.
type RegisterWorkerCommand struct {
	workerID    kernel.UUID
	name        string
	role        worker.Role
	departments []department.Department

	guard guard.ConstructorGuard
}

// NewRegisterWorkerCommand checks the id, a non-blank name and the role.
// Whether the role allows departments is decided by worker.NewWorker.
func NewRegisterWorkerCommand(
	workerID kernel.UUID,
	name string,
	role worker.Role,
	departments []department.Department,
) (RegisterWorkerCommand, error) {
	var nameErr error
	name = strings.TrimSpace(name)
	if name == "" {
		nameErr = worker.ErrNameIsRequired
	}

	if err := errors.Join(workerID.Validate(), nameErr, role.Validate()); err != nil {
		return RegisterWorkerCommand{}, err
	}

	return RegisterWorkerCommand{
		workerID:    workerID,
		name:        name,
		role:        role,
		departments: slices.Clone(departments),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterWorkerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterWorkerCommandIsNotConstructed)
}

func (c RegisterWorkerCommand) WorkerID() kernel.UUID {
	return c.workerID
}

func (c RegisterWorkerCommand) Name() string {
	return c.name
}

func (c RegisterWorkerCommand) Role() worker.Role {
	return c.role
}

func (c RegisterWorkerCommand) Departments() []department.Department {
	return slices.Clone(c.departments)
}
