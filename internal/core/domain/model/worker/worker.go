package worker

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

var (
	ErrNameIsRequired         = errs.NewValueIsRequiredError("name")
	ErrWorkerIsNotConstructed = errors.New("Worker must be created via NewWorker constructor")

	// ErrNotDepartmentWorker is returned when a non-worker role is assigned to a department.
	ErrNotDepartmentWorker = errs.NewValueIsInvalidError("worker is not a department worker")
	// ErrNotConfiguredForDepartment is returned when the worker does not belong to the department.
	ErrNotConfiguredForDepartment = errs.NewValueIsInvalidError("worker is not configured for the department")
)

// Worker is a user of the production floor as seen by the user directory:
// identity, role and the departments the person is configured for.
type Worker struct {
	id          kernel.UUID
	name        string
	role        Role
	departments []department.Department
	guard       guard.ConstructorGuard
}

// NewWorker creates a directory worker.
//
// Returns:
//   - ValueIsRequired for a DEPARTMENT_WORKER without departments
//   - validation errors for the id, name, role or departments, joined
func NewWorker(id kernel.UUID, name string, role Role, departments []department.Department) (*Worker, error) {
	w := &Worker{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		w.setID(id),
		w.setName(name),
		w.setRole(role),
		w.setDepartments(departments),
	); err != nil {
		return nil, err
	}

	if role == DepartmentWorker && len(w.departments) == 0 {
		return nil, errs.NewValueIsRequiredErrorWithCause("departments",
			fmt.Errorf("%s must belong to at least one department", role))
	}

	return w, nil
}

// RestoreWorker rebuilds a worker loaded from storage.
func RestoreWorker(id kernel.UUID, name string, role Role, departments []department.Department) (*Worker, error) {
	return NewWorker(id, name, role, departments)
}

// Validate ensures the worker was created through the constructor.
func (w *Worker) Validate() error {
	if w == nil {
		return ErrWorkerIsNotConstructed
	}
	return w.guard.Validate(ErrWorkerIsNotConstructed)
}

func (w *Worker) ID() kernel.UUID {
	return w.id
}

func (w *Worker) Name() string {
	return w.name
}

func (w *Worker) Role() Role {
	return w.role
}

func (w *Worker) Departments() []department.Department {
	return slices.Clone(w.departments)
}

// WorksIn reports whether the worker is configured for d.
func (w *Worker) WorksIn(d department.Department) bool {
	return slices.Contains(w.departments, d)
}

// Can delegates to the role's capability set.
func (w *Worker) Can(c Capability) bool {
	return w.role.Can(c)
}

// ValidateAssignableTo checks that the worker may hold a tracking row of d.
func (w *Worker) ValidateAssignableTo(d department.Department) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if w.role != DepartmentWorker {
		return ErrNotDepartmentWorker
	}
	if !w.WorksIn(d) {
		return ErrNotConfiguredForDepartment
	}
	return nil
}

func (w *Worker) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	w.id = id
	return nil
}

func (w *Worker) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	w.name = name
	return nil
}

func (w *Worker) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	w.role = role
	return nil
}

func (w *Worker) setDepartments(departments []department.Department) error {
	out := make([]department.Department, 0, len(departments))
	for _, d := range departments {
		if err := d.Validate(); err != nil {
			return err
		}
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b department.Department) int { return a.Index() - b.Index() })
	w.departments = out
	return nil
}
