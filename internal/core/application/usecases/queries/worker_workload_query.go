package queries

import (
	"errors"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/guard"
)

var ErrWorkerWorkloadQueryIsNotConstructed = errors.New(
	"WorkerWorkloadQuery must be created via NewWorkerWorkloadQuery constructor",
)

// WorkerWorkloadQuery lists the department workers of a department with the
// number of rows they currently hold, least loaded first. It is a display
// aid for assignment; nothing is balanced automatically.
type WorkerWorkloadQuery struct {
	department department.Department

	guard guard.ConstructorGuard
}

// NewWorkerWorkloadQuery creates the workload query for one department.
func NewWorkerWorkloadQuery(d department.Department) (WorkerWorkloadQuery, error) {
	if err := d.Validate(); err != nil {
		return WorkerWorkloadQuery{}, err
	}
	return WorkerWorkloadQuery{department: d, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q WorkerWorkloadQuery) Validate() error {
	return q.guard.Validate(ErrWorkerWorkloadQueryIsNotConstructed)
}

func (q WorkerWorkloadQuery) Department() department.Department {
	return q.department
}

// WorkerWorkloadQueryResponse counts NOT_STARTED and IN_PROGRESS rows
// assigned to the worker across all orders and departments.
type WorkerWorkloadQueryResponse struct {
	WorkerID   kernel.UUID
	Name       string
	ActiveRows int
}
