package queries

import (
	"errors"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"
)

var ErrGetWorkerQueryIsNotConstructed = errors.New(
	"GetWorkerQuery must be created via NewGetWorkerQuery constructor",
)

// GetWorkerQuery reads one worker from the directory. The actor middleware
// uses it to resolve the caller.
type GetWorkerQuery struct {
	workerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetWorkerQuery creates the query.
func NewGetWorkerQuery(workerID kernel.UUID) (GetWorkerQuery, error) {
	if err := workerID.Validate(); err != nil {
		return GetWorkerQuery{}, err
	}
	return GetWorkerQuery{workerID: workerID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetWorkerQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkerQueryIsNotConstructed)
}

func (q GetWorkerQuery) WorkerID() kernel.UUID {
	return q.workerID
}

// GetWorkerQueryResponse is the directory entry of a worker.
type GetWorkerQueryResponse struct {
	ID          kernel.UUID
	Name        string
	Role        worker.Role
	Departments []department.Department
}
