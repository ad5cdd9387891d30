// Package ports defines the contracts between the workflow core and its
// infrastructure: repositories, the unit of work and outbound collaborators
// such as the notifier and file storage.
package ports

import (
	"context"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
)

// WorkerRepository is the user directory as seen by the workflow: role and
// department lookup for assignment rules.
type WorkerRepository interface {
	// Add persists a newly registered worker.
	Add(ctx context.Context, w *worker.Worker) error

	// Get retrieves a worker with its configured departments.
	// Returns errs.ObjectNotFoundError when the worker does not exist.
	Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error)

	// ListByDepartment returns DEPARTMENT_WORKER users configured for d,
	// ordered by name.
	ListByDepartment(ctx context.Context, d department.Department) ([]*worker.Worker, error)
}
