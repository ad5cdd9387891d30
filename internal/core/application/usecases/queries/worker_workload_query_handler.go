package queries

import (
	"context"

	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/core/domain/model/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkerWorkloadQueryHandler counts NOT_STARTED and IN_PROGRESS rows per
// department worker. Held rows are not counted.
type WorkerWorkloadQueryHandler struct {
	db *gorm.DB
}

// NewWorkerWorkloadQueryHandler creates the handler.
func NewWorkerWorkloadQueryHandler(db *gorm.DB) WorkerWorkloadQueryHandler {
	return WorkerWorkloadQueryHandler{db: db}
}

// Handle sorts by active rows, then by name.
func (h WorkerWorkloadQueryHandler) Handle(
	ctx context.Context,
	query WorkerWorkloadQuery,
) ([]WorkerWorkloadQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT w.id, w.name, COUNT(t.id) AS active_rows
		FROM workers w
		JOIN worker_departments wd ON wd.worker_id = w.id AND wd.department = ?
		LEFT JOIN department_tracking t ON t.assigned_to = w.id AND t.status IN (?, ?)
		WHERE w.role = ?
		GROUP BY w.id, w.name
		ORDER BY active_rows, w.name
	`,
		query.Department().String(),
		int(tracking.NotStarted), int(tracking.InProgress),
		worker.DepartmentWorker.String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workload := make([]WorkerWorkloadQueryResponse, 0)
	for rows.Next() {
		var item WorkerWorkloadQueryResponse
		var id uuid.UUID
		var active int64

		if err = rows.Scan(&id, &item.Name, &active); err != nil {
			return nil, err
		}
		if item.WorkerID, err = idFrom(id); err != nil {
			return nil, err
		}
		item.ActiveRows = int(active)
		workload = append(workload, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return workload, nil
}
