package queries

import (
	"context"
	"database/sql"
	"errors"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetWorkerQueryHandler reads the worker directory.
type GetWorkerQueryHandler struct {
	db *gorm.DB
}

// NewGetWorkerQueryHandler creates the handler.
func NewGetWorkerQueryHandler(db *gorm.DB) GetWorkerQueryHandler {
	return GetWorkerQueryHandler{db: db}
}

// Handle returns the worker with its departments in production order.
func (h GetWorkerQueryHandler) Handle(ctx context.Context, query GetWorkerQuery) (GetWorkerQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWorkerQueryResponse{}, err
	}

	var resp GetWorkerQueryResponse
	var id uuid.UUID
	var role string

	err := h.db.WithContext(ctx).
		Raw(`SELECT id, name, role FROM workers WHERE id = ?`, query.WorkerID().Bytes()).
		Row().
		Scan(&id, &resp.Name, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetWorkerQueryResponse{}, errs.NewObjectNotFoundError("worker", query.WorkerID().String())
		}
		return GetWorkerQueryResponse{}, err
	}

	if resp.ID, err = idFrom(id); err != nil {
		return GetWorkerQueryResponse{}, err
	}
	if resp.Role, err = worker.ParseRole(role); err != nil {
		return GetWorkerQueryResponse{}, err
	}

	var names []string
	if err = h.db.WithContext(ctx).
		Raw(`SELECT department FROM worker_departments WHERE worker_id = ?`, id).
		Scan(&names).Error; err != nil {
		return GetWorkerQueryResponse{}, err
	}

	resp.Departments = make([]department.Department, 0, len(names))
	for _, d := range department.Sequence() {
		for _, name := range names {
			if name == d.String() {
				resp.Departments = append(resp.Departments, d)
			}
		}
	}

	return resp, nil
}
