// Package workerrepo persists the user directory: workers, their role and
// the departments they are configured for.
package workerrepo

import (
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"

	"github.com/google/uuid"
)

type WorkerDTO struct {
	ID          uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name        string                `gorm:"type:varchar(255);not null;index"`
	Role        string                `gorm:"type:varchar(32);not null"`
	Departments []WorkerDepartmentDTO `gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE"`
}

func (WorkerDTO) TableName() string {
	return "workers"
}

// WorkerDepartmentDTO links a worker to one department it may work in.
type WorkerDepartmentDTO struct {
	WorkerID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Department string    `gorm:"type:varchar(32);primaryKey;index"`
}

func (WorkerDepartmentDTO) TableName() string {
	return "worker_departments"
}

func fromDomain(w *worker.Worker) WorkerDTO {
	workerID := w.ID().Bytes()
	departments := make([]WorkerDepartmentDTO, 0, len(w.Departments()))
	for _, d := range w.Departments() {
		departments = append(departments, WorkerDepartmentDTO{
			WorkerID:   workerID,
			Department: d.String(),
		})
	}

	return WorkerDTO{
		ID:          workerID,
		Name:        w.Name(),
		Role:        w.Role().String(),
		Departments: departments,
	}
}

func toDomain(dto WorkerDTO) (*worker.Worker, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	role, err := worker.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	departments := make([]department.Department, 0, len(dto.Departments))
	for _, wd := range dto.Departments {
		d, parseErr := department.Parse(wd.Department)
		if parseErr != nil {
			return nil, parseErr
		}
		departments = append(departments, d)
	}

	return worker.RestoreWorker(id, dto.Name, role, departments)
}
