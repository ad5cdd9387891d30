package workerrepo

import (
	"context"
	"errors"

	"atelier/internal/adapters/out/postgres/dberr"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWorkerRepository implements WorkerRepository using GORM.
type GormWorkerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWorkerRepository creates a repository bound to db.
func NewGormWorkerRepository(db *gorm.DB, tracker aggregateTracker) *GormWorkerRepository {
	return &GormWorkerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new worker together with its department links.
func (r *GormWorkerRepository) Add(ctx context.Context, aggregate *worker.Worker) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if dberr.IsDuplicateKey(r.db, err) {
			return errs.NewAlreadyExistsError("worker", aggregate.ID().String())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormWorkerRepository) Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkerDTO
	if err := r.db.WithContext(ctx).Preload("Departments", byDepartment).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("worker", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByDepartment returns the department workers configured for d, ordered
// by name. Managers and admins are not part of a department roster.
func (r *GormWorkerRepository) ListByDepartment(ctx context.Context, d department.Department) ([]*worker.Worker, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var dtos []WorkerDTO
	if err := r.db.WithContext(ctx).
		Preload("Departments", byDepartment).
		Joins("JOIN worker_departments ON worker_departments.worker_id = workers.id").
		Where("worker_departments.department = ? AND workers.role = ?", d.String(), worker.DepartmentWorker.String()).
		Order("workers.name, workers.id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	workers := make([]*worker.Worker, 0, len(dtos))
	for _, dto := range dtos {
		w, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}

	return workers, nil
}

func byDepartment(db *gorm.DB) *gorm.DB {
	return db.Order("department")
}
