package trackingrepo

import (
	"context"
	"errors"
	"time"

	"atelier/internal/adapters/out/postgres/dberr"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTrackingRepository persists the department rows of orders.
type GormTrackingRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormTrackingRepository creates a repository bound to db.
func NewGormTrackingRepository(db *gorm.DB, tracker aggregateTracker) *GormTrackingRepository {
	return &GormTrackingRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddAll inserts the rows of one order in a single statement. The
// (order, department) pair is unique.
func (r *GormTrackingRepository) AddAll(ctx context.Context, rows []*tracking.Tracking) error {
	if len(rows) == 0 {
		return nil
	}

	dtos := make([]TrackingDTO, 0, len(rows))
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(row))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		if dberr.IsDuplicateKey(r.db, err) {
			return errs.NewAlreadyExistsError("department tracking", rows[0].OrderID().String())
		}
		return err
	}

	for _, row := range rows {
		r.tracker.TrackAggregate(row.ID(), row)
	}
	return nil
}

func (r *GormTrackingRepository) Get(ctx context.Context, orderID kernel.UUID, d department.Department) (*tracking.Tracking, error) {
	if err := errors.Join(orderID.Validate(), d.Validate()); err != nil {
		return nil, err
	}

	var dto TrackingDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND department = ?", orderID.Bytes(), d.String()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("department tracking", orderID.String()+"/"+d.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByOrder returns the rows in department sequence order.
func (r *GormTrackingRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*tracking.Tracking, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TrackingDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("sequence_index").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// Update is a compare-and-swap on the stored status and version. A row that
// moved on since it was loaded is reported as errs.ConflictError.
func (r *GormTrackingRepository) Update(ctx context.Context, row *tracking.Tracking) error {
	if err := row.Validate(); err != nil {
		return err
	}

	dto := fromDomain(row)
	result := r.db.WithContext(ctx).Model(&TrackingDTO{}).
		Where("id = ? AND version = ? AND status = ?", dto.ID, row.ExpectedVersion(), int(row.ExpectedStatus())).
		Updates(map[string]any{
			"status":          dto.Status,
			"assigned_to":     dto.AssignedTo,
			"gold_weight_in":  dto.GoldWeightIn,
			"gold_weight_out": dto.GoldWeightOut,
			"estimated_hours": dto.EstimatedHours,
			"started_at":      dto.StartedAt,
			"completed_at":    dto.CompletedAt,
			"notes":           dto.Notes,
			"hold_reason":     dto.HoldReason,
			"work_data":       dto.WorkData,
			"updated_at":      dto.UpdatedAt,
			"version":         dto.Version,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&TrackingDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("department tracking", row.ID().String())
		}
		return errs.NewConflictError("department tracking", row.OrderID().String()+"/"+row.Department().String())
	}

	r.tracker.TrackAggregate(row.ID(), row)
	return nil
}

// ListOnHoldSince returns ON_HOLD rows last touched before the given time,
// oldest first.
func (r *GormTrackingRepository) ListOnHoldSince(ctx context.Context, before time.Time) ([]*tracking.Tracking, error) {
	var dtos []TrackingDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", int(tracking.OnHold), before.UTC()).
		Order("updated_at, sequence_index").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormTrackingRepository) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Delete(&TrackingDTO{}).Error
}

func toDomainList(dtos []TrackingDTO) ([]*tracking.Tracking, error) {
	rows := make([]*tracking.Tracking, 0, len(dtos))
	for _, dto := range dtos {
		row, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
