package orderrepo

import (
	"context"
	"errors"
	"time"

	"atelier/internal/adapters/out/postgres/dberr"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/ports"
	"atelier/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository persists orders with their stones.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a repository bound to db. Added and
// updated orders are reported to tracker.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add stores the order, its details and stones. A taken order number comes
// back as errs.AlreadyExistsError with ports.DuplicateOrderNumber.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	exists, err := r.exists(ctx, aggregate.ID())
	if err != nil {
		return err
	}
	if exists {
		return errs.NewAlreadyExistsError("order", aggregate.ID().String())
	}

	dto := fromDomain(aggregate)
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if dberr.IsDuplicateKey(r.db, err) {
			return errs.NewAlreadyExistsError(ports.DuplicateOrderNumber, dto.Number)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the mutable order fields. Stones are fixed at creation.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.ExpectedVersion()).
		Updates(map[string]any{
			"customer_ref":     dto.CustomerRef,
			"priority":         dto.Priority,
			"status":           dto.Status,
			"due_date":         dto.Details.DueDate,
			"product_metadata": dto.Details.ProductMetadata,
			"updated_at":       dto.UpdatedAt,
			"version":          dto.Version,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		exists, err := r.exists(ctx, aggregate.ID())
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewConflictError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get loads an order with its stones in insertion order.
// Returns ObjectNotFound when the order does not exist.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).Preload("Stones", orderStones).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes the stones and the order row. Other owned records are
// removed by their own repositories in the same unit of work.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id.Bytes()).Delete(&StoneDTO{}).Error; err != nil {
		return err
	}

	result := db.Delete(&OrderDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}

	return nil
}

// LatestSequence returns the highest number sequence used in year, or 0.
func (r *GormOrderRepository) LatestSequence(ctx context.Context, year int) (int, error) {
	var latest int
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("number_year = ?", year).
		Select("COALESCE(MAX(number_seq), 0)").
		Scan(&latest).Error
	if err != nil {
		return 0, err
	}
	return latest, nil
}

func (r *GormOrderRepository) ListOverdue(ctx context.Context, now time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).Preload("Stones", orderStones).
		Where("status = ? AND due_date < ?", int(order.InFactory), now.UTC()).
		Order("due_date, number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) exists(ctx context.Context, id kernel.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func orderStones(db *gorm.DB) *gorm.DB {
	return db.Order("order_stones.id")
}
