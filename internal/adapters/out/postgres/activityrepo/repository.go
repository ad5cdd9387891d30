// Package activityrepo stores the append only activity log of orders.
package activityrepo

import (
	"context"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormActivityLog appends activity entries. Entries are never updated.
type GormActivityLog struct {
	db *gorm.DB
}

func NewGormActivityLog(db *gorm.DB) *GormActivityLog {
	return &GormActivityLog{db: db}
}

func (r *GormActivityLog) Record(ctx context.Context, entry *activity.Entry) error {
	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormActivityLog) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Delete(&EntryDTO{}).Error
}

// ListByOrder returns the entries of an order, oldest first.
func (r *GormActivityLog) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*activity.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]*activity.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
