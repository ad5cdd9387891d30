package trackingrepo

import (
	"time"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/tracking"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TrackingDTO struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID           `gorm:"type:uuid;uniqueIndex:idx_tracking_order_department"`
	Department     string              `gorm:"size:32;uniqueIndex:idx_tracking_order_department"`
	SequenceIndex  int                 `gorm:"type:smallint"`
	Status         int                 `gorm:"index"`
	AssignedTo     *uuid.UUID          `gorm:"type:uuid;index"`
	GoldWeightIn   decimal.NullDecimal `gorm:"type:decimal(12,3)"`
	GoldWeightOut  decimal.NullDecimal `gorm:"type:decimal(12,3)"`
	EstimatedHours decimal.NullDecimal `gorm:"type:decimal(8,2)"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
	Notes          string `gorm:"type:text"`
	HoldReason     string `gorm:"type:text"`
	WorkData       datatypes.JSONType[tracking.WorkData]
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false;index"`
	Version        int
}

func (TrackingDTO) TableName() string {
	return "department_tracking"
}

func fromDomain(t *tracking.Tracking) TrackingDTO {
	var assignedTo *uuid.UUID
	if id, ok := t.AssignedTo().Get(); ok {
		b := id.Bytes()
		assignedTo = &b
	}

	return TrackingDTO{
		ID:             t.ID().Bytes(),
		OrderID:        t.OrderID().Bytes(),
		Department:     t.Department().String(),
		SequenceIndex:  t.SequenceIndex(),
		Status:         int(t.Status()),
		AssignedTo:     assignedTo,
		GoldWeightIn:   nullWeight(t.GoldWeightIn()),
		GoldWeightOut:  nullWeight(t.GoldWeightOut()),
		EstimatedHours: nullDecimal(t.EstimatedHours()),
		StartedAt:      t.StartedAt().Ptr(),
		CompletedAt:    t.CompletedAt().Ptr(),
		Notes:          t.Notes(),
		HoldReason:     t.HoldReason(),
		WorkData:       datatypes.NewJSONType(t.WorkData()),
		UpdatedAt:      t.UpdatedAt(),
		Version:        t.Version(),
	}
}

func toDomain(dto TrackingDTO) (*tracking.Tracking, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	dept, err := department.Parse(dto.Department)
	if err != nil {
		return nil, err
	}

	assignedTo := kernel.None[kernel.UUID]()
	if dto.AssignedTo != nil {
		workerID, idErr := kernel.UUIDFromBytes(dto.AssignedTo[:])
		if idErr != nil {
			return nil, idErr
		}
		assignedTo = kernel.Some(workerID)
	}

	weightIn, err := weightOption(dto.GoldWeightIn)
	if err != nil {
		return nil, err
	}

	weightOut, err := weightOption(dto.GoldWeightOut)
	if err != nil {
		return nil, err
	}

	estimatedHours := kernel.None[decimal.Decimal]()
	if dto.EstimatedHours.Valid {
		estimatedHours = kernel.Some(dto.EstimatedHours.Decimal)
	}

	workData := dto.WorkData.Data()
	if workData.Fields == nil {
		workData.Fields = map[string]any{}
	}
	if workData.Files == nil {
		workData.Files = []tracking.FileRef{}
	}

	return tracking.RestoreTracking(tracking.Snapshot{
		ID:             id,
		OrderID:        orderID,
		Department:     dept,
		SequenceIndex:  dto.SequenceIndex,
		Status:         tracking.Status(dto.Status),
		AssignedTo:     assignedTo,
		GoldWeightIn:   weightIn,
		GoldWeightOut:  weightOut,
		EstimatedHours: estimatedHours,
		StartedAt:      utcOption(dto.StartedAt),
		CompletedAt:    utcOption(dto.CompletedAt),
		Notes:          dto.Notes,
		HoldReason:     dto.HoldReason,
		WorkData:       workData,
		UpdatedAt:      dto.UpdatedAt,
		Version:        dto.Version,
	})
}

func nullWeight(w kernel.Option[kernel.Weight]) decimal.NullDecimal {
	if v, ok := w.Get(); ok {
		return decimal.NewNullDecimal(v.Decimal())
	}
	return decimal.NullDecimal{}
}

func nullDecimal(d kernel.Option[decimal.Decimal]) decimal.NullDecimal {
	if v, ok := d.Get(); ok {
		return decimal.NewNullDecimal(v)
	}
	return decimal.NullDecimal{}
}

func weightOption(d decimal.NullDecimal) (kernel.Option[kernel.Weight], error) {
	if !d.Valid {
		return kernel.None[kernel.Weight](), nil
	}
	w, err := kernel.NewWeight(d.Decimal)
	if err != nil {
		return kernel.None[kernel.Weight](), err
	}
	return kernel.Some(w), nil
}

func utcOption(t *time.Time) kernel.Option[time.Time] {
	if t == nil {
		return kernel.None[time.Time]()
	}
	return kernel.Some(t.UTC())
}
