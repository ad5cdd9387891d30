package activityrepo

import (
	"time"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type EntryDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_activity_order_created"`
	Department *string    `gorm:"type:varchar(32)"`
	Action     string     `gorm:"type:varchar(32);not null"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	Message    string     `gorm:"type:text"`
	CreatedAt  time.Time  `gorm:"autoCreateTime:false;index:idx_activity_order_created"`
}

func (EntryDTO) TableName() string {
	return "activity_log"
}

func fromDomain(e *activity.Entry) EntryDTO {
	var dept *string
	if d, ok := e.Department().Get(); ok {
		s := d.String()
		dept = &s
	}

	var actorID *uuid.UUID
	if id, ok := e.ActorID().Get(); ok {
		b := id.Bytes()
		actorID = &b
	}

	return EntryDTO{
		ID:         e.ID().Bytes(),
		OrderID:    e.OrderID().Bytes(),
		Department: dept,
		Action:     string(e.Action()),
		ActorID:    actorID,
		Message:    e.Message(),
		CreatedAt:  e.CreatedAt(),
	}
}

func toDomain(dto EntryDTO) (*activity.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	dept := kernel.None[department.Department]()
	if dto.Department != nil {
		d, parseErr := department.Parse(*dto.Department)
		if parseErr != nil {
			return nil, parseErr
		}
		dept = kernel.Some(d)
	}

	actorID := kernel.None[kernel.UUID]()
	if dto.ActorID != nil {
		actor, idErr := kernel.UUIDFromBytes(dto.ActorID[:])
		if idErr != nil {
			return nil, idErr
		}
		actorID = kernel.Some(actor)
	}

	return activity.RestoreEntry(id, orderID, dept, activity.Action(dto.Action), actorID, dto.Message, dto.CreatedAt)
}
