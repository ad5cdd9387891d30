package orderrepo

import (
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number      string     `gorm:"size:32;uniqueIndex:idx_orders_number"`
	NumberYear  int        `gorm:"index:idx_orders_number_seq"`
	NumberSeq   int        `gorm:"index:idx_orders_number_seq"`
	CustomerRef string     `gorm:"size:128"`
	Priority    int        `gorm:"type:smallint"`
	Status      int        `gorm:"index"`
	Details     DetailsDTO `gorm:"embedded"`
	Stones      []StoneDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime:false"`
	Version     int
}

func (OrderDTO) TableName() string {
	return "orders"
}

// DetailsDTO is the 1:1 order details, stored inline with the order row.
type DetailsDTO struct {
	InitialGoldWeight decimal.Decimal `gorm:"type:decimal(12,3)"`
	Purity            int             `gorm:"type:smallint"`
	DueDate           time.Time       `gorm:"index"`
	ProductMetadata   datatypes.JSONType[map[string]string]
}

type StoneDTO struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID       `gorm:"type:uuid;index"`
	Type     string          `gorm:"size:64"`
	Shape    string          `gorm:"size:64"`
	Color    string          `gorm:"size:64"`
	Clarity  string          `gorm:"size:64"`
	Setting  string          `gorm:"size:64"`
	Notes    string          `gorm:"type:text"`
	Weight   decimal.Decimal `gorm:"type:decimal(12,3)"`
	Quantity int
}

func (StoneDTO) TableName() string {
	return "order_stones"
}

func fromDomain(o *order.Order) OrderDTO {
	stones := make([]StoneDTO, 0, len(o.Stones()))
	for _, s := range o.Stones() {
		attrs := s.Attributes()
		stones = append(stones, StoneDTO{
			ID:       s.ID().Bytes(),
			OrderID:  o.ID().Bytes(),
			Type:     attrs.Type,
			Shape:    attrs.Shape,
			Color:    attrs.Color,
			Clarity:  attrs.Clarity,
			Setting:  attrs.Setting,
			Notes:    attrs.Notes,
			Weight:   s.Weight().Decimal(),
			Quantity: s.Quantity(),
		})
	}

	details := o.Details()

	return OrderDTO{
		ID:          o.ID().Bytes(),
		Number:      o.Number().String(),
		NumberYear:  o.Number().Year(),
		NumberSeq:   o.Number().Sequence(),
		CustomerRef: o.CustomerRef(),
		Priority:    o.Priority(),
		Status:      int(o.Status()),
		Details: DetailsDTO{
			InitialGoldWeight: details.InitialGoldWeight().Decimal(),
			Purity:            int(details.Purity()),
			DueDate:           details.DueDate(),
			ProductMetadata:   datatypes.NewJSONType(details.ProductMetadata()),
		},
		Stones:    stones,
		CreatedAt: o.CreatedAt(),
		UpdatedAt: o.UpdatedAt(),
		Version:   o.Version(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	number, err := order.ParseNumber(dto.Number)
	if err != nil {
		return nil, err
	}

	weight, err := kernel.NewWeight(dto.Details.InitialGoldWeight)
	if err != nil {
		return nil, err
	}

	details, err := order.NewDetails(weight, kernel.Karat(dto.Details.Purity), dto.Details.DueDate,
		dto.Details.ProductMetadata.Data())
	if err != nil {
		return nil, err
	}

	stones := make([]*order.Stone, 0, len(dto.Stones))
	for _, s := range dto.Stones {
		stone, stoneErr := stoneToDomain(s)
		if stoneErr != nil {
			return nil, stoneErr
		}
		stones = append(stones, stone)
	}

	return order.RestoreOrder(id, number, dto.CustomerRef, dto.Priority, order.Status(dto.Status), details, stones,
		dto.CreatedAt, dto.UpdatedAt, dto.Version)
}

func stoneToDomain(dto StoneDTO) (*order.Stone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	weight, err := kernel.NewWeight(dto.Weight)
	if err != nil {
		return nil, err
	}

	return order.NewStone(id, order.StoneAttributes{
		Type:    dto.Type,
		Shape:   dto.Shape,
		Color:   dto.Color,
		Clarity: dto.Clarity,
		Setting: dto.Setting,
		Notes:   dto.Notes,
	}, weight, dto.Quantity)
}
