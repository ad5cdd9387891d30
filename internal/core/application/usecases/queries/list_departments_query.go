package queries

import (
	"errors"
	"time"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrListDepartmentsQueryIsNotConstructed = errors.New(
	"ListDepartmentsQuery must be created via NewListDepartmentsQuery constructor",
)

// ListDepartmentsQuery reads the department board of one order: every
// tracking row with its worker, gold figures and form progress, plus the
// order level current department and completion percentage.
type ListDepartmentsQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewListDepartmentsQuery creates a board query for one order.
func NewListDepartmentsQuery(orderID kernel.UUID) (ListDepartmentsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return ListDepartmentsQuery{}, err
	}
	return ListDepartmentsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListDepartmentsQuery) Validate() error {
	return q.guard.Validate(ErrListDepartmentsQueryIsNotConstructed)
}

func (q ListDepartmentsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// DepartmentView is one row of the board. GoldLoss is In - Out once both are
// known; GoldGain flags a negative loss for review.
type DepartmentView struct {
	ID             kernel.UUID
	Department     department.Department
	SequenceIndex  int
	Status         tracking.Status
	AssignedTo     kernel.Option[kernel.UUID]
	AssignedToName string
	GoldWeightIn   kernel.Option[decimal.Decimal]
	GoldWeightOut  kernel.Option[decimal.Decimal]
	GoldLoss       kernel.Option[decimal.Decimal]
	GoldGain       bool
	EstimatedHours kernel.Option[decimal.Decimal]
	StartedAt      kernel.Option[time.Time]
	CompletedAt    kernel.Option[time.Time]
	Notes          string
	HoldReason     string
	WorkData       tracking.WorkData
	Progress       int
	UpdatedAt      time.Time
	Version        int
}

// ListDepartmentsQueryResponse is the department board of an order. Rows
// are in sequence order; CurrentDepartment is None once all nine are
// completed.
type ListDepartmentsQueryResponse struct {
	OrderID              kernel.UUID
	OrderNumber          string
	OrderStatus          order.Status
	CurrentDepartment    kernel.Option[department.Department]
	CompletionPercentage int
	Departments          []DepartmentView
}
