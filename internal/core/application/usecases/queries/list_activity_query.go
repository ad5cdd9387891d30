package queries

import (
	"errors"
	"time"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/guard"
)

var ErrListActivityQueryIsNotConstructed = errors.New(
	"ListActivityQuery must be created via NewListActivityQuery constructor",
)

// ListActivityQuery reads the activity log of an order, oldest entry first.
type ListActivityQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewListActivityQuery creates the query for the activity of one order.
func NewListActivityQuery(orderID kernel.UUID) (ListActivityQuery, error) {
	if err := orderID.Validate(); err != nil {
		return ListActivityQuery{}, err
	}
	return ListActivityQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListActivityQuery) Validate() error {
	return q.guard.Validate(ErrListActivityQueryIsNotConstructed)
}

func (q ListActivityQuery) OrderID() kernel.UUID {
	return q.orderID
}

// ListActivityQueryResponse is one activity entry. ActorName is empty when
// the actor is no longer in the directory.
type ListActivityQueryResponse struct {
	ID         kernel.UUID
	Department kernel.Option[department.Department]
	Action     activity.Action
	ActorID    kernel.Option[kernel.UUID]
	ActorName  string
	Message    string
	CreatedAt  time.Time
}
