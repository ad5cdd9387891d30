package queries

import (
	"errors"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads an order with its details and stones. The customer
// reference is only returned to actors allowed to see customers.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, actor)
//	view, err := handler.Handle(ctx, query)
//	if ref, ok := view.CustomerRef.Get(); ok {
//	    fmt.Println(view.Number, ref)
//	}
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   worker.Actor

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for orderID on behalf of actor.
func NewGetOrderQuery(orderID kernel.UUID, actor worker.Actor) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Actor() worker.Actor {
	return q.actor
}

// StoneView is the read model of one stone line. Weight is per stone.
type StoneView struct {
	ID       kernel.UUID
	Type     string
	Shape    string
	Color    string
	Clarity  string
	Setting  string
	Notes    string
	Weight   decimal.Decimal
	Quantity int
}

// GetOrderQueryResponse is the read model of an order. CustomerRef is None
// for actors without worker.ViewCustomer.
type GetOrderQueryResponse struct {
	ID                kernel.UUID
	Number            string
	CustomerRef       kernel.Option[string]
	Priority          int
	Status            order.Status
	InitialGoldWeight decimal.Decimal
	Purity            int
	DueDate           time.Time
	ProductMetadata   map[string]string
	Stones            []StoneView
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int
}
