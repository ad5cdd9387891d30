package ports

import (
	"context"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
)

// DuplicateOrderNumber is the AlreadyExistsError parameter name used by Add
// when the order number is taken.
const DuplicateOrderNumber = "order number"

// OrderRepository defines the persistence contract for order aggregates
// (order, details and stones).
type OrderRepository interface {
	// Add persists a new order. A duplicate order number surfaces as
	// errs.AlreadyExistsError so the caller can retry with a new number.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes guarded by the version the order was loaded
	// with. A concurrent modification surfaces as errs.ConflictError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its details and stones.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Delete removes the order, its details and stones.
	Delete(ctx context.Context, id kernel.UUID) error

	// LatestSequence returns the highest number sequence used in year, or 0.
	LatestSequence(ctx context.Context, year int) (int, error)

	// ListOverdue returns IN_FACTORY orders whose due date is before now.
	ListOverdue(ctx context.Context, now time.Time) ([]*order.Order, error)
}
