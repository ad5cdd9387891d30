package ports

import (
	"context"
	"time"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/tracking"
)

// TrackingRepository persists department tracking rows.
//
// Update is a compare-and-swap: the write only happens when the stored row
// still has the row's ExpectedStatus and ExpectedVersion. Of two concurrent
// transitions on one row exactly one wins; the other gets errs.ConflictError.
type TrackingRepository interface {
	// AddAll seeds the rows of a new order.
	AddAll(ctx context.Context, rows []*tracking.Tracking) error
	Get(ctx context.Context, orderID kernel.UUID, d department.Department) (*tracking.Tracking, error)
	// ListByOrder returns the rows of an order in sequence order.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*tracking.Tracking, error)
	Update(ctx context.Context, row *tracking.Tracking) error
	// ListOnHoldSince returns ON_HOLD rows last touched before the cutoff.
	ListOnHoldSince(ctx context.Context, before time.Time) ([]*tracking.Tracking, error)
	DeleteByOrder(ctx context.Context, orderID kernel.UUID) error
}
