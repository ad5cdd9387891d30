package ports

import (
	"context"

	"atelier/internal/core/domain/model/activity"
	"atelier/internal/core/domain/model/kernel"
)

// ActivityLog is the activity sink. Entries are written inside the unit of
// work of the mutation they describe.
type ActivityLog interface {
	Record(ctx context.Context, entry *activity.Entry) error
	DeleteByOrder(ctx context.Context, orderID kernel.UUID) error
}
