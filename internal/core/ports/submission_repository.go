package ports

import (
	"context"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/submission"
)

// SubmissionRepository persists final submissions. At most one submission
// exists per order; storage enforces it with a unique order id.
type SubmissionRepository interface {
	// Add stores a new submission. A second submission for the same order
	// surfaces as errs.AlreadyExistsError.
	Add(ctx context.Context, s *submission.FinalSubmission) error
	// Update stores a new approval decision guarded by the version. A lost
	// race surfaces as errs.ConflictError.
	Update(ctx context.Context, s *submission.FinalSubmission) error
	Get(ctx context.Context, id kernel.UUID) (*submission.FinalSubmission, error)

	// GetByOrder returns None when the order has no active submission.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (kernel.Option[*submission.FinalSubmission], error)

	Delete(ctx context.Context, id kernel.UUID) error
	DeleteByOrder(ctx context.Context, orderID kernel.UUID) error
}
