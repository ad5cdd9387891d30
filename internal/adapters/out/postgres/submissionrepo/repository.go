package submissionrepo

import (
	"context"
	"errors"

	"atelier/internal/adapters/out/postgres/dberr"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/submission"
	"atelier/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSubmissionRepository persists final submissions. The order_id column
// is unique, so a second Add for an order is AlreadyExists.
type GormSubmissionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSubmissionRepository creates a repository bound to db.
func NewGormSubmissionRepository(db *gorm.DB, tracker aggregateTracker) *GormSubmissionRepository {
	return &GormSubmissionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add stores a new submission. A second submission for the same order is
// rejected by the unique order id.
func (r *GormSubmissionRepository) Add(ctx context.Context, s *submission.FinalSubmission) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := fromDomain(s)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if dberr.IsDuplicateKey(r.db, err) {
			return errs.NewAlreadyExistsError("final submission", s.OrderID().String())
		}
		return err
	}

	r.tracker.TrackAggregate(s.ID(), s)
	return nil
}

// Update writes the approval decision. It expects exactly one change since
// the submission was loaded.
func (r *GormSubmissionRepository) Update(ctx context.Context, s *submission.FinalSubmission) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := fromDomain(s)
	result := r.db.WithContext(ctx).Model(&SubmissionDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version-1).
		Updates(map[string]any{
			"customer_approved": dto.CustomerApproved,
			"approval_notes":    dto.ApprovalNotes,
			"approval_date":     dto.ApprovalDate,
			"version":           dto.Version,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&SubmissionDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("final submission", s.ID().String())
		}
		return errs.NewConflictError("final submission", s.ID().String())
	}

	r.tracker.TrackAggregate(s.ID(), s)
	return nil
}

func (r *GormSubmissionRepository) Get(ctx context.Context, id kernel.UUID) (*submission.FinalSubmission, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SubmissionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("final submission", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder returns None when the order has no submission.
func (r *GormSubmissionRepository) GetByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (kernel.Option[*submission.FinalSubmission], error) {
	none := kernel.None[*submission.FinalSubmission]()
	if err := orderID.Validate(); err != nil {
		return none, err
	}

	var dtos []SubmissionDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Limit(1).Find(&dtos).Error; err != nil {
		return none, err
	}
	if len(dtos) == 0 {
		return none, nil
	}

	s, err := toDomain(dtos[0])
	if err != nil {
		return none, err
	}
	return kernel.Some(s), nil
}

func (r *GormSubmissionRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&SubmissionDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("final submission", id.String())
	}
	return nil
}

func (r *GormSubmissionRepository) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Delete(&SubmissionDTO{}).Error
}
