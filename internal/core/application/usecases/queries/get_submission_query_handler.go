package queries

import (
	"context"
	"database/sql"
	"errors"

	"atelier/internal/core/domain/model/submission"
	"atelier/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetSubmissionQueryHandler reads final submissions with raw SQL.
type GetSubmissionQueryHandler struct {
	db *gorm.DB
}

// NewGetSubmissionQueryHandler creates the handler.
func NewGetSubmissionQueryHandler(db *gorm.DB) GetSubmissionQueryHandler {
	return GetSubmissionQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when the order has no active
// submission. Variance is reported with two decimals.
func (h GetSubmissionQueryHandler) Handle(
	ctx context.Context,
	query GetSubmissionQuery,
) (GetSubmissionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetSubmissionQueryResponse{}, err
	}

	var (
		resp                   GetSubmissionQueryResponse
		id, orderID, submitter uuid.UUID
		submitterName          sql.NullString
		photos                 pq.StringArray
		approved               bool
		approvalDate           sql.NullTime
	)

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id, s.order_id, o.initial_gold_weight,
			s.final_gold_weight, s.stone_weight, s.purity, s.piece_count,
			s.quality_grade, s.quality_notes, s.photos, s.certificate_url,
			s.variance_percent, s.variance_acknowledged,
			s.submitted_by, w.name, s.submitted_at,
			s.customer_approved, s.approval_notes, s.approval_date,
			s.version
		FROM final_submissions s
		JOIN orders o ON o.id = s.order_id
		LEFT JOIN workers w ON w.id = s.submitted_by
		WHERE s.order_id = ?
	`, query.OrderID().Bytes()).Row().Scan(
		&id, &orderID, &resp.InitialGoldWeight,
		&resp.FinalGoldWeight, &resp.StoneWeight, &resp.Purity, &resp.PieceCount,
		&resp.QualityGrade, &resp.QualityNotes, &photos, &resp.CertificateURL,
		&resp.VariancePercent, &resp.VarianceAcknowledged,
		&submitter, &submitterName, &resp.SubmittedAt,
		&approved, &resp.ApprovalNotes, &approvalDate,
		&resp.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetSubmissionQueryResponse{}, errs.NewObjectNotFoundError("final submission", query.OrderID().String())
		}
		return GetSubmissionQueryResponse{}, err
	}

	if resp.ID, err = idFrom(id); err != nil {
		return GetSubmissionQueryResponse{}, err
	}
	if resp.OrderID, err = idFrom(orderID); err != nil {
		return GetSubmissionQueryResponse{}, err
	}
	if resp.SubmittedBy, err = idFrom(submitter); err != nil {
		return GetSubmissionQueryResponse{}, err
	}

	variance := submission.RestoreVariance(resp.VariancePercent)
	resp.VariancePercent = variance.Rounded()
	resp.WeightGain = variance.IsGain()
	resp.TotalWeight = resp.FinalGoldWeight.Add(resp.StoneWeight)
	resp.SubmittedByName = submitterName.String
	resp.SubmittedAt = resp.SubmittedAt.UTC()
	resp.Photos = []string(photos)
	if resp.Photos == nil {
		resp.Photos = []string{}
	}

	resp.ApprovalDate = optionalTime(approvalDate)
	switch {
	case !approvalDate.Valid:
		resp.Approval = ApprovalPending
	case approved:
		resp.Approval = ApprovalApproved
	default:
		resp.Approval = ApprovalRejected
	}

	return resp, nil
}
