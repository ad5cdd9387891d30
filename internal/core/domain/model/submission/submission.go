package submission

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrSubmissionIsNotConstructed = errors.New("FinalSubmission must be created via NewFinalSubmission constructor")
	ErrNotRejected                = errors.New("only a rejected submission can be withdrawn")
)

// Payload is what the factory reports when a piece leaves the last department.
type Payload struct {
	FinalGoldWeight     kernel.Weight
	StoneWeight         kernel.Weight
	Purity              kernel.Karat
	PieceCount          int
	QualityGrade        string
	QualityNotes        string
	Photos              []string
	CertificateURL      string
	AcknowledgeVariance bool
}

// Approval is the latest customer or office decision. Only the last decision
// is kept; recording a new one overwrites it.
type Approval struct {
	CustomerApproved bool
	Notes            string
	ApprovalDate     kernel.Option[time.Time]
}

// IsDecided reports whether any decision has been recorded.
func (a Approval) IsDecided() bool {
	return a.ApprovalDate.IsSome()
}

// FinalSubmission is the single active terminal record of an order.
type FinalSubmission struct {
	id                   kernel.UUID
	orderID              kernel.UUID
	finalGoldWeight      kernel.Weight
	stoneWeight          kernel.Weight
	purity               kernel.Karat
	pieceCount           int
	qualityGrade         string
	qualityNotes         string
	photos               []string
	certificateURL       string
	variance             Variance
	varianceAcknowledged bool
	submittedBy          kernel.UUID
	submittedAt          time.Time
	approval             Approval
	version              int
	guard                guard.ConstructorGuard
}

// NewFinalSubmission stores the payload together with its precomputed
// variance. Threshold enforcement happens before construction, in
// services.SubmissionValidator.
//
// Text fields are trimmed and the photo list is copied. The submission
// starts at version 1 with no approval decision.
//
// Returns:
//   - the submission
//   - the joined validation errors of the ids and the payload
func NewFinalSubmission(
	id, orderID kernel.UUID,
	payload Payload,
	variance Variance,
	submittedBy kernel.UUID,
	now time.Time,
) (*FinalSubmission, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		submittedBy.Validate(),
		validatePayload(payload),
	); err != nil {
		return nil, err
	}

	return &FinalSubmission{
		id:                   id,
		orderID:              orderID,
		finalGoldWeight:      payload.FinalGoldWeight,
		stoneWeight:          payload.StoneWeight,
		purity:               payload.Purity,
		pieceCount:           payload.PieceCount,
		qualityGrade:         strings.TrimSpace(payload.QualityGrade),
		qualityNotes:         strings.TrimSpace(payload.QualityNotes),
		photos:               slices.Clone(payload.Photos),
		certificateURL:       strings.TrimSpace(payload.CertificateURL),
		variance:             variance,
		varianceAcknowledged: payload.AcknowledgeVariance,
		submittedBy:          submittedBy,
		submittedAt:          now.UTC(),
		version:              1,
		guard:                guard.NewConstructorGuard(),
	}, nil
}

// Snapshot carries the persisted state of a submission.
type Snapshot struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	Payload     Payload
	Variance    Variance
	SubmittedBy kernel.UUID
	SubmittedAt time.Time
	Approval    Approval
	Version     int
}

// RestoreFinalSubmission rebuilds a stored submission, including its latest
// approval and version.
func RestoreFinalSubmission(s Snapshot) (*FinalSubmission, error) {
	sub, err := NewFinalSubmission(s.ID, s.OrderID, s.Payload, s.Variance, s.SubmittedBy, s.SubmittedAt)
	if err != nil {
		return nil, err
	}
	sub.approval = s.Approval
	sub.version = s.Version
	return sub, nil
}

// Validate reports ErrSubmissionIsNotConstructed for a nil or zero value.
func (s *FinalSubmission) Validate() error {
	if s == nil {
		return ErrSubmissionIsNotConstructed
	}
	return s.guard.Validate(ErrSubmissionIsNotConstructed)
}

func (s *FinalSubmission) ID() kernel.UUID {
	return s.id
}

func (s *FinalSubmission) OrderID() kernel.UUID {
	return s.orderID
}

func (s *FinalSubmission) FinalGoldWeight() kernel.Weight {
	return s.finalGoldWeight
}

func (s *FinalSubmission) StoneWeight() kernel.Weight {
	return s.stoneWeight
}

func (s *FinalSubmission) Purity() kernel.Karat {
	return s.purity
}

func (s *FinalSubmission) PieceCount() int {
	return s.pieceCount
}

func (s *FinalSubmission) QualityGrade() string {
	return s.qualityGrade
}

func (s *FinalSubmission) QualityNotes() string {
	return s.qualityNotes
}

func (s *FinalSubmission) Photos() []string {
	return slices.Clone(s.photos)
}

func (s *FinalSubmission) CertificateURL() string {
	return s.certificateURL
}

func (s *FinalSubmission) Variance() Variance {
	return s.variance
}

func (s *FinalSubmission) VarianceAcknowledged() bool {
	return s.varianceAcknowledged
}

func (s *FinalSubmission) SubmittedBy() kernel.UUID {
	return s.submittedBy
}

func (s *FinalSubmission) SubmittedAt() time.Time {
	return s.submittedAt
}

func (s *FinalSubmission) Approval() Approval {
	return s.approval
}

// Version is the optimistic lock counter. Storage updates only when the
// stored version is Version()-1.
func (s *FinalSubmission) Version() int {
	return s.version
}

// SetApproval overwrites the previous decision and bumps the version. The
// order is not touched: it stays COMPLETED whatever the decision.
//
// Example:
//
//	sub.SetApproval(false, "stone loose", now)
//	sub.IsRejected() // true, the submission may now be withdrawn
func (s *FinalSubmission) SetApproval(approved bool, notes string, now time.Time) {
	s.approval = Approval{
		CustomerApproved: approved,
		Notes:            strings.TrimSpace(notes),
		ApprovalDate:     kernel.Some(now.UTC()),
	}
	s.version++
}

// IsRejected reports a recorded negative decision.
func (s *FinalSubmission) IsRejected() bool {
	return s.approval.IsDecided() && !s.approval.CustomerApproved
}

// ValidateWithdrawable allows deleting only rejected submissions.
//
// Returns:
//   - nil for a rejected submission
//   - InvalidTransition (ErrNotRejected) while pending or approved
func (s *FinalSubmission) ValidateWithdrawable() error {
	if s.IsRejected() {
		return nil
	}
	state := "PENDING_APPROVAL"
	if s.approval.IsDecided() {
		state = "APPROVED"
	}
	return errs.NewInvalidTransitionErrorWithCause("submission", state, "withdraw", ErrNotRejected)
}

// TotalWeight is gold plus stones.
func (s *FinalSubmission) TotalWeight() decimal.Decimal {
	return s.finalGoldWeight.Decimal().Add(s.stoneWeight.Decimal())
}

func validatePayload(p Payload) error {
	var goldErr error
	if err := p.FinalGoldWeight.Validate(); err != nil {
		goldErr = err
	} else if p.FinalGoldWeight.IsZero() {
		goldErr = errs.NewValueIsInvalidError("final gold weight must be greater than 0")
	}

	var pieceErr error
	if p.PieceCount < 1 {
		pieceErr = errs.NewValueIsInvalidErrorWithCause("piece count is invalid",
			fmt.Errorf("%d is not greater than 0", p.PieceCount))
	}

	var photoErr error
	for _, url := range p.Photos {
		if strings.TrimSpace(url) == "" {
			photoErr = errs.NewValueIsRequiredError("photo url")
			break
		}
	}

	return errors.Join(
		goldErr,
		p.StoneWeight.Validate(),
		p.Purity.Validate(),
		pieceErr,
		photoErr,
	)
}
