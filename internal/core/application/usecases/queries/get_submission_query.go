package queries

import (
	"errors"
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetSubmissionQueryIsNotConstructed = errors.New(
	"GetSubmissionQuery must be created via NewGetSubmissionQuery constructor",
)

// GetSubmissionQuery reads the active final submission of an order.
type GetSubmissionQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetSubmissionQuery reads the active submission of an order.
func NewGetSubmissionQuery(orderID kernel.UUID) (GetSubmissionQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetSubmissionQuery{}, err
	}
	return GetSubmissionQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetSubmissionQuery) Validate() error {
	return q.guard.Validate(ErrGetSubmissionQueryIsNotConstructed)
}

func (q GetSubmissionQuery) OrderID() kernel.UUID {
	return q.orderID
}

// ApprovalState summarizes the latest decision on a submission.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "PENDING"
	ApprovalApproved ApprovalState = "APPROVED"
	ApprovalRejected ApprovalState = "REJECTED"
)

// GetSubmissionQueryResponse is the read model of a final submission,
// together with the initial weight it was measured against.
type GetSubmissionQueryResponse struct {
	ID                   kernel.UUID
	OrderID              kernel.UUID
	InitialGoldWeight    decimal.Decimal
	FinalGoldWeight      decimal.Decimal
	StoneWeight          decimal.Decimal
	TotalWeight          decimal.Decimal
	Purity               int
	PieceCount           int
	QualityGrade         string
	QualityNotes         string
	Photos               []string
	CertificateURL       string
	VariancePercent      decimal.Decimal
	VarianceAcknowledged bool
	WeightGain           bool
	SubmittedBy          kernel.UUID
	SubmittedByName      string
	SubmittedAt          time.Time
	Approval             ApprovalState
	ApprovalNotes        string
	ApprovalDate         kernel.Option[time.Time]
	Version              int
}
