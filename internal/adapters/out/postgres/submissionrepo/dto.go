package submissionrepo

import (
	"time"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/submission"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type SubmissionDTO struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID              uuid.UUID       `gorm:"type:uuid;uniqueIndex"`
	FinalGoldWeight      decimal.Decimal `gorm:"type:decimal(12,3)"`
	StoneWeight          decimal.Decimal `gorm:"type:decimal(12,3)"`
	Purity               int             `gorm:"type:smallint"`
	PieceCount           int
	QualityGrade         string          `gorm:"size:32"`
	QualityNotes         string          `gorm:"type:text"`
	Photos               pq.StringArray  `gorm:"type:text[]"`
	CertificateURL       string          `gorm:"type:text"`
	VariancePercent      decimal.Decimal `gorm:"type:decimal(14,6)"`
	VarianceAcknowledged bool
	SubmittedBy          uuid.UUID `gorm:"type:uuid"`
	SubmittedAt          time.Time
	CustomerApproved     bool
	ApprovalNotes        string `gorm:"type:text"`
	ApprovalDate         *time.Time
	Version              int
}

func (SubmissionDTO) TableName() string {
	return "final_submissions"
}

func fromDomain(s *submission.FinalSubmission) SubmissionDTO {
	approval := s.Approval()

	return SubmissionDTO{
		ID:                   s.ID().Bytes(),
		OrderID:              s.OrderID().Bytes(),
		FinalGoldWeight:      s.FinalGoldWeight().Decimal(),
		StoneWeight:          s.StoneWeight().Decimal(),
		Purity:               int(s.Purity()),
		PieceCount:           s.PieceCount(),
		QualityGrade:         s.QualityGrade(),
		QualityNotes:         s.QualityNotes(),
		Photos:               pq.StringArray(s.Photos()),
		CertificateURL:       s.CertificateURL(),
		VariancePercent:      s.Variance().Percent(),
		VarianceAcknowledged: s.VarianceAcknowledged(),
		SubmittedBy:          s.SubmittedBy().Bytes(),
		SubmittedAt:          s.SubmittedAt(),
		CustomerApproved:     approval.CustomerApproved,
		ApprovalNotes:        approval.Notes,
		ApprovalDate:         approval.ApprovalDate.Ptr(),
		Version:              s.Version(),
	}
}

func toDomain(dto SubmissionDTO) (*submission.FinalSubmission, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	submittedBy, err := kernel.UUIDFromBytes(dto.SubmittedBy[:])
	if err != nil {
		return nil, err
	}

	finalGold, err := kernel.NewWeight(dto.FinalGoldWeight)
	if err != nil {
		return nil, err
	}

	stoneWeight, err := kernel.NewWeight(dto.StoneWeight)
	if err != nil {
		return nil, err
	}

	approvalDate := kernel.None[time.Time]()
	if dto.ApprovalDate != nil {
		approvalDate = kernel.Some(dto.ApprovalDate.UTC())
	}

	photos := []string(dto.Photos)
	if photos == nil {
		photos = []string{}
	}

	return submission.RestoreFinalSubmission(submission.Snapshot{
		ID:      id,
		OrderID: orderID,
		Payload: submission.Payload{
			FinalGoldWeight:     finalGold,
			StoneWeight:         stoneWeight,
			Purity:              kernel.Karat(dto.Purity),
			PieceCount:          dto.PieceCount,
			QualityGrade:        dto.QualityGrade,
			QualityNotes:        dto.QualityNotes,
			Photos:              photos,
			CertificateURL:      dto.CertificateURL,
			AcknowledgeVariance: dto.VarianceAcknowledged,
		},
		Variance:    submission.RestoreVariance(dto.VariancePercent),
		SubmittedBy: submittedBy,
		SubmittedAt: dto.SubmittedAt,
		Approval: submission.Approval{
			CustomerApproved: dto.CustomerApproved,
			Notes:            dto.ApprovalNotes,
			ApprovalDate:     approvalDate,
		},
		Version: dto.Version,
	})
}
