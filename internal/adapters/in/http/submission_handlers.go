package http

import (
	"errors"
	"net/http"

	"atelier/internal/core/application/usecases/commands"
	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/submission"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// SubmitFinal handles POST /api/v1/orders/{orderId}/submission. A final
// weight above the initial weight is accepted and logged.
func (s *Server) SubmitFinal(c echo.Context) error {
	actor, err := authorize(c, worker.SubmitFinal)
	if err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}

	var req SubmissionRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	payload, err := submissionPayload(req)
	if err != nil {
		return err
	}

	cmd, err := commands.NewSubmitFinalCommand(orderID, actor, payload)
	if err != nil {
		return err
	}
	submitted, err := s.commands.SubmitFinal.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	if submitted.Variance().IsGain() {
		s.logger.WarnContext(c.Request().Context(), "final weight exceeds initial gold weight",
			"order_id", orderID.String(),
			"variance_percent", submitted.Variance().Rounded().String(),
			"actor_id", actor.ID().String())
	}

	return c.JSON(http.StatusCreated, submissionFromDomain(submitted))
}

func submissionPayload(req SubmissionRequest) (submission.Payload, error) {
	final, finalErr := kernel.NewWeight(req.FinalGoldWeight)
	stones := decimal.Zero
	if req.StoneWeight != nil {
		stones = *req.StoneWeight
	}
	stoneWeight, stoneErr := kernel.NewWeight(stones)
	purity, purityErr := kernel.NewKarat(req.Purity)
	if err := errors.Join(finalErr, stoneErr, purityErr); err != nil {
		return submission.Payload{}, err
	}

	return submission.Payload{
		FinalGoldWeight:     final,
		StoneWeight:         stoneWeight,
		Purity:              purity,
		PieceCount:          req.PieceCount,
		QualityGrade:        req.QualityGrade,
		QualityNotes:        req.QualityNotes,
		Photos:              req.Photos,
		CertificateURL:      req.CertificateURL,
		AcknowledgeVariance: req.AcknowledgeVariance,
	}, nil
}

// GetSubmission handles GET /api/v1/orders/{orderId}/submission.
func (s *Server) GetSubmission(c echo.Context) error {
	if _, err := actorOf(c); err != nil {
		return err
	}
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetSubmissionQuery(orderID)
	if err != nil {
		return err
	}
	found, err := s.queries.GetSubmission.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, submissionFromView(found))
}

// SetApproval handles PUT /api/v1/submissions/{submissionId}/approval.
func (s *Server) SetApproval(c echo.Context) error {
	actor, err := authorize(c, worker.RecordApproval)
	if err != nil {
		return err
	}
	submissionID, err := uuidParam(c, "submissionId")
	if err != nil {
		return err
	}

	var req ApprovalRequest
	if err = bindBody(c, &req); err != nil {
		return err
	}
	if req.Approved == nil {
		return errs.NewValueIsRequiredError("approved")
	}

	cmd, err := commands.NewSetApprovalCommand(submissionID, actor, *req.Approved, req.Notes)
	if err != nil {
		return err
	}
	updated, err := s.commands.SetApproval.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, submissionFromDomain(updated))
}

// WithdrawSubmission handles DELETE /api/v1/submissions/{submissionId}.
// Only a rejected submission can be withdrawn.
func (s *Server) WithdrawSubmission(c echo.Context) error {
	actor, err := authorize(c, worker.SubmitFinal, worker.RecordApproval)
	if err != nil {
		return err
	}
	submissionID, err := uuidParam(c, "submissionId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewWithdrawSubmissionCommand(submissionID, actor)
	if err != nil {
		return err
	}
	if err = s.commands.WithdrawSubmission.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
