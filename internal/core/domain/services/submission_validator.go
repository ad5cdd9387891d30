package services

import (
	"errors"
	"fmt"
	"strings"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/order"
	"atelier/internal/core/domain/model/submission"
	"atelier/internal/core/domain/model/tracking"
	"atelier/internal/pkg/errs"
)

var ErrDepartmentsIncomplete = errors.New("not all departments are completed")

// SubmissionValidator checks that an order may receive a final submission
// and computes the gold variance of the submitted weight.
type SubmissionValidator struct {
	policy submission.VariancePolicy
}

// NewSubmissionValidator binds the validator to the variance policy read
// from configuration.
func NewSubmissionValidator(policy submission.VariancePolicy) SubmissionValidator {
	return SubmissionValidator{policy: policy}
}

// Validate returns the variance to store with the submission.
//
// A repeated submit reports the duplicate even though the first one has
// already moved the order to COMPLETED.
//
// Returns:
//   - AlreadyExists when an active submission is present
//   - InvalidTransition when the order is not IN_FACTORY
//   - InvalidTransition (ErrDepartmentsIncomplete) while any department is unfinished
//   - HighVarianceUnacknowledged when the variance exceeds the policy threshold
func (v SubmissionValidator) Validate(
	o *order.Order,
	rows []*tracking.Tracking,
	existing kernel.Option[*submission.FinalSubmission],
	payload submission.Payload,
) (submission.Variance, error) {
	if err := o.Validate(); err != nil {
		return submission.Variance{}, err
	}

	if existing.IsSome() {
		return submission.Variance{}, errs.NewAlreadyExistsError("final submission", o.ID())
	}

	if o.Status() != order.InFactory {
		return submission.Variance{}, errs.NewInvalidTransitionError("order", o.Status().String(), "submit final for")
	}

	if pending := pendingDepartments(rows); len(pending) > 0 {
		return submission.Variance{}, errs.NewInvalidTransitionErrorWithCause(
			"order", o.Status().String(), "submit final for",
			fmt.Errorf("%w: %s", ErrDepartmentsIncomplete, strings.Join(pending, ", ")))
	}

	variance, err := submission.CalculateVariance(o.Details().InitialGoldWeight(), payload.FinalGoldWeight)
	if err != nil {
		return submission.Variance{}, err
	}

	if err := v.policy.Check(variance, payload.AcknowledgeVariance); err != nil {
		return submission.Variance{}, err
	}

	return variance, nil
}

func pendingDepartments(rows []*tracking.Tracking) []string {
	done := make(map[department.Department]bool, len(rows))
	for _, row := range rows {
		if row.Status() == tracking.Completed {
			done[row.Department()] = true
		}
	}

	var pending []string
	for _, d := range department.Sequence() {
		if !done[d] {
			pending = append(pending, d.String())
		}
	}
	return pending
}
