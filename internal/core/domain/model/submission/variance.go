package submission

import (
	"errors"
	"fmt"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultVarianceThreshold is the loss percentage above which a submission
// needs an explicit acknowledgement.
var DefaultVarianceThreshold = decimal.NewFromInt(5)

// ErrHighVarianceUnacknowledged is matched by every HighVarianceError.
var ErrHighVarianceUnacknowledged = errors.New("high variance unacknowledged")

// HighVarianceError reports a variance beyond the threshold that the
// submitter did not acknowledge.
type HighVarianceError struct {
	Variance  decimal.Decimal
	Threshold decimal.Decimal
}

// NewHighVarianceError creates the error with the rounded variance and the
// policy threshold, both reported back to the client.
func NewHighVarianceError(variance, threshold decimal.Decimal) *HighVarianceError {
	return &HighVarianceError{Variance: variance, Threshold: threshold}
}

func (e *HighVarianceError) Error() string {
	return fmt.Sprintf("%s: variance %s%% exceeds %s%%, set acknowledgeVariance to submit",
		ErrHighVarianceUnacknowledged, e.Variance.StringFixed(2), e.Threshold.String())
}

func (e *HighVarianceError) Unwrap() error {
	return ErrHighVarianceUnacknowledged
}

// Variance is the percentage difference between the initial gold weight of
// an order and the final submitted gold weight. A positive value is a loss.
type Variance struct {
	percent decimal.Decimal
}

// CalculateVariance returns (initial - final) / initial * 100. Both weights
// must be greater than zero. The result keeps full precision; round with
// Rounded for display.
//
// Returns:
//   - the Variance, positive for a loss and negative for a gain
//   - ValueIsInvalid when either weight is zero or unconstructed
//
// Example:
//
//	v, _ := submission.CalculateVariance(kernel.MustWeight("25.5"), kernel.MustWeight("23"))
//	fmt.Println(v.Rounded().StringFixed(2)) // Output: 9.80
func CalculateVariance(initial, final kernel.Weight) (Variance, error) {
	if err := errors.Join(
		positive("initial gold weight", initial),
		positive("final gold weight", final),
	); err != nil {
		return Variance{}, err
	}

	percent := initial.Sub(final).
		Div(initial.Decimal()).
		Mul(decimal.NewFromInt(100))

	return Variance{percent: percent}, nil
}

// RestoreVariance rebuilds a stored variance.
func RestoreVariance(percent decimal.Decimal) Variance {
	return Variance{percent: percent}
}

func (v Variance) Percent() decimal.Decimal {
	return v.percent
}

// Rounded is the percentage with two decimals.
func (v Variance) Rounded() decimal.Decimal {
	return v.percent.Round(2)
}

// IsGain flags a final weight above the initial weight. Gains are allowed
// (added stone mass, solder) but should be reviewed.
func (v Variance) IsGain() bool {
	return v.percent.IsNegative()
}

// Exceeds compares the magnitude of the variance with threshold. A variance
// equal to the threshold does not exceed it.
func (v Variance) Exceeds(threshold decimal.Decimal) bool {
	return v.percent.Abs().GreaterThan(threshold)
}

// VariancePolicy decides whether a variance may be stored.
type VariancePolicy struct {
	threshold decimal.Decimal
}

// NewVariancePolicy creates a policy for a threshold percentage.
//
// Returns:
//   - the policy
//   - ValueIsOutOfRange for a threshold outside 0..100
func NewVariancePolicy(thresholdPercent decimal.Decimal) (VariancePolicy, error) {
	if thresholdPercent.IsNegative() || thresholdPercent.GreaterThan(decimal.NewFromInt(100)) {
		return VariancePolicy{}, errs.NewValueIsOutOfRangeError("variance threshold", thresholdPercent.String(), 0, 100)
	}
	return VariancePolicy{threshold: thresholdPercent}, nil
}

// DefaultVariancePolicy uses DefaultVarianceThreshold.
func DefaultVariancePolicy() VariancePolicy {
	return VariancePolicy{threshold: DefaultVarianceThreshold}
}

func (p VariancePolicy) Threshold() decimal.Decimal {
	return p.threshold
}

// Check fails with HighVarianceError when |variance| exceeds the threshold
// and the submitter has not acknowledged it.
func (p VariancePolicy) Check(v Variance, acknowledged bool) error {
	if v.Exceeds(p.threshold) && !acknowledged {
		return NewHighVarianceError(v.Rounded(), p.threshold)
	}
	return nil
}

func positive(name string, w kernel.Weight) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if w.IsZero() {
		return errs.NewValueIsInvalidErrorWithCause(name+" is invalid", errors.New("must be greater than 0"))
	}
	return nil
}
